package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"boardflow/internal/model"
	"boardflow/internal/ordering"
	"boardflow/internal/repository"
)

// Rebalancer respreads positions in a scope once neighbours have converged
// too closely for further bisection. It preserves relative order and is
// idempotent, so concurrent runs on the same column are harmless.
type Rebalancer struct {
	epsilon float64
	log     *zap.Logger
}

func NewRebalancer(epsilon float64, log *zap.Logger) *Rebalancer {
	if epsilon <= 0 {
		epsilon = ordering.DefaultEpsilon
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Rebalancer{epsilon: epsilon, log: log}
}

// RebalanceIfNeeded respreads the column's cards to 1.0, 2.0, ... when any
// two neighbours are closer than epsilon. Order is re-derived from the
// persisted positions, never from client hints. It reports whether a
// rebalance happened.
func (r *Rebalancer) RebalanceIfNeeded(ctx context.Context, tx *repository.Store, columnID uuid.UUID) (bool, error) {
	cards, err := tx.Cards.GetByColumnID(ctx, columnID)
	if err != nil {
		return false, err
	}

	current := positionsOf(cards, func(c model.Card) ordering.Position { return c.Position })
	if !ordering.Crowded(current, r.epsilon) {
		return false, nil
	}

	spread := ordering.Spread(len(cards))
	changes := make(map[uuid.UUID]ordering.Position, len(cards))
	for i, card := range cards {
		if card.Position != spread[i] {
			changes[card.ID] = spread[i]
		}
	}
	if err := tx.Cards.SetPositions(ctx, changes); err != nil {
		return false, err
	}

	rebalances.WithLabelValues("column").Inc()
	rebalanceSize.Observe(float64(len(cards)))
	r.log.Info("column rebalanced",
		zap.String("column_id", columnID.String()),
		zap.Int("cards", len(cards)),
		zap.Int("rewritten", len(changes)),
	)
	return true, nil
}

// RebalanceColumns does the same for the columns of a board.
func (r *Rebalancer) RebalanceColumns(ctx context.Context, tx *repository.Store, boardID uuid.UUID) (bool, error) {
	columns, err := tx.Columns.GetByBoardID(ctx, boardID)
	if err != nil {
		return false, err
	}

	current := positionsOf(columns, func(c model.Column) ordering.Position { return c.Position })
	if !ordering.Crowded(current, r.epsilon) {
		return false, nil
	}

	spread := ordering.Spread(len(columns))
	for i := range columns {
		columns[i].Position = spread[i]
	}
	if err := tx.Columns.ReorderColumns(ctx, columns); err != nil {
		return false, err
	}

	rebalances.WithLabelValues("board").Inc()
	rebalanceSize.Observe(float64(len(columns)))
	r.log.Info("board columns rebalanced",
		zap.String("board_id", boardID.String()),
		zap.Int("columns", len(columns)),
	)
	return true, nil
}
