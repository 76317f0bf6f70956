package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"boardflow/internal/access"
	"boardflow/internal/model"
	"boardflow/internal/ordering"
	"boardflow/internal/repository"
)

type MoveCardInput struct {
	CardID         uuid.UUID
	TargetColumnID uuid.UUID
	// Position is the key the client computed with ordering.Between for
	// its optimistic placement.
	Position ordering.Position
	// ExpectedVersion is the card version the client last saw. Nil skips
	// the staleness check; the update itself is still atomic.
	ExpectedVersion *int64
}

// MoveResult carries the authoritative state after the move. Position may
// differ from the candidate when the target column was rebalanced.
type MoveResult struct {
	CardID     uuid.UUID
	ColumnID   uuid.UUID
	Position   ordering.Position
	Version    int64
	UpdatedAt  time.Time
	Rebalanced bool
}

// MoveCoordinator validates, authorizes and persists card moves.
type MoveCoordinator struct {
	store      *repository.Store
	rebalancer *Rebalancer
	log        *zap.Logger
	now        func() time.Time
}

func NewMoveCoordinator(store *repository.Store, rebalancer *Rebalancer, log *zap.Logger, now func() time.Time) *MoveCoordinator {
	return &MoveCoordinator{store: store, rebalancer: rebalancer, log: log, now: now}
}

// MoveCard puts the card into the target column at the candidate position.
//
// Errors: ErrNotFound for a missing card, column or board, ErrValidation for
// a non-finite position or a column on another board,
// access.ErrAccessDenied below editor, ErrConflict when the card changed
// since ExpectedVersion. The role on the source board is checked before the
// target column's board. The move and any rebalance commit together or not
// at all.
func (m *MoveCoordinator) MoveCard(ctx context.Context, principal uuid.UUID, in MoveCardInput) (*MoveResult, error) {
	if !in.Position.Valid() {
		cardMoves.WithLabelValues("invalid").Inc()
		return nil, invalid("position must be a finite number")
	}

	var result *MoveResult
	err := m.store.Transaction(ctx, func(tx *repository.Store) error {
		card, err := tx.Cards.GetByID(ctx, in.CardID)
		if err != nil {
			return translate(err)
		}
		source, err := tx.Columns.GetByID(ctx, card.ColumnID)
		if err != nil {
			return translate(err)
		}
		target, err := tx.Columns.GetByID(ctx, in.TargetColumnID)
		if err != nil {
			return translate(err)
		}
		if err := requireOnBoard(ctx, tx, source.BoardID, principal, model.RoleEditor); err != nil {
			return err
		}
		if target.BoardID != source.BoardID {
			return invalid("cannot move a card to a column of another board")
		}

		if in.ExpectedVersion != nil && *in.ExpectedVersion != card.Version {
			return conflict("card was modified by someone else, refetch it before moving")
		}

		// The conditional update catches a writer that committed between our
		// read and this write.
		if err := tx.Cards.Move(ctx, card.ID, target.ID, in.Position, card.Version, m.now()); err != nil {
			return translate(err)
		}

		rebalanced, err := m.rebalancer.RebalanceIfNeeded(ctx, tx, target.ID)
		if err != nil {
			return err
		}

		moved, err := tx.Cards.GetByID(ctx, card.ID)
		if err != nil {
			return translate(err)
		}

		result = &MoveResult{
			CardID:     moved.ID,
			ColumnID:   moved.ColumnID,
			Position:   moved.Position,
			Version:    moved.Version,
			UpdatedAt:  moved.UpdatedAt,
			Rebalanced: rebalanced,
		}
		return nil
	})

	if err != nil {
		cardMoves.WithLabelValues(moveOutcome(err)).Inc()
		if errors.Is(err, ErrConflict) {
			m.log.Info("card move rejected",
				zap.String("card_id", in.CardID.String()),
				zap.String("column_id", in.TargetColumnID.String()),
				zap.Error(err),
			)
		}
		return nil, err
	}

	cardMoves.WithLabelValues("ok").Inc()
	m.log.Debug("card moved",
		zap.String("card_id", result.CardID.String()),
		zap.String("column_id", result.ColumnID.String()),
		zap.Float64("position", result.Position.Float64()),
		zap.Bool("rebalanced", result.Rebalanced),
	)
	return result, nil
}

func moveOutcome(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, access.ErrAccessDenied):
		return "denied"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
