// Package service implements the board operations: ordering, moves,
// rebalancing and the CRUD around them. Every operation authorizes the
// principal and runs inside a single transaction.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"boardflow/internal/access"
	"boardflow/internal/model"
	"boardflow/internal/ordering"
	"boardflow/internal/repository"
)

const DefaultMaxBoardsPerUser = 5

type Options struct {
	// Epsilon is the smallest gap between neighbouring positions before a
	// column or board is respread. Zero means ordering.DefaultEpsilon.
	Epsilon float64

	// MaxBoardsPerUser caps boards owned by one user. Zero means
	// DefaultMaxBoardsPerUser, negative means unlimited.
	MaxBoardsPerUser int

	Logger *zap.Logger
	Now    func() time.Time
}

type Service struct {
	store      *repository.Store
	rebalancer *Rebalancer
	mover      *MoveCoordinator
	log        *zap.Logger
	now        func() time.Time
	maxBoards  int
}

func New(store *repository.Store, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.MaxBoardsPerUser == 0 {
		opts.MaxBoardsPerUser = DefaultMaxBoardsPerUser
	}

	rebalancer := NewRebalancer(opts.Epsilon, opts.Logger)
	return &Service{
		store:      store,
		rebalancer: rebalancer,
		mover:      NewMoveCoordinator(store, rebalancer, opts.Logger, opts.Now),
		log:        opts.Logger,
		now:        opts.Now,
		maxBoards:  opts.MaxBoardsPerUser,
	}
}

// ResolveRole returns the principal's effective role on the board.
func (s *Service) ResolveRole(ctx context.Context, boardID, principal uuid.UUID) (model.Role, bool, error) {
	if _, err := s.store.Boards.GetByID(ctx, boardID); err != nil {
		return "", false, translate(err)
	}
	return access.NewAuthorizer(s.store.Users, s.store.Members).ResolveRole(ctx, boardID, principal)
}

// RequireRole fails unless the principal holds at least minimum on the board.
func (s *Service) RequireRole(ctx context.Context, boardID, principal uuid.UUID, minimum model.Role) error {
	return requireOnBoard(ctx, s.store, boardID, principal, minimum)
}

// MoveCard relocates a card, see MoveCoordinator.MoveCard.
func (s *Service) MoveCard(ctx context.Context, principal uuid.UUID, in MoveCardInput) (*MoveResult, error) {
	return s.mover.MoveCard(ctx, principal, in)
}

// requireOnBoard checks the board is live and the principal's role, using
// tx for every read.
func requireOnBoard(ctx context.Context, tx *repository.Store, boardID, principal uuid.UUID, minimum model.Role) error {
	if _, err := tx.Boards.GetByID(ctx, boardID); err != nil {
		return translate(err)
	}
	return access.NewAuthorizer(tx.Users, tx.Members).RequireRole(ctx, boardID, principal, minimum)
}

// columnScope loads a column and authorizes the principal on its board.
func columnScope(ctx context.Context, tx *repository.Store, columnID, principal uuid.UUID, minimum model.Role) (*model.Column, error) {
	column, err := tx.Columns.GetByID(ctx, columnID)
	if err != nil {
		return nil, translate(err)
	}
	if err := requireOnBoard(ctx, tx, column.BoardID, principal, minimum); err != nil {
		return nil, err
	}
	return column, nil
}

// cardScope loads a card with its column and authorizes the principal on
// the owning board.
func cardScope(ctx context.Context, tx *repository.Store, cardID, principal uuid.UUID, minimum model.Role) (*model.Card, *model.Column, error) {
	card, err := tx.Cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, nil, translate(err)
	}
	column, err := columnScope(ctx, tx, card.ColumnID, principal, minimum)
	if err != nil {
		return nil, nil, err
	}
	return card, column, nil
}

func positionsOf[T any](items []T, pos func(T) ordering.Position) []ordering.Position {
	out := make([]ordering.Position, len(items))
	for i, item := range items {
		out[i] = pos(item)
	}
	return out
}
