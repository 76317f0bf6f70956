package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"boardflow/internal/model"
	"boardflow/internal/repository"
)

// CreateBoard creates a board owned by the principal, who becomes its
// first admin member.
func (s *Service) CreateBoard(ctx context.Context, principal uuid.UUID, title, description string) (*model.Board, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}

	var board *model.Board
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if s.maxBoards > 0 {
			count, err := tx.Boards.CountOwned(ctx, principal)
			if err != nil {
				return err
			}
			if count >= int64(s.maxBoards) {
				return fmt.Errorf("%w: maximum number of boards reached (%d)", ErrLimitReached, s.maxBoards)
			}
		}

		board = &model.Board{
			Title:       title,
			Description: strings.TrimSpace(description),
			OwnerID:     principal,
		}
		if err := tx.Boards.Create(ctx, board); err != nil {
			return err
		}
		_, err := tx.Members.Upsert(ctx, board.ID, principal, model.RoleAdmin)
		return err
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

// ListBoards returns the boards the principal can see. Global admins see
// every board.
func (s *Service) ListBoards(ctx context.Context, principal uuid.UUID) ([]model.Board, error) {
	user, err := s.store.Users.GetByID(ctx, principal)
	if err != nil {
		return nil, err
	}
	if user != nil && user.IsAdmin {
		return s.store.Boards.List(ctx)
	}
	return s.store.Boards.ListForUser(ctx, principal)
}

// GetBoard returns the board with its columns and cards in display order.
func (s *Service) GetBoard(ctx context.Context, principal, boardID uuid.UUID) (*model.Board, error) {
	if err := requireOnBoard(ctx, s.store, boardID, principal, model.RoleViewer); err != nil {
		return nil, err
	}
	board, err := s.store.Boards.GetWithContent(ctx, boardID)
	return board, translate(err)
}

type UpdateBoardInput struct {
	Title       *string
	Description *string
}

func (s *Service) UpdateBoard(ctx context.Context, principal, boardID uuid.UUID, in UpdateBoardInput) (*model.Board, error) {
	var board *model.Board
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := requireOnBoard(ctx, tx, boardID, principal, model.RoleAdmin); err != nil {
			return err
		}

		var err error
		board, err = tx.Boards.GetByID(ctx, boardID)
		if err != nil {
			return translate(err)
		}
		if in.Title != nil {
			if board.Title, err = cleanTitle(*in.Title); err != nil {
				return err
			}
		}
		if in.Description != nil {
			board.Description = strings.TrimSpace(*in.Description)
		}
		return tx.Boards.Update(ctx, board)
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

// DeleteBoard soft deletes the board; its columns and cards stay in storage
// but become unreachable.
func (s *Service) DeleteBoard(ctx context.Context, principal, boardID uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := requireOnBoard(ctx, tx, boardID, principal, model.RoleAdmin); err != nil {
			return err
		}
		if err := tx.Boards.SoftDelete(ctx, boardID); err != nil {
			return translate(err)
		}
		s.log.Info("board deleted", zap.String("board_id", boardID.String()))
		return nil
	})
}

// AddMember grants the user with the given email a role on the board, or
// changes the role of an existing member.
func (s *Service) AddMember(ctx context.Context, principal, boardID uuid.UUID, email string, role model.Role) (*model.Membership, error) {
	if !role.Valid() {
		return nil, invalid("unknown role " + string(role))
	}
	email = strings.ToLower(strings.TrimSpace(email))

	var membership *model.Membership
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := requireOnBoard(ctx, tx, boardID, principal, model.RoleAdmin); err != nil {
			return err
		}

		user, err := tx.Users.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: user %s", ErrNotFound, email)
		}

		if role != model.RoleAdmin {
			if err := keepOneAdmin(ctx, tx, boardID, user.ID); err != nil {
				return err
			}
		}

		membership, err = tx.Members.Upsert(ctx, boardID, user.ID, role)
		if err != nil {
			return err
		}
		membership.User = *user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// RemoveMember revokes a membership. The last admin cannot be removed.
func (s *Service) RemoveMember(ctx context.Context, principal, boardID, userID uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := requireOnBoard(ctx, tx, boardID, principal, model.RoleAdmin); err != nil {
			return err
		}
		if err := keepOneAdmin(ctx, tx, boardID, userID); err != nil {
			return err
		}
		return translate(tx.Members.Remove(ctx, boardID, userID))
	})
}

func (s *Service) ListMembers(ctx context.Context, principal, boardID uuid.UUID) ([]model.Membership, error) {
	if err := requireOnBoard(ctx, s.store, boardID, principal, model.RoleViewer); err != nil {
		return nil, err
	}
	return s.store.Members.ListByBoard(ctx, boardID)
}

// keepOneAdmin refuses to take the admin role away from the board's only
// admin member.
func keepOneAdmin(ctx context.Context, tx *repository.Store, boardID, userID uuid.UUID) error {
	role, ok, err := tx.Members.GetRole(ctx, boardID, userID)
	if err != nil || !ok || role != model.RoleAdmin {
		return err
	}

	admins, err := tx.Members.CountByRole(ctx, boardID, model.RoleAdmin)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return conflict("a board needs at least one admin")
	}
	return nil
}
