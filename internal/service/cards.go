package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"boardflow/internal/access"
	"boardflow/internal/model"
	"boardflow/internal/ordering"
	"boardflow/internal/repository"
)

type CreateCardInput struct {
	ColumnID    uuid.UUID
	Title       string
	Description string
	DueDate     *time.Time
	Priority    *model.Priority
	AssignedTo  *uuid.UUID
}

// CreateCard appends a card at the end of its column.
func (s *Service) CreateCard(ctx context.Context, principal uuid.UUID, in CreateCardInput) (*model.Card, error) {
	title, err := cleanTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return nil, invalid("unknown priority " + string(*in.Priority))
	}

	var card *model.Card
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		column, err := columnScope(ctx, tx, in.ColumnID, principal, model.RoleEditor)
		if err != nil {
			return err
		}
		if in.AssignedTo != nil {
			if err := checkAssignee(ctx, tx, column.BoardID, *in.AssignedTo); err != nil {
				return err
			}
		}

		last, err := tx.Cards.MaxPosition(ctx, column.ID)
		if err != nil {
			return err
		}

		card = &model.Card{
			ColumnID:    column.ID,
			Title:       title,
			Description: strings.TrimSpace(in.Description),
			Position:    ordering.Append(last),
			DueDate:     in.DueDate,
			Priority:    in.Priority,
			AssignedTo:  in.AssignedTo,
			CreatedBy:   principal,
		}
		return tx.Cards.Create(ctx, card)
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (s *Service) GetCard(ctx context.Context, principal, cardID uuid.UUID) (*model.Card, error) {
	card, _, err := cardScope(ctx, s.store, cardID, principal, model.RoleViewer)
	return card, err
}

// ListCards returns a column's cards in display order.
func (s *Service) ListCards(ctx context.Context, principal, columnID uuid.UUID, includeArchived bool) ([]model.Card, error) {
	if _, err := columnScope(ctx, s.store, columnID, principal, model.RoleViewer); err != nil {
		return nil, err
	}
	return s.store.Cards.GetCardsWithLabels(ctx, columnID, includeArchived)
}

// UpdateCardInput holds optional changes; nil fields are left alone and the
// Clear flags reset optional fields.
type UpdateCardInput struct {
	Title         *string
	Description   *string
	DueDate       *time.Time
	ClearDueDate  bool
	Priority      *model.Priority
	ClearPriority bool
	AssignedTo    *uuid.UUID
	Unassign      bool
	Archived      *bool

	ExpectedVersion *int64
}

// UpdateCard edits card fields under the same version check as a move.
func (s *Service) UpdateCard(ctx context.Context, principal, cardID uuid.UUID, in UpdateCardInput) (*model.Card, error) {
	fields := map[string]any{}

	if in.Title != nil {
		title, err := cleanTitle(*in.Title)
		if err != nil {
			return nil, err
		}
		fields["title"] = title
	}
	if in.Description != nil {
		fields["description"] = strings.TrimSpace(*in.Description)
	}
	switch {
	case in.ClearDueDate:
		fields["due_date"] = nil
	case in.DueDate != nil:
		fields["due_date"] = *in.DueDate
	}
	switch {
	case in.ClearPriority:
		fields["priority"] = nil
	case in.Priority != nil:
		if !in.Priority.Valid() {
			return nil, invalid("unknown priority " + string(*in.Priority))
		}
		fields["priority"] = *in.Priority
	}
	if in.Unassign {
		fields["assigned_to"] = nil
	}
	if in.Archived != nil {
		fields["archived"] = *in.Archived
	}

	var card *model.Card
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		current, column, err := cardScope(ctx, tx, cardID, principal, model.RoleEditor)
		if err != nil {
			return err
		}
		if in.ExpectedVersion != nil && *in.ExpectedVersion != current.Version {
			return conflict("card was modified by someone else, refetch it before editing")
		}
		if in.AssignedTo != nil && !in.Unassign {
			if err := checkAssignee(ctx, tx, column.BoardID, *in.AssignedTo); err != nil {
				return err
			}
			fields["assigned_to"] = *in.AssignedTo
		}

		if err := tx.Cards.UpdateFields(ctx, current.ID, current.Version, fields, s.now()); err != nil {
			return translate(err)
		}

		card, err = tx.Cards.GetByID(ctx, current.ID)
		return translate(err)
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// SetArchived archives or restores a card. Archived cards keep their
// column and position.
func (s *Service) SetArchived(ctx context.Context, principal, cardID uuid.UUID, archived bool, expectedVersion *int64) (*model.Card, error) {
	return s.UpdateCard(ctx, principal, cardID, UpdateCardInput{
		Archived:        &archived,
		ExpectedVersion: expectedVersion,
	})
}

func (s *Service) DeleteCard(ctx context.Context, principal, cardID uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		card, _, err := cardScope(ctx, tx, cardID, principal, model.RoleEditor)
		if err != nil {
			return err
		}
		return translate(tx.Cards.Delete(ctx, card.ID))
	})
}

// checkAssignee accepts only principals that can see the board.
func checkAssignee(ctx context.Context, tx *repository.Store, boardID, userID uuid.UUID) error {
	_, ok, err := access.NewAuthorizer(tx.Users, tx.Members).ResolveRole(ctx, boardID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return invalid("assignee is not a member of the board")
	}
	return nil
}
