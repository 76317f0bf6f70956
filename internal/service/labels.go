package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"boardflow/internal/model"
	"boardflow/internal/repository"
)

func cleanLabel(name, color string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", invalid("label name is required")
	}
	color, err := cleanColor(color)
	if err != nil {
		return "", "", err
	}
	if color == "" {
		return "", "", invalid("label color is required")
	}
	return name, color, nil
}

func (s *Service) CreateLabel(ctx context.Context, principal, boardID uuid.UUID, name, color string) (*model.Label, error) {
	name, color, err := cleanLabel(name, color)
	if err != nil {
		return nil, err
	}

	label := &model.Label{BoardID: boardID, Name: name, Color: color}
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := requireOnBoard(ctx, tx, boardID, principal, model.RoleEditor); err != nil {
			return err
		}
		return tx.Labels.Create(ctx, label)
	})
	if err != nil {
		return nil, err
	}
	return label, nil
}

func (s *Service) ListLabels(ctx context.Context, principal, boardID uuid.UUID) ([]model.Label, error) {
	if err := requireOnBoard(ctx, s.store, boardID, principal, model.RoleViewer); err != nil {
		return nil, err
	}
	return s.store.Labels.GetByBoardID(ctx, boardID)
}

// labelScope loads a label and authorizes the principal on its board.
func labelScope(ctx context.Context, tx *repository.Store, labelID, principal uuid.UUID, minimum model.Role) (*model.Label, error) {
	label, err := tx.Labels.GetByID(ctx, labelID)
	if err != nil {
		return nil, translate(err)
	}
	if err := requireOnBoard(ctx, tx, label.BoardID, principal, minimum); err != nil {
		return nil, err
	}
	return label, nil
}

func (s *Service) GetLabel(ctx context.Context, principal, labelID uuid.UUID) (*model.Label, error) {
	return labelScope(ctx, s.store, labelID, principal, model.RoleViewer)
}

func (s *Service) UpdateLabel(ctx context.Context, principal, labelID uuid.UUID, name, color string) (*model.Label, error) {
	name, color, err := cleanLabel(name, color)
	if err != nil {
		return nil, err
	}

	var label *model.Label
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		label, err = labelScope(ctx, tx, labelID, principal, model.RoleEditor)
		if err != nil {
			return err
		}
		label.Name, label.Color = name, color
		return translate(tx.Labels.Update(ctx, label))
	})
	if err != nil {
		return nil, err
	}
	return label, nil
}

func (s *Service) DeleteLabel(ctx context.Context, principal, labelID uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		label, err := labelScope(ctx, tx, labelID, principal, model.RoleEditor)
		if err != nil {
			return err
		}
		return translate(tx.Labels.Delete(ctx, label.ID))
	})
}

// CardsWithLabel lists every card carrying the label.
func (s *Service) CardsWithLabel(ctx context.Context, principal, labelID uuid.UUID) ([]model.Card, error) {
	label, err := labelScope(ctx, s.store, labelID, principal, model.RoleViewer)
	if err != nil {
		return nil, err
	}
	return s.store.Labels.GetCardsWithLabel(ctx, label.ID)
}

// AttachLabel puts a label of the card's board on the card.
func (s *Service) AttachLabel(ctx context.Context, principal, cardID, labelID uuid.UUID) error {
	return s.changeLabel(ctx, principal, cardID, labelID, true)
}

func (s *Service) DetachLabel(ctx context.Context, principal, cardID, labelID uuid.UUID) error {
	return s.changeLabel(ctx, principal, cardID, labelID, false)
}

func (s *Service) changeLabel(ctx context.Context, principal, cardID, labelID uuid.UUID, attach bool) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		card, column, err := cardScope(ctx, tx, cardID, principal, model.RoleEditor)
		if err != nil {
			return err
		}
		label, err := tx.Labels.GetByID(ctx, labelID)
		if err != nil {
			return translate(err)
		}
		if label.BoardID != column.BoardID {
			return invalid("label belongs to another board")
		}

		if attach {
			err = tx.Cards.AddLabel(ctx, card.ID, label.ID)
		} else {
			err = tx.Cards.RemoveLabel(ctx, card.ID, label.ID)
		}
		if err != nil {
			return err
		}
		return translate(tx.Cards.UpdateFields(ctx, card.ID, card.Version, map[string]any{}, s.now()))
	})
}
