package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"boardflow/internal/model"
	"boardflow/internal/ordering"
	"boardflow/internal/repository"
)

// CreateColumn appends a column at the end of the board.
func (s *Service) CreateColumn(ctx context.Context, principal, boardID uuid.UUID, title, color string) (*model.Column, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}
	color, err = cleanColor(color)
	if err != nil {
		return nil, err
	}

	var column *model.Column
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := requireOnBoard(ctx, tx, boardID, principal, model.RoleEditor); err != nil {
			return err
		}

		last, err := tx.Columns.MaxPosition(ctx, boardID)
		if err != nil {
			return err
		}

		column = &model.Column{
			BoardID:  boardID,
			Title:    title,
			Color:    color,
			Position: ordering.Append(last),
		}
		return tx.Columns.Create(ctx, column)
	})
	if err != nil {
		return nil, err
	}
	return column, nil
}

// ListColumns returns the board's columns in display order.
func (s *Service) ListColumns(ctx context.Context, principal, boardID uuid.UUID) ([]model.Column, error) {
	if err := requireOnBoard(ctx, s.store, boardID, principal, model.RoleViewer); err != nil {
		return nil, err
	}
	return s.store.Columns.GetByBoardID(ctx, boardID)
}

func (s *Service) GetColumn(ctx context.Context, principal, columnID uuid.UUID) (*model.Column, error) {
	return columnScope(ctx, s.store, columnID, principal, model.RoleViewer)
}

type UpdateColumnInput struct {
	Title *string
	Color *string
}

// UpdateColumn changes title and color. Position is changed by MoveColumn.
func (s *Service) UpdateColumn(ctx context.Context, principal, columnID uuid.UUID, in UpdateColumnInput) (*model.Column, error) {
	var column *model.Column
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		column, err = columnScope(ctx, tx, columnID, principal, model.RoleEditor)
		if err != nil {
			return err
		}

		if in.Title != nil {
			if column.Title, err = cleanTitle(*in.Title); err != nil {
				return err
			}
		}
		if in.Color != nil {
			if column.Color, err = cleanColor(*in.Color); err != nil {
				return err
			}
		}
		return translate(tx.Columns.UpdateDetails(ctx, column))
	})
	if err != nil {
		return nil, err
	}
	return column, nil
}

// MoveColumn places a column at the candidate position on its board and
// respreads the board's columns when they got too close.
func (s *Service) MoveColumn(ctx context.Context, principal, columnID uuid.UUID, position ordering.Position) (*model.Column, error) {
	if !position.Valid() {
		return nil, invalid("position must be a finite number")
	}

	var column *model.Column
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		current, err := columnScope(ctx, tx, columnID, principal, model.RoleEditor)
		if err != nil {
			return err
		}
		if err := tx.Columns.SetPosition(ctx, columnID, position); err != nil {
			return translate(err)
		}
		if _, err := s.rebalancer.RebalanceColumns(ctx, tx, current.BoardID); err != nil {
			return err
		}

		column, err = tx.Columns.GetByID(ctx, columnID)
		return translate(err)
	})
	if err != nil {
		return nil, err
	}
	return column, nil
}

// DeleteColumn removes an empty column. A column still holding cards,
// archived ones included, is refused with ErrConflict.
func (s *Service) DeleteColumn(ctx context.Context, principal, columnID uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		column, err := columnScope(ctx, tx, columnID, principal, model.RoleEditor)
		if err != nil {
			return err
		}

		count, err := tx.Cards.CountByColumn(ctx, column.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return conflict("column still contains cards, move or delete them first")
		}

		if err := tx.Columns.Delete(ctx, column.ID); err != nil {
			return translate(err)
		}
		s.log.Info("column deleted",
			zap.String("column_id", column.ID.String()),
			zap.String("board_id", column.BoardID.String()),
		)
		return nil
	})
}
