package repository

import (
	"context"
	"errors"

	"boardflow/internal/model"
	"boardflow/internal/ordering"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

func (r *ColumnRepository) Create(ctx context.Context, column *model.Column) error {
	return r.db.WithContext(ctx).Create(column).Error
}

func (r *ColumnRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Column, error) {
	var column model.Column
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&column).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, err
	}
	return &column, nil
}

// GetByBoardID returns the board's columns in display order.
func (r *ColumnRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Column, error) {
	var columns []model.Column
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("position, created_at, id").Find(&columns).Error
	return columns, err
}

// UpdateDetails writes title and color only; position changes go through
// SetPosition so they cannot be overwritten by a stale full save.
func (r *ColumnRepository) UpdateDetails(ctx context.Context, column *model.Column) error {
	result := r.db.WithContext(ctx).Model(&model.Column{}).
		Where("id = ?", column.ID).
		Updates(map[string]any{"title": column.Title, "color": column.Color})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrColumnNotFound
	}
	return nil
}

func (r *ColumnRepository) SetPosition(ctx context.Context, id uuid.UUID, position ordering.Position) error {
	result := r.db.WithContext(ctx).Model(&model.Column{}).
		Where("id = ?", id).
		Update("position", position)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrColumnNotFound
	}
	return nil
}

func (r *ColumnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Column{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrColumnNotFound
	}
	return nil
}

// MaxPosition returns the largest column position on the board, or nil when
// the board has no columns.
func (r *ColumnRepository) MaxPosition(ctx context.Context, boardID uuid.UUID) (*ordering.Position, error) {
	var maxPosition struct {
		Max *float64
	}
	err := r.db.WithContext(ctx).Model(&model.Column{}).
		Select("MAX(position) as max").
		Where("board_id = ?", boardID).
		Scan(&maxPosition).Error
	if err != nil || maxPosition.Max == nil {
		return nil, err
	}

	p := ordering.Position(*maxPosition.Max)
	return &p, nil
}

// ReorderColumns writes the given positions in one transaction.
func (r *ColumnRepository) ReorderColumns(ctx context.Context, columns []model.Column) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, column := range columns {
			if err := tx.Model(&model.Column{}).Where("id = ?", column.ID).
				Update("position", column.Position).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
