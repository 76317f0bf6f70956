package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boardflow/internal/model"
	"boardflow/internal/ordering"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create adds a new card to the database
func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

// GetByID retrieves a card by its ID
func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	result := r.db.WithContext(ctx).Preload("Labels").First(&card, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, result.Error
	}
	return &card, nil
}

// GetByColumnID retrieves all cards in a column in display order. Ties on
// position fall back to creation order so the result is deterministic.
func (r *CardRepository) GetByColumnID(ctx context.Context, columnID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	result := r.db.WithContext(ctx).
		Where("column_id = ?", columnID).
		Order("position, created_at, id").
		Find(&cards)
	if result.Error != nil {
		return nil, result.Error
	}
	return cards, nil
}

// GetCardsWithLabels retrieves a column's cards with their labels
func (r *CardRepository) GetCardsWithLabels(ctx context.Context, columnID uuid.UUID, includeArchived bool) ([]model.Card, error) {
	var cards []model.Card
	q := r.db.WithContext(ctx).
		Preload("Labels").
		Where("column_id = ?", columnID)
	if !includeArchived {
		q = q.Where("archived = ?", false)
	}

	result := q.Order("position, created_at, id").Find(&cards)
	if result.Error != nil {
		return nil, result.Error
	}
	return cards, nil
}

// CountByColumn counts every card in the column, archived ones included
func (r *CardRepository) CountByColumn(ctx context.Context, columnID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Card{}).Where("column_id = ?", columnID).Count(&count).Error
	return count, err
}

// MaxPosition returns the largest card position in the column, or nil when
// the column is empty.
func (r *CardRepository) MaxPosition(ctx context.Context, columnID uuid.UUID) (*ordering.Position, error) {
	var maxPosition struct {
		Max *float64
	}
	err := r.db.WithContext(ctx).Model(&model.Card{}).
		Select("MAX(position) as max").
		Where("column_id = ?", columnID).
		Scan(&maxPosition).Error
	if err != nil || maxPosition.Max == nil {
		return nil, err
	}

	p := ordering.Position(*maxPosition.Max)
	return &p, nil
}

// Move relocates a card if its stored version still equals
// expectedVersion, bumping the version. ErrStaleVersion means another
// writer got there first.
func (r *CardRepository) Move(ctx context.Context, id, columnID uuid.UUID, position ordering.Position, expectedVersion int64, now time.Time) error {
	return r.updateVersioned(ctx, id, expectedVersion, map[string]any{
		"column_id":  columnID,
		"position":   position,
		"updated_at": now,
	})
}

// UpdateFields writes the given columns under the same version check as Move.
func (r *CardRepository) UpdateFields(ctx context.Context, id uuid.UUID, expectedVersion int64, fields map[string]any, now time.Time) error {
	fields["updated_at"] = now
	return r.updateVersioned(ctx, id, expectedVersion, fields)
}

func (r *CardRepository) updateVersioned(ctx context.Context, id uuid.UUID, expectedVersion int64, fields map[string]any) error {
	fields["version"] = gorm.Expr("version + 1")

	result := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleVersion
	}
	return nil
}

// SetPositions rewrites positions without touching version or updated_at;
// only the ordering representation changes.
func (r *CardRepository) SetPositions(ctx context.Context, positions map[uuid.UUID]ordering.Position) error {
	for id, position := range positions {
		if err := r.db.WithContext(ctx).Model(&model.Card{}).
			Where("id = ?", id).
			UpdateColumn("position", position).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a card and its comments and label links
func (r *CardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM card_labels WHERE card_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("card_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.Card{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCardNotFound
		}
		return nil
	})
}

// AddLabel adds a label to a card
func (r *CardRepository) AddLabel(ctx context.Context, cardID, labelID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO card_labels (card_id, label_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		cardID, labelID,
	).Error
}

// RemoveLabel removes a label from a card
func (r *CardRepository) RemoveLabel(ctx context.Context, cardID, labelID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"DELETE FROM card_labels WHERE card_id = ? AND label_id = ?",
		cardID, labelID,
	).Error
}
