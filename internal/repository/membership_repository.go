package repository

import (
	"context"
	"errors"

	"boardflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Upsert grants the user a role on the board, replacing any previous role.
func (r *MembershipRepository) Upsert(ctx context.Context, boardID, userID uuid.UUID, role model.Role) (*model.Membership, error) {
	var result model.Membership

	// Транзакция защищает от гонки двух одновременных приглашений
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Membership
		err := tx.Where("board_id = ? AND user_id = ?", boardID, userID).First(&existing).Error

		if err == nil {
			existing.Role = role
			result = existing
			return tx.Save(&existing).Error
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		result = model.Membership{
			BoardID: boardID,
			UserID:  userID,
			Role:    role,
		}
		return tx.Create(&result).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *MembershipRepository) Remove(ctx context.Context, boardID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Delete(&model.Membership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

// ListByBoard returns the board's members with their user records.
func (r *MembershipRepository) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Membership, error) {
	var members []model.Membership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("board_id = ?", boardID).
		Order("created_at").
		Find(&members).Error
	return members, err
}

// GetRole returns the user's stored role on the board. ok is false when the
// user is not a member.
func (r *MembershipRepository) GetRole(ctx context.Context, boardID, userID uuid.UUID) (role model.Role, ok bool, err error) {
	var m model.Membership
	err = r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&m).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return m.Role, true, nil
}

func (r *MembershipRepository) CountByRole(ctx context.Context, boardID uuid.UUID, role model.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Membership{}).
		Where("board_id = ? AND role = ?", boardID, role).
		Count(&count).Error
	return count, err
}
