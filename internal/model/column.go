package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boardflow/internal/ordering"
)

type Column struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	BoardID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	Title     string            `gorm:"not null"`
	Color     string            `gorm:"type:varchar(7)"`
	Position  ordering.Position `gorm:"type:double precision;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Cards []Card `gorm:"foreignKey:ColumnID"`
}

func (c *Column) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
