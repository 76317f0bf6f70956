package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boardflow/internal/ordering"
)

// Priority tiers a card can carry.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Card struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ColumnID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description string
	Position    ordering.Position `gorm:"type:double precision;not null"`
	DueDate     *time.Time
	Priority    *Priority  `gorm:"type:varchar(16)"`
	Archived    bool       `gorm:"not null;default:false"`
	AssignedTo  *uuid.UUID `gorm:"type:uuid"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null"`
	// Version increases by one on every mutation of the card and is the
	// token clients echo back for optimistic concurrency.
	Version   int64 `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Labels   []Label   `gorm:"many2many:card_labels"`
	Comments []Comment `gorm:"foreignKey:CardID"`
}

func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Version == 0 {
		c.Version = 1
	}
	return nil
}
