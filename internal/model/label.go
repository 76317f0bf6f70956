package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Label struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	BoardID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name    string    `gorm:"not null"`
	Color   string    `gorm:"type:varchar(7);not null"`

	Cards []Card `gorm:"many2many:card_labels"`
}

func (l *Label) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
