package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is a board permission level. Roles are totally ordered:
// viewer < editor < admin.
type Role string

const (
	RoleViewer Role = "viewer" // read only
	RoleEditor Role = "editor" // cards, columns, labels, comments
	RoleAdmin  Role = "admin"  // members and the board itself
)

var roleRank = map[Role]int{
	RoleViewer: 1,
	RoleEditor: 2,
	RoleAdmin:  3,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants everything minimum grants.
// Unknown roles grant nothing.
func (r Role) AtLeast(minimum Role) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	return have >= roleRank[minimum]
}

// Membership links a user to a board with a role.
type Membership struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_membership_board_user"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_membership_board_user;index"`
	Role      Role      `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	User User `gorm:"foreignKey:UserID"`
}

func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
