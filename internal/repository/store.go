package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the repositories that share one *gorm.DB, so a service can
// run several of them inside a single transaction.
type Store struct {
	db *gorm.DB

	Users    *UserRepository
	Boards   *BoardRepository
	Members  *MembershipRepository
	Columns  *ColumnRepository
	Cards    *CardRepository
	Labels   *LabelRepository
	Comments *CommentRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		Users:    NewUserRepository(db),
		Boards:   NewBoardRepository(db),
		Members:  NewMembershipRepository(db),
		Columns:  NewColumnRepository(db),
		Cards:    NewCardRepository(db),
		Labels:   NewLabelRepository(db),
		Comments: NewCommentRepository(db),
	}
}

// Transaction runs fn with a Store bound to a single database transaction.
// Returning an error from fn rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}
