package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"boardflow/internal/model"
	"boardflow/internal/repository"
)

const maxCommentLength = 10000

func (s *Service) AddComment(ctx context.Context, principal, cardID uuid.UUID, body string) (*model.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, invalid("comment body is required")
	}
	if len(body) > maxCommentLength {
		return nil, invalid("comment is too long")
	}

	var comment *model.Comment
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		card, _, err := cardScope(ctx, tx, cardID, principal, model.RoleEditor)
		if err != nil {
			return err
		}
		comment = &model.Comment{CardID: card.ID, AuthorID: principal, Body: body}
		return tx.Comments.Create(ctx, comment)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Service) ListComments(ctx context.Context, principal, cardID uuid.UUID) ([]model.Comment, error) {
	if _, _, err := cardScope(ctx, s.store, cardID, principal, model.RoleViewer); err != nil {
		return nil, err
	}
	return s.store.Comments.ListByCard(ctx, cardID)
}

// DeleteComment lets the author, while still an editor, or a board admin
// remove a comment.
func (s *Service) DeleteComment(ctx context.Context, principal, commentID uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		comment, err := tx.Comments.GetByID(ctx, commentID)
		if err != nil {
			return translate(err)
		}

		minimum := model.RoleAdmin
		if comment.AuthorID == principal {
			minimum = model.RoleEditor
		}
		if _, _, err := cardScope(ctx, tx, comment.CardID, principal, minimum); err != nil {
			return err
		}
		return translate(tx.Comments.Delete(ctx, comment.ID))
	})
}
