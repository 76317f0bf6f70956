package repository

import "errors"

// Common repository errors
var (
	// ErrBoardNotFound is returned when a board is not found or was deleted
	ErrBoardNotFound = errors.New("board not found")

	// ErrColumnNotFound is returned when a column is not found
	ErrColumnNotFound = errors.New("column not found")

	// ErrCardNotFound is returned when a card is not found
	ErrCardNotFound = errors.New("card not found")

	// ErrLabelNotFound is returned when a label is not found
	ErrLabelNotFound = errors.New("label not found")

	// ErrCommentNotFound is returned when a comment is not found
	ErrCommentNotFound = errors.New("comment not found")

	// ErrMembershipNotFound is returned when a user is not a member of a board
	ErrMembershipNotFound = errors.New("membership not found")

	// ErrStaleVersion is returned when a conditional card update matched no
	// row because the stored version moved on
	ErrStaleVersion = errors.New("card version is stale")
)
