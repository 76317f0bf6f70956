package service

import (
	"errors"
	"fmt"

	"boardflow/internal/repository"
)

// Error kinds surfaced to callers. Authorization failures come from the
// access package as access.ErrAccessDenied.
var (
	// ErrNotFound means the board, column, card, label or comment does not
	// exist or is not visible any more.
	ErrNotFound = errors.New("not found")

	// ErrConflict means the caller acted on stale state, or the change would
	// lose data. The caller has to refetch before retrying.
	ErrConflict = errors.New("conflict")

	// ErrValidation means the input was rejected before touching storage.
	ErrValidation = errors.New("validation failed")

	// ErrLimitReached means a per-user quota is exhausted.
	ErrLimitReached = errors.New("limit reached")
)

func conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// translate maps repository sentinels onto service error kinds and leaves
// everything else untouched.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrBoardNotFound),
		errors.Is(err, repository.ErrColumnNotFound),
		errors.Is(err, repository.ErrCardNotFound),
		errors.Is(err, repository.ErrLabelNotFound),
		errors.Is(err, repository.ErrCommentNotFound),
		errors.Is(err, repository.ErrMembershipNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, repository.ErrStaleVersion):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	default:
		return err
	}
}
