// Package access decides what a principal may do on a board.
//
// A principal's effective role is resolved in two steps: a global
// administrator is an admin everywhere, anybody else gets the role stored in
// their board membership, if any.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"boardflow/internal/model"
)

var (
	// ErrAccessDenied is the root of every authorization failure.
	ErrAccessDenied = errors.New("access denied")

	ErrNotMember        = fmt.Errorf("%w: not a member", ErrAccessDenied)
	ErrInsufficientRole = fmt.Errorf("%w: insufficient role", ErrAccessDenied)
)

// UserLookup loads a user; a missing user is (nil, nil).
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// MembershipLookup returns a user's stored role on a board.
type MembershipLookup interface {
	GetRole(ctx context.Context, boardID, userID uuid.UUID) (model.Role, bool, error)
}

// Authorizer resolves and enforces board roles.
type Authorizer struct {
	users   UserLookup
	members MembershipLookup
}

// NewAuthorizer builds an Authorizer over the given lookups.
func NewAuthorizer(users UserLookup, members MembershipLookup) *Authorizer {
	return &Authorizer{users: users, members: members}
}

// ResolveRole returns the principal's effective role on the board. ok is
// false when the principal is neither a global admin nor a member.
func (a *Authorizer) ResolveRole(ctx context.Context, boardID, principal uuid.UUID) (role model.Role, ok bool, err error) {
	user, err := a.users.GetByID(ctx, principal)
	if err != nil {
		return "", false, fmt.Errorf("resolve role: load user: %w", err)
	}
	if user != nil && user.IsAdmin {
		return model.RoleAdmin, true, nil
	}

	role, ok, err = a.members.GetRole(ctx, boardID, principal)
	if err != nil {
		return "", false, fmt.Errorf("resolve role: load membership: %w", err)
	}
	return role, ok, nil
}

// RequireRole fails with ErrNotMember or ErrInsufficientRole unless the
// principal holds at least minimum on the board. It has no side effects.
func (a *Authorizer) RequireRole(ctx context.Context, boardID, principal uuid.UUID, minimum model.Role) error {
	role, ok, err := a.ResolveRole(ctx, boardID, principal)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotMember
	}
	if !role.AtLeast(minimum) {
		return fmt.Errorf("%w: have %s, need %s", ErrInsufficientRole, role, minimum)
	}
	return nil
}
