package auth

import (
	"context"
	"fmt"

	"github.com/vkarpenko/authd/internal/domain/user"
	"github.com/vkarpenko/authd/internal/token"
)

// CurrentUser resolves a bearer access token to a user row. Signature,
// kind and expiry checks run before the directory lookup, so a bad
// token never costs a query.
func (u *Usecase) CurrentUser(ctx context.Context, raw string) (*user.User, error) {
	claims, err := u.tokens.Verify(raw, token.KindAccess)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	id, err := claims.Subject()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	return u.lookup(ctx, id)
}

// CurrentActiveUser re-checks the active flag on an already resolved
// user. Redundant with CurrentUser on the main path, kept as a second
// gate for callers that obtain a User elsewhere.
func CurrentActiveUser(rec *user.User) error {
	if rec == nil || !rec.IsActive {
		return ErrUserInactive
	}
	return nil
}

func RequireSuperuser(rec *user.User) error {
	if err := CurrentActiveUser(rec); err != nil {
		return err
	}
	if !rec.IsSuperuser {
		return ErrPermissionDenied
	}
	return nil
}

// OptionalUser is CurrentUser that never fails: missing token, bad
// signature, inactive user and lookup miss all collapse to nil.
func (u *Usecase) OptionalUser(ctx context.Context, raw string) *user.User {
	if raw == "" {
		return nil
	}
	rec, err := u.CurrentUser(ctx, raw)
	if err != nil {
		return nil
	}
	return rec
}
