package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vkarpenko/authd/internal/domain/user"
	"github.com/vkarpenko/authd/internal/repository/postgres"
	"github.com/vkarpenko/authd/internal/token"
)

const minPasswordLen = 8

// Usecase binds the token service to the user directory. It does no
// logging and no retries; callers map its errors to transport codes.
type Usecase struct {
	users  user.Repo
	tokens *token.Service
}

func NewUsecase(users user.Repo, tokens *token.Service) *Usecase {
	return &Usecase{users: users, tokens: tokens}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (u *Usecase) SignUp(ctx context.Context, email, password string) (*user.User, token.Pair, error) {
	email = normalizeEmail(email)
	if len(password) < minPasswordLen {
		return nil, token.Pair{}, ErrWeakPassword
	}
	hash, err := token.HashPassword(password)
	if err != nil {
		return nil, token.Pair{}, fmt.Errorf("hash password: %w", err)
	}
	newUser := &user.User{Email: email, PasswordHash: hash, IsActive: true}
	if err := u.users.Create(ctx, newUser); err != nil {
		if errors.Is(err, postgres.ErrConflict) {
			return nil, token.Pair{}, ErrEmailTaken
		}
		return nil, token.Pair{}, fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}
	pair, err := u.tokens.IssuePair(token.SubjectClaims(newUser.ID))
	if err != nil {
		return nil, token.Pair{}, err
	}
	return newUser, pair, nil
}

func (u *Usecase) SignIn(ctx context.Context, email, password string) (*user.User, token.Pair, error) {
	rec, err := u.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, token.Pair{}, ErrInvalidCredentials
		}
		return nil, token.Pair{}, fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}
	if !token.VerifyPassword(password, rec.PasswordHash) {
		return nil, token.Pair{}, ErrInvalidCredentials
	}
	if !rec.IsActive {
		return nil, token.Pair{}, ErrUserInactive
	}
	pair, err := u.tokens.IssuePair(token.SubjectClaims(rec.ID))
	if err != nil {
		return nil, token.Pair{}, err
	}
	return rec, pair, nil
}

// Refresh re-mints a pair off a refresh token. Stateless: nothing is
// stored or revoked, the old refresh token simply ages out.
func (u *Usecase) Refresh(ctx context.Context, raw string) (token.Pair, error) {
	claims, err := u.tokens.Verify(raw, token.KindRefresh)
	if err != nil {
		return token.Pair{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	id, err := claims.Subject()
	if err != nil {
		return token.Pair{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	rec, err := u.lookup(ctx, id)
	if err != nil {
		return token.Pair{}, err
	}
	return u.tokens.IssuePair(token.SubjectClaims(rec.ID))
}

func (u *Usecase) lookup(ctx context.Context, id int64) (*user.User, error) {
	rec, err := u.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}
	if !rec.IsActive {
		return nil, ErrUserInactive
	}
	return rec, nil
}
