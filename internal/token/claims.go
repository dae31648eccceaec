package token

import (
	"errors"
	"strconv"
)

// Kind discriminates access tokens from refresh tokens. A token minted
// with one kind must never verify as the other.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

const (
	claimSubject  = "sub"
	claimKind     = "type"
	claimIssuedAt = "iat"
	claimExpires  = "exp"
	claimTokenID  = "jti"
)

var ErrBadSubject = errors.New("subject is not a positive integer")

// Claims is a verified token payload. Caller-supplied claims pass
// through untouched next to the reserved sub/type/iat/exp/jti set.
type Claims map[string]any

func (c Claims) Kind() Kind {
	k, _ := c[claimKind].(string)
	return Kind(k)
}

// Subject returns the user id the token was issued for. The sub claim
// is carried as a string and must parse to a positive integer.
func (c Claims) Subject() (int64, error) {
	raw, ok := c[claimSubject].(string)
	if !ok {
		return 0, ErrBadSubject
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrBadSubject
	}
	return id, nil
}

// SubjectClaims builds the base claim set both halves of a pair share.
func SubjectClaims(userID int64) map[string]any {
	return map[string]any{claimSubject: strconv.FormatInt(userID, 10)}
}
