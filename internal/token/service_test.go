package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time          { return c.now }
func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService(t *testing.T, clock *fixedClock) *Service {
	t.Helper()
	svc, err := NewService(Config{
		Secret:     []byte("test-secret"),
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		Now:        clock.Now,
	})
	require.NoError(t, err)
	return svc
}

func TestNewService_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewService(Config{Secret: nil, AccessTTL: time.Minute, RefreshTTL: time.Minute})
	require.Error(t, err)

	_, err = NewService(Config{Secret: []byte("k"), AccessTTL: 0, RefreshTTL: time.Minute})
	require.Error(t, err)

	_, err = NewService(Config{Secret: []byte("k"), AccessTTL: time.Minute, RefreshTTL: time.Minute, Algorithm: "RS256"})
	require.Error(t, err)

	svc, err := NewService(Config{Secret: []byte("k"), AccessTTL: time.Minute, RefreshTTL: time.Minute})
	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestIssueVerify_Roundtrip(t *testing.T) {
	t.Parallel()

	clock := &fixedClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestService(t, clock)

	raw, err := svc.Issue(map[string]any{"sub": "42", "role": "editor"}, KindAccess, time.Hour)
	require.NoError(t, err)

	claims, err := svc.Verify(raw, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, "42", claims["sub"])
	assert.Equal(t, "editor", claims["role"])
	assert.Equal(t, KindAccess, claims.Kind())
	assert.NotEmpty(t, claims["jti"])

	id, err := claims.Subject()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestVerify_KindMismatch(t *testing.T) {
	t.Parallel()

	clock := &fixedClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestService(t, clock)

	pair, err := svc.IssuePair(SubjectClaims(42))
	require.NoError(t, err)

	_, err = svc.Verify(pair.AccessToken, KindAccess)
	require.NoError(t, err)
	_, err = svc.Verify(pair.RefreshToken, KindRefresh)
	require.NoError(t, err)

	_, err = svc.Verify(pair.AccessToken, KindRefresh)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.ErrorIs(t, err, ErrWrongKind)

	_, err = svc.Verify(pair.RefreshToken, KindAccess)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.ErrorIs(t, err, ErrWrongKind)
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	clock := &fixedClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestService(t, clock)

	raw, err := svc.Issue(SubjectClaims(1), KindAccess, 10*time.Minute)
	require.NoError(t, err)

	clock.Advance(10*time.Minute - time.Second)
	_, err = svc.Verify(raw, KindAccess)
	require.NoError(t, err)

	// exp == now is already expired
	clock.Advance(time.Second)
	_, err = svc.Verify(raw, KindAccess)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerify_ZeroLifetime(t *testing.T) {
	t.Parallel()

	clock := &fixedClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestService(t, clock)

	raw, err := svc.Issue(SubjectClaims(1), KindAccess, 0)
	require.NoError(t, err)

	clock.Advance(time.Second)
	_, err = svc.Verify(raw, KindAccess)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	clock := &fixedClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestService(t, clock)

	good, err := svc.Issue(SubjectClaims(1), KindAccess, time.Hour)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"empty":     "",
		"garbage":   "not.a.jwt",
		"truncated": good[:len(good)/2],
		"unsigned":  good[:len(good)-10],
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(raw, KindAccess)
			require.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	clock := &fixedClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestService(t, clock)

	other, err := NewService(Config{
		Secret:     []byte("different-secret"),
		AccessTTL:  time.Minute,
		RefreshTTL: time.Minute,
		Now:        clock.Now,
	})
	require.NoError(t, err)

	raw, err := other.Issue(SubjectClaims(1), KindAccess, time.Hour)
	require.NoError(t, err)

	_, err = svc.Verify(raw, KindAccess)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestVerify_WrongAlgorithmRejected(t *testing.T) {
	t.Parallel()

	clock := &fixedClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestService(t, clock)

	// same secret, different HMAC variant: must not verify on an
	// HS256-pinned service
	other, err := NewService(Config{
		Secret:     []byte("test-secret"),
		Algorithm:  "HS512",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Minute,
		Now:        clock.Now,
	})
	require.NoError(t, err)

	raw, err := other.Issue(SubjectClaims(1), KindAccess, time.Hour)
	require.NoError(t, err)

	_, err = svc.Verify(raw, KindAccess)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerify_MissingExp(t *testing.T) {
	t.Parallel()

	clock := &fixedClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestService(t, clock)

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "1",
		"type": "access",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(raw, KindAccess)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.ErrorIs(t, err, jwt.ErrTokenRequiredClaimMissing)
}

func TestIssuePair_Shape(t *testing.T) {
	t.Parallel()

	clock := &fixedClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestService(t, clock)

	pair, err := svc.IssuePair(SubjectClaims(42))
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := svc.Verify(pair.AccessToken, KindAccess)
	require.NoError(t, err)
	refresh, err := svc.Verify(pair.RefreshToken, KindRefresh)
	require.NoError(t, err)

	assert.Equal(t, access["sub"], refresh["sub"])
	assert.Equal(t, access["iat"], refresh["iat"])
	assert.NotEqual(t, access["exp"], refresh["exp"])
	assert.NotEqual(t, access["type"], refresh["type"])
}

func TestDecodeUnverified(t *testing.T) {
	t.Parallel()

	clock := &fixedClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestService(t, clock)

	// forged with a secret this service does not trust: the payload is
	// still readable, verification still refuses it
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "99", "type": "access", "exp": clock.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("attacker"))
	require.NoError(t, err)

	claims, ok := svc.DecodeUnverified(forged)
	require.True(t, ok)
	assert.Equal(t, "99", claims["sub"])

	_, err = svc.Verify(forged, KindAccess)
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, ok = svc.DecodeUnverified("broken")
	assert.False(t, ok)
	_, ok = svc.DecodeUnverified("")
	assert.False(t, ok)
}

func TestClaims_Subject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		claims Claims
		want   int64
		ok     bool
	}{
		{"valid", Claims{"sub": "42"}, 42, true},
		{"missing", Claims{}, 0, false},
		{"not a string", Claims{"sub": float64(42)}, 0, false},
		{"zero", Claims{"sub": "0"}, 0, false},
		{"negative", Claims{"sub": "-5"}, 0, false},
		{"non numeric", Claims{"sub": "alice"}, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, err := tc.claims.Subject()
			if !tc.ok {
				require.ErrorIs(t, err, ErrBadSubject)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, id)
		})
	}
}

func TestRejectionCause(t *testing.T) {
	t.Parallel()

	clock := &fixedClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestService(t, clock)

	expired, err := svc.Issue(SubjectClaims(1), KindAccess, 0)
	require.NoError(t, err)
	clock.Advance(time.Minute)

	refresh, err := svc.Issue(SubjectClaims(1), KindRefresh, time.Hour)
	require.NoError(t, err)

	_, expErr := svc.Verify(expired, KindAccess)
	assert.Equal(t, "expired", RejectionCause(expErr))

	_, kindErr := svc.Verify(refresh, KindAccess)
	assert.Equal(t, "wrong_kind", RejectionCause(kindErr))

	_, malErr := svc.Verify("broken", KindAccess)
	assert.Equal(t, "malformed", RejectionCause(malErr))
}
