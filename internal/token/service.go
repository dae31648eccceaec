package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidCredentials is the single error surfaced for every
// verification failure: bad signature, wrong kind, missing or past
// expiry, malformed structure. Callers must not learn which check
// failed; the wrapped cause stays reachable via errors.Is for logging.
var (
	ErrInvalidCredentials = errors.New("could not validate credentials")
	ErrWrongKind          = errors.New("unexpected token type")
)

type Config struct {
	Secret     []byte
	Algorithm  string // HS256 (default), HS384 or HS512
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

// Service mints and verifies signed, typed, time-limited tokens.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	cfg    Config
	method jwt.SigningMethod
}

func NewService(cfg Config) (*Service, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token: signing secret is required")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token: token lifetimes must be positive")
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = jwt.SigningMethodHS256.Alg()
	}
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("token: unsupported signing algorithm %q", cfg.Algorithm)
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{cfg: cfg, method: method}, nil
}

// Pair is the login response shape.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Issue signs extra claims merged with the reserved set. iat is now,
// exp is now+ttl, jti is a fresh uuid. Reserved keys win over caller
// claims. Fails only on an unserializable claim value.
func (s *Service) Issue(extra map[string]any, kind Kind, ttl time.Duration) (string, error) {
	now := s.cfg.Now()
	claims := make(jwt.MapClaims, len(extra)+5)
	for k, v := range extra {
		claims[k] = v
	}
	claims[claimIssuedAt] = now.Unix()
	claims[claimExpires] = now.Add(ttl).Unix()
	claims[claimKind] = string(kind)
	claims[claimTokenID] = uuid.NewString()

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// IssuePair mints an access/refresh pair over the same base claims.
func (s *Service) IssuePair(extra map[string]any) (Pair, error) {
	access, err := s.Issue(extra, KindAccess, s.cfg.AccessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := s.Issue(extra, KindRefresh, s.cfg.RefreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// Verify checks signature, expiry and kind, in that order, and returns
// the claims. The signature must hold before any claim is trusted;
// exp == now is already expired.
func (s *Service) Verify(raw string, want Kind) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.cfg.Now),
	)
	parsed, err := parser.Parse(raw, func(*jwt.Token) (any, error) {
		return s.cfg.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, jwt.ErrTokenInvalidClaims)
	}
	if Claims(claims).Kind() != want {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, ErrWrongKind)
	}
	return Claims(claims), nil
}

// DecodeUnverified extracts the payload without checking the
// signature. Diagnostics only; never a basis for authorization.
func (s *Service) DecodeUnverified(raw string) (Claims, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return nil, false
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}
	return Claims(claims), true
}

func (s *Service) AccessTTL() time.Duration  { return s.cfg.AccessTTL }
func (s *Service) RefreshTTL() time.Duration { return s.cfg.RefreshTTL }

// RejectionCause names the internal reason a verification failed.
// External responses never carry it; logs and metrics do.
func RejectionCause(err error) string {
	switch {
	case errors.Is(err, ErrWrongKind):
		return "wrong_kind"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return "missing_exp"
	case errors.Is(err, ErrBadSubject):
		return "bad_subject"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "bad_signature"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	default:
		return "invalid"
	}
}
