package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenExpiry is the lifetime of an access token. Clients log in
// again once it lapses.
const AccessTokenExpiry = time.Hour

var (
	ErrInvalidAccessToken = errors.New("invalid access token")
	ErrAccessTokenExpired = errors.New("access token has expired")
)

// JWTClaims are the claims of an AidLink access token.
type JWTClaims struct {
	jwt.RegisteredClaims

	Role         Role   `json:"role"`
	Organization string `json:"org,omitempty"`
}

func (c *JWTClaims) principal() *Principal {
	return &Principal{Subject: c.Subject, Role: c.Role, Organization: c.Organization}
}

// JWTConfig configures a JWTService.
type JWTConfig struct {
	// SigningKey is the HS256 secret.
	SigningKey string

	// Issuer and Audience are stamped on issued tokens and required on
	// validated ones.
	Issuer   string
	Audience string

	// Now overrides the clock.
	Now func() time.Time
}

// JWTService issues and validates HS256 access tokens.
type JWTService struct {
	key    []byte
	cfg    JWTConfig
	parser *jwt.Parser
}

// NewJWTService creates a JWTService.
func NewJWTService(cfg JWTConfig) *JWTService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &JWTService{
		key: []byte(cfg.SigningKey),
		cfg: cfg,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithAudience(cfg.Audience),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(cfg.Now),
		),
	}
}

// GenerateAccessToken signs a token for p and returns it with its expiry.
func (s *JWTService) GenerateAccessToken(p Principal) (string, time.Time, error) {
	issuedAt := s.cfg.Now()
	expiresAt := issuedAt.Add(AccessTokenExpiry)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.cfg.Issuer,
			Subject:   p.Subject,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role:         p.Role,
		Organization: p.Organization,
	}).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing access token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateAccessToken verifies signature, issuer, audience and expiry and
// returns the token's principal. Expired tokens yield ErrAccessTokenExpired;
// every other failure wraps ErrInvalidAccessToken.
func (s *JWTService) ValidateAccessToken(token string) (*Principal, error) {
	claims := &JWTClaims{}
	if _, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	}); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrAccessTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccessToken, err)
	}

	if !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidAccessToken, claims.Role)
	}
	if claims.Role == RoleNGO && claims.Organization == "" {
		return nil, fmt.Errorf("%w: ngo token without organization", ErrInvalidAccessToken)
	}
	return claims.principal(), nil
}
