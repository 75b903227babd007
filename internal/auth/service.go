package auth

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Service provides the login operation.
type Service struct {
	jwtService *JWTService
	logger     zerolog.Logger
}

// ServiceConfig holds configuration for the auth service.
type ServiceConfig struct {
	JWTService *JWTService
	Logger     zerolog.Logger
}

// NewService creates a new auth service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		jwtService: cfg.JWTService,
		logger:     cfg.Logger.With().Str("component", "auth").Logger(),
	}
}

// Login issues an access token for the requested role. Credentials are not
// checked beyond being present.
func (s *Service) Login(_ context.Context, req *LoginRequest) (*TokenResponse, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	principal := Principal{
		Subject:      req.Email,
		Role:         req.Role,
		Organization: req.Organization,
	}
	token, _, err := s.jwtService.GenerateAccessToken(principal)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}

	s.logger.Info().Str("role", string(req.Role)).Str("organization", req.Organization).Msg("login")

	return &TokenResponse{
		AccessToken:  token,
		TokenType:    "Bearer",
		ExpiresIn:    int64(AccessTokenExpiry.Seconds()),
		Role:         req.Role,
		Organization: req.Organization,
	}, nil
}

// ValidateAccessToken validates an access token and returns its principal.
func (s *Service) ValidateAccessToken(token string) (*Principal, error) {
	return s.jwtService.ValidateAccessToken(token)
}
