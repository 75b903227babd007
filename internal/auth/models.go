// Package auth issues and validates the role tokens used by the dashboard.
// Login is a stub: any non-empty email and password are accepted.
package auth

// Role is the dashboard persona a token grants.
type Role string

const (
	RoleNGO   Role = "ngo"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleNGO || r == RoleAdmin
}

// Principal is the identity carried by a validated token.
type Principal struct {
	// Subject is the login email.
	Subject      string
	Role         Role
	Organization string
}

// LoginRequest represents the request body for POST /v1/auth/login.
type LoginRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         Role   `json:"role"`
	Organization string `json:"organization,omitempty"`
}

// Validate validates the login request.
func (r *LoginRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Email == "" {
		errors = append(errors, FieldError{
			Field:   "email",
			Message: "email is required",
			Code:    "REQUIRED",
		})
	}
	if r.Password == "" {
		errors = append(errors, FieldError{
			Field:   "password",
			Message: "password is required",
			Code:    "REQUIRED",
		})
	}
	if !r.Role.Valid() {
		errors = append(errors, FieldError{
			Field:   "role",
			Message: "role must be ngo or admin",
			Code:    "INVALID_ENUM",
		})
	}
	if r.Role == RoleNGO && r.Organization == "" {
		errors = append(errors, FieldError{
			Field:   "organization",
			Message: "organization is required for ngo logins",
			Code:    "REQUIRED",
		})
	}

	return errors
}

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidationError wraps the field errors of a rejected login.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// TokenResponse represents the response after a successful login.
type TokenResponse struct {
	// AccessToken is the JWT access token for API authentication.
	AccessToken string `json:"accessToken"`

	// TokenType is always "Bearer".
	TokenType string `json:"tokenType"`

	// ExpiresIn is the number of seconds until the access token expires.
	ExpiresIn int64 `json:"expiresIn"`

	Role         Role   `json:"role"`
	Organization string `json:"organization,omitempty"`
}
