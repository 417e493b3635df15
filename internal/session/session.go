package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the access level carried by the login token.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

// Elevated reports whether the role may use the multi-tenant staff endpoints.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleStaff
}

// Claims are the token claims the client cares about.
type Claims struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
	Tenant string `json:"tenant"`
	jwt.RegisteredClaims
}

// Session holds the login token and the identity decoded from it. It is
// created once at startup and injected into every component that talks to
// the API; there is no ambient token storage.
type Session struct {
	token  string
	userID int64
	role   Role
	tenant string
}

// New decodes the token's claims and builds a session. The client does not
// hold the signing key, so claims are read without signature verification;
// the server re-verifies the token on every request anyway.
func New(token string) (*Session, error) {
	if token == "" {
		return nil, fmt.Errorf("session token is empty")
	}

	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode session token: %w", err)
	}

	role := Role(claims.Role)
	switch role {
	case RoleAdmin, RoleStaff, RoleCustomer:
	case "":
		role = RoleCustomer
	default:
		return nil, fmt.Errorf("unknown role in session token: %q", claims.Role)
	}

	return &Session{
		token:  token,
		userID: claims.UserID,
		role:   role,
		tenant: claims.Tenant,
	}, nil
}

// Token returns the raw bearer token.
func (s *Session) Token() string { return s.token }

// UserID returns the authenticated user's id.
func (s *Session) UserID() int64 { return s.userID }

// Role returns the decoded role.
func (s *Session) Role() Role { return s.role }

// Tenant returns the tenant slug used for the order feed group.
func (s *Session) Tenant() string { return s.tenant }
