package auth

import (
	"context"
	"fmt"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Roles lists every valid Role.
var Roles = []Role{RoleUser, RoleAdmin}

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// ParseRole converts s into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role %q", s)
	}
	return r, nil
}

// Capability is something a request may need to be allowed to do.
type Capability int

const (
	CapAuthenticated Capability = iota
	CapAdmin
)

func (c Capability) String() string {
	switch c {
	case CapAuthenticated:
		return "authenticated"
	case CapAdmin:
		return "admin"
	}
	return fmt.Sprintf("capability(%d)", int(c))
}

// Can reports whether a role grants a capability.
func (r Role) Can(c Capability) bool {
	switch c {
	case CapAuthenticated:
		return r.IsValid()
	case CapAdmin:
		return r == RoleAdmin
	}
	return false
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string
	Role   Role
}

func (p Principal) Can(c Capability) bool {
	return p.UserID != "" && p.Role.Can(c)
}

func (p Principal) IsAdmin() bool {
	return p.Can(CapAdmin)
}

// PrincipalLookup resolves a token subject to an active principal.
// Implementations return an error when the account is missing or inactive.
type PrincipalLookup interface {
	LookupPrincipal(ctx context.Context, userID string) (Principal, error)
}
