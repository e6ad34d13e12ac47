package accounts

import (
	"fmt"
	"strings"
)

// Role is an account's access level.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// String returns the role name.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleGuest:
		return true
	}
	return false
}

// ParseRole parses a role name, ignoring case and surrounding space.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", &ValidationError{Field: "role", Message: fmt.Sprintf("unknown role %q", s)}
	}
	return r, nil
}

// Capability is a page or feature a role may reach.
type Capability string

const (
	CapabilityAdmin  Capability = "admin"
	CapabilityPTR    Capability = "ptr"
	CapabilityJIRA   Capability = "jira"
	CapabilityGuest  Capability = "guest"
	CapabilityLogout Capability = "logout"
)

var roleCapabilities = map[Role][]Capability{
	RoleAdmin: {CapabilityAdmin, CapabilityPTR, CapabilityJIRA, CapabilityLogout},
	RoleUser:  {CapabilityPTR, CapabilityJIRA, CapabilityLogout},
	RoleGuest: {CapabilityGuest, CapabilityLogout},
}

// Capabilities returns the ordered capabilities of role. Unknown roles get none.
func Capabilities(role Role) []Capability {
	caps := roleCapabilities[role]
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}

// HasCapability reports whether role grants c.
func HasCapability(role Role, c Capability) bool {
	for _, have := range roleCapabilities[role] {
		if have == c {
			return true
		}
	}
	return false
}
