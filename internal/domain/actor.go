package domain

import "strings"

// Actor is the pre-authenticated caller identity. The core trusts the role
// assertion and only checks that it fits the operation.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return invalid("actor", "actor id is required")
	}
	if !ValidRoles[a.Role] {
		return invalid("actor", "unknown role %q", a.Role)
	}
	return nil
}
