package domain

import "fmt"

// RoleLabel enumerates the closed set of roles the service knows about.
// Authorization rules reference these labels, never free-form strings.
type RoleLabel string

const (
	RoleAdmin      RoleLabel = "ADMIN"
	RoleInstructor RoleLabel = "INSTRUCTOR"
	RoleStudent    RoleLabel = "STUDENT"
)

// KnownRoles lists every label the service accepts.
var KnownRoles = []RoleLabel{RoleAdmin, RoleInstructor, RoleStudent}

// ParseRoleLabel validates a raw label against the known set.
func ParseRoleLabel(raw string) (RoleLabel, error) {
	for _, label := range KnownRoles {
		if string(label) == raw {
			return label, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

// Role is a named permission grant. Users hold a set of roles via a
// many-to-many association.
type Role struct {
	ID    string
	Label RoleLabel
}
