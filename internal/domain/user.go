package domain

import "time"

// UserStatus represents lifecycle states for a user account.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
)

// User is the domain model for platform accounts. Email doubles as the
// login identifier and is unique across all users.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Status       UserStatus
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RoleLabels returns the labels of the user's current role set.
func (u *User) RoleLabels() []RoleLabel {
	labels := make([]RoleLabel, 0, len(u.Roles))
	for _, role := range u.Roles {
		labels = append(labels, role.Label)
	}
	return labels
}

// HasRole reports whether the user currently holds the given role.
func (u *User) HasRole(label RoleLabel) bool {
	for _, role := range u.Roles {
		if role.Label == label {
			return true
		}
	}
	return false
}
