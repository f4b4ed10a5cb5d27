package dto

// UserCreateRequest payload for admin user creation.
type UserCreateRequest struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Roles     []string `json:"roles"`
}

// UserUpdateRequest payload for profile updates.
type UserUpdateRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Status    string `json:"status"`
}

// RoleGrantRequest payload for role grants.
type RoleGrantRequest struct {
	Role string `json:"role"`
}
