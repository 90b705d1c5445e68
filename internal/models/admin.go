package models

// AdminRole is the role granted to a logged-in operator
type AdminRole string

const (
	RoleAdmin AdminRole = "admin"
	RoleGuard AdminRole = "guard"
	RoleStaff AdminRole = "staff"
)

// AdminUser is a fixed-credential operator account loaded from
// configuration. The password is stored as a bcrypt hash.
type AdminUser struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         AdminRole `json:"role"`
}
