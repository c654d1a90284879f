package domain

// UserRole is the global permission level of a user.
type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"      // manages companies and users
	RoleAccountant UserRole = "ACCOUNTANT" // maintains accounts and posts entries
	RoleViewer     UserRole = "VIEWER"     // reads balances and statements
)

var roleRank = map[UserRole]int{
	RoleViewer:     1,
	RoleAccountant: 2,
	RoleAdmin:      3,
}

// IsValid reports whether r is a known role.
func (r UserRole) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// Satisfies reports whether r grants at least the permissions of required.
func (r UserRole) Satisfies(required UserRole) bool {
	return roleRank[r] >= roleRank[required] && roleRank[r] > 0
}

// User represents a user of the application in the domain.
type User struct {
	UserID       string   `json:"userID"`
	Email        string   `json:"email"`
	Name         string   `json:"name"`
	Role         UserRole `json:"role"`
	PasswordHash string   `json:"-"`
	IsActive     bool     `json:"isActive"`
	AuditFields
}
