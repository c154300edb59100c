package model

// Role is the marketplace role reflected from the session token.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// Session identifies the authenticated user a request acts for.
type Session struct {
	UserID int64
	Role   Role
	Name   string
	Token  string
}
