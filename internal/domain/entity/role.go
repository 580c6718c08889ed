package entity

// Role is the privilege level carried in an access token.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleOwner
}

// HasRole reports whether roles contains want.
func HasRole(roles []string, want Role) bool {
	for _, r := range roles {
		if Role(r) == want {
			return true
		}
	}

	return false
}
