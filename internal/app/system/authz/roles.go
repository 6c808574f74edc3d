package authz

// Application roles. Every user has exactly one.
const (
	RoleVolunteer = "volunteer"
	RoleLead      = "lead"
	RoleAdmin     = "admin"
)

// ValidRole reports whether r is a recognized role.
func ValidRole(r string) bool {
	switch r {
	case RoleVolunteer, RoleLead, RoleAdmin:
		return true
	}
	return false
}

// HasAnyRole reports whether role matches any of the allowed roles.
func HasAnyRole(role string, allowed ...string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
