package model

// Role is the typed authorization capability carried by an authenticated
// request.  It replaces ad hoc string comparisons at the call sites that
// need it, most importantly reservation cancellation.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole maps a JWT role claim to a Role.  Unknown or empty values
// degrade to the least-privileged RoleUser.
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}
