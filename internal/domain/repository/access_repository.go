package repository

// Role is the access level granted to a user. The workflow only cares
// whether a role exists; the tiers mirror the operators' access file.
type Role string

const (
	RoleNone      Role = ""
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleMainAdmin Role = "main_admin"
)

// Exists reports whether the role grants any access at all.
func (r Role) Exists() bool {
	return r != RoleNone
}

// AccessRepository resolves a user to a role. Workflow entry points fail
// closed when the resolved role is RoleNone.
type AccessRepository interface {
	RoleOf(userID int64) Role
}
