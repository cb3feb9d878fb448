package domain

import "go.mongodb.org/mongo-driver/v2/bson"

// Role is the coarse position a principal holds. Finer-grained rights live in
// the permission set; both are owned by the identity subsystem and only
// consumed here.
type Role string

const (
	RoleUser       Role = "user"
	RoleManager    Role = "manager"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Permission strings carried by principals. Only the ones the vault core
// consults are named here.
const (
	PermManageLogs string = "manage:logs"
	PermViewLogs   string = "view:logs"
)

// Principal is an authenticated actor making a request. The identity
// subsystem produces it; every authorization decision in the vault core takes
// it as input.
type Principal struct {
	ID          bson.ObjectID
	Role        Role
	Permissions []string
}

// HasPermission reports whether the principal carries the given capability string.
func (p *Principal) HasPermission(perm string) bool {
	for _, have := range p.Permissions {
		if have == perm {
			return true
		}
	}
	return false
}

// Elevated reports whether the role bypasses per-document access control
// entirely (admin and superadmin).
func (p *Principal) Elevated() bool {
	return p.Role == RoleAdmin || p.Role == RoleSuperadmin
}
