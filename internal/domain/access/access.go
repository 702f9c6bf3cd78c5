// Package access resolves a caller to a role and capability set once at the
// gate; handlers check capabilities, never raw claims.
package access

// Role is the closed set of caller roles for a business scope.
type Role string

const (
	RoleOwner        Role = "owner"
	RoleCollaborator Role = "collaborator"
	RoleViewer       Role = "viewer"
	RoleSuperAdmin   Role = "super_admin"
	RoleNone         Role = "none"
)

// Capabilities is the explicit capability table per role variant.
type Capabilities struct {
	View   bool
	Answer bool
	Admin  bool
}

var capabilityTable = map[Role]Capabilities{
	RoleOwner:        {View: true, Answer: true, Admin: true},
	RoleCollaborator: {View: true, Answer: true, Admin: false},
	RoleViewer:       {View: true, Answer: false, Admin: false},
	RoleSuperAdmin:   {View: true, Answer: true, Admin: true},
	RoleNone:         {},
}

// CapabilitiesFor returns the capability set for a role.
func CapabilitiesFor(role Role) Capabilities {
	return capabilityTable[role]
}

// Principal is the resolved caller identity for one request.
type Principal struct {
	Subject      string
	SuperAdmin   bool
	Role         Role
	Capabilities Capabilities
}

// ResolveRole maps the caller onto a role for a given scope. ownerID is the
// business owner's subject and collaborators the scope's shared subjects.
func ResolveRole(p *Principal, ownerID string, collaborators []string) Role {
	if p == nil {
		return RoleNone
	}
	if p.SuperAdmin {
		return RoleSuperAdmin
	}
	if p.Subject == ownerID {
		return RoleOwner
	}
	for _, c := range collaborators {
		if p.Subject == c {
			return RoleCollaborator
		}
	}
	return RoleNone
}

// Authorize fixes the principal's role and capabilities for a scope. It is
// called once per request at the gate boundary.
func Authorize(p *Principal, ownerID string, collaborators []string) Capabilities {
	role := ResolveRole(p, ownerID, collaborators)
	p.Role = role
	p.Capabilities = CapabilitiesFor(role)
	return p.Capabilities
}
