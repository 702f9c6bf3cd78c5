package access

import "testing"

func TestResolveRole(t *testing.T) {
	collaborators := []string{"sub-collab", "sub-collab-2"}

	cases := []struct {
		name      string
		principal *Principal
		want      Role
	}{
		{"nil principal", nil, RoleNone},
		{"super admin wins over owner", &Principal{Subject: "sub-owner", SuperAdmin: true}, RoleSuperAdmin},
		{"owner", &Principal{Subject: "sub-owner"}, RoleOwner},
		{"collaborator", &Principal{Subject: "sub-collab-2"}, RoleCollaborator},
		{"stranger", &Principal{Subject: "sub-stranger"}, RoleNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveRole(tc.principal, "sub-owner", collaborators); got != tc.want {
				t.Errorf("ResolveRole() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestCapabilitiesFor(t *testing.T) {
	cases := []struct {
		role Role
		want Capabilities
	}{
		{RoleOwner, Capabilities{View: true, Answer: true, Admin: true}},
		{RoleSuperAdmin, Capabilities{View: true, Answer: true, Admin: true}},
		{RoleCollaborator, Capabilities{View: true, Answer: true, Admin: false}},
		{RoleViewer, Capabilities{View: true, Answer: false, Admin: false}},
		{RoleNone, Capabilities{}},
		{Role("unknown"), Capabilities{}},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			if got := CapabilitiesFor(tc.role); got != tc.want {
				t.Errorf("CapabilitiesFor(%s) = %+v, want %+v", tc.role, got, tc.want)
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	p := &Principal{Subject: "sub-collab"}
	caps := Authorize(p, "sub-owner", []string{"sub-collab"})

	if p.Role != RoleCollaborator {
		t.Errorf("Role = %s, want collaborator", p.Role)
	}
	if !caps.View || !caps.Answer || caps.Admin {
		t.Errorf("Capabilities = %+v, want view+answer without admin", caps)
	}
	if p.Capabilities != caps {
		t.Error("Authorize must pin the capabilities on the principal")
	}
}
