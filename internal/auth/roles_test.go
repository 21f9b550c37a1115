package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignRoleAllowList(t *testing.T) {
	assigner := NewRoleAssigner([]string{"Warden@Hostel.Test", " mess.head@hostel.test ", ""})

	assert.Equal(t, RoleAdmin, assigner.AssignRole("warden@hostel.test"))
	assert.Equal(t, RoleAdmin, assigner.AssignRole("MESS.HEAD@hostel.test"))
	assert.Equal(t, RoleResident, assigner.AssignRole("asha@hostel.test"))
}

func TestAssignRoleLegacyMarker(t *testing.T) {
	assigner := NewRoleAssigner(nil)

	assert.Equal(t, RoleAdmin, assigner.AssignRole("admin.kitchen@hostel.test"))
	assert.Equal(t, RoleAdmin, assigner.AssignRole("ADMIN@hostel.test"))
	assert.Equal(t, RoleResident, assigner.AssignRole("asha@hostel.test"))
}
