package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tempo/internal/models"
)

func TestAdminHasUserManagement(t *testing.T) {
	assert.True(t, HasPermission(models.RoleAdmin, "users:manage"))
	assert.False(t, HasPermission(models.RoleManager, "users:manage"))
}

func TestViewerHasNoWritePermissions(t *testing.T) {
	assert.Empty(t, Permissions(models.RoleViewer))
}

func TestUnknownRoleGetsEmployeeSet(t *testing.T) {
	assert.Equal(t, Permissions(models.RoleEmployee), Permissions("intern"))
	assert.True(t, HasPermission("intern", "timeentries:write"))
	assert.False(t, HasPermission("intern", "projects:write"))
}

func TestPermissionsReturnsCopy(t *testing.T) {
	p := Permissions(models.RoleAdmin)
	p[0] = "tampered"
	assert.NotContains(t, Permissions(models.RoleAdmin), "tampered")
}

func TestRoleAllowed(t *testing.T) {
	allowed := []string{models.RoleAdmin, models.RoleManager}
	assert.True(t, roleAllowed(models.RoleAdmin, allowed))
	assert.False(t, roleAllowed(models.RoleViewer, allowed))
	assert.False(t, roleAllowed("", allowed))
}
