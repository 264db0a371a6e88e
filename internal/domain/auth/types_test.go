package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleAtLeast_Hierarchy(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		required Role
		want     bool
	}{
		{"admin satisfies admin", RoleAdmin, RoleAdmin, true},
		{"admin satisfies manager", RoleAdmin, RoleManager, true},
		{"admin satisfies user", RoleAdmin, RoleUser, true},
		{"manager satisfies manager", RoleManager, RoleManager, true},
		{"manager satisfies user", RoleManager, RoleUser, true},
		{"manager does not satisfy admin", RoleManager, RoleAdmin, false},
		{"user does not satisfy manager", RoleUser, RoleManager, false},
		{"unknown role satisfies nothing", Role("owner"), RoleUser, false},
		{"unknown requirement never satisfied", RoleAdmin, Role("owner"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.AtLeast(tt.required))
		})
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleManager.Valid())
	assert.True(t, RoleUser.Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("guest").Valid())
}

func TestUserPredicates(t *testing.T) {
	admin := User{Role: RoleAdmin}
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.IsManager())

	manager := User{Role: RoleManager}
	assert.False(t, manager.IsAdmin())
	assert.True(t, manager.IsManager())

	user := User{Role: RoleUser}
	assert.False(t, user.IsAdmin())
	assert.False(t, user.IsManager())
}
