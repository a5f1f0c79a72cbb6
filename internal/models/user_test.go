package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_SetAndCheckPassword(t *testing.T) {
	u := &User{Username: "alice"}
	assert.False(t, u.HasPassword())
	assert.False(t, u.CheckPassword(""))

	require.NoError(t, u.SetPassword("secret123"))
	assert.True(t, u.HasPassword())
	assert.NotEqual(t, "secret123", u.Password)
	assert.True(t, u.CheckPassword("secret123"))
	assert.False(t, u.CheckPassword("secret124"))
}

func TestUser_IsActive(t *testing.T) {
	assert.True(t, (&User{Status: UserStatusActive}).IsActive())
	assert.False(t, (&User{Status: UserStatusDisabled}).IsActive())
}

func TestMenu_IsRoute(t *testing.T) {
	assert.True(t, (&Menu{Type: MenuTypeDirectory, Status: MenuStatusActive}).IsRoute())
	assert.True(t, (&Menu{Type: MenuTypePage, Status: MenuStatusActive}).IsRoute())
	assert.False(t, (&Menu{Type: MenuTypeButton, Status: MenuStatusActive}).IsRoute())
	assert.False(t, (&Menu{Type: MenuTypePage, Status: MenuStatusDisabled}).IsRoute())
}

func TestRole_IsAdmin(t *testing.T) {
	assert.True(t, (&Role{Code: AdminRoleCode}).IsAdmin())
	assert.False(t, (&Role{Code: "editor"}).IsAdmin())
}
