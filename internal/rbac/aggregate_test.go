package rbac

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uiaoin/ts-admin/internal/models"
)

func role(code string, scope int, perms ...string) models.Role {
	r := models.Role{Code: code, DataScope: scope}
	for _, p := range perms {
		r.Menus = append(r.Menus, models.Menu{Permission: p})
	}
	return r
}

func TestAggregate_SingleRole(t *testing.T) {
	agg := Aggregate([]models.Role{role("editor", models.DataScopeDept, "doc:edit")})

	assert.Equal(t, []string{"doc:edit"}, agg.Permissions)
	assert.Equal(t, 3, agg.DataScope)
	assert.Equal(t, []string{"editor"}, agg.RoleCodes)
	assert.False(t, agg.IsAdmin)
}

func TestAggregate_UnionDeduplicatesAndSkipsEmpty(t *testing.T) {
	agg := Aggregate([]models.Role{
		role("editor", 3, "doc:edit", "", "doc:view"),
		role("viewer", 4, "doc:view", "doc:export"),
	})

	assert.Equal(t, []string{"doc:edit", "doc:export", "doc:view"}, agg.Permissions)
	assert.Equal(t, 3, agg.DataScope)
}

func TestAggregate_NoRolesGetsLeastPrivilegedScope(t *testing.T) {
	agg := Aggregate(nil)

	assert.Empty(t, agg.Permissions)
	assert.NotNil(t, agg.Permissions)
	assert.Equal(t, DefaultDataScope, agg.DataScope)
	assert.Empty(t, agg.RoleCodes)
}

func TestAggregate_CustomScopeRoleKeepsItsRank(t *testing.T) {
	agg := Aggregate([]models.Role{role("auditor", models.DataScopeCustom)})
	assert.Equal(t, models.DataScopeCustom, agg.DataScope)
}

func TestAggregate_AdminStillComputesSet(t *testing.T) {
	agg := Aggregate([]models.Role{role(models.AdminRoleCode, 1, "system:user:add")})

	assert.True(t, agg.IsAdmin)
	assert.Equal(t, []string{"system:user:add"}, agg.Permissions)
	assert.Equal(t, models.DataScopeAll, agg.DataScope)
}

func TestAggregate_DataScopeIsMinimumOfRoles(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		n := 1 + rng.Intn(5)
		roles := make([]models.Role, n)
		lowest := 99
		for j := range roles {
			scope := 1 + rng.Intn(5)
			roles[j] = role("r", scope)
			if scope < lowest {
				lowest = scope
			}
		}
		assert.Equal(t, lowest, Aggregate(roles).DataScope)
	}
}
