package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/uiaoin/ts-admin/pkg/errors"
	"github.com/uiaoin/ts-admin/pkg/jwt"
)

func alice() *jwt.Identity {
	return &jwt.Identity{
		UserID:      2,
		Username:    "alice",
		Roles:       []string{"editor"},
		Permissions: []string{"doc:edit"},
		DataScope:   3,
	}
}

func TestDecide_PublicSkipsEverything(t *testing.T) {
	assert.Equal(t, Allow, Decide(Public(), nil))
	assert.Equal(t, Allow, Decide(Rule{Public: true, Permissions: []string{"x"}}, nil))
}

func TestDecide_RequiresIdentity(t *testing.T) {
	assert.Equal(t, DenyUnauthenticated, Decide(Authenticated(), nil))
	assert.Equal(t, DenyUnauthenticated, Decide(RequirePermissions("doc:edit"), nil))
}

func TestDecide_NoPermissionsDeclared(t *testing.T) {
	assert.Equal(t, Allow, Decide(Authenticated(), &jwt.Identity{UserID: 9}))
}

func TestDecide_AnyPermissionMatches(t *testing.T) {
	assert.Equal(t, Allow, Decide(RequirePermissions("doc:edit", "doc:view"), alice()))
	assert.Equal(t, DenyForbidden, Decide(RequirePermissions("doc:delete"), alice()))
}

func TestDecide_AdminAllowsEveryRoute(t *testing.T) {
	admin := &jwt.Identity{UserID: 1, Username: "admin", Roles: []string{"admin"}}
	routes := []Rule{
		Authenticated(),
		RequirePermissions("system:user:add"),
		RequirePermissions("a", "b", "c"),
		RequirePermissions("never:granted"),
	}
	for _, r := range routes {
		assert.Equal(t, Allow, Decide(r, admin))
	}
}

func TestDecision_Err(t *testing.T) {
	assert.NoError(t, Allow.Err())
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(DenyUnauthenticated.Err()))
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(DenyForbidden.Err()))
	assert.Equal(t, "forbidden", DenyForbidden.String())
}
