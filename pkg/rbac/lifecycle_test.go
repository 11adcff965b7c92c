package rbac_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rolekit/pkg/docstore"
	"github.com/dmitrymomot/rolekit/pkg/permission"
	"github.com/dmitrymomot/rolekit/pkg/rbac"
	"github.com/dmitrymomot/rolekit/pkg/role"
)

func TestCreateRole(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	r, err := svc.CreateRole(ctx, role.CreateInput{
		TenantID:    "t1",
		Name:        "Cashier",
		Description: "Handles the register",
		Level:       role.LevelStaff,
		Permissions: permission.Set{permission.CanCreateOrders: true},
	}, "u-admin")
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.True(t, r.IsCustom)
	assert.True(t, r.IsActive)
	assert.False(t, r.IsSystemRole)
	assert.Equal(t, "u-admin", r.CreatedBy)
	assert.Equal(t, r.CreatedAt, r.UpdatedAt)

	got, err := svc.GetRole(ctx, r.ID, "t1")
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, r.Name, got.Name)
	assert.Equal(t, r.Level, got.Level)
	assert.Equal(t, r.Permissions, got.Permissions)
	assert.True(t, got.CreatedAt.Equal(r.CreatedAt))
}

func TestCreateRole_DuplicateNamePerTenant(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	mustCreateRole(t, svc, "t1", "Cashier", role.LevelStaff, nil, "")

	// Same name in the same tenant collides.
	_, err := svc.CreateRole(ctx, role.CreateInput{
		TenantID: "t1", Name: "Cashier", Level: role.LevelStaff,
	}, "tester")
	assert.True(t, errors.Is(err, rbac.ErrDuplicateRoleName))

	// Uniqueness is scoped per tenant.
	_, err = svc.CreateRole(ctx, role.CreateInput{
		TenantID: "t2", Name: "Cashier", Level: role.LevelStaff,
	}, "tester")
	assert.NoError(t, err)
}

func TestCreateRole_ParentNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.CreateRole(ctx, role.CreateInput{
		TenantID:     "t1",
		Name:         "Orphan",
		Level:        role.LevelStaff,
		InheritsFrom: "missing-parent",
	}, "tester")
	assert.True(t, errors.Is(err, rbac.ErrParentRoleNotFound))
}

func TestCreateRole_DeepDanglingParentTolerated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)

	// A parent whose own ancestor dangles is still a valid parent; only the
	// immediate reference must resolve.
	parent := role.Role{
		ID: "p1", TenantID: "t1", Name: "Parent", Level: 40,
		InheritsFrom: "ghost", IsCustom: true, IsActive: true,
	}
	require.NoError(t, store.Set(ctx, rbac.CollectionTenantRoles, parent.ID, parent))

	_, err := svc.CreateRole(ctx, role.CreateInput{
		TenantID:     "t1",
		Name:         "Child",
		Level:        role.LevelStaff,
		InheritsFrom: "p1",
	}, "tester")
	assert.NoError(t, err)
}

func TestCreateRole_InvalidInput(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.CreateRole(ctx, role.CreateInput{
		TenantID: "t1", Name: "Too High", Level: 95,
	}, "tester")
	assert.True(t, errors.Is(err, role.ErrInvalidLevel))
}

func TestUpdateRole(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	r := mustCreateRole(t, svc, "t1", "Manager", 50, nil, "")

	// Warm the cache so the update has a stale entry to invalidate.
	_, err := svc.GetRole(ctx, r.ID, "t1")
	require.NoError(t, err)

	level := 55
	desc := "Shift lead"
	updated, err := svc.UpdateRole(ctx, r.ID, "t1", role.UpdateInput{
		Level:       &level,
		Description: &desc,
	})
	require.NoError(t, err)
	assert.Equal(t, 55, updated.Level)
	assert.Equal(t, "Shift lead", updated.Description)
	assert.Equal(t, "Manager", updated.Name)

	// A fresh read reflects the write; the stale cache entry is gone.
	got, err := svc.GetRole(ctx, r.ID, "t1")
	require.NoError(t, err)
	assert.Equal(t, 55, got.Level)
}

func TestUpdateRole_SystemRoleImmutable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	level := 50
	_, err := svc.UpdateRole(ctx, role.SystemOwner, "t1", role.UpdateInput{Level: &level})
	assert.True(t, errors.Is(err, rbac.ErrSystemRoleImmutable))
}

func TestUpdateRole_RenameCollision(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	mustCreateRole(t, svc, "t1", "Cashier", role.LevelStaff, nil, "")
	r := mustCreateRole(t, svc, "t1", "Manager", role.LevelManager, nil, "")

	name := "Cashier"
	_, err := svc.UpdateRole(ctx, r.ID, "t1", role.UpdateInput{Name: &name})
	assert.True(t, errors.Is(err, rbac.ErrDuplicateRoleName))

	// Renaming to the role's own current name is not a collision.
	same := "Manager"
	_, err = svc.UpdateRole(ctx, r.ID, "t1", role.UpdateInput{Name: &same})
	assert.NoError(t, err)
}

func TestUpdateRole_InheritanceCycleRejected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	parent := mustCreateRole(t, svc, "t1", "Parent", 40, nil, "")
	child := mustCreateRole(t, svc, "t1", "Child", 30, nil, parent.ID)

	// Pointing the parent at its own descendant would close a cycle.
	_, err := svc.UpdateRole(ctx, parent.ID, "t1", role.UpdateInput{InheritsFrom: &child.ID})
	assert.True(t, errors.Is(err, rbac.ErrInheritanceCycle))
}

func TestUpdateRole_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	name := "Whatever"
	_, err := svc.UpdateRole(ctx, "missing", "t1", role.UpdateInput{Name: &name})
	assert.True(t, errors.Is(err, rbac.ErrRoleNotFound))
}

func TestDeleteRole(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	r := mustCreateRole(t, svc, "t1", "Cashier", role.LevelStaff, nil, "")
	require.NoError(t, svc.DeleteRole(ctx, r.ID, "t1"))

	// Soft delete: the record stays resolvable, flagged inactive.
	got, err := svc.GetRole(ctx, r.ID, "t1")
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	// And disappears from default listings.
	roles, err := svc.ListRoles(ctx, "t1", role.Query{CustomOnly: true})
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestDeleteRole_InUse(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)

	r := mustCreateRole(t, svc, "t1", "Cashier", role.LevelStaff, nil, "")
	seedMember(t, store, "u1", "t1", r.ID, nil)
	seedMember(t, store, "u2", "t1", r.ID, nil)

	err := svc.DeleteRole(ctx, r.ID, "t1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, rbac.ErrRoleInUse))

	var inUse rbac.RoleInUseError
	require.True(t, errors.As(err, &inUse))
	assert.Equal(t, 2, inUse.Count)

	// The usage count is tenant-scoped: a stray membership in another tenant
	// referencing the role id does not block deletion.
	r2 := mustCreateRole(t, svc, "t1", "Seasonal", role.LevelStaff, nil, "")
	seedMember(t, store, "u9", "t2", r2.ID, nil)
	assert.NoError(t, svc.DeleteRole(ctx, r2.ID, "t1"))
}

func TestDeleteRole_SystemRoleImmutable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	err := svc.DeleteRole(ctx, role.SystemMember, "t1")
	assert.True(t, errors.Is(err, rbac.ErrSystemRoleImmutable))
}

func TestCloneRole_FromSystemRole(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	clone, err := svc.CloneRole(ctx, role.SystemOwner, "Store Owner", "t1", "u-admin")
	require.NoError(t, err)

	// System levels are out of range for custom roles; the clone lands at
	// the Manager tier instead.
	assert.Equal(t, role.LevelManager, clone.Level)
	assert.True(t, clone.IsCustom)
	assert.False(t, clone.IsSystemRole)
	assert.Equal(t, "Cloned from Owner", clone.Description)

	// Permissions are copied verbatim.
	for _, k := range permission.Keys() {
		assert.True(t, clone.Permissions.Get(k), "expected %s granted", k)
	}
}

func TestCloneRole_FromCustomRole(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	parent := mustCreateRole(t, svc, "t1", "Manager", role.LevelManager, nil, "")
	source := mustCreateRole(t, svc, "t1", "Cashier", role.LevelStaff, permission.Set{
		permission.CanCreateOrders: true,
	}, parent.ID)

	clone, err := svc.CloneRole(ctx, source.ID, "Cashier Copy", "t1", "u-admin")
	require.NoError(t, err)

	assert.Equal(t, role.LevelStaff, clone.Level)
	assert.Equal(t, parent.ID, clone.InheritsFrom)
	assert.True(t, clone.Permissions.Get(permission.CanCreateOrders))

	// The clone goes through CreateRole, so name collisions apply.
	_, err = svc.CloneRole(ctx, source.ID, "Cashier", "t1", "u-admin")
	assert.True(t, errors.Is(err, rbac.ErrDuplicateRoleName))
}

func TestListRoles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	mustCreateRole(t, svc, "t1", "Admin", role.LevelAdmin, nil, "")
	mustCreateRole(t, svc, "t1", "Cashier", role.LevelStaff, nil, "")
	mustCreateRole(t, svc, "t2", "Other Tenant Role", role.LevelStaff, nil, "")

	roles, err := svc.ListRoles(ctx, "t1", role.Query{})
	require.NoError(t, err)

	// 3 system + 2 custom, never another tenant's roles.
	require.Len(t, roles, 5)
	for _, r := range roles {
		assert.True(t, r.BelongsTo("t1"))
	}

	// Sorted by level descending.
	for i := 1; i < len(roles); i++ {
		assert.GreaterOrEqual(t, roles[i-1].Level, roles[i].Level)
	}
}

func TestListRoles_Filters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	mustCreateRole(t, svc, "t1", "Admin", role.LevelAdmin, nil, "")
	mustCreateRole(t, svc, "t1", "Cashier", role.LevelStaff, nil, "")

	roles, err := svc.ListRoles(ctx, "t1", role.Query{CustomOnly: true})
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	roles, err = svc.ListRoles(ctx, "t1", role.Query{CustomOnly: true, MinLevel: 50})
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "Admin", roles[0].Name)

	roles, err = svc.ListRoles(ctx, "t1", role.Query{CustomOnly: true, MaxLevel: 40})
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "Cashier", roles[0].Name)

	// Case-insensitive substring search over name and description.
	roles, err = svc.ListRoles(ctx, "t1", role.Query{Search: "cash"})
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "Cashier", roles[0].Name)
}

func TestListRoles_IncludeInactive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	r := mustCreateRole(t, svc, "t1", "Retired", role.LevelStaff, nil, "")
	require.NoError(t, svc.DeleteRole(ctx, r.ID, "t1"))

	roles, err := svc.ListRoles(ctx, "t1", role.Query{CustomOnly: true})
	require.NoError(t, err)
	assert.Empty(t, roles)

	roles, err = svc.ListRoles(ctx, "t1", role.Query{CustomOnly: true, IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.False(t, roles[0].IsActive)
}

func TestListRoles_Pagination(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	for i := range 5 {
		mustCreateRole(t, svc, "t1", "Role "+string(rune('A'+i)), 10+i, nil, "")
	}

	page1, err := svc.ListRoles(ctx, "t1", role.Query{CustomOnly: true, Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page1, 2)

	page2, err := svc.ListRoles(ctx, "t1", role.Query{CustomOnly: true, Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.NotEqual(t, page1, page2)

	page3, err := svc.ListRoles(ctx, "t1", role.Query{CustomOnly: true, Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page3, 1)

	beyond, err := svc.ListRoles(ctx, "t1", role.Query{CustomOnly: true, Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestSeedSystemRoles_Idempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	first := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	second := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	current := first
	store := docstore.NewMemory()
	svc := rbac.New(store, rbac.WithClock(func() time.Time { return current }))

	require.NoError(t, svc.SeedSystemRoles(ctx))

	current = second
	require.NoError(t, svc.SeedSystemRoles(ctx))

	// Re-seeding refreshes the catalog definition but preserves createdAt.
	owner, err := svc.GetRole(ctx, role.SystemOwner, "")
	require.NoError(t, err)
	assert.True(t, owner.CreatedAt.Equal(first), "createdAt %s", owner.CreatedAt)
	assert.True(t, owner.UpdatedAt.Equal(second), "updatedAt %s", owner.UpdatedAt)
}

func TestRoleTemplates(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	templates := svc.RoleTemplates()
	require.Len(t, templates, 4)
	for key, tmpl := range templates {
		assert.NotEmpty(t, tmpl.Name, "template %s", key)
		assert.NoError(t, role.ValidateLevel(tmpl.Level))
	}
}

func TestUsersWithRole(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)

	r := mustCreateRole(t, svc, "t1", "Cashier", role.LevelStaff, nil, "")
	seedMember(t, store, "u1", "t1", r.ID, nil)
	seedMember(t, store, "u2", "t1", r.ID, nil)
	seedMember(t, store, "u3", "t1", role.SystemMember, nil)
	seedMember(t, store, "u4", "t2", r.ID, nil) // same role id, other tenant

	assignments, err := svc.UsersWithRole(ctx, r.ID, "t1")
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	for _, a := range assignments {
		assert.Equal(t, r.ID, a.Member.RoleID)
		assert.Equal(t, "t1", a.Member.TenantID)
		assert.NotEmpty(t, a.Email)
	}

	count, err := svc.CountUsersWithRole(ctx, r.ID, "t1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = svc.CountUsersWithRole(ctx, "missing", "t1")
	require.NoError(t, err)
	assert.Zero(t, count)
}
