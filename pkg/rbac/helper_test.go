package rbac_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rolekit/pkg/docstore"
	"github.com/dmitrymomot/rolekit/pkg/permission"
	"github.com/dmitrymomot/rolekit/pkg/rbac"
	"github.com/dmitrymomot/rolekit/pkg/role"
	"github.com/dmitrymomot/rolekit/pkg/user"
)

// newTestService builds a Service over an in-memory store with the system
// roles seeded.
func newTestService(t *testing.T, opts ...rbac.Option) (*rbac.Service, docstore.Store) {
	t.Helper()

	store := docstore.NewMemory()
	svc := rbac.New(store, opts...)
	require.NoError(t, svc.SeedSystemRoles(context.Background()))
	return svc, store
}

// mustCreateRole creates a custom tenant role through the service, failing
// the test on error.
func mustCreateRole(t *testing.T, svc *rbac.Service, tenantID, name string, level int, perms permission.Set, inheritsFrom string) role.Role {
	t.Helper()

	r, err := svc.CreateRole(context.Background(), role.CreateInput{
		TenantID:     tenantID,
		Name:         name,
		Level:        level,
		Permissions:  perms,
		InheritsFrom: inheritsFrom,
	}, "tester")
	require.NoError(t, err)
	return r
}

// seedMember writes a user document with a membership in the given tenant,
// merging into the existing user record if one exists.
func seedMember(t *testing.T, store docstore.Store, userID, tenantID, roleID string, custom permission.Set) {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	var u user.User
	err := store.Get(ctx, rbac.CollectionUsers, userID, &u)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		u = user.User{
			ID:        userID,
			Email:     userID + "@example.com",
			Status:    user.StatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
	default:
		require.NoError(t, err)
	}

	u.AssignRole(user.Member{
		TenantID:          tenantID,
		UserID:            userID,
		RoleID:            roleID,
		CustomPermissions: custom,
		JoinedAt:          now,
		Status:            user.StatusActive,
	})
	require.NoError(t, store.Set(ctx, rbac.CollectionUsers, userID, u))
}
