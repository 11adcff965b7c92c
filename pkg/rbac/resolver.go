package rbac

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/rolekit/pkg/docstore"
	"github.com/dmitrymomot/rolekit/pkg/permission"
	"github.com/dmitrymomot/rolekit/pkg/role"
)

// GetRole looks a role up by id, checking system roles first and tenant
// roles second. Pass an empty tenantID to restrict the lookup to system
// roles. A tenant role owned by a different tenant fails with
// ErrCrossTenantAccess, never with ErrRoleNotFound.
func (s *Service) GetRole(ctx context.Context, roleID, tenantID string) (role.Role, error) {
	key := cacheKey(roleID, tenantID)
	if cached, ok := s.cache.Get(ctx, key); ok {
		return cached, nil
	}

	var r role.Role
	err := s.store.Get(ctx, CollectionSystemRoles, roleID, &r)
	switch {
	case err == nil:
		s.cache.Set(ctx, key, r)
		return r, nil
	case !errors.Is(err, docstore.ErrNotFound):
		return role.Role{}, err
	}

	if tenantID == "" {
		return role.Role{}, ErrRoleNotFound
	}

	err = s.store.Get(ctx, CollectionTenantRoles, roleID, &r)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return role.Role{}, ErrRoleNotFound
	case err != nil:
		return role.Role{}, err
	}

	if r.TenantID != tenantID {
		s.log.WarnContext(ctx, "cross-tenant role access rejected",
			slog.String("role_id", roleID),
			slog.String("requested_tenant", tenantID),
			slog.String("owning_tenant", r.TenantID))
		return role.Role{}, fmt.Errorf("%w: role %q does not belong to tenant %q",
			ErrCrossTenantAccess, roleID, tenantID)
	}

	s.cache.Set(ctx, key, r)
	return r, nil
}

// EffectivePermissions resolves a role's permissions including everything
// inherited along its inheritsFrom chain. Ancestors are merged first; each
// descendant's explicit entries override the inherited values, and the
// chain root merges over the static defaults.
//
// An unresolvable role yields permission.Default(), the fail-safe-closed
// baseline, deliberately not an error. A repeated role id in the chain
// fails with ErrInheritanceCycle.
func (s *Service) EffectivePermissions(ctx context.Context, roleID, tenantID string) (permission.Set, error) {
	// Collect the chain child-first, guarding against cycles.
	var chain []role.Role
	visited := make(map[string]bool)

	current := roleID
	for current != "" {
		if visited[current] {
			return nil, fmt.Errorf("%w: role %q repeats in inheritance chain", ErrInheritanceCycle, current)
		}
		visited[current] = true

		r, err := s.GetRole(ctx, current, tenantID)
		if errors.Is(err, ErrRoleNotFound) {
			// Dangling reference (or unknown root): grant only the baseline
			// defaults for the missing part of the chain.
			break
		}
		if err != nil {
			return nil, err
		}

		chain = append(chain, r)
		current = r.InheritsFrom
	}

	// Merge ancestors first, descendants override.
	effective := permission.Default()
	for i := len(chain) - 1; i >= 0; i-- {
		effective = permission.Merge(effective, chain[i].Permissions)
	}
	return effective, nil
}

// CheckPermission reports whether a role grants the named permission.
// Unknown permission names evaluate to false; resolution failures deny.
func (s *Service) CheckPermission(ctx context.Context, roleID string, perm permission.Key, tenantID string) bool {
	effective, err := s.EffectivePermissions(ctx, roleID, tenantID)
	if err != nil {
		return false
	}
	return effective.Get(perm)
}
