package rbac

import (
	"context"
	"errors"

	"github.com/dmitrymomot/rolekit/pkg/docstore"
	"github.com/dmitrymomot/rolekit/pkg/permission"
	"github.com/dmitrymomot/rolekit/pkg/user"
)

// GetUserRoleInTenant returns the user's role assignment in the given
// tenant. Fails with ErrMemberNotFound when the user does not exist or has
// no membership in the tenant.
func (s *Service) GetUserRoleInTenant(ctx context.Context, userID, tenantID string) (user.Member, error) {
	var u user.User
	if err := s.store.Get(ctx, CollectionUsers, userID, &u); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return user.Member{}, ErrMemberNotFound
		}
		return user.Member{}, err
	}

	member, ok := u.MemberOf(tenantID)
	if !ok {
		return user.Member{}, ErrMemberNotFound
	}
	return member, nil
}

// UserEffectivePermissions resolves the user's role permissions in the
// tenant and merges the membership's custom overrides on top (member
// overrides role, same rule as role inheritance).
func (s *Service) UserEffectivePermissions(ctx context.Context, userID, tenantID string) (permission.Set, error) {
	member, err := s.GetUserRoleInTenant(ctx, userID, tenantID)
	if err != nil {
		return nil, err
	}
	if member.RoleID == "" {
		return nil, ErrMemberNotFound
	}

	effective, err := s.EffectivePermissions(ctx, member.RoleID, tenantID)
	if err != nil {
		return nil, err
	}

	if len(member.CustomPermissions) > 0 {
		effective = permission.Merge(effective, member.CustomPermissions)
	}
	return effective, nil
}

// CanUserPerform reports whether the user holds the named permission in the
// tenant. Fails closed: no membership, unresolvable role, unknown
// permission name and infrastructure errors all deny.
func (s *Service) CanUserPerform(ctx context.Context, userID, tenantID string, perm permission.Key) bool {
	effective, err := s.UserEffectivePermissions(ctx, userID, tenantID)
	if err != nil {
		return false
	}
	return effective.Get(perm)
}

// UserRoleLevel returns the authority level of the user's resolved role in
// the tenant.
func (s *Service) UserRoleLevel(ctx context.Context, userID, tenantID string) (int, error) {
	member, err := s.GetUserRoleInTenant(ctx, userID, tenantID)
	if err != nil {
		return 0, err
	}
	if member.RoleID == "" {
		return 0, ErrMemberNotFound
	}

	r, err := s.GetRole(ctx, member.RoleID, tenantID)
	if err != nil {
		return 0, err
	}
	return r.Level, nil
}

// CanUserManageRole reports whether the user may manage (create, edit,
// delete, or administer holders of) a role at targetLevel. The sole
// authority rule: the acting user's level must strictly exceed the target.
// No level manages itself or anything above it.
func (s *Service) CanUserManageRole(ctx context.Context, userID, tenantID string, targetLevel int) bool {
	level, err := s.UserRoleLevel(ctx, userID, tenantID)
	if err != nil {
		return false
	}
	return level > targetLevel
}

// HasLevel reports whether userLevel meets requiredLevel.
// Used for gate checks where holding the level itself suffices.
func HasLevel(userLevel, requiredLevel int) bool {
	return userLevel >= requiredLevel
}
