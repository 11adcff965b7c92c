package rbac

import (
	"errors"
	"fmt"
)

// Domain errors for role resolution and lifecycle operations.
// All are recoverable, caller-facing conditions; only document store
// connectivity failures propagate outside this taxonomy.
var (
	// ErrRoleNotFound is returned when a role does not exist in either scope.
	ErrRoleNotFound = errors.New("rbac.role_not_found")

	// ErrCrossTenantAccess is returned when a role exists but belongs to a
	// different tenant than the caller's context. Security-relevant: never
	// collapsed into ErrRoleNotFound so callers can audit the distinction.
	ErrCrossTenantAccess = errors.New("rbac.cross_tenant_access")

	// ErrSystemRoleImmutable is returned when a lifecycle operation targets
	// a system role.
	ErrSystemRoleImmutable = errors.New("rbac.system_role_immutable")

	// ErrDuplicateRoleName is returned when an active role with the same
	// name already exists in the tenant.
	ErrDuplicateRoleName = errors.New("rbac.duplicate_role_name")

	// ErrParentRoleNotFound is returned when inheritsFrom references a role
	// that cannot be resolved.
	ErrParentRoleNotFound = errors.New("rbac.parent_role_not_found")

	// ErrInheritanceCycle is returned when a role id repeats along an
	// inheritance chain.
	ErrInheritanceCycle = errors.New("rbac.inheritance_cycle")

	// ErrRoleInUse is returned when a role cannot be deleted because tenant
	// members still reference it. Carried by RoleInUseError.
	ErrRoleInUse = errors.New("rbac.role_in_use")

	// ErrMemberNotFound is returned when a user has no membership in the
	// given tenant.
	ErrMemberNotFound = errors.New("rbac.member_not_found")
)

// RoleInUseError reports a blocked delete together with the number of
// members still assigned to the role.
type RoleInUseError struct {
	Count int
}

func (e RoleInUseError) Error() string {
	return fmt.Sprintf("rbac.role_in_use: %d users still have this role, reassign them first", e.Count)
}

// Is makes errors.Is(err, ErrRoleInUse) match.
func (e RoleInUseError) Is(target error) bool {
	return target == ErrRoleInUse
}
