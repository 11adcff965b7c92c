// Package role defines the role records, the static system role and
// template catalogs, and the validation rules for role inputs.
//
// Two kinds of roles share the same stored shape:
//
//   - System roles are platform-defined, immutable, and available to every
//     tenant (super_admin, owner, member). They live in the "system_roles"
//     collection and are seeded at bootstrap.
//   - Tenant roles are tenant-authored, mutable, and scoped to exactly one
//     tenant. They live in the "tenant_roles" collection.
//
// Levels are integer authority ranks; higher means more authority. Custom
// roles must stay within [1,89], system roles occupy [90,100], with one
// documented exception: the member system role is seeded at level 10 and is
// preserved as-is for compatibility with stored authority comparisons.
package role
