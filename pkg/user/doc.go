// Package user defines the user aggregate and its tenant memberships.
//
// A user may belong to any number of tenants; each membership binds the
// user to exactly one role by id, optionally with per-user permission
// overrides that are merged on top of the role's effective permissions.
// The user document owns its membership list; memberships reference roles,
// they never embed them.
package user
