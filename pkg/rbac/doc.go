// Package rbac implements multi-tenant role-based access control: resolving
// the permissions a user holds within a tenant from a chain of role
// definitions that may inherit from one another, may be overridden per
// user, and are split between immutable platform-wide system roles and
// tenant-defined custom roles.
//
// The Service is the single entry point. Construct one per process and
// pass it explicitly to consumers:
//
//	store := docstore.NewMongo(db)
//	svc := rbac.New(store,
//	    rbac.WithLogger(log),
//	    rbac.WithCache(rbac.NewMemoryCache(1000)),
//	)
//	if err := svc.SeedSystemRoles(ctx); err != nil {
//	    // bootstrap failure
//	}
//
// Resolution walks the inheritsFrom chain ancestors-first; each
// descendant's explicit permissions override the inherited values, and a
// member's custom permissions are merged last. Authorization checks fail
// closed: an unresolvable role grants only the baseline view defaults, and
// every ambiguous state denies.
//
//	perms, err := svc.UserEffectivePermissions(ctx, userID, tenantID)
//	if svc.CanUserPerform(ctx, userID, tenantID, permission.CanCreateProducts) {
//	    // allowed
//	}
//
// Authority is level-based: managing a role requires a strictly greater
// level than the role being managed.
//
//	if svc.CanUserManageRole(ctx, userID, tenantID, target.Level) {
//	    // may create/edit/delete roles at target.Level
//	}
//
// HTTP routes are gated with the middleware, which expects the
// authenticating layer to have placed the user id in the request context:
//
//	mux.Handle("/api/roles", rbac.RequireLevel(svc, role.LevelAdmin)(handler))
//	mux.Handle("/api/products", rbac.RequirePermission(svc, permission.CanCreateProducts)(handler))
//
// Resolved roles are cached keyed by (roleID, tenant scope). Lifecycle
// operations invalidate the cache synchronously (wholesale on create, per
// role id on update and delete), so a read after a write always reflects
// the write within the process.
package rbac
