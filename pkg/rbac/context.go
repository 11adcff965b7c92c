package rbac

import "context"

type contextKey int

const (
	userIDKey contextKey = iota
	tenantIDKey
	roleLevelKey
)

// WithUserID stores the authenticated user id in the context. The
// authenticating layer calls this before any of the middleware gates run.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext retrieves the authenticated user id from the context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithTenantID stores the resolved tenant id in the context.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// TenantIDFromContext retrieves the resolved tenant id from the context.
func TenantIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(tenantIDKey).(string)
	return id, ok && id != ""
}

// WithRoleLevel stores the caller's resolved role level in the context.
func WithRoleLevel(ctx context.Context, level int) context.Context {
	return context.WithValue(ctx, roleLevelKey, level)
}

// RoleLevelFromContext retrieves the caller's resolved role level.
func RoleLevelFromContext(ctx context.Context) (int, bool) {
	level, ok := ctx.Value(roleLevelKey).(int)
	return level, ok
}
