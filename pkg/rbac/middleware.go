package rbac

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/rolekit/pkg/permission"
)

// Middleware-level errors, mapped to HTTP statuses by the error handler.
var (
	// ErrUnauthenticated is returned when no user id is present in the
	// request context.
	ErrUnauthenticated = errors.New("rbac.unauthenticated")

	// ErrMissingTenant is returned when the tenant id cannot be extracted
	// from the request.
	ErrMissingTenant = errors.New("rbac.missing_tenant")

	// ErrInsufficientLevel is returned when the caller's role level is
	// below the required minimum.
	ErrInsufficientLevel = errors.New("rbac.insufficient_level")

	// ErrPermissionDenied is returned when the caller lacks the required
	// permission.
	ErrPermissionDenied = errors.New("rbac.permission_denied")
)

// ErrorHandler translates middleware failures into HTTP responses.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type middlewareConfig struct {
	tenantParam  string
	tenantHeader string
	errorHandler ErrorHandler
	log          *slog.Logger
}

// MiddlewareOption configures the authorization middleware.
type MiddlewareOption func(*middlewareConfig)

// WithTenantParam sets the query parameter carrying the tenant id.
// Defaults to "tenantId".
func WithTenantParam(name string) MiddlewareOption {
	return func(c *middlewareConfig) {
		if name != "" {
			c.tenantParam = name
		}
	}
}

// WithTenantHeader sets the fallback header carrying the tenant id.
// Defaults to "X-Tenant-ID".
func WithTenantHeader(name string) MiddlewareOption {
	return func(c *middlewareConfig) {
		if name != "" {
			c.tenantHeader = name
		}
	}
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(handler ErrorHandler) MiddlewareOption {
	return func(c *middlewareConfig) {
		if handler != nil {
			c.errorHandler = handler
		}
	}
}

// WithMiddlewareLogger sets the logger used for denied requests.
func WithMiddlewareLogger(log *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if log != nil {
			c.log = log
		}
	}
}

func newMiddlewareConfig(svc *Service, opts []MiddlewareOption) *middlewareConfig {
	cfg := &middlewareConfig{
		tenantParam:  "tenantId",
		tenantHeader: "X-Tenant-ID",
		errorHandler: defaultErrorHandler,
		log:          svc.log,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// RequireLevel gates a route behind a minimum role level in the request's
// tenant. The authenticated user id must already be in the context (see
// WithUserID); the tenant id is read from the query parameter or the
// fallback header. On success the tenant id and the caller's level are
// added to the context for downstream handlers.
func RequireLevel(svc *Service, minLevel int, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := newMiddlewareConfig(svc, opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				cfg.errorHandler(w, r, ErrUnauthenticated)
				return
			}

			tenantID := cfg.resolveTenant(r)
			if tenantID == "" {
				cfg.errorHandler(w, r, fmt.Errorf("%w: missing parameter %q", ErrMissingTenant, cfg.tenantParam))
				return
			}

			level, err := svc.UserRoleLevel(r.Context(), userID, tenantID)
			if err != nil {
				cfg.deny(w, r, userID, tenantID, err)
				return
			}
			if !HasLevel(level, minLevel) {
				cfg.deny(w, r, userID, tenantID,
					fmt.Errorf("%w: requires role level %d or higher", ErrInsufficientLevel, minLevel))
				return
			}

			ctx := WithTenantID(r.Context(), tenantID)
			ctx = WithRoleLevel(ctx, level)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission gates a route behind a specific permission in the
// request's tenant. Evaluation fails closed: missing membership,
// unresolvable role and unknown permission names all deny.
func RequirePermission(svc *Service, perm permission.Key, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := newMiddlewareConfig(svc, opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				cfg.errorHandler(w, r, ErrUnauthenticated)
				return
			}

			tenantID := cfg.resolveTenant(r)
			if tenantID == "" {
				cfg.errorHandler(w, r, fmt.Errorf("%w: missing parameter %q", ErrMissingTenant, cfg.tenantParam))
				return
			}

			if !svc.CanUserPerform(r.Context(), userID, tenantID, perm) {
				cfg.deny(w, r, userID, tenantID,
					fmt.Errorf("%w: requires %s", ErrPermissionDenied, perm))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithTenantID(r.Context(), tenantID)))
		})
	}
}

func (c *middlewareConfig) resolveTenant(r *http.Request) string {
	if v := r.URL.Query().Get(c.tenantParam); v != "" {
		return v
	}
	return r.Header.Get(c.tenantHeader)
}

func (c *middlewareConfig) deny(w http.ResponseWriter, r *http.Request, userID, tenantID string, err error) {
	c.log.DebugContext(r.Context(), "authorization denied",
		slog.String("user_id", userID),
		slog.String("tenant_id", tenantID),
		slog.String("reason", err.Error()))
	c.errorHandler(w, r, err)
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrMissingTenant):
		http.Error(w, "Missing tenant identifier", http.StatusBadRequest)
	case errors.Is(err, ErrMemberNotFound):
		http.Error(w, "User not found in tenant", http.StatusForbidden)
	case errors.Is(err, ErrInsufficientLevel), errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrCrossTenantAccess):
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
	case errors.Is(err, ErrRoleNotFound):
		http.Error(w, "Role not found", http.StatusNotFound)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
