package rbac

import (
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/rolekit/pkg/docstore"
)

// Collections used by the service.
const (
	CollectionSystemRoles = "system_roles"
	CollectionTenantRoles = "tenant_roles"
	CollectionUsers       = "users"
)

// Service resolves roles and permissions and manages the custom role
// lifecycle. Construct one per process with New and pass it explicitly to
// consumers; the service holds no global state beyond its cache.
type Service struct {
	store docstore.Store
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCache sets a custom role cache implementation.
// Defaults to a bounded in-memory LRU.
func WithCache(cache Cache) Option {
	return func(s *Service) {
		if cache != nil {
			s.cache = cache
		}
	}
}

// WithLogger sets the structured logger used for diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source. Test seam.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Service over the given document store.
func New(store docstore.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		cache: NewMemoryCache(DefaultCacheSize),
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp returns the current time truncated to millisecond precision,
// matching the granularity the document store preserves.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}
