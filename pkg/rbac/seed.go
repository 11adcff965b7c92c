package rbac

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/rolekit/pkg/docstore"
	"github.com/dmitrymomot/rolekit/pkg/role"
)

// SeedSystemRoles upserts the three platform roles at bootstrap. Re-seeding
// is idempotent: an existing role keeps its original createdAt while the
// catalog definition (name, level, permissions) is refreshed. The cache is
// cleared afterwards.
func (s *Service) SeedSystemRoles(ctx context.Context) error {
	now := s.timestamp()

	for _, r := range role.DefaultSystemRoles() {
		var existing role.Role
		err := s.store.Get(ctx, CollectionSystemRoles, r.ID, &existing)
		switch {
		case err == nil:
			r.CreatedAt = existing.CreatedAt
		case errors.Is(err, docstore.ErrNotFound):
			r.CreatedAt = now
		default:
			return err
		}
		r.UpdatedAt = now

		if err := s.store.Set(ctx, CollectionSystemRoles, r.ID, r); err != nil {
			return err
		}
		s.log.InfoContext(ctx, "system role seeded",
			slog.String("role_id", r.ID),
			slog.Int("level", r.Level))
	}

	s.cache.Clear(ctx)
	return nil
}
