package role

import (
	"time"

	"github.com/dmitrymomot/rolekit/pkg/permission"
)

// Role is a stored role record. The same shape serves both system and
// tenant roles; TenantID, IsSystemRole and IsCustom distinguish the scopes.
// Field names match the stored document fields.
type Role struct {
	ID           string         `bson:"_id" json:"id"`
	TenantID     string         `bson:"tenantId,omitempty" json:"tenantId,omitempty"`
	Name         string         `bson:"name" json:"name"`
	Description  string         `bson:"description,omitempty" json:"description,omitempty"`
	Level        int            `bson:"level" json:"level"`
	InheritsFrom string         `bson:"inheritsFrom,omitempty" json:"inheritsFrom,omitempty"`
	Permissions  permission.Set `bson:"permissions" json:"permissions"`
	IsSystemRole bool           `bson:"isSystemRole,omitempty" json:"isSystemRole,omitempty"`
	IsCustom     bool           `bson:"isCustom,omitempty" json:"isCustom,omitempty"`
	IsActive     bool           `bson:"isActive" json:"isActive"`
	CreatedBy    string         `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt    time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// BelongsTo reports whether the role is owned by the given tenant.
// System roles belong to every tenant.
func (r Role) BelongsTo(tenantID string) bool {
	return r.IsSystemRole || r.TenantID == tenantID
}
