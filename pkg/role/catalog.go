package role

import "github.com/dmitrymomot/rolekit/pkg/permission"

// System role ids.
const (
	SystemSuperAdmin = "super_admin"
	SystemOwner      = "owner"
	SystemMember     = "member"
)

// Authority level tiers. Higher values denote greater authority. Custom
// roles occupy [LevelMin, LevelMax]; system roles occupy 90-100.
const (
	LevelSuperAdmin = 100
	LevelOwner      = 90
	LevelAdmin      = 70
	LevelManager    = 50
	LevelStaff      = 30
	LevelViewer     = 10

	// LevelMin and LevelMax bound custom tenant role levels.
	LevelMin = 1
	LevelMax = 89
)

// IsSystemLevel reports whether a level falls in the documented system role
// range. Note the member system role is seeded at LevelViewer (10), below
// this range; callers comparing authority must use the stored level, not
// the range classification.
func IsSystemLevel(level int) bool {
	return level >= 90 && level <= 100
}

// DefaultSystemRoles returns the three platform role records used for
// seeding. Timestamps are assigned by the seeder.
func DefaultSystemRoles() []Role {
	return []Role{
		{
			ID:           SystemSuperAdmin,
			Name:         "Super Admin",
			Description:  "Platform administrator with full access to all tenants and system settings",
			Level:        LevelSuperAdmin,
			Permissions:  permission.AllGranted(),
			IsSystemRole: true,
			IsActive:     true,
		},
		{
			ID:           SystemOwner,
			Name:         "Owner",
			Description:  "Tenant owner with full access to all tenant features and settings",
			Level:        LevelOwner,
			Permissions:  permission.AllGranted(),
			IsSystemRole: true,
			IsActive:     true,
		},
		{
			// Seeded at level 10, outside the documented system range.
			// Preserved for compatibility: authority comparisons depend on
			// the stored value.
			ID:           SystemMember,
			Name:         "Member",
			Description:  "Basic tenant member with view-only access",
			Level:        LevelViewer,
			Permissions:  permission.Default(),
			IsSystemRole: true,
			IsActive:     true,
		},
	}
}

// Template is a named starting configuration for a custom role.
type Template struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Level       int            `json:"level"`
	Permissions permission.Set `json:"permissions"`
}

// Templates returns the predefined custom role starting points, keyed by
// template id.
func Templates() map[string]Template {
	return map[string]Template{
		"ADMIN": {
			Name:        "Admin",
			Description: "Administrator with most permissions except ownership transfer",
			Level:       LevelAdmin,
			Permissions: permission.Set{
				permission.CanCreateProducts:  true,
				permission.CanEditProducts:    true,
				permission.CanDeleteProducts:  true,
				permission.CanViewProducts:    true,
				permission.CanCreateOrders:    true,
				permission.CanEditOrders:      true,
				permission.CanDeleteOrders:    true,
				permission.CanViewOrders:      true,
				permission.CanRefundOrders:    true,
				permission.CanManageCustomers: true,
				permission.CanViewCustomers:   true,
				permission.CanManageInventory: true,
				permission.CanViewInventory:   true,
				permission.CanViewReports:     true,
				permission.CanExportReports:   true,
				permission.CanManageUsers:     true,
			},
		},
		"MANAGER": {
			Name:        "Manager",
			Description: "Store manager with product and order management permissions",
			Level:       LevelManager,
			Permissions: permission.Set{
				permission.CanCreateProducts:  true,
				permission.CanEditProducts:    true,
				permission.CanViewProducts:    true,
				permission.CanCreateOrders:    true,
				permission.CanEditOrders:      true,
				permission.CanViewOrders:      true,
				permission.CanManageCustomers: true,
				permission.CanViewCustomers:   true,
				permission.CanManageInventory: true,
				permission.CanViewInventory:   true,
				permission.CanViewReports:     true,
			},
		},
		"CASHIER": {
			Name:        "Cashier",
			Description: "Cashier with order creation and basic customer management",
			Level:       LevelStaff,
			Permissions: permission.Set{
				permission.CanViewProducts:    true,
				permission.CanCreateOrders:    true,
				permission.CanEditOrders:      true,
				permission.CanViewOrders:      true,
				permission.CanManageCustomers: true,
				permission.CanViewCustomers:   true,
			},
		},
		"INVENTORY_MANAGER": {
			Name:        "Inventory Manager",
			Description: "Specialized role for inventory and product management",
			Level:       LevelStaff,
			Permissions: permission.Set{
				permission.CanCreateProducts:  true,
				permission.CanEditProducts:    true,
				permission.CanViewProducts:    true,
				permission.CanManageInventory: true,
				permission.CanViewInventory:   true,
				permission.CanViewReports:     true,
			},
		},
	}
}
