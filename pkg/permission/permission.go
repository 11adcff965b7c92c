package permission

import "fmt"

// Key identifies a single boolean capability.
type Key string

// The fixed permission key set. Wire names are camelCase to match the
// stored document fields.
const (
	// Products
	CanCreateProducts Key = "canCreateProducts"
	CanEditProducts   Key = "canEditProducts"
	CanDeleteProducts Key = "canDeleteProducts"
	CanViewProducts   Key = "canViewProducts"

	// Orders/Sales
	CanCreateOrders Key = "canCreateOrders"
	CanEditOrders   Key = "canEditOrders"
	CanDeleteOrders Key = "canDeleteOrders"
	CanViewOrders   Key = "canViewOrders"
	CanRefundOrders Key = "canRefundOrders"

	// Customers
	CanManageCustomers Key = "canManageCustomers"
	CanViewCustomers   Key = "canViewCustomers"

	// Inventory
	CanManageInventory Key = "canManageInventory"
	CanViewInventory   Key = "canViewInventory"

	// Reports
	CanViewReports   Key = "canViewReports"
	CanExportReports Key = "canExportReports"

	// Settings
	CanManageSettings Key = "canManageSettings"
	CanManageUsers    Key = "canManageUsers"
	CanManagePayments Key = "canManagePayments"
)

// defaults holds the static default value for every known key.
// Baseline view permissions default to true, everything else to false.
var defaults = map[Key]bool{
	CanCreateProducts:  false,
	CanEditProducts:    false,
	CanDeleteProducts:  false,
	CanViewProducts:    true,
	CanCreateOrders:    false,
	CanEditOrders:      false,
	CanDeleteOrders:    false,
	CanViewOrders:      true,
	CanRefundOrders:    false,
	CanManageCustomers: false,
	CanViewCustomers:   true,
	CanManageInventory: false,
	CanViewInventory:   true,
	CanViewReports:     false,
	CanExportReports:   false,
	CanManageSettings:  false,
	CanManageUsers:     false,
	CanManagePayments:  false,
}

// Set is a sparse mapping of permission keys to booleans.
// Keys absent from a Set fall back to the static defaults.
type Set map[Key]bool

// Keys returns all known permission keys.
func Keys() []Key {
	keys := make([]Key, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	return keys
}

// IsKnown reports whether k belongs to the fixed permission key set.
func IsKnown(k Key) bool {
	_, ok := defaults[k]
	return ok
}

// Default returns the fully materialized static defaults.
// Used as the fail-safe result when a role cannot be resolved: baseline
// view-only access, never elevated access.
func Default() Set {
	s := make(Set, len(defaults))
	for k, v := range defaults {
		s[k] = v
	}
	return s
}

// AllGranted returns a Set with every known permission enabled.
func AllGranted() Set {
	s := make(Set, len(defaults))
	for k := range defaults {
		s[k] = true
	}
	return s
}

// Merge combines base with override. Every key present in override replaces
// the corresponding entry in base; keys absent from override retain base's
// value. Neither input is modified.
func Merge(base, override Set) Set {
	merged := base.Clone()
	if merged == nil {
		merged = make(Set, len(override))
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}

// Clone returns a copy of the set. A nil set clones to nil.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	c := make(Set, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Get returns the effective value for a key: the explicit entry if present,
// the static default otherwise. Unknown keys evaluate to false.
func (s Set) Get(k Key) bool {
	if v, ok := s[k]; ok {
		return v
	}
	return defaults[k]
}

// Validate rejects sets containing keys outside the fixed permission set.
func (s Set) Validate() error {
	for k := range s {
		if !IsKnown(k) {
			return fmt.Errorf("%w: %q", ErrUnknownPermission, string(k))
		}
	}
	return nil
}
