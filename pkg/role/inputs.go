package role

import (
	"fmt"
	"unicode/utf8"

	"github.com/dmitrymomot/rolekit/pkg/permission"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 500
)

// CreateInput carries the fields for creating a custom tenant role.
type CreateInput struct {
	TenantID     string         `json:"tenantId"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	Level        int            `json:"level"`
	InheritsFrom string         `json:"inheritsFrom,omitempty"`
	Permissions  permission.Set `json:"permissions"`
}

// Validate checks the input shape: name length, description length, custom
// level range and permission keys.
func (in CreateInput) Validate() error {
	if err := validateName(in.Name); err != nil {
		return err
	}
	if err := validateDescription(in.Description); err != nil {
		return err
	}
	if err := ValidateLevel(in.Level); err != nil {
		return err
	}
	return in.Permissions.Validate()
}

// UpdateInput carries a partial update for a custom tenant role.
// Nil pointer fields are left untouched.
type UpdateInput struct {
	Name         *string        `json:"name,omitempty"`
	Description  *string        `json:"description,omitempty"`
	Level        *int           `json:"level,omitempty"`
	InheritsFrom *string        `json:"inheritsFrom,omitempty"`
	Permissions  permission.Set `json:"permissions,omitempty"`
	IsActive     *bool          `json:"isActive,omitempty"`
}

// Validate checks every present field against the same rules CreateInput uses.
func (in UpdateInput) Validate() error {
	if in.Name != nil {
		if err := validateName(*in.Name); err != nil {
			return err
		}
	}
	if in.Description != nil {
		if err := validateDescription(*in.Description); err != nil {
			return err
		}
	}
	if in.Level != nil {
		if err := ValidateLevel(*in.Level); err != nil {
			return err
		}
	}
	return in.Permissions.Validate()
}

// IsEmpty reports whether the update carries no changes.
func (in UpdateInput) IsEmpty() bool {
	return in.Name == nil &&
		in.Description == nil &&
		in.Level == nil &&
		in.InheritsFrom == nil &&
		in.Permissions == nil &&
		in.IsActive == nil
}

// Query filters role listings. The zero value lists all active roles of a
// tenant, system roles included, sorted by level descending.
type Query struct {
	// CustomOnly excludes system roles from the listing.
	CustomOnly bool
	// IncludeInactive includes soft-deleted roles. Excluded by default.
	IncludeInactive bool
	// MinLevel and MaxLevel bound the listed levels when non-zero.
	MinLevel int
	MaxLevel int
	// Search matches case-insensitively against name and description.
	Search string
	// Page is 1-based; Limit defaults to 20 and is capped at 100.
	Page  int
	Limit int
}

// ValidateLevel fails unless the level is a valid custom role level.
func ValidateLevel(level int) error {
	if level < LevelMin || level > LevelMax {
		return fmt.Errorf("%w: custom role level must be between %d and %d, got %d",
			ErrInvalidLevel, LevelMin, LevelMax, level)
	}
	return nil
}

func validateName(name string) error {
	if n := utf8.RuneCountInString(name); n < 1 || n > maxNameLength {
		return fmt.Errorf("%w: name must be between 1 and %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return fmt.Errorf("%w: description must not exceed %d characters", ErrInvalidDescription, maxDescriptionLength)
	}
	return nil
}
