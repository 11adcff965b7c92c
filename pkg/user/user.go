package user

import (
	"time"

	"github.com/dmitrymomot/rolekit/pkg/permission"
)

// Status is the lifecycle state of a user account or tenant membership.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// Profile holds display information for a user.
type Profile struct {
	DisplayName string `bson:"displayName" json:"displayName"`
	PhotoURL    string `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	PhoneNumber string `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Bio         string `bson:"bio,omitempty" json:"bio,omitempty"`
}

// Member is a user's role assignment within a single tenant.
// CustomPermissions, when present, is a sparse override merged on top of
// the role's effective permissions (member overrides role).
type Member struct {
	TenantID          string         `bson:"tenantId" json:"tenantId"`
	UserID            string         `bson:"userId" json:"userId"`
	RoleID            string         `bson:"roleId" json:"roleId"`
	CustomPermissions permission.Set `bson:"customPermissions,omitempty" json:"customPermissions,omitempty"`
	JoinedAt          time.Time      `bson:"joinedAt" json:"joinedAt"`
	AssignedBy        string         `bson:"assignedBy,omitempty" json:"assignedBy,omitempty"`
	Status            Status         `bson:"status" json:"status"`
	ExpiresAt         *time.Time     `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
}

// User is the account aggregate. It embeds the full membership list; one
// Member record exists per (user, tenant) pair.
type User struct {
	ID            string     `bson:"_id" json:"id"`
	Email         string     `bson:"email" json:"email"`
	EmailVerified bool       `bson:"emailVerified" json:"emailVerified"`
	Profile       Profile    `bson:"profile" json:"profile"`
	Tenants       []Member   `bson:"tenants,omitempty" json:"tenants,omitempty"`
	Status        Status     `bson:"status" json:"status"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updatedAt"`
	LastLoginAt   *time.Time `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
}

// MemberOf returns the user's membership in the given tenant, if any.
func (u *User) MemberOf(tenantID string) (Member, bool) {
	for _, m := range u.Tenants {
		if m.TenantID == tenantID {
			return m, true
		}
	}
	return Member{}, false
}

// AssignRole adds or replaces the membership for the member's tenant.
// Used on invitation/join and on role change.
func (u *User) AssignRole(m Member) {
	for i, existing := range u.Tenants {
		if existing.TenantID == m.TenantID {
			u.Tenants[i] = m
			return
		}
	}
	u.Tenants = append(u.Tenants, m)
}

// RemoveMembership deletes the membership for the given tenant.
// Returns false if the user was not a member.
func (u *User) RemoveMembership(tenantID string) bool {
	for i, m := range u.Tenants {
		if m.TenantID == tenantID {
			u.Tenants = append(u.Tenants[:i], u.Tenants[i+1:]...)
			return true
		}
	}
	return false
}
