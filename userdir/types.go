package userdir

import (
	"time"

	"github.com/mirra-dev/mirra"
)

// Role is a permission level granted to a user.
type Role string

// Roles.
const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// EnumVariants declares the closed set of roles.
func (Role) EnumVariants() []mirra.EnumVariant {
	return []mirra.EnumVariant{
		{Name: string(RoleAdmin)},
		{Name: string(RoleEditor)},
		{Name: string(RoleViewer)},
	}
}

// AccountStatus is the lifecycle state of a user account. Accounts are
// created as invited; transitions to active or suspended happen through
// administrative operations outside this package.
type AccountStatus string

// Account statuses.
const (
	StatusActive    AccountStatus = "active"
	StatusInvited   AccountStatus = "invited"
	StatusSuspended AccountStatus = "suspended"
)

// EnumVariants declares the closed set of account statuses.
func (AccountStatus) EnumVariants() []mirra.EnumVariant {
	return []mirra.EnumVariant{
		{Name: string(StatusActive)},
		{Name: string(StatusInvited)},
		{Name: string(StatusSuspended)},
	}
}

// Theme is a UI color scheme preference.
type Theme string

// Themes.
const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// EnumVariants declares the closed set of themes.
func (Theme) EnumVariants() []mirra.EnumVariant {
	return []mirra.EnumVariant{
		{Name: string(ThemeLight)},
		{Name: string(ThemeDark)},
		{Name: string(ThemeSystem)},
	}
}

// Preferences holds per-user settings.
type Preferences struct {
	Theme       Theme      `json:"theme"`
	Timezone    *string    `json:"timezone,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// User is a directory record. Owned exclusively by the Store and mutated
// only through its create operation.
type User struct {
	ID          uint64        `json:"id"`
	Username    string        `json:"username"`
	Email       string        `json:"email"`
	CreatedAt   time.Time     `json:"created_at"`
	Roles       []Role        `json:"roles,omitempty"`
	Status      AccountStatus `json:"status"`
	Active      bool          `json:"active"`
	Preferences *Preferences  `json:"preferences,omitempty"`
}

// HealthStatus is the health check response.
type HealthStatus struct {
	Status    string    `json:"status"`
	CheckedAt time.Time `json:"checked_at"`
	Region    *string   `json:"region,omitempty"`
}

// GetUserRequest selects a user by id.
type GetUserRequest struct {
	ID uint64 `json:"id" doc:"User id"`
}

// CreateUserRequest carries the fields for a new user. Roles defaults to
// {viewer} when empty.
type CreateUserRequest struct {
	Username string  `json:"username" doc:"Unique username (case-insensitive)"`
	Email    string  `json:"email" doc:"Email address"`
	Roles    []Role  `json:"roles,omitempty"`
	Timezone *string `json:"timezone,omitempty"`
}
