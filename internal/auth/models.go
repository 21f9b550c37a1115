package auth

import (
	"database/sql"
	"time"
)

// Role represents user permission levels
type Role string

const (
	RoleResident Role = "resident"
	RoleAdmin    Role = "admin"
)

// Status represents user account status
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Theme represents the display theme preference
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether the theme is one of the two supported values.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Provider represents OAuth providers
type Provider string

const (
	ProviderGoogle Provider = "google"
)

// User represents a hostel resident account with its mess profile
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	RoomNo    string    `json:"roomNo"`
	RegNo     string    `json:"regNo"`
	Phone     *string   `json:"phone,omitempty"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
	Theme     Theme     `json:"theme"`
	Role      Role      `json:"role"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// OAuthIdentity links a user to an OAuth provider
type OAuthIdentity struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	Provider     Provider  `json:"provider"`
	ProviderID   string    `json:"providerId"`
	AccessToken  *string   `json:"-"` // Never expose in JSON
	RefreshToken *string   `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"createdAt"`
}

// Session represents a server-side user session
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// OAuthState represents a CSRF protection state
type OAuthState struct {
	State     string    `json:"state"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ServiceToken represents a long-lived token for kitchen automation
type ServiceToken struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"userId"`
	TokenHash  string     `json:"-"` // Never expose
	Label      string     `json:"label"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	RevokedAt  *time.Time `json:"revokedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	AllowedIPs []string   `json:"allowedIps,omitempty"`
}

// ServiceTokenWithRaw includes the raw token value (only returned on creation)
type ServiceTokenWithRaw struct {
	ServiceToken
	RawToken string `json:"token"`
}

// RegisterRequest represents the request body for account registration
type RegisterRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	RoomNo   string  `json:"roomNo" binding:"required"`
	RegNo    string  `json:"regNo" binding:"required"`
	Phone    *string `json:"phone"`
}

// LoginRequest represents the request body for credential sign-in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ProfileUpdateRequest represents the request body for partial profile updates
type ProfileUpdateRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatarUrl"`
	Theme     *Theme  `json:"theme"`
}

// UserUpdateRequest represents the admin request body for updating a user
type UserUpdateRequest struct {
	Role   *Role   `json:"role"`
	Status *Status `json:"status"`
	RoomNo *string `json:"roomNo"`
}

// TokenCreateRequest represents the request body for creating a service token
type TokenCreateRequest struct {
	Label      string     `json:"label" binding:"required"`
	AllowedIPs []string   `json:"allowedIps"`
	ExpiresAt  *time.Time `json:"expiresAt"`
}

// ValidatedToken holds the result of service token validation
type ValidatedToken struct {
	Token      *ServiceToken
	User       *User
	AllowedIPs []string
}

// NullableString helper for scanning nullable string
func ScanNullableString(n sql.NullString) *string {
	if n.Valid {
		return &n.String
	}
	return nil
}

// NullableTime helper for scanning nullable time
func ScanNullableTime(n sql.NullTime) *time.Time {
	if n.Valid {
		return &n.Time
	}
	return nil
}
