package user

import (
	"time"
)

// RoleAdmin is the role claim value that grants back-office access.
const RoleAdmin = "admin"

// Profile mirrors the identity provider's user record.
// Its lifecycle is driven by webhook events, never by in-app mutation.
type Profile struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	Email     *string   `gorm:"type:text" json:"email"`
	FullName  *string   `gorm:"type:text" json:"full_name"`
	Phone     *string   `gorm:"type:text" json:"phone"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Profile entity.
func (Profile) TableName() string {
	return "profiles"
}

// Identity is the authenticated caller as asserted by a validated session token.
// A nil *Identity is an anonymous visitor.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Authenticated reports whether the identity belongs to a signed-in user.
func (i *Identity) Authenticated() bool {
	return i != nil && i.UserID != ""
}

// IsAdmin is the single authorization policy for back-office access.
// The access gate and every admin operation call it.
func IsAdmin(id *Identity) bool {
	return id.Authenticated() && id.Role == RoleAdmin
}
