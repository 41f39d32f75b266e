package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Capabilities a user can be granted.
const (
	CanMarkReturned = "catalog.can_mark_returned"
	CanEditCatalog  = "catalog.can_edit_catalog"
)

// KnownCapabilities is the set accepted by grant operations.
var KnownCapabilities = []string{CanMarkReturned, CanEditCatalog}

type User struct {
	ID        string     `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string     `gorm:"uniqueIndex;not null" json:"username"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`

	Permissions []Permission `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"permissions,omitempty"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}

// Capabilities returns the codenames granted to the user.
func (user User) Capabilities() []string {
	caps := make([]string, 0, len(user.Permissions))
	for _, p := range user.Permissions {
		caps = append(caps, p.Codename)
	}
	return caps
}

// Permission grants one capability codename to one user.
type Permission struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   string `gorm:"type:uuid;not null;uniqueIndex:idx_user_permission,priority:1" json:"user_id"`
	Codename string `gorm:"size:100;not null;uniqueIndex:idx_user_permission,priority:2" json:"codename"`
}

func (Permission) TableName() string {
	return "user_permissions"
}

// IsKnownCapability reports whether codename is one of KnownCapabilities.
func IsKnownCapability(codename string) bool {
	for _, c := range KnownCapabilities {
		if c == codename {
			return true
		}
	}
	return false
}
