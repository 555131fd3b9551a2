package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User represents an account in the system
type User struct {
	ID           uuid.UUID         `json:"id" gorm:"type:uuid;primary_key"`
	Name         string            `json:"name" gorm:"size:100;not null"`
	Email        string            `json:"email" gorm:"uniqueIndex:idx_user_email;not null"`
	PasswordHash string            `json:"-" gorm:"not null"`
	Preferences  datatypes.JSONMap `json:"preferences,omitempty" gorm:"type:jsonb"`
	IsActive     bool              `json:"is_active" gorm:"default:true"`
	LastLoginAt  *time.Time        `json:"last_login_at,omitempty"`
	CreatedAt    time.Time         `json:"created_at" gorm:"index:idx_user_created"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is called before creating a new user record
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Preferences == nil {
		u.Preferences = defaultPreferences()
	}
	return nil
}

// defaultPreferences seeds a new account's settings.
func defaultPreferences() datatypes.JSONMap {
	return datatypes.JSONMap{
		"theme":         "dark",
		"notifications": true,
	}
}

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateProfileInput carries a partial profile update. Preferences
// merge key-by-key into the existing map instead of replacing it.
type UpdateProfileInput struct {
	Name        string
	Preferences map[string]interface{}
}
