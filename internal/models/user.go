package models

import (
	"time"

	"gorm.io/gorm"
)

// User records are owned by the auth service; the settlement subsystem only
// reads identity, display names and roles from them.
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	FullName  string         `gorm:"not null" json:"full_name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone     string         `json:"phone"`
	Role      string         `gorm:"default:'worker'" json:"role"` // 'worker' or 'employer'
	Avatar    string         `gorm:"type:text" json:"avatar,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate hook to set default role
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = "worker"
	}
	return nil
}
