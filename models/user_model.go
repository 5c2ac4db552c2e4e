package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"size:50;not null" json:"name"`
	Username *string   `gorm:"size:30;uniqueIndex" json:"username,omitempty"`
	Email    *string   `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'User'" json:"role"`
	Active   bool      `gorm:"not null;default:false" json:"active"`

	// Derived on read; ownership lives on quizzes.user_id and membership on library_entries.
	Quizzes []uuid.UUID `gorm:"-" json:"quizzes"`
	Library []uuid.UUID `gorm:"-" json:"library"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
