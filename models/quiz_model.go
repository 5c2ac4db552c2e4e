package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

type Quiz struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Time        float64    `gorm:"not null" json:"time"`
	Visibility  string     `gorm:"size:10;not null;default:'private';index" json:"visibility"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Questions   []Question `gorm:"foreignKey:QuizID" json:"questions"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

func (q *Quiz) IsPublic() bool {
	return q.Visibility == VisibilityPublic
}

func (q *Quiz) OwnedBy(userID uuid.UUID) bool {
	return q.UserID == userID
}

func ValidVisibility(v string) bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// OrderedQuestions keeps preloaded questions in their stored order.
func OrderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("questions.position ASC")
}
