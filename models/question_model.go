package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Question struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID        uuid.UUID                   `gorm:"type:uuid;not null;index" json:"quizId"`
	Quiz          *Quiz                       `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
	Position      int                         `gorm:"not null" json:"-"`
	Question      string                      `gorm:"type:text;not null" json:"question"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	CorrectOption int                         `gorm:"not null" json:"correctOption"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// Valid reports whether the question has at least two options and a correct option inside them.
func (q *Question) Valid() bool {
	return len(q.Options) >= 2 && q.CorrectOption >= 0 && q.CorrectOption < len(q.Options)
}
