package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Unanswered marks a question the submission did not provide an answer for.
const Unanswered = -1

type Score struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID         uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_scores_quiz_user" json:"quizId"`
	UserID         uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_scores_quiz_user;index" json:"userId"`
	Score          float64       `gorm:"not null" json:"score"`
	TotalQuestions int           `gorm:"not null" json:"totalQuestions"`
	CorrectAnswers int           `gorm:"not null" json:"correctAnswers"`
	Answers        []ScoreAnswer `gorm:"foreignKey:ScoreID" json:"answers"`

	Quiz *Quiz `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Score) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
