package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScoreAnswer struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	ScoreID        uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position       int       `gorm:"not null" json:"-"`
	QuestionID     uuid.UUID `gorm:"type:uuid;not null" json:"questionId"`
	SelectedOption int       `gorm:"not null" json:"selectedOption"`
	IsCorrect      bool      `gorm:"not null" json:"isCorrect"`

	Question *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}

func (a *ScoreAnswer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func OrderedAnswers(db *gorm.DB) *gorm.DB {
	return db.Order("score_answers.position ASC")
}
