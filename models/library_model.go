package models

import (
	"time"

	"github.com/google/uuid"
)

// LibraryEntry grants a user access to take a quiz. The composite key gives set semantics.
type LibraryEntry struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	QuizID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time
}
