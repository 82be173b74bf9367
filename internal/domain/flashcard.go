package domain

import (
	"time"

	"github.com/google/uuid"
)

// FlashcardSource tags how a flashcard came into existence.
type FlashcardSource string

const (
	// SourceManual marks a flashcard authored by the user.
	SourceManual FlashcardSource = "manual"
	// SourceAIGenerated marks a flashcard accepted from an AI generation session.
	SourceAIGenerated FlashcardSource = "ai_generated"
)

// IsValid reports whether the source is one of the known values.
func (s FlashcardSource) IsValid() bool {
	return s == SourceManual || s == SourceAIGenerated
}

func (s FlashcardSource) String() string { return string(s) }

// Flashcard represents a persisted flashcard.
// GenerationID is non-nil if and only if Source is SourceAIGenerated.
type Flashcard struct {
	ID           int64
	UserID       uuid.UUID
	Front        string
	Back         string
	Source       FlashcardSource
	GenerationID *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewFlashcard holds the fields of one flashcard to persist.
// GenerationID must be set iff Source is SourceAIGenerated.
type NewFlashcard struct {
	Front        string
	Back         string
	Source       FlashcardSource
	GenerationID *int64
}

// Generation represents an AI generation session owned by a user.
// Flashcards accepted from a session reference it by ID.
type Generation struct {
	ID                    int64
	UserID                uuid.UUID
	Model                 string
	GeneratedCount        int
	AcceptedUneditedCount int
	AcceptedEditedCount   int
	SourceTextHash        string
	SourceTextLength      int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// GenerationCounter selects which acceptance counter of a generation to bump.
type GenerationCounter string

const (
	CounterEdited   GenerationCounter = "edited"
	CounterUnedited GenerationCounter = "unedited"
)

// CounterFor classifies an accepted AI flashcard by whether the user edited
// the suggestion before saving it.
func CounterFor(wasEdited bool) GenerationCounter {
	if wasEdited {
		return CounterEdited
	}
	return CounterUnedited
}

// CreationSummary aggregates the outcome of a batch flashcard creation.
// Counts are tallied from the input batch, not re-derived from the store.
type CreationSummary struct {
	TotalCreated     int `json:"totalCreated"`
	ManualCount      int `json:"manualCount"`
	AIGeneratedCount int `json:"aiGeneratedCount"`
}
