package flashcard

import (
	"fmt"

	"github.com/tenxcards/flashcards-backend/internal/domain"
)

const maxSideLength = 500

// CardInput is one item of a batch creation request. The set of required
// fields depends on Source: manual cards carry only front/back, AI-generated
// cards additionally carry GenerationID and WasEdited.
type CardInput struct {
	Front        string
	Back         string
	Source       domain.FlashcardSource
	GenerationID *int64
	WasEdited    *bool
}

// CreateInput holds parameters for the batch create operation.
type CreateInput struct {
	Flashcards []CardInput
}

// Validate validates the batch as a whole and every item against the rules of
// its source. Field names are indexed so clients can attribute errors to
// individual items.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if len(i.Flashcards) == 0 {
		errs = append(errs, domain.FieldError{Field: "flashcards", Message: "at least one flashcard is required"})
	}

	for idx, card := range i.Flashcards {
		errs = append(errs, card.validate(idx)...)
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (c CardInput) validate(idx int) []domain.FieldError {
	var errs []domain.FieldError

	field := func(name string) string {
		return fmt.Sprintf("flashcards[%d].%s", idx, name)
	}

	if c.Front == "" {
		errs = append(errs, domain.FieldError{Field: field("front"), Message: "required"})
	} else if len(c.Front) > maxSideLength {
		errs = append(errs, domain.FieldError{Field: field("front"), Message: "must be at most 500 characters"})
	}

	if c.Back == "" {
		errs = append(errs, domain.FieldError{Field: field("back"), Message: "required"})
	} else if len(c.Back) > maxSideLength {
		errs = append(errs, domain.FieldError{Field: field("back"), Message: "must be at most 500 characters"})
	}

	switch c.Source {
	case domain.SourceManual:
		if c.GenerationID != nil {
			errs = append(errs, domain.FieldError{Field: field("generationId"), Message: "must not be set for manual source"})
		}
		if c.WasEdited != nil {
			errs = append(errs, domain.FieldError{Field: field("wasEdited"), Message: "must not be set for manual source"})
		}
	case domain.SourceAIGenerated:
		if c.GenerationID == nil {
			errs = append(errs, domain.FieldError{Field: field("generationId"), Message: "required"})
		} else if *c.GenerationID <= 0 {
			errs = append(errs, domain.FieldError{Field: field("generationId"), Message: "must be a positive integer"})
		}
		if c.WasEdited == nil {
			errs = append(errs, domain.FieldError{Field: field("wasEdited"), Message: "required"})
		}
	default:
		errs = append(errs, domain.FieldError{Field: field("source"), Message: "must be one of: manual, ai_generated"})
	}

	return errs
}
