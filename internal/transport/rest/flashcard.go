package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tenxcards/flashcards-backend/internal/domain"
	"github.com/tenxcards/flashcards-backend/internal/service/flashcard"
	"github.com/tenxcards/flashcards-backend/pkg/ctxutil"
)

// flashcardService defines the minimal interface needed by FlashcardHandler.
type flashcardService interface {
	Create(ctx context.Context, input flashcard.CreateInput) (*flashcard.CreateResult, error)
	List(ctx context.Context) ([]domain.Flashcard, error)
}

// FlashcardHandler serves flashcard REST endpoints.
type FlashcardHandler struct {
	svc flashcardService
	log *slog.Logger
}

// NewFlashcardHandler creates a FlashcardHandler.
func NewFlashcardHandler(svc flashcardService, logger *slog.Logger) *FlashcardHandler {
	return &FlashcardHandler{svc: svc, log: logger.With("handler", "flashcard")}
}

type cardPayload struct {
	Front        string `json:"front"`
	Back         string `json:"back"`
	Source       string `json:"source"`
	GenerationID *int64 `json:"generationId,omitempty"`
	WasEdited    *bool  `json:"wasEdited,omitempty"`
}

type createFlashcardsRequest struct {
	Flashcards []cardPayload `json:"flashcards"`
}

type flashcardRecord struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id"`
	Front        string    `json:"front"`
	Back         string    `json:"back"`
	Source       string    `json:"source"`
	GenerationID *int64    `json:"generation_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type createFlashcardsResponse struct {
	Data    []flashcardRecord      `json:"data"`
	Summary domain.CreationSummary `json:"summary"`
}

// Create handles POST /flashcards.
func (h *FlashcardHandler) Create(w http.ResponseWriter, r *http.Request) {
	// Authorization is checked before the body is even parsed.
	if _, ok := ctxutil.UserIDFromCtx(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	var req createFlashcardsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format.")
		return
	}

	input := flashcard.CreateInput{Flashcards: make([]flashcard.CardInput, 0, len(req.Flashcards))}
	for _, card := range req.Flashcards {
		input.Flashcards = append(input.Flashcards, flashcard.CardInput{
			Front:        card.Front,
			Back:         card.Back,
			Source:       domain.FlashcardSource(card.Source),
			GenerationID: card.GenerationID,
			WasEdited:    card.WasEdited,
		})
	}

	result, err := h.svc.Create(r.Context(), input)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	records := make([]flashcardRecord, 0, len(result.Data))
	for _, c := range result.Data {
		records = append(records, toFlashcardRecord(c))
	}

	writeJSON(w, http.StatusCreated, createFlashcardsResponse{
		Data:    records,
		Summary: result.Summary,
	})
}

// List handles GET /flashcards.
func (h *FlashcardHandler) List(w http.ResponseWriter, r *http.Request) {
	cards, err := h.svc.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	records := make([]flashcardRecord, 0, len(cards))
	for _, c := range cards {
		records = append(records, toFlashcardRecord(c))
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": records})
}

func (h *FlashcardHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	var svcErr *flashcard.ServiceError

	switch {
	case errors.As(err, &verr):
		writeValidationError(w, verr)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "Invalid request body")
	case errors.As(err, &svcErr):
		if svcErr.Status >= 500 {
			h.log.ErrorContext(r.Context(), "flashcard service failure",
				slog.String("kind", string(svcErr.Kind)))
		}
		writeError(w, svcErr.Status, svcErr.Message)
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "User not authenticated.")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}

func toFlashcardRecord(c domain.Flashcard) flashcardRecord {
	return flashcardRecord{
		ID:           c.ID,
		UserID:       c.UserID.String(),
		Front:        c.Front,
		Back:         c.Back,
		Source:       c.Source.String(),
		GenerationID: c.GenerationID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
