// Package flashcard implements batch flashcard creation and listing.
package flashcard

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tenxcards/flashcards-backend/internal/domain"
	"github.com/tenxcards/flashcards-backend/pkg/ctxutil"
)

// generationRepo defines the generation repository interface needed by flashcard service.
type generationRepo interface {
	ExistsForUser(ctx context.Context, id int64, userID uuid.UUID) (bool, error)
	IncrementCounter(ctx context.Context, id int64, counter domain.GenerationCounter) error
}

// flashcardRepo defines the flashcard repository interface needed by flashcard service.
type flashcardRepo interface {
	CreateBatch(ctx context.Context, userID uuid.UUID, items []domain.NewFlashcard) ([]domain.Flashcard, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Flashcard, error)
}

// txManager defines the transaction manager interface needed by flashcard service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements flashcard operations.
type Service struct {
	log         *slog.Logger
	generations generationRepo
	flashcards  flashcardRepo
	tx          txManager
}

// NewService creates a new flashcard service instance.
func NewService(
	logger *slog.Logger,
	generations generationRepo,
	flashcards flashcardRepo,
	tx txManager,
) *Service {
	return &Service{
		log:         logger.With("service", "flashcard"),
		generations: generations,
		flashcards:  flashcards,
		tx:          tx,
	}
}

// List returns all flashcards of the authenticated user, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Flashcard, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.flashcards.ListByUser(ctx, userID)
}
