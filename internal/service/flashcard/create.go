package flashcard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tenxcards/flashcards-backend/internal/domain"
	"github.com/tenxcards/flashcards-backend/pkg/ctxutil"
)

// CreateResult is returned by Create.
type CreateResult struct {
	Data    []domain.Flashcard
	Summary domain.CreationSummary
}

// Create persists a batch of flashcards for the authenticated user.
//
// Every AI-generated item must reference a generation session that exists and
// belongs to the user; a single failed reference aborts the whole batch before
// anything is written. The insert itself is one atomic multi-row statement.
// Acceptance counters on the referenced generations are updated afterwards on
// a best-effort basis: a failed counter update is logged and never fails the
// request.
func (s *Service) Create(ctx context.Context, input CreateInput) (*CreateResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var (
		manualCount      int
		aiGeneratedCount int
		toInsert         = make([]domain.NewFlashcard, 0, len(input.Flashcards))
		// Keyed by generation id so counter updates can recover the
		// wasEdited flag of the originating payload after the insert.
		aiPayloads = make(map[int64]CardInput)
	)

	var inserted []domain.Flashcard

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for _, card := range input.Flashcards {
			if card.Source == domain.SourceAIGenerated {
				genID := *card.GenerationID

				exists, err := s.generations.ExistsForUser(txCtx, genID, userID)
				if err != nil {
					s.log.ErrorContext(ctx, "generation verification failed",
						slog.Int64("generation_id", genID),
						slog.String("error", err.Error()))
					return newDependencyLookupFailed()
				}
				if !exists {
					return newReferenceNotFound(genID)
				}

				toInsert = append(toInsert, domain.NewFlashcard{
					Front:        card.Front,
					Back:         card.Back,
					Source:       domain.SourceAIGenerated,
					GenerationID: card.GenerationID,
				})
				aiPayloads[genID] = card
				aiGeneratedCount++
				continue
			}

			toInsert = append(toInsert, domain.NewFlashcard{
				Front:  card.Front,
				Back:   card.Back,
				Source: domain.SourceManual,
			})
			manualCount++
		}

		rows, err := s.flashcards.CreateBatch(txCtx, userID, toInsert)
		if err != nil {
			s.log.ErrorContext(ctx, "batch insert failed",
				slog.Int("batch_size", len(toInsert)),
				slog.String("error", err.Error()))
			return newPersistenceFailed()
		}
		if len(rows) == 0 {
			return newPersistenceFailed()
		}

		inserted = rows
		return nil
	})
	if err != nil {
		var svcErr *ServiceError
		if errors.As(err, &svcErr) {
			return nil, svcErr
		}
		return nil, fmt.Errorf("flashcard.Create: %w", err)
	}

	// Counter updates run outside the insert transaction. A failure here must
	// not undo or fail the already-committed batch.
	s.updateGenerationCounters(ctx, inserted, aiPayloads)

	return &CreateResult{
		Data: inserted,
		Summary: domain.CreationSummary{
			TotalCreated:     len(inserted),
			ManualCount:      manualCount,
			AIGeneratedCount: aiGeneratedCount,
		},
	}, nil
}

// updateGenerationCounters bumps the edited or unedited acceptance counter
// once per inserted AI-generated record.
func (s *Service) updateGenerationCounters(ctx context.Context, inserted []domain.Flashcard, aiPayloads map[int64]CardInput) {
	for _, card := range inserted {
		if card.Source != domain.SourceAIGenerated || card.GenerationID == nil {
			continue
		}

		payload, ok := aiPayloads[*card.GenerationID]
		if !ok || payload.WasEdited == nil {
			continue
		}

		counter := domain.CounterFor(*payload.WasEdited)
		if err := s.generations.IncrementCounter(ctx, *card.GenerationID, counter); err != nil {
			s.log.ErrorContext(ctx, "generation counter update failed",
				slog.Int64("generation_id", *card.GenerationID),
				slog.String("counter", string(counter)),
				slog.String("error", err.Error()))
		}
	}
}
