// Package flashcard implements the Flashcard repository using PostgreSQL.
package flashcard

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tenxcards/flashcards-backend/internal/adapter/postgres"
	"github.com/tenxcards/flashcards-backend/internal/domain"
)

// Repo provides flashcard persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new flashcard repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const listByUserSQL = `
SELECT id, user_id, front, back, source, generation_id, created_at, updated_at
FROM flashcards
WHERE user_id = $1
ORDER BY created_at DESC, id DESC`

// CreateBatch inserts all given flashcards for the user in a single multi-row
// INSERT and returns the persisted rows in insertion order. The statement is
// atomic: either every row is inserted or none are.
func (r *Repo) CreateBatch(ctx context.Context, userID uuid.UUID, items []domain.NewFlashcard) ([]domain.Flashcard, error) {
	if len(items) == 0 {
		return []domain.Flashcard{}, nil
	}

	now := time.Now().UTC().Truncate(time.Microsecond)

	builder := sq.Insert("flashcards").
		Columns("user_id", "front", "back", "source", "generation_id", "created_at", "updated_at").
		Suffix("RETURNING id, user_id, front, back, source, generation_id, created_at, updated_at").
		PlaceholderFormat(sq.Dollar)

	for _, item := range items {
		builder = builder.Values(userID, item.Front, item.Back, string(item.Source), item.GenerationID, now, now)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build batch insert: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "batch insert flashcards")
	}
	defer rows.Close()

	cards, err := scanFlashcards(rows)
	if err != nil {
		return nil, postgres.MapError(err, "batch insert flashcards")
	}

	return cards, nil
}

// ListByUser returns all flashcards owned by the user, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Flashcard, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByUserSQL, userID)
	if err != nil {
		return nil, postgres.MapError(err, "list flashcards")
	}
	defer rows.Close()

	cards, err := scanFlashcards(rows)
	if err != nil {
		return nil, postgres.MapError(err, "list flashcards")
	}

	return cards, nil
}

func scanFlashcards(rows pgx.Rows) ([]domain.Flashcard, error) {
	var cards []domain.Flashcard
	for rows.Next() {
		var (
			c      domain.Flashcard
			source string
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.Front, &c.Back, &source,
			&c.GenerationID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Source = domain.FlashcardSource(source)
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if cards == nil {
		cards = []domain.Flashcard{}
	}

	return cards, nil
}
