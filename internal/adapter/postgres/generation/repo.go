// Package generation implements the Generation repository using PostgreSQL.
package generation

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tenxcards/flashcards-backend/internal/adapter/postgres"
	"github.com/tenxcards/flashcards-backend/internal/domain"
)

// Repo provides generation-session persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new generation repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const existsForUserSQL = `
SELECT EXISTS (SELECT 1 FROM generations WHERE id = $1 AND user_id = $2)`

const getByIDSQL = `
SELECT id, user_id, model, generated_count, accepted_unedited_count,
       accepted_edited_count, source_text_hash, source_text_length,
       created_at, updated_at
FROM generations
WHERE id = $1 AND user_id = $2`

// The counter function lives in the database so concurrent increments
// stay correct without read-modify-write from the application.
const incrementCounterSQL = `SELECT increment_generation_counter($1, $2)`

// ExistsForUser reports whether a generation with the given ID exists and
// is owned by the given user. Both conditions are checked in one query.
func (r *Repo) ExistsForUser(ctx context.Context, id int64, userID uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := q.QueryRow(ctx, existsForUserSQL, id, userID).Scan(&exists); err != nil {
		return false, postgres.MapError(err, "check generation existence")
	}

	return exists, nil
}

// GetByID returns a generation owned by the given user.
// Returns domain.ErrNotFound when the generation is missing or foreign.
func (r *Repo) GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.Generation, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var g domain.Generation
	err := q.QueryRow(ctx, getByIDSQL, id, userID).Scan(
		&g.ID, &g.UserID, &g.Model, &g.GeneratedCount, &g.AcceptedUneditedCount,
		&g.AcceptedEditedCount, &g.SourceTextHash, &g.SourceTextLength,
		&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "get generation by id")
	}

	return &g, nil
}

// IncrementCounter bumps the edited or unedited acceptance counter of a
// generation by calling the increment_generation_counter database function.
func (r *Repo) IncrementCounter(ctx context.Context, id int64, counter domain.GenerationCounter) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, incrementCounterSQL, id, string(counter)); err != nil {
		return postgres.MapError(err, "increment generation counter")
	}

	return nil
}
