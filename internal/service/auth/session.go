package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/tenxcards/flashcards-backend/internal/domain"
	"github.com/tenxcards/flashcards-backend/pkg/ctxutil"
)

// CurrentUser returns the user for the identity stored in the request context.
// Returns ErrUnauthorized when the context carries no identity or the user no
// longer exists.
func (s *Service) CurrentUser(ctx context.Context) (*domain.User, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.CurrentUser: %w", err)
	}

	return user, nil
}

// RefreshSession issues a fresh token pair for the authenticated user without
// requiring a refresh token. Used when re-establishing cookies on an already
// authenticated request.
func (s *Service) RefreshSession(ctx context.Context) (*AuthResult, error) {
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("auth.RefreshSession issue tokens: %w", err)
	}

	return result, nil
}
