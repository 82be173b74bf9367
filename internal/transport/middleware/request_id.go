package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tenxcards/flashcards-backend/pkg/ctxutil"
)

// RequestID reuses an incoming X-Request-Id header or generates a fresh one,
// stores it in the request context, and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		ctx := ctxutil.WithRequestID(r.Context(), id)
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
