package flashcard

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies a flashcard service failure.
type ErrorKind string

const (
	// KindDependencyLookupFailed means the store failed while verifying a
	// referenced generation.
	KindDependencyLookupFailed ErrorKind = "dependency_lookup_failed"
	// KindReferenceNotFound means a referenced generation does not exist or
	// belongs to another user.
	KindReferenceNotFound ErrorKind = "reference_not_found"
	// KindPersistenceFailed means the batch insert failed or returned no rows.
	KindPersistenceFailed ErrorKind = "persistence_failed"
)

// ServiceError is a typed failure carrying the HTTP status the transport
// layer should respond with.
type ServiceError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func newDependencyLookupFailed() *ServiceError {
	return &ServiceError{
		Kind:    KindDependencyLookupFailed,
		Status:  http.StatusInternalServerError,
		Message: "Database error while verifying generation.",
	}
}

func newReferenceNotFound(generationID int64) *ServiceError {
	return &ServiceError{
		Kind:    KindReferenceNotFound,
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("Generation with ID %d not found or access denied.", generationID),
	}
}

func newPersistenceFailed() *ServiceError {
	return &ServiceError{
		Kind:    KindPersistenceFailed,
		Status:  http.StatusInternalServerError,
		Message: "Failed to create flashcards.",
	}
}
