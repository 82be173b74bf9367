package flashcard

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tenxcards/flashcards-backend/internal/domain"
)

var _ generationRepo = &generationRepoMock{}

type generationRepoMock struct {
	ExistsForUserFunc    func(ctx context.Context, id int64, userID uuid.UUID) (bool, error)
	IncrementCounterFunc func(ctx context.Context, id int64, counter domain.GenerationCounter) error

	calls struct {
		ExistsForUser []struct {
			Ctx    context.Context
			ID     int64
			UserID uuid.UUID
		}
		IncrementCounter []struct {
			Ctx     context.Context
			ID      int64
			Counter domain.GenerationCounter
		}
	}
	lockExistsForUser    sync.RWMutex
	lockIncrementCounter sync.RWMutex
}

func (mock *generationRepoMock) ExistsForUser(ctx context.Context, id int64, userID uuid.UUID) (bool, error) {
	if mock.ExistsForUserFunc == nil {
		panic("generationRepoMock.ExistsForUserFunc: method is nil but generationRepo.ExistsForUser was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ID     int64
		UserID uuid.UUID
	}{Ctx: ctx, ID: id, UserID: userID}
	mock.lockExistsForUser.Lock()
	mock.calls.ExistsForUser = append(mock.calls.ExistsForUser, callInfo)
	mock.lockExistsForUser.Unlock()
	return mock.ExistsForUserFunc(ctx, id, userID)
}

func (mock *generationRepoMock) ExistsForUserCalls() []struct {
	Ctx    context.Context
	ID     int64
	UserID uuid.UUID
} {
	mock.lockExistsForUser.RLock()
	calls := mock.calls.ExistsForUser
	mock.lockExistsForUser.RUnlock()
	return calls
}

func (mock *generationRepoMock) IncrementCounter(ctx context.Context, id int64, counter domain.GenerationCounter) error {
	if mock.IncrementCounterFunc == nil {
		panic("generationRepoMock.IncrementCounterFunc: method is nil but generationRepo.IncrementCounter was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		ID      int64
		Counter domain.GenerationCounter
	}{Ctx: ctx, ID: id, Counter: counter}
	mock.lockIncrementCounter.Lock()
	mock.calls.IncrementCounter = append(mock.calls.IncrementCounter, callInfo)
	mock.lockIncrementCounter.Unlock()
	return mock.IncrementCounterFunc(ctx, id, counter)
}

func (mock *generationRepoMock) IncrementCounterCalls() []struct {
	Ctx     context.Context
	ID      int64
	Counter domain.GenerationCounter
} {
	mock.lockIncrementCounter.RLock()
	calls := mock.calls.IncrementCounter
	mock.lockIncrementCounter.RUnlock()
	return calls
}
