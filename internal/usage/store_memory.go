package usage

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu     sync.Mutex
	nextID int64
	calls  []Call
}

func newMemoryStore() *memoryStore {
	return &memoryStore{nextID: 1}
}

func (s *memoryStore) Insert(ctx context.Context, call Call) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	call.ID = s.nextID
	s.nextID++
	s.calls = append(s.calls, call)
	return nil
}

func (s *memoryStore) Summarize(ctx context.Context, since time.Time) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := Summary{Since: since, ByProvider: make(map[string]int)}
	for _, call := range s.calls {
		if call.RequestedAt.Before(since) {
			continue
		}
		summary.ByProvider[call.Provider]++
		summary.Total++
	}
	return summary, nil
}
