package repo

import (
	"context"
	"sync"

	"StaffBot/model"
)

// MemoryBackend keeps the roster in process memory only. SaveErr, when set,
// is returned from every Save.
type MemoryBackend struct {
	mu      sync.Mutex
	workers []model.Worker
	saves   int
	SaveErr error
}

func NewMemoryBackend(seed ...model.Worker) *MemoryBackend {
	return &MemoryBackend{workers: append([]model.Worker(nil), seed...)}
}

func (m *MemoryBackend) Load(ctx context.Context) ([]model.Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Worker(nil), m.workers...), nil
}

func (m *MemoryBackend) Save(ctx context.Context, all []model.Worker, changed model.Worker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.workers = append([]model.Worker(nil), all...)
	m.saves++
	return nil
}

// Saves reports how many saves succeeded.
func (m *MemoryBackend) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *MemoryBackend) Close() error { return nil }
