package repo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"StaffBot/model"

	"github.com/rs/zerolog"
)

// ErrMalformed marks stored roster data that cannot be decoded. A roster
// backed by malformed data starts empty instead of failing.
var ErrMalformed = errors.New("malformed roster data")

// Backend persists the registered workers.
type Backend interface {
	// Load returns every stored worker in registration order.
	Load(ctx context.Context) ([]model.Worker, error)
	// Save makes all durable. changed is the entry that triggered the save;
	// backends that can store a single row may write only that one.
	Save(ctx context.Context, all []model.Worker, changed model.Worker) error
	Close() error
}

// Roster is the in-memory index of registered workers, written through to
// a Backend on every change.
type Roster struct {
	mu      sync.RWMutex
	backend Backend
	order   []int64
	byID    map[int64]model.Worker
	log     zerolog.Logger
}

// LoadRoster reads the backend once. Absent or malformed data yields an
// empty roster and a warning; any other backend error is returned.
func LoadRoster(ctx context.Context, backend Backend, logger zerolog.Logger) (*Roster, error) {
	r := &Roster{
		backend: backend,
		byID:    make(map[int64]model.Worker),
		log:     logger,
	}

	workers, err := backend.Load(ctx)
	if errors.Is(err, ErrMalformed) {
		logger.Warn().Err(err).Msg("roster data is malformed, starting with an empty roster")
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	for _, w := range workers {
		if _, ok := r.byID[w.UserID]; !ok {
			r.order = append(r.order, w.UserID)
		}
		// Later duplicates win.
		r.byID[w.UserID] = w
	}
	logger.Info().Int("workers", len(r.order)).Msg("roster loaded")
	return r, nil
}

func (r *Roster) Lookup(userID int64) (model.Worker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.byID[userID]
	return w, ok
}

func (r *Roster) IsFullyRegistered(userID int64) bool {
	w, ok := r.Lookup(userID)
	return ok && w.Complete()
}

// Append inserts or replaces the worker and persists the roster. When the
// backend fails the roster is left as it was and the error wraps
// model.ErrPersistence.
func (r *Roster) Append(ctx context.Context, w model.Worker) error {
	if !w.Complete() {
		return fmt.Errorf("append worker %d: incomplete profile", w.UserID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.byID[w.UserID]
	all := make([]model.Worker, 0, len(r.order)+1)
	for _, id := range r.order {
		if id == w.UserID {
			all = append(all, w)
			continue
		}
		all = append(all, r.byID[id])
	}
	if !exists {
		all = append(all, w)
	}

	if err := r.backend.Save(ctx, all, w); err != nil {
		return fmt.Errorf("append worker %d: %w: %w", w.UserID, model.ErrPersistence, err)
	}

	if !exists {
		r.order = append(r.order, w.UserID)
	}
	r.byID[w.UserID] = w
	r.log.Debug().Int64("user_id", w.UserID).Bool("replaced", exists).Msg("roster entry saved")
	return nil
}

// List returns the workers in registration order.
func (r *Roster) List() []model.Worker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Worker, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
