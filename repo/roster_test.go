package repo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"StaffBot/model"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

var (
	anvar = model.Worker{UserID: 1, FirstName: "Anvar", LastName: "Karimov", PhoneNumber: "+998901234567"}
	bobur = model.Worker{UserID: 2, FirstName: "Bobur", LastName: "Aliyev", PhoneNumber: "+998907654321"}
)

func TestLoadRosterKeepsLastDuplicate(t *testing.T) {
	stale := model.Worker{UserID: 1, FirstName: "Anvar"}
	backend := NewMemoryBackend(stale, bobur, anvar)

	r, err := LoadRoster(context.Background(), backend, zerolog.Nop())
	if err != nil {
		t.Fatalf("LoadRoster: %v", err)
	}
	if diff := cmp.Diff([]model.Worker{anvar, bobur}, r.List()); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
	if !r.IsFullyRegistered(1) {
		t.Error("user 1 should be fully registered after the later duplicate")
	}
}

func TestRosterAppend(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	r, err := LoadRoster(ctx, backend, zerolog.Nop())
	if err != nil {
		t.Fatalf("LoadRoster: %v", err)
	}

	if err := r.Append(ctx, anvar); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := r.Append(ctx, bobur); err != nil {
		t.Fatalf("Append: %v", err)
	}
	renamed := anvar
	renamed.PhoneNumber = "+998900000000"
	if err := r.Append(ctx, renamed); err != nil {
		t.Fatalf("Append overwrite: %v", err)
	}

	want := []model.Worker{renamed, bobur}
	if diff := cmp.Diff(want, r.List()); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
	stored, _ := backend.Load(ctx)
	if diff := cmp.Diff(want, stored); diff != "" {
		t.Errorf("backend mismatch (-want +got):\n%s", diff)
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}

func TestRosterAppendRejectsIncomplete(t *testing.T) {
	r, err := LoadRoster(context.Background(), NewMemoryBackend(), zerolog.Nop())
	if err != nil {
		t.Fatalf("LoadRoster: %v", err)
	}
	if err := r.Append(context.Background(), model.Worker{UserID: 3, FirstName: "Only"}); err == nil {
		t.Fatal("Append accepted an incomplete worker")
	}
	if r.Len() != 0 {
		t.Fatalf("Len = %d after rejected append", r.Len())
	}
}

func TestRosterAppendPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend(anvar)
	r, err := LoadRoster(ctx, backend, zerolog.Nop())
	if err != nil {
		t.Fatalf("LoadRoster: %v", err)
	}

	backend.SaveErr = errors.New("disk full")
	err = r.Append(ctx, bobur)
	if !errors.Is(err, model.ErrPersistence) {
		t.Fatalf("Append err = %v, want ErrPersistence", err)
	}
	if _, ok := r.Lookup(bobur.UserID); ok {
		t.Error("failed append is visible in the roster")
	}
	if diff := cmp.Diff([]model.Worker{anvar}, r.List()); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRosterMalformedFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registered_users.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	r, err := LoadRoster(context.Background(), NewFileBackend(path), zerolog.Nop())
	if err != nil {
		t.Fatalf("LoadRoster: %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("Len = %d, want 0", r.Len())
	}
}

type brokenBackend struct{ MemoryBackend }

func (b *brokenBackend) Load(context.Context) ([]model.Worker, error) {
	return nil, errors.New("connection refused")
}

func TestLoadRosterBackendError(t *testing.T) {
	if _, err := LoadRoster(context.Background(), &brokenBackend{}, zerolog.Nop()); err == nil {
		t.Fatal("LoadRoster ignored a backend failure")
	}
}
