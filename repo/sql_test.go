package repo

import (
	"context"
	"path/filepath"
	"testing"

	"StaffBot/model"

	"github.com/google/go-cmp/cmp"
)

func newTestSQLite(t *testing.T) *SQLBackend {
	t.Helper()
	b, err := OpenSQLBackend(context.Background(), "sqlite", filepath.Join(t.TempDir(), "roster.db"))
	if err != nil {
		t.Fatalf("OpenSQLBackend: %v", err)
	}
	t.Cleanup(func() {
		if err := b.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return b
}

func TestSQLBackendUpsertKeepsOrder(t *testing.T) {
	ctx := context.Background()
	b := newTestSQLite(t)

	for _, w := range []model.Worker{anvar, bobur} {
		if err := b.Save(ctx, nil, w); err != nil {
			t.Fatalf("Save(%d): %v", w.UserID, err)
		}
	}
	updated := anvar
	updated.LastName = "Karimov-Aliyev"
	if err := b.Save(ctx, nil, updated); err != nil {
		t.Fatalf("Save update: %v", err)
	}

	got, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff([]model.Worker{updated, bobur}, got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLBackendThroughRoster(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "roster.db")

	first, err := OpenSQLBackend(ctx, "sqlite", path)
	if err != nil {
		t.Fatalf("OpenSQLBackend: %v", err)
	}
	r, err := LoadRoster(ctx, first, nopLogger())
	if err != nil {
		t.Fatalf("LoadRoster: %v", err)
	}
	if err := r.Append(ctx, anvar); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := newTestSQLiteAt(t, path)
	reloaded, err := LoadRoster(ctx, second, nopLogger())
	if err != nil {
		t.Fatalf("LoadRoster after restart: %v", err)
	}
	if !reloaded.IsFullyRegistered(anvar.UserID) {
		t.Fatal("worker not persisted across restart")
	}
}

func newTestSQLiteAt(t *testing.T, path string) *SQLBackend {
	t.Helper()
	b, err := OpenSQLBackend(context.Background(), "sqlite", path)
	if err != nil {
		t.Fatalf("OpenSQLBackend: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestOpenSQLBackendUnknownDriver(t *testing.T) {
	if _, err := OpenSQLBackend(context.Background(), "mysql", "dsn"); err == nil {
		t.Fatal("OpenSQLBackend accepted driver mysql")
	}
}

func TestRebind(t *testing.T) {
	pg := &SQLBackend{driver: "postgres"}
	if got := pg.rebind("VALUES (?, ?, ?)"); got != "VALUES ($1, $2, $3)" {
		t.Errorf("postgres rebind = %q", got)
	}
	lite := &SQLBackend{driver: "sqlite"}
	if got := lite.rebind("VALUES (?, ?)"); got != "VALUES (?, ?)" {
		t.Errorf("sqlite rebind = %q", got)
	}
}
