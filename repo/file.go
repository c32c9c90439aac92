package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"StaffBot/model"
)

// FileBackend stores the roster as a JSON array of
// {user_id, first_name, last_name, phone_number} objects.
type FileBackend struct {
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (f *FileBackend) Load(ctx context.Context) ([]model.Worker, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading roster file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var workers []model.Worker
	if err := json.Unmarshal(data, &workers); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, f.path, err)
	}
	return workers, nil
}

// Save rewrites the whole file through a temporary file and a rename, so a
// crash mid-write never leaves a truncated roster.
func (f *FileBackend) Save(ctx context.Context, all []model.Worker, changed model.Worker) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(all); err != nil {
		return fmt.Errorf("error encoding roster: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".roster-*.json")
	if err != nil {
		return fmt.Errorf("error creating temp roster file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing roster: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("error syncing roster: %w", err)
	}
	if err := tmp.Chmod(f.fileMode()); err != nil {
		tmp.Close()
		return fmt.Errorf("error setting roster mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing roster: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("error replacing roster file: %w", err)
	}
	return nil
}

func (f *FileBackend) Close() error { return nil }

// fileMode keeps the permissions of an existing roster file; a new one gets
// 0644.
func (f *FileBackend) fileMode() fs.FileMode {
	if info, err := os.Stat(f.path); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}
