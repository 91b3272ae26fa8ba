package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jwebster45206/dayscene/pkg/save"
	"github.com/jwebster45206/dayscene/pkg/storage"
)

// FileStore implements storage.SaveStore with one file per slot in a directory
type FileStore struct {
	dir    string
	ext    string
	logger *slog.Logger
}

// Ensure FileStore implements SaveStore interface
var _ storage.SaveStore = (*FileStore)(nil)

// NewFileStore creates the save directory if needed. Slot files take the
// extension of format.
func NewFileStore(dir string, format save.Format, logger *slog.Logger) (*FileStore, error) {
	if dir == "" {
		dir = ".saves"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}
	return &FileStore{dir: dir, ext: format.Ext(), logger: logger}, nil
}

func (f *FileStore) path(slot string) string {
	return filepath.Join(f.dir, slot+f.ext)
}

func (f *FileStore) Ping(ctx context.Context) error {
	info, err := os.Stat(f.dir)
	if err != nil {
		return fmt.Errorf("save directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("save directory %s is not a directory", f.dir)
	}
	return nil
}

func (f *FileStore) Close() error {
	return nil
}

// PutSave writes to a temp file in the same directory and renames it over the
// slot, so an interrupted save never leaves a truncated slot behind.
func (f *FileStore) PutSave(ctx context.Context, slot string, data []byte) error {
	if err := storage.ValidateSlot(slot); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, slot+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", slot, err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once renamed
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to save %s: %w", slot, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to save %s: %w", slot, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save %s: %w", slot, err)
	}
	if err := os.Rename(tmpName, f.path(slot)); err != nil {
		return fmt.Errorf("failed to save %s: %w", slot, err)
	}

	f.logger.Debug("Saved", "slot", slot, "path", f.path(slot), "bytes", len(data))
	return nil
}

func (f *FileStore) GetSave(ctx context.Context, slot string) ([]byte, error) {
	if err := storage.ValidateSlot(slot); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrNotFound, err)
	}
	data, err := os.ReadFile(f.path(slot))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, slot)
		}
		return nil, fmt.Errorf("failed to read save %s: %w", slot, err)
	}
	return data, nil
}

func (f *FileStore) DeleteSave(ctx context.Context, slot string) error {
	if err := storage.ValidateSlot(slot); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrNotFound, err)
	}
	if err := os.Remove(f.path(slot)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", storage.ErrNotFound, slot)
		}
		return fmt.Errorf("failed to delete save %s: %w", slot, err)
	}
	return nil
}

func (f *FileStore) ListSaves(ctx context.Context) ([]storage.SaveInfo, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []storage.SaveInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read save directory: %w", err)
	}

	infos := make([]storage.SaveInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != f.ext {
			continue
		}
		slot := strings.TrimSuffix(entry.Name(), f.ext)
		if storage.ValidateSlot(slot) != nil {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			f.logger.Warn("Failed to stat save file", "file", entry.Name(), "error", err)
			continue
		}
		infos = append(infos, storage.SaveInfo{Slot: slot, Size: int(fi.Size()), UpdatedAt: fi.ModTime()})
	}

	slices.SortFunc(infos, func(a, b storage.SaveInfo) int { return strings.Compare(a.Slot, b.Slot) })
	return infos, nil
}
