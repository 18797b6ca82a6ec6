package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
)

// Store implements ports.SnapshotStore using the local filesystem.
// Each canvas is one JSON envelope file in BasePath.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".lattice/canvases".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".lattice", "canvases")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(canvasID string) (string, error) {
	if canvasID == "" {
		return "", fmt.Errorf("canvasID cannot be empty")
	}
	if strings.ContainsAny(canvasID, `/\`) || canvasID == "." || canvasID == ".." {
		return "", fmt.Errorf("invalid canvasID %q", canvasID)
	}
	return filepath.Join(s.BasePath, canvasID+".json"), nil
}

// Save writes the envelope atomically: temp file, fsync, rename.
func (s *Store) Save(ctx context.Context, canvasID string, env *domain.Envelope) error {
	destPath, err := s.path(canvasID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure canvas directory: %w", err)
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	// Same directory keeps the rename on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+canvasID+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// os.Rename fails on Windows when the destination exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing canvas file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}
	return nil
}

// Load reads the envelope of a canvas.
func (s *Store) Load(ctx context.Context, canvasID string) (*domain.Envelope, error) {
	filePath, err := s.path(canvasID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read canvas file: %w", err)
	}

	var env domain.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal canvas envelope: %w", err)
	}
	return &env, nil
}

// Delete removes the canvas file. Deleting a missing canvas is not an error.
func (s *Store) Delete(ctx context.Context, canvasID string) error {
	filePath, err := s.path(canvasID)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete canvas file: %w", err)
	}
	return nil
}

// List returns the IDs of all stored canvases.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list canvases: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}
