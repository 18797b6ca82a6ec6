// Package loam serves design spec sections from a Loam repository of
// markdown documents.
//
// A section is looked up by the `section` frontmatter key first, falling
// back to the document ID with its extension stripped. The document body
// is the section content.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/loam"
)

// SectionMetadata is the frontmatter understood by the spec store.
type SectionMetadata struct {
	Section string `mapstructure:"section"`
	Title   string `mapstructure:"title"`
}

// SpecStore adapts a Loam repository to ports.SpecStore.
type SpecStore struct {
	Repo *loam.TypedRepository[SectionMetadata]
}

// New wraps an already initialized typed repository.
func New(repo *loam.TypedRepository[SectionMetadata]) *SpecStore {
	return &SpecStore{Repo: repo}
}

// Open initializes a read-only Loam repository rooted at dir.
func Open(dir string) (*SpecStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve spec dir: %w", err)
	}
	repo, err := loam.Init(abs, loam.WithStrict(true), loam.WithReadOnly(true))
	if err != nil {
		return nil, fmt.Errorf("loam init %s: %w", abs, err)
	}
	return New(loam.NewTypedRepository[SectionMetadata](repo)), nil
}

// Section returns the body of the document describing sectionID.
func (s *SpecStore) Section(ctx context.Context, sectionID string) (string, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return "", fmt.Errorf("loam list failed: %w", err)
	}

	var fallback *string
	for _, doc := range docs {
		if doc.Data.Section == sectionID {
			return strings.TrimSpace(doc.Content), nil
		}
		if fallback == nil && trimExtension(doc.ID) == sectionID {
			content := strings.TrimSpace(doc.Content)
			fallback = &content
		}
	}
	if fallback != nil {
		return *fallback, nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrSectionNotFound, sectionID)
}

// Sections lists every section ID the repository can serve.
func (s *SpecStore) Sections(ctx context.Context) ([]string, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}
	seen := make(map[string]string, len(docs))
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		id := doc.Data.Section
		if id == "" {
			id = trimExtension(doc.ID)
		}
		if prev, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: section '%s' is defined in both '%s' and '%s'", id, prev, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	return ids, nil
}

func trimExtension(id string) string {
	if ext := filepath.Ext(id); ext != "" {
		id = strings.TrimSuffix(id, ext)
	}
	return filepath.ToSlash(id)
}
