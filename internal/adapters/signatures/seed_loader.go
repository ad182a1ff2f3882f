package signatures

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/jcastellr/netwarden/internal/core/ports"
)

// SeedLoader imports signature sets from JSON files into the repository.
type SeedLoader struct {
	repo ports.SignatureRepository
}

// NewSeedLoader creates a new seed loader.
func NewSeedLoader(repo ports.SignatureRepository) *SeedLoader {
	return &SeedLoader{repo: repo}
}

// LoadFromFile imports one JSON signature file. The file carries a
// SignatureSet: {"ports": [{"port": 23, "note": "..."}], "banners": [...]}.
func (s *SeedLoader) LoadFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var set domain.SignatureSet
	if err := json.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}
	if set.Empty() {
		return fmt.Errorf("seed file %s contains no signatures", path)
	}

	if err := s.repo.Import(ctx, set); err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}

	slog.Info("Imported signatures", "file", path, "ports", len(set.Ports), "banners", len(set.Banners))
	return nil
}

// LoadFromMultipleFiles imports several JSON files, continuing past
// individual failures.
func (s *SeedLoader) LoadFromMultipleFiles(ctx context.Context, paths []string) error {
	loaded := 0
	for _, path := range paths {
		if err := s.LoadFromFile(ctx, path); err != nil {
			slog.Warn("Skipping seed file", "file", path, "error", err)
			continue
		}
		loaded++
	}
	if loaded == 0 && len(paths) > 0 {
		return fmt.Errorf("none of the %d seed files could be imported", len(paths))
	}
	slog.Info("Signature import finished", "loaded", loaded, "total", len(paths))
	return nil
}
