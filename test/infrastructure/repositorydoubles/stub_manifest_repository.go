//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/mobileversion/internal/domain/entities"
	"github.com/rios0rios0/mobileversion/internal/domain/repositories"
)

// StubManifestRepository implements repositories.ManifestRepository with a fixed answer.
type StubManifestRepository struct {
	Manifest entities.Manifest
	ReadErr  error
	ReadDirs []string
}

var _ repositories.ManifestRepository = (*StubManifestRepository)(nil)

func (s *StubManifestRepository) Read(_ context.Context, projectDir string) (entities.Manifest, error) {
	s.ReadDirs = append(s.ReadDirs, projectDir)
	return s.Manifest, s.ReadErr
}
