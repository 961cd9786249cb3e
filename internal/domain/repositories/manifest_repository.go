package repositories

import (
	"context"

	"github.com/rios0rios0/mobileversion/internal/domain/entities"
)

// ManifestRepository reads the project's semantic version manifest.
type ManifestRepository interface {
	Read(ctx context.Context, projectDir string) (entities.Manifest, error)
}
