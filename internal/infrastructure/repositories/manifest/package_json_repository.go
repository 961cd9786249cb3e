package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/mobileversion/internal/domain/entities"
)

const packageJSON = "package.json"

// PackageJSONRepository reads the application name and version from package.json.
type PackageJSONRepository struct{}

// NewPackageJSONRepository creates a new package.json reader.
func NewPackageJSONRepository() *PackageJSONRepository {
	return &PackageJSONRepository{}
}

// Read decodes package.json in projectDir. Both name and version are required.
func (it *PackageJSONRepository) Read(_ context.Context, projectDir string) (entities.Manifest, error) {
	path := filepath.Join(projectDir, packageJSON)

	content, err := os.ReadFile(path)
	if err != nil {
		return entities.Manifest{}, fmt.Errorf("%w: %w", entities.ErrMissingFile, err)
	}

	var manifest entities.Manifest
	if err = json.Unmarshal(content, &manifest); err != nil {
		return entities.Manifest{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if manifest.Version == "" {
		return entities.Manifest{}, fmt.Errorf("%w: %s has no version", entities.ErrInvalidSemanticVersion, path)
	}
	if manifest.Name == "" {
		return entities.Manifest{}, fmt.Errorf("%s has no name", path)
	}

	logger.Debugf("Read %s@%s from %s", manifest.Name, manifest.Version, path)
	return manifest, nil
}
