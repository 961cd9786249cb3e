//go:build unit

package manifest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/mobileversion/internal/domain/entities"
	"github.com/rios0rios0/mobileversion/internal/infrastructure/repositories/manifest"
)

func TestPackageJSONRepository_Read(t *testing.T) {
	t.Parallel()

	t.Run("should read name and version", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		content := `{"name": "MyApp", "version": "1.4.0", "private": true, "scripts": {"start": "expo start"}}`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(content), 0o600))
		repository := manifest.NewPackageJSONRepository()

		// when
		result, err := repository.Read(context.Background(), dir)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.Manifest{Name: "MyApp", Version: "1.4.0"}, result)
	})

	t.Run("should fail with MissingFile when package.json is absent", func(t *testing.T) {
		t.Parallel()

		// given
		repository := manifest.NewPackageJSONRepository()

		// when
		_, err := repository.Read(context.Background(), t.TempDir())

		// then
		assert.ErrorIs(t, err, entities.ErrMissingFile)
	})

	t.Run("should fail when the version is missing", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name": "MyApp"}`), 0o600))
		repository := manifest.NewPackageJSONRepository()

		// when
		_, err := repository.Read(context.Background(), dir)

		// then
		assert.ErrorIs(t, err, entities.ErrInvalidSemanticVersion)
	})

	t.Run("should fail on invalid JSON", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":`), 0o600))
		repository := manifest.NewPackageJSONRepository()

		// when
		_, err := repository.Read(context.Background(), dir)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})
}
