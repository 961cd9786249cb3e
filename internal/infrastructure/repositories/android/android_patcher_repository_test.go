//go:build unit

package android_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/mobileversion/internal/domain/entities"
	"github.com/rios0rios0/mobileversion/internal/infrastructure/repositories/android"
)

const gradleFixture = `android {
    compileSdkVersion 33
    defaultConfig {
        applicationId "com.example.myapp"
        minSdkVersion 22
        versionCode 42
        versionName "1.3.9"
        versionNameSuffix "-dev"
    }
}
`

func writeDescriptor(t *testing.T, content string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "android", "app", "build.gradle")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return dir, path
}

func TestPatcherRepositoryPatch(t *testing.T) {
	t.Parallel()

	t.Run("should update versionName and increment versionCode by default", func(t *testing.T) {
		t.Parallel()

		// given
		dir, path := writeDescriptor(t, gradleFixture)
		patcher := android.NewPatcherRepository()
		manifest := entities.Manifest{Name: "MyApp", Version: "1.4.0"}

		// when
		result := patcher.Patch(context.Background(), manifest, entities.SyncOptions{ProjectDir: dir})

		// then
		require.True(t, result.OK(), "diagnostics: %v", result.Diagnostics)
		assert.Equal(t, entities.PlatformAndroid, result.Platform)
		assert.Equal(t, []string{path}, result.ChangedFiles)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `versionName "1.4.0"`)
		assert.Contains(t, string(content), "versionCode 43")
		assert.Contains(t, string(content), `versionNameSuffix "-dev"`)
	})

	t.Run("should accept the android directory instead of the descriptor", func(t *testing.T) {
		t.Parallel()

		// given
		dir, path := writeDescriptor(t, gradleFixture)
		patcher := android.NewPatcherRepository()
		opts := entities.SyncOptions{ProjectDir: dir, AndroidPath: "android"}

		// when
		result := patcher.Patch(context.Background(), entities.Manifest{Version: "2.0.0"}, opts)

		// then
		require.True(t, result.OK(), "diagnostics: %v", result.Diagnostics)
		assert.Equal(t, []string{path}, result.ChangedFiles)
	})

	t.Run("should be idempotent when only the display version is updated", func(t *testing.T) {
		t.Parallel()

		// given
		dir, path := writeDescriptor(t, gradleFixture)
		patcher := android.NewPatcherRepository()
		opts := entities.SyncOptions{ProjectDir: dir, NeverIncrementBuild: true}
		manifest := entities.Manifest{Version: "1.4.0"}

		// when
		first := patcher.Patch(context.Background(), manifest, opts)
		afterFirst, _ := os.ReadFile(path)
		second := patcher.Patch(context.Background(), manifest, opts)
		afterSecond, _ := os.ReadFile(path)

		// then
		require.True(t, first.OK())
		require.True(t, second.OK())
		assert.Equal(t, string(afterFirst), string(afterSecond))
		assert.Contains(t, string(afterSecond), "versionCode 42")
		assert.Empty(t, second.ChangedFiles)
	})

	t.Run("should not write anything on a dry run", func(t *testing.T) {
		t.Parallel()

		// given
		dir, path := writeDescriptor(t, gradleFixture)
		patcher := android.NewPatcherRepository()
		opts := entities.SyncOptions{ProjectDir: dir, DryRun: true}

		// when
		result := patcher.Patch(context.Background(), entities.Manifest{Version: "1.4.0"}, opts)

		// then
		require.True(t, result.OK())
		assert.Equal(t, []string{path}, result.ChangedFiles)
		content, _ := os.ReadFile(path)
		assert.Equal(t, gradleFixture, string(content))
	})

	t.Run("should report a missing descriptor without creating it", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		patcher := android.NewPatcherRepository()

		// when
		result := patcher.Patch(context.Background(), entities.Manifest{Version: "1.0.0"}, entities.SyncOptions{ProjectDir: dir})

		// then
		require.False(t, result.OK())
		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, entities.KindMissingFile, result.Diagnostics[0].Kind())
		_, statErr := os.Stat(filepath.Join(dir, entities.DefaultAndroidPath))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("should report MissingFile when the descriptor path cannot be inspected", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		notADir := filepath.Join(dir, "android")
		require.NoError(t, os.WriteFile(notADir, []byte("plain file"), 0o644))
		opts := entities.SyncOptions{ProjectDir: dir, AndroidPath: filepath.Join("android", "build.gradle")}
		patcher := android.NewPatcherRepository()

		// when
		result := patcher.Patch(context.Background(), entities.Manifest{Version: "1.0.0"}, opts)

		// then
		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, entities.KindMissingFile, result.Diagnostics[0].Kind())
		assert.ErrorIs(t, result.Diagnostics[0].Err, entities.ErrMissingFile)
	})

	t.Run("should leave the file untouched when build code generation fails", func(t *testing.T) {
		t.Parallel()

		// given
		dir, path := writeDescriptor(t, gradleFixture)
		patcher := android.NewPatcherRepository()
		opts := entities.SyncOptions{ProjectDir: dir, GenerateBuild: true}

		// when
		result := patcher.Patch(context.Background(), entities.Manifest{Version: "next"}, opts)

		// then
		require.False(t, result.OK())
		assert.Equal(t, entities.KindInvalidSemanticVersion, result.Diagnostics[0].Kind())
		content, _ := os.ReadFile(path)
		assert.Equal(t, gradleFixture, string(content))
	})
}

func TestPatchDescriptor(t *testing.T) {
	t.Parallel()

	t.Run("should preserve single quotes", func(t *testing.T) {
		t.Parallel()

		// given
		content := "versionName '0.1.0'\nversionCode 7\n"

		// when
		result, err := android.PatchDescriptor(content, "0.2.0", entities.SyncOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, "versionName '0.2.0'\nversionCode 8\n", result)
	})

	t.Run("should support the Kotlin DSL assignment syntax", func(t *testing.T) {
		t.Parallel()

		// given
		content := "versionCode = 9\nversionName = \"1.0.0\"\n"

		// when
		result, err := android.PatchDescriptor(content, "1.1.0", entities.SyncOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, "versionCode = 10\nversionName = \"1.1.0\"\n", result)
	})

	t.Run("should only replace the first occurrence of each field", func(t *testing.T) {
		t.Parallel()

		// given
		content := "versionName \"1.0.0\"\nversionCode 1\nversionName \"9.9.9\"\nversionCode 99\n"

		// when
		result, err := android.PatchDescriptor(content, "1.0.1", entities.SyncOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, "versionName \"1.0.1\"\nversionCode 2\nversionName \"9.9.9\"\nversionCode 99\n", result)
	})

	t.Run("should only bump the build number in increment-build mode", func(t *testing.T) {
		t.Parallel()

		// given
		content := "versionName \"1.0.0\"\nversionCode 1\n"

		// when
		result, err := android.PatchDescriptor(content, "2.0.0", entities.SyncOptions{IncrementBuild: true})

		// then
		require.NoError(t, err)
		assert.Equal(t, "versionName \"1.0.0\"\nversionCode 2\n", result)
	})

	t.Run("should apply the explicit and generated build numbers", func(t *testing.T) {
		t.Parallel()

		// given
		content := "versionCode 1\n"
		explicit := 500

		// when
		set, setErr := android.PatchDescriptor(content, "2.1.3", entities.SyncOptions{SetBuild: &explicit})
		generated, genErr := android.PatchDescriptor(content, "2.1.3", entities.SyncOptions{GenerateBuild: true})
		reset, resetErr := android.PatchDescriptor(content, "2.1.3", entities.SyncOptions{ResetBuild: true, SetBuild: &explicit})

		// then
		require.NoError(t, setErr)
		require.NoError(t, genErr)
		require.NoError(t, resetErr)
		assert.Equal(t, "versionCode 500\n", set)
		assert.Equal(t, "versionCode 2001003\n", generated)
		assert.Equal(t, "versionCode 1\n", reset)
	})

	t.Run("should leave descriptors without version fields unchanged", func(t *testing.T) {
		t.Parallel()

		// given
		content := "apply plugin: 'com.android.application'\n"

		// when
		result, err := android.PatchDescriptor(content, "1.0.0", entities.SyncOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, content, result)
	})
}
