//go:build unit

package ios_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/mobileversion/internal/domain/entities"
	"github.com/rios0rios0/mobileversion/internal/infrastructure/repositories/ios"
	"github.com/rios0rios0/mobileversion/test/domain/entitybuilders"
)

// copyFixture copies testdata/App into a fresh project directory and returns it.
func copyFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	source := filepath.Join("testdata", "App")
	target := filepath.Join(root, "ios", "App")

	err := filepath.WalkDir(source, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, _ := filepath.Rel(source, path)
		if entry.IsDir() {
			return os.MkdirAll(filepath.Join(target, rel), 0o755)
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		return os.WriteFile(filepath.Join(target, rel), content, 0o644)
	})
	require.NoError(t, err)
	return root
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestPatcherRepository_Patch(t *testing.T) {
	t.Parallel()

	t.Run("should update the project and every referenced property list", func(t *testing.T) {
		t.Parallel()

		// given
		root := copyFixture(t)
		patcher := ios.NewPatcherRepository()
		manifest := entitybuilders.NewManifestBuilder().WithVersion("1.4.0").BuildManifest()
		opts := entitybuilders.NewSyncOptionsBuilder().WithProjectDir(root).BuildSyncOptions()

		// when
		result := patcher.Patch(context.Background(), manifest, opts)

		// then
		require.True(t, result.OK(), "diagnostics: %v", result.Diagnostics)
		projectPath := filepath.Join(root, "ios", "App", "MyApp.xcodeproj", "project.pbxproj")
		appPlist := filepath.Join(root, "ios", "App", "MyApp", "Info.plist")
		testsPlist := filepath.Join(root, "ios", "App", "MyAppTests", "Info.plist")
		assert.ElementsMatch(t, []string{projectPath, appPlist, testsPlist}, result.ChangedFiles)

		project := readFile(t, projectPath)
		assert.Contains(t, project, "CURRENT_PROJECT_VERSION = 8;")
		assert.Contains(t, project, "CODE_SIGN_STYLE = Automatic;\n\t\t\t\tCURRENT_PROJECT_VERSION = 1;")
		assert.Contains(t, project, "CURRENT_PROJECT_VERSION = 3;")
		assert.Contains(t, project, "CURRENT_PROJECT_VERSION = 100;")

		app, err := ios.LoadPlistFile(appPlist)
		require.NoError(t, err)
		assert.Equal(t, "1.4.0", app.Values["CFBundleShortVersionString"])
		assert.Equal(t, "43", app.Values["CFBundleVersion"])
		assert.Equal(t, "\t", app.Indent)

		tests, err := ios.LoadPlistFile(testsPlist)
		require.NoError(t, err)
		assert.Equal(t, "1.4.0", tests.Values["CFBundleShortVersionString"])
		assert.Equal(t, "2", tests.Values["CFBundleVersion"])
		assert.Equal(t, "  ", tests.Indent)
	})

	t.Run("should not touch the project when build numbers are frozen", func(t *testing.T) {
		t.Parallel()

		// given
		root := copyFixture(t)
		projectPath := filepath.Join(root, "ios", "App", "MyApp.xcodeproj", "project.pbxproj")
		before := readFile(t, projectPath)
		patcher := ios.NewPatcherRepository()
		manifest := entitybuilders.NewManifestBuilder().WithName("Unknown").BuildManifest()
		opts := entitybuilders.NewSyncOptionsBuilder().WithProjectDir(root).WithNeverIncrementBuild().BuildSyncOptions()

		// when
		result := patcher.Patch(context.Background(), manifest, opts)

		// then
		require.True(t, result.OK(), "diagnostics: %v", result.Diagnostics)
		assert.Equal(t, before, readFile(t, projectPath))
		assert.Len(t, result.ChangedFiles, 2)
	})

	t.Run("should fail with MalformedProject when no target matches the application name", func(t *testing.T) {
		t.Parallel()

		// given
		root := copyFixture(t)
		appPlist := filepath.Join(root, "ios", "App", "MyApp", "Info.plist")
		before := readFile(t, appPlist)
		patcher := ios.NewPatcherRepository()
		manifest := entitybuilders.NewManifestBuilder().WithName("Other").BuildManifest()
		opts := entitybuilders.NewSyncOptionsBuilder().WithProjectDir(root).BuildSyncOptions()

		// when
		result := patcher.Patch(context.Background(), manifest, opts)

		// then
		require.False(t, result.OK())
		assert.Equal(t, entities.KindMalformedProject, result.Diagnostics[0].Kind())
		assert.Empty(t, result.ChangedFiles)
		assert.Equal(t, before, readFile(t, appPlist))
	})

	t.Run("should write nothing when one property list is malformed", func(t *testing.T) {
		t.Parallel()

		// given
		root := copyFixture(t)
		projectPath := filepath.Join(root, "ios", "App", "MyApp.xcodeproj", "project.pbxproj")
		appPlist := filepath.Join(root, "ios", "App", "MyApp", "Info.plist")
		testsPlist := filepath.Join(root, "ios", "App", "MyAppTests", "Info.plist")
		require.NoError(t, os.WriteFile(testsPlist, []byte("<plist><dict><key>"), 0o644))
		projectBefore := readFile(t, projectPath)
		appBefore := readFile(t, appPlist)
		patcher := ios.NewPatcherRepository()
		manifest := entitybuilders.NewManifestBuilder().BuildManifest()
		opts := entitybuilders.NewSyncOptionsBuilder().WithProjectDir(root).BuildSyncOptions()

		// when
		result := patcher.Patch(context.Background(), manifest, opts)

		// then
		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, entities.KindMalformedPlist, result.Diagnostics[0].Kind())
		assert.Equal(t, testsPlist, result.Diagnostics[0].Path)
		assert.Equal(t, projectBefore, readFile(t, projectPath))
		assert.Equal(t, appBefore, readFile(t, appPlist))
	})

	t.Run("should fail with ProjectNotFound when the directory has no project", func(t *testing.T) {
		t.Parallel()

		// given
		patcher := ios.NewPatcherRepository()
		manifest := entitybuilders.NewManifestBuilder().BuildManifest()
		opts := entitybuilders.NewSyncOptionsBuilder().WithProjectDir(t.TempDir()).BuildSyncOptions()

		// when
		result := patcher.Patch(context.Background(), manifest, opts)

		// then
		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, entities.KindProjectNotFound, result.Diagnostics[0].Kind())
	})

	t.Run("should report InvalidSemanticVersion when generating from a bad version", func(t *testing.T) {
		t.Parallel()

		// given
		root := copyFixture(t)
		patcher := ios.NewPatcherRepository()
		manifest := entitybuilders.NewManifestBuilder().WithVersion("next").BuildManifest()
		opts := entitybuilders.NewSyncOptionsBuilder().WithProjectDir(root).WithGenerateBuild().BuildSyncOptions()

		// when
		result := patcher.Patch(context.Background(), manifest, opts)

		// then
		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, entities.KindInvalidSemanticVersion, result.Diagnostics[0].Kind())
	})

	t.Run("should report changes without writing on dry run", func(t *testing.T) {
		t.Parallel()

		// given
		root := copyFixture(t)
		appPlist := filepath.Join(root, "ios", "App", "MyApp", "Info.plist")
		before := readFile(t, appPlist)
		patcher := ios.NewPatcherRepository()
		manifest := entitybuilders.NewManifestBuilder().BuildManifest()
		opts := entitybuilders.NewSyncOptionsBuilder().WithProjectDir(root).WithDryRun().BuildSyncOptions()

		// when
		result := patcher.Patch(context.Background(), manifest, opts)

		// then
		require.True(t, result.OK())
		assert.Len(t, result.ChangedFiles, 3)
		assert.Equal(t, before, readFile(t, appPlist))
	})
}

func TestResolvePlistPaths(t *testing.T) {
	t.Parallel()

	t.Run("should strip the source root and resolve against the project directory", func(t *testing.T) {
		t.Parallel()

		// given
		values := []string{"App/Info.plist", "$(SRCROOT)/Tests/Info.plist", "/abs/Info.plist"}

		// when
		paths := ios.ResolvePlistPaths("ios/App", values)

		// then
		assert.Equal(t, []string{
			filepath.Join("ios/App", "App/Info.plist"),
			filepath.Join("ios/App", "Tests/Info.plist"),
			"/abs/Info.plist",
		}, paths)
	})
}
