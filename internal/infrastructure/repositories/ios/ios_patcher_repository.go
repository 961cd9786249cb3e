package ios

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/mobileversion/internal/domain/entities"
	"github.com/rios0rios0/mobileversion/internal/infrastructure/repositories/staging"
)

// srcRootPrefixes are the spellings Xcode uses for the project directory in build settings.
var srcRootPrefixes = []string{"$(SRCROOT)/", "${SRCROOT}/", "$(PROJECT_DIR)/", "${PROJECT_DIR}/"}

// PatcherRepository updates CURRENT_PROJECT_VERSION in the Xcode project and
// the version keys of every Info.plist it references.
type PatcherRepository struct{}

// NewPatcherRepository creates a new iOS patcher.
func NewPatcherRepository() *PatcherRepository {
	return &PatcherRepository{}
}

// Platform returns the platform handled by this patcher.
func (it *PatcherRepository) Platform() entities.Platform {
	return entities.PlatformIOS
}

// Patch loads the project and all referenced property lists, applies every
// change in memory and only then writes them out together.
func (it *PatcherRepository) Patch(
	_ context.Context,
	manifest entities.Manifest,
	opts entities.SyncOptions,
) entities.PlatformResult {
	result := entities.PlatformResult{Platform: entities.PlatformIOS}
	dir := opts.IOSDir()

	path, err := FindProject(dir)
	if err != nil {
		return result.Fail(dir, err)
	}

	project, err := LoadProject(path)
	if err != nil {
		return result.Fail(path, err)
	}

	// discovery happens before any build setting is touched
	plistPaths := ResolvePlistPaths(dir, project.InfoPlistFiles())
	logger.Debugf("[ios] %s references %d property list(s)", path, len(plistPaths))

	if opts.UpdatesBuildNumber() {
		if patchErr := PatchProject(project, manifest, opts); patchErr != nil {
			return result.Fail(path, patchErr)
		}
	}

	plists, failures := LoadPlistSet(plistPaths)
	for _, failure := range failures {
		result = result.Fail(failure.Path, failure.Err)
	}
	if !result.OK() {
		return result
	}

	if patchErr := plists.Patch(manifest.Version, opts); patchErr != nil {
		return result.Fail(dir, patchErr)
	}

	var changeset staging.Changeset
	renderedProject, err := project.Render()
	if err != nil {
		return result.Fail(path, err)
	}
	changeset.Stage(path, project.Raw(), renderedProject)
	if stageErr := plists.Stage(&changeset); stageErr != nil {
		return result.Fail(dir, stageErr)
	}

	result.ChangedFiles = changeset.Paths()
	if changeset.Empty() {
		logger.Infof("[ios] %s is already up to date", dir)
		return result
	}
	if opts.DryRun {
		for _, changed := range result.ChangedFiles {
			logger.Infof("[ios] [DRY RUN] Would update %s", changed)
		}
		return result
	}
	if commitErr := changeset.Commit(); commitErr != nil {
		result.ChangedFiles = nil
		return result.Fail(dir, commitErr)
	}

	for _, changed := range result.ChangedFiles {
		logger.Infof("[ios] Updated %s", changed)
	}
	return result
}

// PatchProject sets CURRENT_PROJECT_VERSION on every build configuration of
// the target named after the application.
func PatchProject(project *Project, manifest entities.Manifest, opts entities.SyncOptions) error {
	handles := project.ConfigurationsOf(manifest.Name)
	if len(handles) == 0 {
		return fmt.Errorf("%w: no target named %q in %s", entities.ErrMalformedProject, manifest.Name, project.Path)
	}

	for _, handle := range handles {
		var current *int
		if value := project.Configurations[handle].Settings.CurrentProjectVersion; value != nil {
			current = parseBuildNumber(*value)
		}

		next, err := entities.NextBuildNumber(current, opts.BuildNumberOptions(), manifest.Version)
		if err != nil {
			return err
		}

		config := project.Configurations[handle]
		logger.Debugf("[ios] %s/%s: CURRENT_PROJECT_VERSION -> %d", manifest.Name, config.Name, next)
		project.SetCurrentProjectVersion(handle, strconv.Itoa(next))
	}
	return nil
}

// ResolvePlistPaths turns INFOPLIST_FILE values into paths on disk. Relative
// values are resolved against the directory holding the project bundle.
func ResolvePlistPaths(dir string, values []string) []string {
	paths := make([]string, 0, len(values))
	for _, value := range values {
		for _, prefix := range srcRootPrefixes {
			value = strings.TrimPrefix(value, prefix)
		}
		if !filepath.IsAbs(value) {
			value = filepath.Join(dir, value)
		}
		paths = append(paths, value)
	}
	return paths
}
