package android

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/mobileversion/internal/domain/entities"
	"github.com/rios0rios0/mobileversion/internal/infrastructure/repositories/staging"
)

var (
	// versionNamePattern matches `versionName "1.2.3"` (Groovy) and
	// `versionName = "1.2.3"` (Kotlin DSL), capturing the separator and quote.
	versionNamePattern = regexp.MustCompile(`\bversionName(\s*=?\s*)(["'])([^"'\n]*)["']`)
	// versionCodePattern matches `versionCode 42` and `versionCode = 42`.
	versionCodePattern = regexp.MustCompile(`\bversionCode(\s*=?\s*)(\d+)`)

	// descriptorCandidates are probed when the configured path is a directory.
	descriptorCandidates = []string{
		filepath.Join("app", "build.gradle"),
		filepath.Join("app", "build.gradle.kts"),
		"build.gradle",
		"build.gradle.kts",
	}
)

// PatcherRepository rewrites versionName and versionCode in a Gradle build descriptor.
type PatcherRepository struct{}

// NewPatcherRepository creates a new Android patcher.
func NewPatcherRepository() *PatcherRepository {
	return &PatcherRepository{}
}

// Platform returns the platform handled by this patcher.
func (it *PatcherRepository) Platform() entities.Platform {
	return entities.PlatformAndroid
}

// Patch loads the build descriptor, applies both substitutions in memory and
// writes the file back once. A descriptor without one of the fields keeps that
// field untouched.
func (it *PatcherRepository) Patch(
	_ context.Context,
	manifest entities.Manifest,
	opts entities.SyncOptions,
) entities.PlatformResult {
	result := entities.PlatformResult{Platform: entities.PlatformAndroid}

	path, err := resolveDescriptor(opts.AndroidFile())
	if err != nil {
		return result.Fail(opts.AndroidFile(), err)
	}

	original, err := os.ReadFile(path)
	if err != nil {
		return result.Fail(path, fmt.Errorf("%w: %w", entities.ErrMissingFile, err))
	}

	updated, err := PatchDescriptor(string(original), manifest.Version, opts)
	if err != nil {
		return result.Fail(path, err)
	}

	var changeset staging.Changeset
	changeset.Stage(path, original, []byte(updated))
	result.ChangedFiles = changeset.Paths()

	if changeset.Empty() {
		logger.Infof("[android] %s is already up to date", path)
		return result
	}
	if opts.DryRun {
		logger.Infof("[android] [DRY RUN] Would update %s", path)
		return result
	}
	if commitErr := changeset.Commit(); commitErr != nil {
		result.ChangedFiles = nil
		return result.Fail(path, commitErr)
	}

	logger.Infof("[android] Updated %s", path)
	return result
}

// PatchDescriptor applies the versionName and versionCode substitutions to content.
func PatchDescriptor(content, version string, opts entities.SyncOptions) (string, error) {
	if opts.UpdatesDisplayVersion() {
		content = replaceVersionName(content, version)
	}

	if opts.UpdatesBuildNumber() {
		var err error
		content, err = replaceVersionCode(content, version, opts.BuildNumberOptions())
		if err != nil {
			return "", err
		}
	}

	return content, nil
}

func replaceVersionName(content, version string) string {
	match := versionNamePattern.FindStringSubmatchIndex(content)
	if match == nil {
		logger.Warn("[android] No versionName found, leaving it untouched")
		return content
	}

	separator := content[match[2]:match[3]]
	quote := content[match[4]:match[5]]
	replacement := "versionName" + separator + quote + version + quote
	return content[:match[0]] + replacement + content[match[1]:]
}

func replaceVersionCode(content, version string, opts entities.BuildNumberOptions) (string, error) {
	match := versionCodePattern.FindStringSubmatchIndex(content)
	if match == nil {
		logger.Warn("[android] No versionCode found, leaving it untouched")
		return content, nil
	}

	var current *int
	if n, err := strconv.Atoi(content[match[4]:match[5]]); err == nil {
		current = &n
	}

	next, err := entities.NextBuildNumber(current, opts, version)
	if err != nil {
		return "", err
	}

	separator := content[match[2]:match[3]]
	replacement := "versionCode" + separator + strconv.Itoa(next)
	return content[:match[0]] + replacement + content[match[1]:], nil
}

// resolveDescriptor accepts either the descriptor itself or a directory that
// contains it.
func resolveDescriptor(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", entities.ErrMissingFile, err)
	}
	if !info.IsDir() {
		return path, nil
	}

	for _, candidate := range descriptorCandidates {
		full := filepath.Join(path, candidate)
		if _, statErr := os.Stat(full); statErr == nil {
			return full, nil
		}
	}
	return "", fmt.Errorf("%w: no build.gradle found in %s", entities.ErrMissingFile, path)
}
