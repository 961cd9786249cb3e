package commands

import (
	"context"
	"fmt"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/mobileversion/internal/domain/entities"
	"github.com/rios0rios0/mobileversion/internal/domain/repositories"
)

// Sync is the interface for the version synchronization command.
type Sync interface {
	Execute(ctx context.Context, opts entities.SyncOptions) (entities.RunResult, error)
}

// SyncCommand reads the manifest, patches every selected platform and, when
// asked to and every platform succeeded, amends the last commit.
type SyncCommand struct {
	manifestRepository repositories.ManifestRepository
	platformRunner     *PlatformRunner
	amenderRepository  repositories.AmenderRepository
}

// NewSyncCommand creates a new SyncCommand.
func NewSyncCommand(
	manifestRepository repositories.ManifestRepository,
	platformRunner *PlatformRunner,
	amenderRepository repositories.AmenderRepository,
) *SyncCommand {
	return &SyncCommand{
		manifestRepository: manifestRepository,
		platformRunner:     platformRunner,
		amenderRepository:  amenderRepository,
	}
}

// Execute runs one synchronization. The returned error is a *entities.SyncError
// when any platform failed; the RunResult is returned either way.
func (it *SyncCommand) Execute(ctx context.Context, opts entities.SyncOptions) (entities.RunResult, error) {
	projectDir, err := filepath.Abs(opts.ProjectDir)
	if err != nil {
		return entities.RunResult{}, fmt.Errorf("invalid path: %w", err)
	}
	opts.ProjectDir = projectDir

	manifest, err := it.manifestRepository.Read(ctx, projectDir)
	if err != nil {
		return entities.RunResult{}, fmt.Errorf("failed to read manifest: %w", err)
	}
	logger.Infof("Synchronizing %s %s into %v", manifest.Name, manifest.Version, opts.Platforms())
	if opts.DryRun {
		logger.Info("[DRY RUN] No files will be written")
	}

	result := it.platformRunner.Run(ctx, manifest, opts)
	logResult(result)

	if joinErr := result.Join(); joinErr != nil {
		if succeeded := result.Succeeded(); len(succeeded) > 0 {
			logger.Warnf("Changes for %v were kept although another platform failed", succeeded)
		}
		if opts.Amend {
			logger.Warn("[git] Skipping amend because at least one platform failed")
		}
		return result, joinErr
	}

	if !opts.Amend {
		return result, nil
	}
	if opts.DryRun {
		logger.Infof("[git] [DRY RUN] Would amend HEAD with %d file(s)", len(result.ChangedFiles()))
		return result, nil
	}

	amendOpts := repositories.AmendOptions{SkipTag: opts.SkipTag}
	if amendErr := it.amenderRepository.Amend(ctx, projectDir, result.ChangedFiles(), amendOpts); amendErr != nil {
		return result, fmt.Errorf("failed to amend commit: %w", amendErr)
	}
	return result, nil
}

func logResult(result entities.RunResult) {
	for _, platform := range result.Results {
		if platform.OK() {
			logger.Infof("[%s] Synchronized (%d file(s) changed)", platform.Platform, len(platform.ChangedFiles))
			continue
		}
		for _, diagnostic := range platform.Diagnostics {
			logger.Errorf("[%s] %s", platform.Platform, diagnostic)
		}
	}
}
