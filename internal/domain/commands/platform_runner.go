package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/mobileversion/internal/domain/entities"
	infraRepos "github.com/rios0rios0/mobileversion/internal/infrastructure/repositories"
)

// PlatformRunner runs the selected platform patchers concurrently. A failing
// platform never cancels or hides the result of another one.
type PlatformRunner struct {
	patcherRegistry *infraRepos.PatcherRegistry
}

// NewPlatformRunner creates a new PlatformRunner with the given patcher registry.
func NewPlatformRunner(patcherRegistry *infraRepos.PatcherRegistry) *PlatformRunner {
	return &PlatformRunner{patcherRegistry: patcherRegistry}
}

// Run patches every selected platform and waits for all of them. Results are
// ordered like opts.Platforms().
func (it *PlatformRunner) Run(
	ctx context.Context,
	manifest entities.Manifest,
	opts entities.SyncOptions,
) entities.RunResult {
	platforms := opts.Platforms()
	results := make([]entities.PlatformResult, len(platforms))

	// workers never return an error; failures are kept in results
	var group errgroup.Group
	for i, platform := range platforms {
		group.Go(func() error {
			results[i] = it.runPlatform(ctx, platform, manifest, opts)
			return nil
		})
	}
	_ = group.Wait()

	return entities.RunResult{Results: results}
}

func (it *PlatformRunner) runPlatform(
	ctx context.Context,
	platform entities.Platform,
	manifest entities.Manifest,
	opts entities.SyncOptions,
) (result entities.PlatformResult) {
	result = entities.PlatformResult{Platform: platform}

	patcher := it.patcherRegistry.Get(platform)
	if patcher == nil {
		return result.Fail("", fmt.Errorf("no patcher registered for %s", platform))
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Errorf("[%s] Patcher panicked: %v", platform, recovered)
			result = entities.PlatformResult{Platform: platform}.Fail("", fmt.Errorf("patcher panicked: %v", recovered))
		}
	}()

	logger.Debugf("[%s] Starting synchronization", platform)
	return patcher.Patch(ctx, manifest, opts)
}
