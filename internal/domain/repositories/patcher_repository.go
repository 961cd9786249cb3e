package repositories

import (
	"context"

	"github.com/rios0rios0/mobileversion/internal/domain/entities"
)

// PatcherRepository rewrites the build metadata of one platform.
// Each implementation owns the full cycle for its files: read, patch in memory,
// validate, and write back. Failures are reported as diagnostics in the result,
// never as panics or errors crossing into other platforms.
type PatcherRepository interface {
	// Platform returns the platform this patcher is responsible for.
	Platform() entities.Platform

	// Patch synchronizes the manifest version into the platform files.
	Patch(ctx context.Context, manifest entities.Manifest, opts entities.SyncOptions) entities.PlatformResult
}
