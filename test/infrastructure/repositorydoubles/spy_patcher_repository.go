//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/mobileversion/internal/domain/entities"
	"github.com/rios0rios0/mobileversion/internal/domain/repositories"
)

// SpyPatcherRepository implements repositories.PatcherRepository as a configurable spy.
type SpyPatcherRepository struct {
	// --- identity ---
	PatcherPlatform entities.Platform

	// --- Patch ---
	ChangedFiles []string
	PatchErr     error
	PatchPanic   any
	// Release, when set, blocks Patch until it is closed.
	Release <-chan struct{}

	mu         sync.Mutex
	PatchCalls []PatchCall
}

// PatchCall records a single invocation of Patch.
type PatchCall struct {
	Manifest entities.Manifest
	Opts     entities.SyncOptions
}

var _ repositories.PatcherRepository = (*SpyPatcherRepository)(nil)

func (s *SpyPatcherRepository) Platform() entities.Platform { return s.PatcherPlatform }

func (s *SpyPatcherRepository) Patch(
	_ context.Context,
	manifest entities.Manifest,
	opts entities.SyncOptions,
) entities.PlatformResult {
	s.mu.Lock()
	s.PatchCalls = append(s.PatchCalls, PatchCall{Manifest: manifest, Opts: opts})
	s.mu.Unlock()

	if s.Release != nil {
		<-s.Release
	}
	if s.PatchPanic != nil {
		panic(s.PatchPanic)
	}

	result := entities.PlatformResult{Platform: s.PatcherPlatform}
	if s.PatchErr != nil {
		return result.Fail("", s.PatchErr)
	}
	result.ChangedFiles = s.ChangedFiles
	return result
}

// CallCount returns how many times Patch was invoked.
func (s *SpyPatcherRepository) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.PatchCalls)
}
