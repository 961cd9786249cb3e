//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/mobileversion/internal/domain/commands"
	"github.com/rios0rios0/mobileversion/internal/domain/entities"
	infraRepos "github.com/rios0rios0/mobileversion/internal/infrastructure/repositories"
	"github.com/rios0rios0/mobileversion/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/mobileversion/test/infrastructure/repositorydoubles"
)

func TestPlatformRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("should keep the android result when ios fails", func(t *testing.T) {
		t.Parallel()

		// given
		android := &doubles.SpyPatcherRepository{PatcherPlatform: entities.PlatformAndroid, ChangedFiles: []string{"build.gradle"}}
		ios := &doubles.SpyPatcherRepository{PatcherPlatform: entities.PlatformIOS, PatchErr: entities.ErrProjectNotFound}
		registry := infraRepos.NewPatcherRegistry()
		registry.Register(android)
		registry.Register(ios)
		runner := commands.NewPlatformRunner(registry)
		manifest := entitybuilders.NewManifestBuilder().BuildManifest()
		opts := entitybuilders.NewSyncOptionsBuilder().BuildSyncOptions()

		// when
		result := runner.Run(context.Background(), manifest, opts)

		// then
		require.Len(t, result.Results, 2)
		assert.True(t, result.Results[0].OK())
		assert.False(t, result.Results[1].OK())
		assert.Equal(t, []entities.Platform{entities.PlatformAndroid}, result.Succeeded())
		assert.Equal(t, []string{"build.gradle"}, result.ChangedFiles())
		assert.Equal(t, 1, android.CallCount())
		assert.Equal(t, 1, ios.CallCount())
	})

	t.Run("should run platforms concurrently", func(t *testing.T) {
		t.Parallel()

		// given
		release := make(chan struct{})
		android := &doubles.SpyPatcherRepository{PatcherPlatform: entities.PlatformAndroid, Release: release}
		ios := &doubles.SpyPatcherRepository{PatcherPlatform: entities.PlatformIOS, Release: release}
		registry := infraRepos.NewPatcherRegistry()
		registry.Register(android)
		registry.Register(ios)
		runner := commands.NewPlatformRunner(registry)
		manifest := entitybuilders.NewManifestBuilder().BuildManifest()
		opts := entitybuilders.NewSyncOptionsBuilder().BuildSyncOptions()
		done := make(chan entities.RunResult)

		// when
		go func() { done <- runner.Run(context.Background(), manifest, opts) }()

		// then
		require.Eventually(t, func() bool {
			return android.CallCount() == 1 && ios.CallCount() == 1
		}, time.Second, 5*time.Millisecond)
		close(release)
		result := <-done
		assert.False(t, result.Failed())
	})

	t.Run("should only run the selected platforms", func(t *testing.T) {
		t.Parallel()

		// given
		android := &doubles.SpyPatcherRepository{PatcherPlatform: entities.PlatformAndroid}
		ios := &doubles.SpyPatcherRepository{PatcherPlatform: entities.PlatformIOS}
		registry := infraRepos.NewPatcherRegistry()
		registry.Register(android)
		registry.Register(ios)
		runner := commands.NewPlatformRunner(registry)
		manifest := entitybuilders.NewManifestBuilder().BuildManifest()
		opts := entitybuilders.NewSyncOptionsBuilder().WithTargets(entities.PlatformIOS).BuildSyncOptions()

		// when
		result := runner.Run(context.Background(), manifest, opts)

		// then
		require.Len(t, result.Results, 1)
		assert.Equal(t, entities.PlatformIOS, result.Results[0].Platform)
		assert.Equal(t, 0, android.CallCount())
	})

	t.Run("should report a platform without patcher", func(t *testing.T) {
		t.Parallel()

		// given
		registry := infraRepos.NewPatcherRegistry()
		registry.Register(&doubles.SpyPatcherRepository{PatcherPlatform: entities.PlatformAndroid})
		runner := commands.NewPlatformRunner(registry)
		manifest := entitybuilders.NewManifestBuilder().BuildManifest()
		opts := entitybuilders.NewSyncOptionsBuilder().BuildSyncOptions()

		// when
		result := runner.Run(context.Background(), manifest, opts)

		// then
		require.Len(t, result.Results, 2)
		assert.True(t, result.Results[0].OK())
		require.Len(t, result.Results[1].Diagnostics, 1)
		assert.Contains(t, result.Results[1].Diagnostics[0].Err.Error(), "no patcher registered for ios")
	})

	t.Run("should turn a panicking patcher into a diagnostic", func(t *testing.T) {
		t.Parallel()

		// given
		registry := infraRepos.NewPatcherRegistry()
		registry.Register(&doubles.SpyPatcherRepository{PatcherPlatform: entities.PlatformAndroid})
		registry.Register(&doubles.SpyPatcherRepository{PatcherPlatform: entities.PlatformIOS, PatchPanic: "boom"})
		runner := commands.NewPlatformRunner(registry)
		manifest := entitybuilders.NewManifestBuilder().BuildManifest()
		opts := entitybuilders.NewSyncOptionsBuilder().BuildSyncOptions()

		// when
		result := runner.Run(context.Background(), manifest, opts)

		// then
		assert.True(t, result.Results[0].OK())
		require.Len(t, result.Results[1].Diagnostics, 1)
		assert.Contains(t, result.Results[1].Diagnostics[0].Err.Error(), "boom")
	})
}
