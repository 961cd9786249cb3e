//go:build unit

package internal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"github.com/rios0rios0/mobileversion/internal"
	"github.com/rios0rios0/mobileversion/internal/domain/commands"
	"github.com/rios0rios0/mobileversion/internal/domain/entities"
	infraRepos "github.com/rios0rios0/mobileversion/internal/infrastructure/repositories"
)

func TestRegisterProviders(t *testing.T) {
	t.Parallel()

	t.Run("should resolve the application with every controller", func(t *testing.T) {
		t.Parallel()

		// given
		container := dig.New()
		require.NoError(t, internal.RegisterProviders(container))

		// when
		var app *internal.AppInternal
		var registry *infraRepos.PatcherRegistry
		var sync commands.Sync
		err := container.Invoke(func(ai *internal.AppInternal, reg *infraRepos.PatcherRegistry, cmd commands.Sync) {
			app, registry, sync = ai, reg, cmd
		})

		// then
		require.NoError(t, err)
		assert.Len(t, app.GetControllers(), 2)
		assert.NotNil(t, registry.Get(entities.PlatformAndroid))
		assert.NotNil(t, registry.Get(entities.PlatformIOS))
		assert.NotNil(t, sync)
	})
}
