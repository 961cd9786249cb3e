package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/mobileversion/internal/domain/repositories"
	androidRepo "github.com/rios0rios0/mobileversion/internal/infrastructure/repositories/android"
	gitRepo "github.com/rios0rios0/mobileversion/internal/infrastructure/repositories/git"
	iosRepo "github.com/rios0rios0/mobileversion/internal/infrastructure/repositories/ios"
	manifestRepo "github.com/rios0rios0/mobileversion/internal/infrastructure/repositories/manifest"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register patcher registry with every platform implementation
	if err := container.Provide(func() *PatcherRegistry {
		reg := NewPatcherRegistry()
		reg.Register(androidRepo.NewPatcherRepository())
		reg.Register(iosRepo.NewPatcherRepository())
		return reg
	}); err != nil {
		return err
	}

	if err := container.Provide(func() domainRepos.ManifestRepository {
		return manifestRepo.NewPackageJSONRepository()
	}); err != nil {
		return err
	}

	if err := container.Provide(func() domainRepos.AmenderRepository {
		return gitRepo.NewAmenderRepository()
	}); err != nil {
		return err
	}

	return nil
}
