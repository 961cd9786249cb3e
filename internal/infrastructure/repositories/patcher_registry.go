package repositories

import (
	"github.com/rios0rios0/mobileversion/internal/domain/entities"
	domainRepos "github.com/rios0rios0/mobileversion/internal/domain/repositories"
)

// PatcherRegistry manages all registered platform patcher implementations.
type PatcherRegistry struct {
	patchers map[entities.Platform]domainRepos.PatcherRepository
}

// NewPatcherRegistry creates an empty patcher registry.
func NewPatcherRegistry() *PatcherRegistry {
	return &PatcherRegistry{
		patchers: make(map[entities.Platform]domainRepos.PatcherRepository),
	}
}

// Register adds a patcher under its platform.
func (r *PatcherRegistry) Register(p domainRepos.PatcherRepository) {
	r.patchers[p.Platform()] = p
}

// Get returns the patcher for the given platform, or nil if not registered.
func (r *PatcherRegistry) Get(platform entities.Platform) domainRepos.PatcherRepository {
	return r.patchers[platform]
}
