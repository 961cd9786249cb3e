//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/mobileversion/internal/domain/repositories"
)

// SpyAmenderRepository implements repositories.AmenderRepository as a configurable spy.
type SpyAmenderRepository struct {
	AmendErr   error
	AmendCalls []AmendCall
}

// AmendCall records a single invocation of Amend.
type AmendCall struct {
	RepoDir string
	Files   []string
	Opts    repositories.AmendOptions
}

var _ repositories.AmenderRepository = (*SpyAmenderRepository)(nil)

func (s *SpyAmenderRepository) Amend(
	_ context.Context,
	repoDir string,
	files []string,
	opts repositories.AmendOptions,
) error {
	s.AmendCalls = append(s.AmendCalls, AmendCall{RepoDir: repoDir, Files: files, Opts: opts})
	return s.AmendErr
}
