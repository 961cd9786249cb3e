package repositories

import "context"

// AmendOptions controls how changed files are folded into version control history.
type AmendOptions struct {
	SkipTag bool
}

// AmenderRepository stages files and amends the current commit (and its tag).
type AmenderRepository interface {
	Amend(ctx context.Context, repoDir string, files []string, opts AmendOptions) error
}
