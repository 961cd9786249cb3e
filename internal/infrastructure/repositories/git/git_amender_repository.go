package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/mobileversion/internal/domain/entities"
	"github.com/rios0rios0/mobileversion/internal/domain/repositories"
)

// AmenderRepository folds the synchronized files into the last commit using go-git.
type AmenderRepository struct {
	now func() time.Time
}

// NewAmenderRepository creates a new go-git backed amender.
func NewAmenderRepository() *AmenderRepository {
	return &AmenderRepository{now: time.Now}
}

// Amend stages files, amends HEAD keeping its message and author, and moves
// the tags that pointed at the old HEAD when its subject is a version.
func (it *AmenderRepository) Amend(
	_ context.Context,
	repoDir string,
	files []string,
	opts repositories.AmendOptions,
) error {
	if len(files) == 0 {
		logger.Info("[git] Nothing to amend")
		return nil
	}

	repo, err := git.PlainOpenWithOptions(repoDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return fmt.Errorf("failed to open repository at %s: %w", repoDir, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	root := worktree.Filesystem.Root()

	for _, file := range files {
		rel, relErr := relativeTo(root, file)
		if relErr != nil {
			return relErr
		}
		if _, addErr := worktree.Add(rel); addErr != nil {
			return fmt.Errorf("failed to stage %s: %w", rel, addErr)
		}
		logger.Debugf("[git] Staged %s", rel)
	}

	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	headCommit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return fmt.Errorf("failed to read HEAD commit: %w", err)
	}

	tags, err := tagsPointingAt(repo, head.Hash())
	if err != nil {
		return err
	}

	author := headCommit.Author
	amended, err := worktree.Commit(headCommit.Message, &git.CommitOptions{
		Amend:  true,
		Author: &author,
		Committer: &object.Signature{
			Name:  headCommit.Committer.Name,
			Email: headCommit.Committer.Email,
			When:  it.now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to amend HEAD: %w", err)
	}
	logger.Infof("[git] Amended %s into %s", head.Hash().String()[:7], amended.String()[:7])

	subject := strings.TrimSpace(strings.SplitN(headCommit.Message, "\n", 2)[0]) //nolint:mnd // subject and body
	if opts.SkipTag || !entities.IsSemanticVersion(subject) {
		return nil
	}

	for _, tag := range tags {
		if moveErr := moveTag(repo, tag, amended); moveErr != nil {
			return moveErr
		}
		logger.Infof("[git] Moved tag %s to %s", tag.name, amended.String()[:7])
	}
	return nil
}

// headTag is a tag reference and, for annotated tags, its tag object.
type headTag struct {
	name      string
	annotated *object.Tag
}

func tagsPointingAt(repo *git.Repository, hash plumbing.Hash) ([]headTag, error) {
	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer iter.Close()

	var tags []headTag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tag := headTag{name: ref.Name().Short()}
		target := ref.Hash()

		annotated, tagErr := repo.TagObject(ref.Hash())
		switch {
		case tagErr == nil:
			tag.annotated = annotated
			target = annotated.Target
		case !errors.Is(tagErr, plumbing.ErrObjectNotFound):
			return fmt.Errorf("failed to read tag %s: %w", tag.name, tagErr)
		}

		if target == hash {
			tags = append(tags, tag)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func moveTag(repo *git.Repository, tag headTag, target plumbing.Hash) error {
	if err := repo.DeleteTag(tag.name); err != nil {
		return fmt.Errorf("failed to delete tag %s: %w", tag.name, err)
	}

	var opts *git.CreateTagOptions
	if tag.annotated != nil {
		tagger := tag.annotated.Tagger
		opts = &git.CreateTagOptions{Tagger: &tagger, Message: tag.annotated.Message}
	}
	if _, err := repo.CreateTag(tag.name, target, opts); err != nil {
		return fmt.Errorf("failed to create tag %s: %w", tag.name, err)
	}
	return nil
}

// relativeTo returns path relative to the worktree root, as go-git expects.
func relativeTo(root, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside the repository at %s", path, root)
	}
	return filepath.ToSlash(rel), nil
}
