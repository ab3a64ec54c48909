package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"getsrc/internal/ext"
	logger "getsrc/internal/log"
)

// GoGitCloner clones in-process. The ref is tried as a branch first, then as a tag.
type GoGitCloner struct{}

func (GoGitCloner) Clone(ctx context.Context, request CloneRequest) error {
	dest := filepath.Join(request.Root, request.Path)

	err := plainClone(ctx, dest, request, plumbing.NewBranchReferenceName(request.Ref))
	if err == nil || !isMissingRef(err) {
		return err
	}

	logger.Log.Debugf("No branch %s on %s, trying tag", request.Ref, request.URL)
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("failed to clean up %s after branch lookup: %w", dest, err)
	}
	return plainClone(ctx, dest, request, plumbing.NewTagReferenceName(request.Ref))
}

func plainClone(ctx context.Context, dest string, request CloneRequest, ref plumbing.ReferenceName) error {
	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:           request.URL,
		ReferenceName: ref,
		SingleBranch:  true,
		Depth:         ext.DefaultValue(request.Depth, 1),
		Tags:          git.NoTags,
	})
	return err
}

func isMissingRef(err error) bool {
	return errors.Is(err, git.NoMatchingRefSpecError{}) || errors.Is(err, plumbing.ErrReferenceNotFound)
}
