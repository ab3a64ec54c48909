package gitrepo

import (
	"context"

	"getsrc/internal/color"
	"getsrc/internal/counter"
	logger "getsrc/internal/log"
)

type CheckoutResult struct {
	Cloned  []Descriptor
	Skipped []Descriptor
}

// Checkout clones every repository whose path is absent, in the given order.
// The first failure stops the run; repositories cloned before it are kept.
func Checkout(ctx context.Context, repositories []GitRepo, ref string, cloner Cloner, clonedCounter *counter.Counter, skippedCounter *counter.Counter) (*CheckoutResult, error) {
	result := &CheckoutResult{}
	for _, repo := range repositories {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		needsCloning, err := repo.CheckNeedsCloning()
		if err != nil {
			return result, err
		}
		if !needsCloning {
			logger.Log.Debugf("%s already present, skipping clone", color.FgMagenta(repo.GetName()))
			if cloned, _ := repo.IsCloned(); !cloned {
				logger.Log.Warnf("%s exists but is not a git checkout", color.FgYellow(repo.GetName()))
			}
			skippedCounter.Add(1)
			result.Skipped = append(result.Skipped, repo.GetDescriptor())
			continue
		}

		if err := repo.Clone(ctx, cloner, ref); err != nil {
			logger.Log.Errorf("Failed to clone %s: %v", color.FgRed(repo.GetName()), err)
			return result, err
		}
		clonedCounter.Add(1)
		result.Cloned = append(result.Cloned, repo.GetDescriptor())
	}
	return result, nil
}

func ToRepositories(root string, descriptors []Descriptor) []GitRepo {
	repos := make([]GitRepo, 0, len(descriptors))
	for _, descriptor := range descriptors {
		repos = append(repos, NewRepository(root, descriptor))
	}
	return repos
}
