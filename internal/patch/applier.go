package patch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"getsrc/internal/color"
	"getsrc/internal/counter"
	"getsrc/internal/ext"
	logger "getsrc/internal/log"
	"getsrc/internal/sh"
)

const DefaultPatchesDirectory = "patches"

// ApplicationError reports the action that failed. Output carries the patch tool's output, if any.
type ApplicationError struct {
	Action Action
	Output string
	Err    error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Action, e.Err)
}

func (e *ApplicationError) Unwrap() error {
	return e.Err
}

type Applier struct {
	Root             string
	PatchesDirectory string // Absolute, or relative to Root
	Runner           sh.Runner
	AppliedCounter   *counter.Counter
}

func NewApplier(root string, patchesDirectory string, runner sh.Runner, appliedCounter *counter.Counter) *Applier {
	if !filepath.IsAbs(patchesDirectory) {
		patchesDirectory = filepath.Join(root, patchesDirectory)
	}
	return &Applier{
		Root:             root,
		PatchesDirectory: patchesDirectory,
		Runner:           runner,
		AppliedCounter:   appliedCounter,
	}
}

// Apply runs the actions in order and stops at the first failure.
func (a *Applier) Apply(ctx context.Context, actions []Action) error {
	if err := ValidateOrder(actions); err != nil {
		return err
	}
	for _, action := range actions {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Log.Infof("Applying %s", color.FgCyan(action.String()))
		if err := a.apply(ctx, action); err != nil {
			logger.Log.Errorf("Patch action %s failed: %v", color.FgRed(action.String()), err)
			var applicationError *ApplicationError
			if errors.As(err, &applicationError) {
				return err
			}
			return &ApplicationError{Action: action, Err: err}
		}
		a.AppliedCounter.Add(1)
	}
	return nil
}

func (a *Applier) apply(ctx context.Context, action Action) error {
	switch action.Kind {
	case KindMkdir:
		return a.mkdir(action)
	case KindCopy:
		return a.copy(action)
	case KindDiff:
		return a.diff(ctx, action)
	case KindSymlink:
		return a.symlink(action)
	}
	return fmt.Errorf("unknown kind %q", action.Kind)
}

func (a *Applier) mkdir(action Action) error {
	dir, err := ext.JoinUnder(a.Root, action.Destination)
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// copy overwrites the destination and keeps the source's mode and modification time.
// A destination that is an existing directory receives the file under its own name.
func (a *Applier) copy(action Action) error {
	source, err := ext.JoinUnder(a.PatchesDirectory, action.Source)
	if err != nil {
		return err
	}
	destination, err := ext.JoinUnder(a.Root, action.Destination)
	if err != nil {
		return err
	}
	if info, err := os.Stat(destination); err == nil && info.IsDir() {
		destination = filepath.Join(destination, filepath.Base(source))
	}

	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(destination, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Chmod(destination, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(destination, info.ModTime(), info.ModTime())
}

// diff applies a unified diff with strip level 1 from the root. Every file the diff modifies
// must exist before patch runs. A diff whose reverse applies cleanly is treated as already applied.
func (a *Applier) diff(ctx context.Context, action Action) error {
	patchFile, err := ext.JoinUnder(a.PatchesDirectory, action.Source)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(patchFile)
	if err != nil {
		return err
	}
	targets, fileCount, err := patchTargets(string(content))
	if err != nil {
		return err
	}
	if fileCount == 0 {
		return fmt.Errorf("%s contains no file changes", action.Source)
	}
	if logger.Log.GetLevel() >= logrus.DebugLevel {
		logger.Log.Debugf("%s modifies %s", action.Source, strings.Join(targets, ", "))
	}
	for _, target := range targets {
		path, err := ext.JoinUnder(a.Root, target)
		if err != nil {
			return err
		}
		if exists, err := ext.Exists(path); err != nil {
			return err
		} else if !exists {
			return &ApplicationError{Action: action, Err: fmt.Errorf("patch target %s: %w", target, fs.ErrNotExist)}
		}
	}

	cwd := sh.DirectoryPath(a.Root)
	args := []string{"-p1", "--forward", "--batch", "-i", patchFile}
	out, err := a.Runner.Run(ctx, cwd, nil, "patch", append(args, "--dry-run")...)
	if err != nil {
		reverseArgs := []string{"-p1", "--reverse", "--batch", "--dry-run", "-i", patchFile}
		if _, reverseErr := a.Runner.Run(ctx, cwd, nil, "patch", reverseArgs...); reverseErr == nil {
			logger.Log.Warnf("%s is already applied, skipping", color.FgYellow(action.Source))
			return nil
		}
		return &ApplicationError{Action: action, Output: out, Err: err}
	}

	out, err = a.Runner.Run(ctx, cwd, nil, "patch", args...)
	if err != nil {
		return &ApplicationError{Action: action, Output: out, Err: err}
	}
	logger.Log.Debugf("patch output for %s:\n%s", action.Source, out)
	return nil
}

// symlink replaces whatever is at the destination with a link to the absolute source path.
// Only an empty directory is replaced; a populated one is an error.
func (a *Applier) symlink(action Action) error {
	target, err := ext.JoinUnder(a.Root, action.Source)
	if err != nil {
		return err
	}
	link, err := ext.JoinUnder(a.Root, action.Destination)
	if err != nil {
		return err
	}
	if exists, _ := ext.Exists(target); !exists {
		logger.Log.Warnf("Symlink target %s does not exist", color.FgYellow(target))
	}

	info, err := os.Lstat(link)
	switch {
	case err == nil && info.IsDir():
		if err := os.Remove(link); err != nil {
			return fmt.Errorf("refusing to replace directory %s: %w", link, err)
		}
	case err == nil:
		if err := os.Remove(link); err != nil {
			return err
		}
	case !os.IsNotExist(err):
		return err
	}
	return os.Symlink(target, link)
}
