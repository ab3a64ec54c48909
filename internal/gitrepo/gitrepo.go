package gitrepo

import (
	"context"
	"fmt"
	"github.com/sirupsen/logrus"
	"path/filepath"

	"getsrc/internal/color"
	"getsrc/internal/ext"
	logger "getsrc/internal/log"
	"getsrc/internal/sh"
)

const DefaultRef = "master"

// Descriptor is one manifest entry. Path identifies it within the manifest.
type Descriptor struct {
	Path string `json:"path" yaml:"path"`
	URL  string `json:"url" yaml:"url"`
}

type Repository struct {
	Descriptor
	Root string
}

type CloneError struct {
	Path string
	URL  string
	Ref  string
	Err  error
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("clone of %s (%s) into %s failed: %v", e.URL, e.Ref, e.Path, e.Err)
}

func (e *CloneError) Unwrap() error {
	return e.Err
}

func NewRepository(root string, descriptor Descriptor) *Repository {
	return &Repository{Descriptor: descriptor, Root: root}
}

func (repo *Repository) GetName() string {
	return repo.Path
}

func (repo *Repository) GetDescriptor() Descriptor {
	return repo.Descriptor
}

func (repo *Repository) AbsPath() string {
	return filepath.Join(repo.Root, repo.Path)
}

// CheckNeedsCloning treats anything present at the path as already fetched.
func (repo *Repository) CheckNeedsCloning() (bool, error) {
	exists, err := ext.Exists(repo.AbsPath())
	if err != nil {
		return false, fmt.Errorf("error checking if %s needs cloning: %w", repo.Path, err)
	}
	return !exists, nil
}

func (repo *Repository) IsCloned() (bool, error) {
	exists, err := ext.Exists(filepath.Join(repo.AbsPath(), ".git"))
	if err != nil {
		return false, fmt.Errorf("error checking clone status %s: %w", repo.Path, err)
	}
	return exists, nil
}

func (repo *Repository) Clone(ctx context.Context, cloner Cloner, ref string) error {
	ref = ext.DefaultValue(ref, DefaultRef)
	logger.Log.Infof("Cloning %s (%s) to %s", color.FgMagenta(repo.URL), ref, color.FgMagenta(repo.Path))

	err := cloner.Clone(ctx, CloneRequest{
		Root:  repo.Root,
		Path:  repo.Path,
		URL:   repo.URL,
		Ref:   ref,
		Depth: 1,
	})
	if err != nil {
		return &CloneError{Path: repo.Path, URL: repo.URL, Ref: ref, Err: err}
	}
	if logger.Log.GetLevel() >= logrus.DebugLevel {
		logger.Log.Debugf("Cloned %s into %s", repo.URL, color.FgCyan(repo.AbsPath()))
	}
	return nil
}

// ShellCloner runs the git client with interactive prompts disabled.
type ShellCloner struct {
	Runner sh.Runner
}

var promptlessGitEnv = []string{
	"GIT_TERMINAL_PROMPT=0",
	"GIT_SSH_COMMAND=ssh -o BatchMode=yes -o StrictHostKeyChecking=no",
}

func (c ShellCloner) Clone(ctx context.Context, request CloneRequest) error {
	args := []string{
		"clone",
		"-c", "advice.detachedHead=false",
		"--depth", fmt.Sprintf("%d", ext.DefaultValue(request.Depth, 1)),
		"--single-branch",
		"--branch", request.Ref,
		request.URL,
		request.Path,
	}
	out, err := c.Runner.Run(ctx, sh.DirectoryPath(request.Root), promptlessGitEnv, "git", args...)
	if err != nil {
		if out != "" {
			logger.Log.Errorf("git clone output for %s:\n%s", request.Path, out)
		}
		return err
	}
	return nil
}
