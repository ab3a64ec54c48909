// Package preflight verifies that the external tools the assembly shells out to are installed.
package preflight

import (
	"fmt"
	"os/exec"

	"getsrc/internal/color"
	logger "getsrc/internal/log"
)

// DefaultTools are needed by the build of the assembled tree, plus patch for diff application.
var DefaultTools = []string{"git", "go", "bison", "flex", "patch"}

type LookPathFunc func(file string) (string, error)

type ResolvedTool struct {
	Name string
	Path string
}

type MissingToolError struct {
	Tool string
	Err  error
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("please install the %s package", e.Tool)
}

func (e *MissingToolError) Unwrap() error {
	return e.Err
}

// Check resolves every tool on the search path and stops at the first one that is missing.
func Check(tools []string, lookPath LookPathFunc) ([]ResolvedTool, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	resolved := make([]ResolvedTool, 0, len(tools))
	for _, tool := range tools {
		path, err := lookPath(tool)
		if err != nil {
			logger.Log.Errorf("Required tool %s not found: %v", color.FgRed(tool), err)
			return resolved, &MissingToolError{Tool: tool, Err: err}
		}
		logger.Log.Infof("Found %s at %s", tool, path)
		resolved = append(resolved, ResolvedTool{Name: tool, Path: path})
	}
	return resolved, nil
}
