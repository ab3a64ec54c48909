package assembleCommand

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"getsrc/internal/appConfig"
	"getsrc/internal/assembleCommand/terminalView"
	"getsrc/internal/color"
	"getsrc/internal/gitrepo"
	"getsrc/internal/log"
	"getsrc/internal/manifest"
	"getsrc/internal/patch"
	"getsrc/internal/preflight"
	"getsrc/internal/sh"
	"getsrc/internal/view"
)

const SuccessMessage = "download success!!"

// Dependencies are the process-level collaborators of the command. Zero values select the real ones.
type Dependencies struct {
	LookPath preflight.LookPathFunc
	Runner   sh.Runner
	Cloner   gitrepo.Cloner
	Stdout   io.Writer
	Since    func(time.Time) time.Duration
}

func (d Dependencies) withDefaults(config *appConfig.AppConfig) Dependencies {
	if d.Runner == nil {
		d.Runner = sh.ExecRunner{}
	}
	if d.Cloner == nil {
		if config.CloneBackend == appConfig.CloneBackendGoGit {
			d.Cloner = gitrepo.GoGitCloner{}
		} else {
			d.Cloner = gitrepo.ShellCloner{Runner: d.Runner}
		}
	}
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Since == nil {
		d.Since = time.Since
	}
	return d
}

// ExecuteAssembleCommand checks tools, checks out the manifest and applies the patch table, in that order.
// A summary is printed whether or not it succeeds.
func ExecuteAssembleCommand(ctx context.Context, config *appConfig.AppConfig, deps Dependencies) error {
	startTime := time.Now()
	deps = deps.withDefaults(config)

	viewModel := terminalView.NewAssembleCommandViewModel(config.Root, config.Manifest, config.Tags, len(config.Actions))
	summary := terminalView.NewAssembleCommandView(viewModel, deps.Stdout, startTime, deps.Since)

	err := assemble(ctx, config, deps, viewModel)
	if err != nil {
		viewModel.ErrorViewModel.Report(err)
	}
	summary.Render(outputWidth(deps.Stdout))
	if err != nil {
		return err
	}

	logger.Log.Infof("Source tree assembled in %s seconds", color.FgGreen(fmt.Sprintf("%.2f", deps.Since(startTime).Seconds())))
	_, err = fmt.Fprintln(deps.Stdout, color.FgGreen(SuccessMessage))
	return err
}

func assemble(ctx context.Context, config *appConfig.AppConfig, deps Dependencies, viewModel *terminalView.AssembleCommandViewModel) error {
	logger.Log.Infof("Assembling %s from %s at %s", color.FgCyan(config.Root), color.FgCyan(config.Manifest), color.FgMagenta(config.Tags))

	tools, err := preflight.Check(config.Tools, deps.LookPath)
	for _, tool := range tools {
		_, _ = fmt.Fprintln(deps.Stdout, tool.Path)
	}
	if err != nil {
		return err
	}

	descriptors, err := manifest.Load(config.Manifest)
	if err != nil {
		return err
	}
	viewModel.CheckoutViewModel.RepositoryCount.Add(len(descriptors))

	_, err = gitrepo.Checkout(
		ctx,
		gitrepo.ToRepositories(config.Root, descriptors),
		config.Tags,
		deps.Cloner,
		viewModel.CheckoutViewModel.ClonedCount,
		viewModel.CheckoutViewModel.SkippedCount,
	)
	if err != nil {
		return err
	}

	applier := patch.NewApplier(config.Root, config.PatchesDirectory, deps.Runner, viewModel.PatchViewModel.AppliedCount)
	return applier.Apply(ctx, config.Actions)
}

func outputWidth(out io.Writer) int {
	if file, ok := out.(*os.File); ok {
		return view.TerminalWidth(file)
	}
	return view.DefaultWidth
}
