package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"getsrc/internal/appConfig"
	"getsrc/internal/archive"
	"getsrc/internal/assembleCommand"
	"getsrc/internal/color"
	. "getsrc/internal/log"
	typex "getsrc/type"
)

type rootOptions struct {
	verbose      typex.NullableBool
	tags         string
	root         string
	manifest     string
	patches      string
	configFile   string
	cloneBackend string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, color.FgRed("Error: %v", err))
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&rootOptions{})
}

func buildRootCmd(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "getsrc",
		Short: "Assemble the source tree from repos.json and apply the bundled patches",
		Long: `getsrc checks that the build tools are installed, clones every repository
listed in repos.json that is not already present (shallow, single branch),
then applies the patch table: directories, file copies, unified diffs and
the googletest symlink, in that order.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			workingDirectory, err := os.Getwd()
			if err != nil {
				return err
			}
			config, err := resolveConfig(cmd, opts, workingDirectory)
			if err != nil {
				return err
			}
			closer := InitLogger(opts.verbose.Val(config.Verbose))
			defer closer.Close()

			return assembleCommand.ExecuteAssembleCommand(cmd.Context(), config, assembleCommand.Dependencies{Stdout: cmd.OutOrStdout()})
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.tags, "tags", "master", "Specify the Git cloning tags or branch")
	flags.StringVar(&opts.root, "root", "", "Directory to assemble the tree in (default is the working directory)")
	flags.StringVar(&opts.manifest, "manifest", "", "Repository manifest (default is repos.json in the root)")
	flags.StringVar(&opts.patches, "patches", "", "Directory holding the patch files (default is patches in the root)")
	flags.StringVar(&opts.configFile, "config", "", "Config file (default is getsrc.yaml in the root, then the home directory)")
	flags.StringVar(&opts.cloneBackend, "clone-backend", "", "Clone with the git client (git) or in-process (go-git)")
	rootCmd.PersistentFlags().Var(&opts.verbose, "verbose", "Print verbose output to the log file")
	rootCmd.PersistentFlags().Lookup("verbose").NoOptDefVal = "true"

	rootCmd.AddCommand(newFetchCmd(&opts.verbose))
	return rootCmd
}

// resolveConfig layers flags the user set over the config file over defaults.
func resolveConfig(cmd *cobra.Command, opts *rootOptions, workingDirectory string) (*appConfig.AppConfig, error) {
	configRoot := workingDirectory
	if opts.root != "" {
		configRoot = opts.root
	}
	config, err := appConfig.LoadConfig(configRoot, opts.configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("tags") {
		config.Tags = opts.tags
	}
	if flags.Changed("root") {
		config.Root = opts.root
	}
	if flags.Changed("manifest") {
		config.Manifest = opts.manifest
	}
	if flags.Changed("patches") {
		config.PatchesDirectory = opts.patches
	}
	if flags.Changed("clone-backend") {
		config.CloneBackend = opts.cloneBackend
	}
	return config.WithDefaults(workingDirectory)
}

func newFetchCmd(verbose *typex.NullableBool) *cobra.Command {
	var retries int
	fetchCmd := &cobra.Command{
		Use:   "fetch URL FILENAME TARGET",
		Short: "Download a tar archive, extract it into TARGET and delete the download",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			closer := InitLogger(verbose.Val(false))
			defer closer.Close()

			url, filename, target := args[0], args[1], args[2]
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "downloading %s\n", filename)
			result, err := archive.Fetch(cmd.Context(), url, filename, target, archive.Options{Retries: retries})
			if err != nil {
				Log.Errorf("Fetch of %s failed: %v", url, err)
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "extracted %s entries (%s) to %s\n",
				color.FgMagenta("%d", len(result.Entries)),
				humanize.Bytes(uint64(result.Bytes)),
				color.FgCyan(target))
			return err
		},
	}
	fetchCmd.Flags().IntVar(&retries, "retries", 0, "Retries after a failed download attempt")
	return fetchCmd
}
