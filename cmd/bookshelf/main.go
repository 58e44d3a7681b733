package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/bookshelf/internal/app"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	prefsPath  string
	apiURL     string
	logFile    string
	verbose    bool
}

func (o *rootOptions) appOptions() app.Options {
	opts := app.Options{
		ConfigPath: o.configPath,
		PrefsPath:  o.prefsPath,
		APIURL:     o.apiURL,
		LogFile:    o.logFile,
	}
	if o.verbose {
		opts.LogLevel = "debug"
	}
	return opts
}

// withRuntime builds the shared runtime for a single command invocation.
func (o *rootOptions) withRuntime(fn func(rt *app.Runtime) error) error {
	rt, err := app.NewRuntime(o.appOptions())
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()
	return fn(rt)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "bookshelf",
		Short: "Terminal book catalog manager",
		Long: `bookshelf manages a book catalog served by a REST backend.

Without a subcommand it opens the interactive form and table. The
subcommands expose the same operations for scripts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), opts.appOptions())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file path (default ~/.config/bookshelf/config.toml)")
	flags.StringVar(&opts.prefsPath, "prefs", "", "preferences file path (default ~/.config/bookshelf/prefs.toml)")
	flags.StringVar(&opts.apiURL, "api-url", "", "book API base URL")
	flags.StringVar(&opts.logFile, "log-file", "", `log file path ("-" disables logging)`)
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newListCmd(opts),
		newGetCmd(opts),
		newAddCmd(opts),
		newUpdateCmd(opts),
		newDeleteCmd(opts),
		newServeCmd(opts),
		newLogsCmd(opts),
	)
	return root
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "bookshelf: %v\n", err)
		return 1
	}
	return 0
}
