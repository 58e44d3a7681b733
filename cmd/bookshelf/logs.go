package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/bookshelf/internal/config"
	"github.com/five82/bookshelf/internal/logtail"
)

const defaultLogLines = 50

func newLogsCmd(root *rootOptions) *cobra.Command {
	var (
		lines   int
		raw     bool
		noColor bool
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the tail of the bookshelf log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if v := strings.TrimSpace(root.logFile); v != "" {
				cfg.LogFile = v
			}
			out := cmd.OutOrStdout()
			if !cfg.LoggingEnabled() {
				_, err := fmt.Fprintln(out, "Logging is disabled.")
				return err
			}

			entries, err := logtail.Read(cfg.LogFile, lines)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, err := fmt.Fprintf(out, "No log entries in %s.\n", cfg.LogFile)
				return err
			}
			switch {
			case raw:
			case noColor:
				for i, line := range entries {
					entries[i] = logtail.FormatLine(line)
				}
			default:
				entries = logtail.ColorizeLines(entries)
			}
			_, err = fmt.Fprintln(out, strings.Join(entries, "\n"))
			return err
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", defaultLogLines, "number of lines to show (0 shows all)")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the JSON lines unformatted")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "format lines without colors")
	return cmd
}
