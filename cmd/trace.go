// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"
	"os"

	"github.com/luthersystems/lispc/sourcemap"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// TraceCommand returns the trace command.
func TraceCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	var cacheSize int
	cmd := &cobra.Command{
		Use:   "trace [FILE]",
		Short: "Map file:line references in a trace back to source",
		Long: `Copy FILE, or stdin, to stdout rewriting every file:line reference to a
generated file that has a source map next to it (file.map) so that it points
at the original source line.  References to other files are left unchanged.

Examples:
  lispc fmt -o out.lisp --source-map a.lisp b.lisp
  some-runtime out.lisp 2>&1 | lispc trace`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cfg.newLogger()
			defer logger.Sync() //nolint:errcheck

			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0]) //nolint:gosec // CLI tool reads user-specified files
				if err != nil {
					return err
				}
				defer f.Close() //nolint:errcheck
				r = f
			}
			cache, err := sourcemap.NewCache(cacheSize, nil)
			if err != nil {
				return err
			}
			err = sourcemap.NewTracer(cache).Rewrite(r, cmd.OutOrStdout())
			logger.Debug("trace done", zap.Int("source_maps", cache.Len()))
			if err != nil {
				if rerr := renderErrors(cmd.ErrOrStderr(), err); rerr != nil {
					return rerr
				}
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&cacheSize, "cache-size", 64,
		"Maximum number of source maps kept in memory.")
	return cmd
}
