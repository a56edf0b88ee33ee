// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/luthersystems/lispc/sourcemap"
	"github.com/spf13/cobra"
)

// SourceMapCommand returns the sourcemap command and its subcommands.
func SourceMapCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sourcemap",
		Short: "Inspect source maps",
		Long: `Inspect version 3 source maps such as those written by "lispc fmt --source-map".

A generated line may hold several segments.  When a line is looked up, the
segment with the lowest original line is reported.`,
	}
	cmd.AddCommand(
		sourceMapDecodeCommand(),
		sourceMapLookupCommand(),
		sourceMapVLQCommand(),
	)
	return cmd
}

func sourceMapDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode FILE",
		Short: "Print every segment of a source map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cons, err := loadConsumer(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, line := range cons.Lines() {
				for _, seg := range cons.Segments(line) {
					writeSegment(w, cons, line, seg)
				}
			}
			return nil
		},
	}
}

func sourceMapLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup FILE LINE",
		Short: "Print the original position of a generated line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := strconv.Atoi(args[1])
			if err != nil || line < 1 {
				return fmt.Errorf("invalid line number: %q", args[1])
			}
			cons, err := loadConsumer(args[0])
			if err != nil {
				return err
			}
			seg, ok := cons.Lookup(line)
			if !ok {
				fmt.Fprintf(cmd.ErrOrStderr(), "line %d has no mapping\n", line)
				return &ExitError{Code: 1}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d\n",
				cons.Source(seg.SourceIndex), seg.OriginalLine, seg.OriginalColumn+1)
			return nil
		},
	}
}

func sourceMapVLQCommand() *cobra.Command {
	var decode bool
	cmd := &cobra.Command{
		Use:   "vlq [--decode] VALUES...",
		Short: "Encode integers as base64 VLQ, or decode them",
		Long: `Encode each integer argument as base64 VLQ and print the concatenation.
With --decode, print the integers encoded by each argument instead.

Examples:
  lispc sourcemap vlq 0 0 16 1     # AAgBC
  lispc sourcemap vlq --decode AAgBC`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if decode {
				for _, arg := range args {
					values, err := sourcemap.DecodeVLQ(arg)
					if err != nil {
						return fmt.Errorf("%s: %w", arg, err)
					}
					strs := make([]string, len(values))
					for i, v := range values {
						strs[i] = strconv.Itoa(v)
					}
					fmt.Fprintln(w, strings.Join(strs, " "))
				}
				return nil
			}
			var buf []byte
			for _, arg := range args {
				n, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid integer: %q", arg)
				}
				buf = sourcemap.AppendVLQ(buf, n)
			}
			fmt.Fprintln(w, string(buf))
			return nil
		},
	}
	cmd.Flags().BoolVar(&decode, "decode", false, "Decode VLQ strings.")
	return cmd
}

func loadConsumer(path string) (*sourcemap.Consumer, error) {
	b, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return nil, err
	}
	f, err := sourcemap.ParseFile(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cons, err := f.Consumer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cons, nil
}

func writeSegment(w io.Writer, cons *sourcemap.Consumer, line int, seg sourcemap.Segment) {
	fmt.Fprintf(w, "%d:%d", line, seg.GeneratedColumn+1)
	if seg.HasSource {
		fmt.Fprintf(w, " -> %s:%d:%d", cons.Source(seg.SourceIndex), seg.OriginalLine, seg.OriginalColumn+1)
	}
	if name := cons.Name(seg.NameIndex); name != "" {
		fmt.Fprintf(w, " %s", name)
	}
	fmt.Fprintln(w)
}
