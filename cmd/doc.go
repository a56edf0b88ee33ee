// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/lispc/docs"
	"github.com/spf13/cobra"
)

// DocCommand returns the doc command.
func DocCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doc [topic]",
		Short: "Show the language reference",
		Long: `Show the language reference, or the section on a single topic.

Topics: ` + strings.Join(docs.Topics(), ", ") + `

Examples:
  lispc doc
  lispc doc defstruct`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 0 {
				_, err := io.WriteString(w, docs.LangGuide)
				return err
			}
			s, ok := docs.Section(args[0])
			if !ok {
				return fmt.Errorf("unknown topic: %s (topics: %s)", args[0], strings.Join(docs.Topics(), ", "))
			}
			_, err := io.WriteString(w, s)
			return err
		},
	}
}
