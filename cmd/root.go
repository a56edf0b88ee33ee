// Copyright © 2018 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/luthersystems/lispc/compiler"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// ExitError is returned by a command that wants the process to exit with
// Code without printing anything further.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lispc",
	Short: "Analyze, lint and format lisp source",
	Long: `lispc reads lisp source, analyzes it into a typed syntax tree, and reports
what it finds. It also formats source and maps positions in generated files
back to the source they came from.

Getting started:
  lispc analyze file.lisp          Analyze a file and print its syntax tree
  lispc lint ./...                 Run static analysis checks on a tree
  lispc fmt -o out.lisp file.lisp  Format a file and write out.lisp.map
  lispc trace < log.txt            Rewrite file:line references via source maps
  lispc sourcemap lookup out.lisp.map 12

Language overview:
  Special forms are defstruct, def, fn, if, do, let, quote and ns. Any other
  list is a call, [a b] is a vector and {k v} is a map. Special forms cannot
  be shadowed by locals. (ns name) switches the namespace of later forms.

Configuration is read from $HOME/.lispc.yaml or the file named by --config.
Every persistent flag may also be set with a LISPC_ environment variable,
for example LISPC_NAMESPACE=geom.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	var exit *ExitError
	if errors.As(err, &exit) {
		os.Exit(exit.Code)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "lispc:", err)
		os.Exit(2)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.lispc.yaml)")
	flags.String("color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	flags.String("namespace", compiler.DefaultNamespace,
		"Namespace of each file before any ns form.")
	flags.Bool("fail-fast", false,
		"Stop at the first analysis error.")
	flags.Int("jobs", 0,
		"Maximum number of files analyzed at once (0 means no limit).")
	flags.BoolP("verbose", "v", false,
		"Log compiler progress to stderr.")
	for _, name := range []string{"color", "namespace", "fail-fast", "jobs", "verbose"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(
		AnalyzeCommand(),
		LintCommand(),
		FmtCommand(),
		SourceMapCommand(),
		TraceCommand(),
		DocCommand(),
	)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		// Search config in home directory with name ".lispc" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".lispc")
	}

	viper.SetEnvPrefix("lispc")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
