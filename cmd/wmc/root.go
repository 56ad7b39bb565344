// Package main implements wmc, a command-line front end over the wasmlift compiler: it reads a
// JSON-encoded instruction buffer and type oracle (the shape produced by serializing ir.Code, for
// a standalone driver that doesn't embed the Go package directly) and writes the resulting binary
// Wasm module.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCmd(logger *logrus.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "wmc",
		Short:         "wmc compiles a linear Wasm IR buffer into a binary module",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("verbose", false, "enable debug-level logging")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}
		return nil
	}

	root.AddCommand(newCompileCmd(logger))
	root.AddCommand(newInspectCmd(logger))
	return root
}

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if err := newRootCmd(logger).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "wmc:", err)
		os.Exit(1)
	}
}
