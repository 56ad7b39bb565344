package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wasmlift/wasmlift/lift"
)

func newCompileCmd(logger *logrus.Logger) *cobra.Command {
	var outPath string
	var dumpPath string

	cmd := &cobra.Command{
		Use:   "compile <program.json>",
		Short: "Compile a JSON-encoded IR buffer into a binary Wasm module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			instrs, oracle, err := loadProgram(args[0])
			if err != nil {
				return err
			}

			opts := []lift.Option{lift.WithLogger(logger)}
			if dumpPath != "" {
				opts = append(opts, lift.WithDebugDumpPath(dumpPath))
			}
			lf := lift.NewLifter(oracle, opts...)
			for _, instr := range instrs {
				lf.AddInstruction(instr)
			}

			module, imported, err := lf.Lift()
			if err != nil {
				return fmt.Errorf("lift: %w", err)
			}

			if err := os.WriteFile(outPath, module, 0o644); err != nil {
				return fmt.Errorf("write module: %w", err)
			}

			logger.Infof("wrote %d bytes to %s, %d imports required", len(module), outPath, len(imported))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "out.wasm", "output .wasm path")
	cmd.Flags().StringVar(&dumpPath, "debug-dump", "", "additionally write the module through the Lifter's own debug-dump path")
	return cmd
}
