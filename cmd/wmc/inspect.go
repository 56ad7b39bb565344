package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wasmlift/wasmlift/internal/validate"
	"github.com/wasmlift/wasmlift/lift"
)

func newInspectCmd(logger *logrus.Logger) *cobra.Command {
	var withWasmtime bool
	var withWasmer bool

	cmd := &cobra.Command{
		Use:   "inspect <program.json>",
		Short: "Lift a program and report its size, import count and engine-decode status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			instrs, oracle, err := loadProgram(args[0])
			if err != nil {
				return err
			}

			lf := lift.NewLifter(oracle, lift.WithLogger(logger))
			for _, instr := range instrs {
				lf.AddInstruction(instr)
			}
			module, imported, err := lf.Lift()
			if err != nil {
				return fmt.Errorf("lift: %w", err)
			}

			fmt.Printf("module: %d bytes, %d imports, %d instructions\n", len(module), len(imported), len(instrs))

			if withWasmtime {
				if err := validate.Wasmtime(module); err != nil {
					return fmt.Errorf("wasmtime rejected module: %w", err)
				}
				fmt.Println("wasmtime: module decodes and validates")
			}
			if withWasmer {
				if err := validate.Wasmer(module); err != nil {
					return fmt.Errorf("wasmer rejected module: %w", err)
				}
				fmt.Println("wasmer: module decodes and validates")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withWasmtime, "wasmtime", false, "additionally validate the module against wasmtime")
	cmd.Flags().BoolVar(&withWasmer, "wasmer", false, "additionally validate the module against wasmer")
	return cmd
}
