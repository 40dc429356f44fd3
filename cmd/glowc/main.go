// Command glowc is the compiler driver: its lower subcommand turns a
// Kernel-IR module into SSA, and its run subcommand lowers a module
// and constructs a scheduler runtime without executing anything on it.
package main

import (
	"fmt"
	"os"

	"github.com/glow-lang/glow/internal/diag"
	"github.com/glow-lang/glow/internal/kernel"
	"github.com/glow-lang/glow/internal/lower"
	"github.com/glow-lang/glow/internal/scheduler"
	"github.com/glow-lang/glow/internal/ssa"
	"github.com/glow-lang/glow/internal/symbol"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "glowc",
		Short: "glowc lowers Kernel IR to SSA and runs it on the process scheduler",
	}
	root.AddCommand(newLowerCmd(), newRunCmd())
	return root
}

func newLowerCmd() *cobra.Command {
	var printIR bool
	cmd := &cobra.Command{
		Use:   "lower [module]",
		Short: "Lower a Kernel-IR module to SSA and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			interner := symbol.New()
			kmod, err := loadKernelModule(args[0], interner)
			if err != nil {
				return err
			}
			mod, err := lower.LowerModule(kmod, interner)
			if err != nil {
				return err
			}
			if printIR {
				for _, decl := range mod.Decls() {
					if decl.Body != nil {
						fmt.Fprintln(cmd.OutOrStdout(), ssa.Print(decl.Body))
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&printIR, "print", true, "print the lowered SSA IR")
	return cmd
}

func newRunCmd() *cobra.Command {
	var numSchedulers int
	cmd := &cobra.Command{
		Use:   "run [module]",
		Short: "Lower a module and schedule its start function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			interner := symbol.New()
			kmod, err := loadKernelModule(args[0], interner)
			if err != nil {
				return err
			}
			if _, err := lower.LowerModule(kmod, interner); err != nil {
				return err
			}

			rt := scheduler.NewRuntime(numSchedulers, interner, nil, nil)
			// A real driver would resolve kmod's designated start
			// function to a compiled entry point and spawn it here;
			// this command line exists to exercise the lowering and
			// runtime construction paths end to end, not to execute
			// compiled code (this module has no native codegen
			// backend — see DESIGN.md).
			_ = rt
			return nil
		},
	}
	cmd.Flags().IntVar(&numSchedulers, "schedulers", 1, "number of OS-thread schedulers to start")
	return cmd
}

// loadKernelModule is a placeholder front door: this module's scope
// is Kernel-to-SSA lowering and the scheduler runtime, not a surface
// parser, so there is nothing upstream of kernel.Module to load from
// disk yet.
func loadKernelModule(path string, interner *symbol.Interner) (*kernel.Module, error) {
	return nil, &diag.Error{Module: path, Detail: "no front end wired up to parse Kernel-IR source yet"}
}
