package main

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/aretw0/espalier/internal/compiler"
	"github.com/aretw0/espalier/internal/validator"
	"github.com/aretw0/espalier/pkg/automaton"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file-or-dir>...",
	Short: "Check machine definition files for consistency",
	Long: `Parses each definition file and validates the five-tuple: states, alphabet,
start state, accepting states and the transition table. Also reports lint
warnings for unreachable states, states that can never accept, missing
transitions and unused symbols.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		strict, _ := cmd.Flags().GetBool("strict")

		warned, err := runValidate(args)
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		if warned && strict {
			fmt.Println("Validation failed: warnings present and --strict is set")
			os.Exit(1)
		}
		fmt.Println("All machines are valid! ✅")
	},
}

func init() {
	validateCmd.Flags().Bool("strict", false, "Treat lint warnings as errors")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(args []string) (warned bool, err error) {
	report := func(name string, origin string, def automaton.Definition) {
		if origin == "" {
			fmt.Printf("ok: %s\n", name)
		} else {
			fmt.Printf("ok: %s (%s)\n", name, origin)
		}
		for _, warning := range validator.Analyze(def) {
			fmt.Printf("  warning: %s\n", warning)
			warned = true
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return warned, err
		}

		if info.IsDir() {
			defs, err := compiler.LoadDir(arg)
			if err != nil {
				return warned, err
			}
			for _, name := range slices.Sorted(maps.Keys(defs)) {
				report(name, "", defs[name])
			}
			continue
		}

		name, def, err := compiler.Compile(arg)
		if err != nil {
			return warned, err
		}
		report(name, arg, def)
	}
	return warned, nil
}
