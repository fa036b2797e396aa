package main

import (
	"fmt"
	"os"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/registry"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [machine]",
	Short: "Run a machine interactively, one input per line",
	Long: `Reads inputs line by line and runs each through the chosen machine
(default mod3). Type "exit" to leave. Pipe input with --headless for batch use.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		machine := registry.ModThree
		if len(args) > 0 {
			machine = args[0]
		}
		headless, _ := cmd.Flags().GetBool("headless")
		jsonOut, _ := cmd.Flags().GetBool("json")

		// Piped input implies headless unless the flag says otherwise.
		if !cmd.Flags().Changed("headless") && !term.IsTerminal(int(os.Stdin.Fd())) {
			headless = true
		}

		svc, err := newService(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		r := espalier.NewRunner()
		r.Input = os.Stdin
		r.Output = os.Stdout
		r.Headless = headless
		r.JSON = jsonOut

		if err := r.Run(cmd.Context(), svc, machine); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "Run in headless mode (no banner, no prompts)")
	runCmd.Flags().Bool("json", false, "Emit one JSON object per input line")

	// Make 'run' the default if no command is provided.
	rootCmd.Run = runCmd.Run
}
