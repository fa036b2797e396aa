package main

import (
	"fmt"
	"os"

	"github.com/aretw0/espalier/internal/presentation/graph"
	"github.com/aretw0/espalier/pkg/registry"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [machine]",
	Short: "Export a machine as a Mermaid diagram",
	Long: `Outputs a Mermaid diagram (graph TD) of the machine's states and
transitions. With --session, the session's current state is highlighted.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		machine := registry.ModThree
		if len(args) > 0 {
			machine = args[0]
		}

		svc, err := newService(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		def, err := svc.Definition(machine)
		if err != nil {
			fmt.Printf("Error resolving machine: %v\n", err)
			os.Exit(1)
		}

		var overlay *graph.Overlay
		if sessionID, _ := cmd.Flags().GetString("session"); sessionID != "" {
			sess, err := svc.Session(cmd.Context(), sessionID)
			if err != nil {
				fmt.Printf("Error loading session '%s': %v\n", sessionID, err)
				os.Exit(1)
			}
			if sess.Machine != machine {
				fmt.Printf("Error: session '%s' belongs to machine '%s'\n", sessionID, sess.Machine)
				os.Exit(1)
			}
			overlay = &graph.Overlay{Current: sess.Current}
		}

		fmt.Print(graph.Mermaid(def, overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Highlight the current state of this session")
}
