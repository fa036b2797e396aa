package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var mod3Cmd = &cobra.Command{
	Use:   "mod3 <binary-string>... | -",
	Short: "Compute value mod 3 for binary strings",
	Long: `Feeds each argument through the built-in mod-three machine and prints the
remainder. A single "-" reads inputs line by line from stdin instead.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := newService(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		hasError := false
		report := func(input string) {
			r, err := svc.Remainder(cmd.Context(), input)
			if err != nil {
				fmt.Printf("%s -> error: %v\n", input, err)
				hasError = true
				return
			}
			fmt.Printf("%s -> %d\n", input, r)
		}

		if len(args) == 1 && args[0] == "-" {
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				if line := strings.TrimSpace(scanner.Text()); line != "" {
					report(line)
				}
			}
			if err := scanner.Err(); err != nil {
				fmt.Printf("Error reading stdin: %v\n", err)
				os.Exit(1)
			}
		} else {
			for _, input := range args {
				report(input)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mod3Cmd)
}
