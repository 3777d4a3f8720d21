package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/patterflow/patter/internal/cli"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export a sequence as a Mermaid flowchart",
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		sequence, _ := cmd.Flags().GetString("sequence")

		if err := cli.RunGraph(dir, sequence, os.Stdout); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringP("sequence", "s", "", "Sequence to export (defaults to the only one)")
}
