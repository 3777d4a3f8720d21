package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/patterflow/patter/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check sequence files for consistency",
	Long:  `Parses every sequence file in the directory and reports structural issues: dangling references, missing default routes, unreachable messages.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		if !cmd.Flags().Changed("dir") && len(args) > 0 {
			dir = args[0]
		}
		if err := cli.RunValidate(dir, os.Stdout); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
