package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/patterflow/patter"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of patter",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("patter version %s\n", strings.TrimSpace(patter.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
