package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/patterflow/patter/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive conversation in the terminal",
	Long:  `Starts a conversation session from the sequence files in the given directory, answering prompts from stdin.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		if !cmd.Flags().Changed("dir") && len(args) > 0 {
			dir = args[0]
		}
		sequence, _ := cmd.Flags().GetString("sequence")
		instant, _ := cmd.Flags().GetBool("instant")
		plain, _ := cmd.Flags().GetBool("plain")
		debug, _ := cmd.Flags().GetBool("debug")

		opts := cli.RunOptions{
			Dir:        dir,
			SequenceID: sequence,
			Instant:    instant,
			Plain:      plain,
			Debug:      debug,
		}
		if err := cli.RunSession(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("sequence", "s", "", "Sequence to start from (defaults to the only one)")
	runCmd.Flags().Bool("instant", false, "Skip pacing delays")
	runCmd.Flags().Bool("plain", false, "Disable banner and markdown rendering")
	runCmd.Flags().Bool("debug", false, "Enable debug logging to stderr")

	// Make 'run' the default if no command is provided
	rootCmd.Run = runCmd.Run
}
