package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/patterflow/patter/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host conversation sessions over HTTP",
	Long:  `Serves a JSON session API over the sequence files in the directory, with Prometheus metrics at /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		addr, _ := cmd.Flags().GetString("addr")
		redisAddr, _ := cmd.Flags().GetString("redis")
		debug, _ := cmd.Flags().GetBool("debug")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		opts := cli.ServeOptions{
			Dir:       dir,
			Addr:      addr,
			RedisAddr: redisAddr,
			Debug:     debug,
		}
		if err := cli.RunServe(sigCtx, opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().String("redis", "", "Redis address for durable session state (optional)")
	serveCmd.Flags().Bool("debug", false, "Enable debug logging to stderr")
}
