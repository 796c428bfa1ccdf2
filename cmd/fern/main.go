package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "fern",
		Short:         "Friends, pets and quotes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")

	root.AddCommand(
		newAPICmd(&envFile),
		newWebCmd(&envFile),
		newMigrateCmd(&envFile),
		newSeedCmd(&envFile),
	)
	return root
}
