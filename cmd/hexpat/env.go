package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HicaroD/hexpat/internal/config"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show environment information",
	Long: `Print the effective configuration after the config file, environment
variables and flags have been applied.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# config file: %s\n", cfgPath)
		fmt.Fprintf(out, "# build: %s\n", config.CurrentBuild())
		fmt.Fprint(out, cfg)
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
}
