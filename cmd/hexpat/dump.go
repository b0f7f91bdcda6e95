package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/HicaroD/hexpat/internal/ast"
	"github.com/HicaroD/hexpat/internal/astio"
	"github.com/HicaroD/hexpat/internal/config"
)

var ERR_DEV_ONLY = errors.New("dump is only available in dev mode (build with -ldflags \"-X main.DevMode=1\" or set dev = true)")

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Print the tree of a document (dev mode only)",
	Long: `Print an indented tree of every node in a document. Absent nodes are
shown as <missing node>. The document is not validated.`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	if !config.DEV {
		return ERR_DEV_ONLY
	}

	nodes, err := astio.DecodeFile(args[0])
	if err != nil {
		return err
	}
	return ast.Dump(cmd.OutOrStdout(), nodes)
}
