package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HicaroD/hexpat/internal/astio"
)

var fmtFlags struct {
	write bool
}

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Rewrite a document in canonical form",
	Long: `Decode a document and print it again with an explicit kind and line on
every node. With --write the file is replaced instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVarP(&fmtFlags.write, "write", "w", false, "write the result back to the file")
}

func runFmt(cmd *cobra.Command, args []string) error {
	path := args[0]

	nodes, err := astio.DecodeFile(path)
	if err != nil {
		return err
	}
	out, err := astio.Encode(nodes)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if !fmtFlags.write {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return err
	}
	logger.Info("document formatted", "file", path, "nodes", len(nodes))
	return nil
}
