package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lazynput/lazynputdb/pkg/cli"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a DSL source and report success or diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app.sourcePath = args[0]
		q, err := loadQuery()
		if err != nil {
			return err
		}
		ifaces := q.Interfaces()
		fmt.Printf("%s parsed: %d interfaces declared\n", cli.Green("OK"), len(ifaces))
		return nil
	},
}
