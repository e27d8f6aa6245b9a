package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lazynput/lazynputdb/pkg/cli"
	"github.com/lazynput/lazynputdb/pkg/util"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Parse a source, then lint it for suspicious (but not invalid) definitions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app.sourcePath = args[0]
		q, err := loadQuery()
		if err != nil {
			return err
		}

		v := &util.ValidationBuilder{}
		for name, inputs := range q.Interfaces() {
			v.Add(len(inputs) > 0, fmt.Sprintf("interface %q declares no inputs", name))
		}
		for _, ids := range q.DeviceIDs() {
			dev := q.GetDevice(ids)
			v.Add(dev.Name() != "", fmt.Sprintf("device %04x.%04x has no name in its parent chain", ids.VID, ids.PID))
		}

		if v.HasErrors() {
			fmt.Println(cli.Yellow("check found issues:"))
			fmt.Println(v.Build())
			return nil
		}
		fmt.Println(cli.Green("check passed: no issues found"))
		return nil
	},
}
