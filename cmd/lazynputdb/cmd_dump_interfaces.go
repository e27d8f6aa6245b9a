package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/lazynput/lazynputdb/pkg/cli"
)

var dumpInterfacesCmd = &cobra.Command{
	Use:   "dump-interfaces",
	Short: "List every declared interface and its inputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := loadQuery()
		if err != nil {
			return err
		}
		t := cli.NewTable("INTERFACE", "INPUT", "TYPE")
		ifaces := q.Interfaces()
		names := make([]string, 0, len(ifaces))
		for name := range ifaces {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			inputs := ifaces[name]
			inputNames := make([]string, 0, len(inputs))
			for input := range inputs {
				inputNames = append(inputNames, input)
			}
			sort.Strings(inputNames)
			for _, input := range inputNames {
				t.Row(name, input, inputs[input].String())
			}
		}
		t.Flush()
		return nil
	},
}
