package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lazynput/lazynputdb/pkg/cli"
)

var queryDriverVersion string

var queryCmd = &cobra.Command{
	Use:   "query <vid> <pid>",
	Short: "Resolve a device's bindings and labels by its USB HID ids",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := loadQuery()
		if err != nil {
			return err
		}
		ids, err := parseHidIds(args[0], args[1])
		if err != nil {
			return err
		}
		if !q.HasDevice(ids) {
			fmt.Println(cli.Yellow("no device declared for these ids"))
			return nil
		}
		var extraTags []string
		if queryDriverVersion != "" {
			extraTags = append(extraTags, "device_version="+queryDriverVersion)
		}
		dev := q.GetDevice(ids, extraTags...)
		fmt.Printf("%s %s\n", cli.Bold("Name:"), dev.Name())

		var names []string
		for h := range dev.All() {
			names = append(names, q.StringFromHash(h))
		}
		sort.Strings(names)

		t := cli.NewTable("INPUT", "LABEL")
		for _, name := range names {
			info, _ := dev.InputInfos(name)
			label := info.Label.Ascii
			if label == "" {
				label = "-"
			}
			t.Row(name, label)
		}
		t.Flush()
		return nil
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryDriverVersion, "driver-version", "", "Synthesize a device_version=XXXX config tag for this query only")
}
