package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lazynput/lazynputdb/internal/settings"
	"github.com/lazynput/lazynputdb/pkg/util"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Manage the persisted default config tags applied to every query",
}

var tagsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the persisted default tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(app.settings.DefaultTags)
		return nil
	},
}

var tagsAddCmd = &cobra.Command{
	Use:   "add <tag>",
	Short: "Add a tag to the persisted default list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app.settings.DefaultTags = util.AddToCSV(app.settings.DefaultTags, args[0])
		return app.settings.Save()
	},
}

var tagsRemoveCmd = &cobra.Command{
	Use:   "remove <tag>",
	Short: "Remove a tag from the persisted default list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app.settings.DefaultTags = util.RemoveFromCSV(app.settings.DefaultTags, args[0])
		return app.settings.Save()
	},
}

func init() {
	tagsCmd.AddCommand(tagsShowCmd, tagsAddCmd, tagsRemoveCmd)
}
