// lazynputdb is a CLI around pkg/lazynputdb: parse DSL sources, resolve a
// device's bindings, dump the declared interface schema, and lint a
// source for common mistakes that a successful parse doesn't catch.
//
// Noun-verb pattern, grounded on cmd/newtron/main.go:
//
//	lazynputdb parse <file>
//	lazynputdb query <vid> <pid> [--tags xinput,sdl]
//	lazynputdb dump-interfaces
//	lazynputdb check <file>
//	lazynputdb tags add|remove|show <tag>
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lazynput/lazynputdb/internal/logging"
	"github.com/lazynput/lazynputdb/internal/settings"
)

// App holds CLI state shared across all commands.
type App struct {
	sourcePath string
	tags       string
	jsonOutput bool
	verbose    bool

	settings *settings.Settings
}

var app = &App{}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "lazynputdb",
	Short:         "Query and lint lazynputdb device-mapping sources",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		var err error
		app.settings, err = settings.Load()
		if err != nil {
			logging.Logger.Warnf("could not load settings: %v", err)
			app.settings = &settings.Settings{}
		}
		if app.sourcePath == "" {
			app.sourcePath = app.settings.SourcePath
		}
		if app.tags == "" {
			app.tags = app.settings.DefaultTags
		}
		if app.verbose {
			logging.SetLevel("debug")
		} else {
			logging.SetLevel("warn")
		}
		if app.jsonOutput {
			logging.SetJSONFormat()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&app.sourcePath, "source", "f", "", "DSL source file (default: settings.json source_path, then ParseDefault search)")
	rootCmd.PersistentFlags().StringVarP(&app.tags, "tags", "t", "", "Comma-separated config tags (default: settings.json default_tags)")
	rootCmd.PersistentFlags().BoolVar(&app.jsonOutput, "json", false, "JSON log output")
	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(parseCmd, queryCmd, dumpInterfacesCmd, checkCmd, tagsCmd, versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("lazynputdb dev build")
	},
}
