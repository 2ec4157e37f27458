package commands

import (
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "looper",
	Short: "Seamless scrolling content tracks",
	Long: `looper tiles a list of items into a seamless, endlessly scrolling track.

It animates a track in the terminal, prints tiling plans for a given
container width and writes starter looper.toml files.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("looper version {{.Version}}\n")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
