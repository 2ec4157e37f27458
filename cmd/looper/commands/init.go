package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agiangrant/looper"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter looper.toml",
	Long: `Writes looper.toml in the current directory with the default track
options, the built-in presets and a few sample items.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing looper.toml")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	path := filepath.Join(cwd, looper.FileName)
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", looper.FileName)
	}

	if err := looper.WriteFile(path, starterFile()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}

// starterFile returns the file written by init.
func starterFile() *looper.File {
	d := looper.DefaultConfig()
	f := &looper.File{
		Defaults: looper.Section{
			Speed:     &d.SpeedPxPerSec,
			Direction: d.Direction.String(),
			Gap:       &d.GapPx,
			Fade:      &d.FadeEdges,
			FadeWidth: &d.FadeWidthPx,
			Mode:      d.TilingMode.String(),
		},
		Presets: make(map[string]looper.Section, len(looper.BuiltinPresets)),
	}
	for name, sec := range looper.BuiltinPresets {
		f.Presets[name] = sec
	}
	for _, text := range []string{"Go", "Rust", "Zig", "Odin"} {
		f.Items = append(f.Items, looper.FileItem{Text: text})
	}
	return f
}
