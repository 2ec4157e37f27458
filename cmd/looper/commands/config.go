package commands

import (
	"fmt"
	"os"

	"github.com/agiangrant/looper"
	"github.com/spf13/cobra"
)

// Track option flags shared by commands that build a looper.Config.
var (
	configPath string
	presetName string
	classList  string
	speed      float64
	reverse    bool
	gap        float64
	fadeWidth  float64
	noFade     bool
	wholeSet   bool
)

// addTrackFlags registers the track option flags on cmd.
func addTrackFlags(cmd *cobra.Command) {
	defaults := looper.DefaultConfig()
	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "path to looper.toml (default: search from the working directory)")
	flags.StringVarP(&presetName, "preset", "p", "", "preset from looper.toml or built in (brands, modules)")
	flags.StringVar(&classList, "classes", "", `utility classes, e.g. "marquee-reverse gap-8 fade-[64px]"`)
	flags.Float64VarP(&speed, "speed", "s", defaults.SpeedPxPerSec, "scroll speed in px per second")
	flags.BoolVarP(&reverse, "reverse", "r", false, "scroll towards the end instead of the start")
	flags.Float64Var(&gap, "gap", defaults.GapPx, "gap between items in px")
	flags.Float64Var(&fadeWidth, "fade-width", defaults.FadeWidthPx, "edge fade width in px")
	flags.BoolVar(&noFade, "no-fade", false, "disable the edge fade")
	flags.BoolVar(&wholeSet, "whole-set", false, "tile the whole item set as container-wide pages")
}

// loadConfigFile loads the file at path, or the looper.toml found from the
// working directory when path is empty. It returns nil when there is none.
func loadConfigFile(path string) (*looper.File, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		if path, err = looper.FindFile(cwd); err != nil {
			return nil, fmt.Errorf("failed to find %s: %w", looper.FileName, err)
		}
		if path == "" {
			return nil, nil
		}
	}
	return looper.LoadFile(path)
}

// trackConfig resolves the track options in layers: defaults, the file and
// preset, --classes, then every flag set on the command line.
func trackConfig(cmd *cobra.Command, f *looper.File) (looper.Config, error) {
	cfg, err := f.Config(presetName)
	if err != nil {
		return cfg, err
	}
	if classList != "" {
		cfg = looper.ParseClasses(cfg, classList)
	}

	flags := cmd.Flags()
	if flags.Changed("speed") {
		cfg.SpeedPxPerSec = speed
	}
	if flags.Changed("reverse") {
		cfg.Direction = looper.Forward
		if reverse {
			cfg.Direction = looper.Reverse
		}
	}
	if flags.Changed("gap") {
		cfg.GapPx = gap
	}
	if flags.Changed("fade-width") {
		cfg.FadeWidthPx = fadeWidth
	}
	if flags.Changed("no-fade") {
		cfg.FadeEdges = !noFade
	}
	if flags.Changed("whole-set") {
		cfg.TilingMode = looper.PerItem
		if wholeSet {
			cfg.TilingMode = looper.WholeSet
		}
	}
	return cfg.Normalize(), nil
}
