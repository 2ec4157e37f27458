package looper

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the configuration file looked up by FindFile.
const FileName = "looper.toml"

// ErrUnknownPreset is returned when a preset is neither in the file nor built in.
var ErrUnknownPreset = errors.New("unknown preset")

// File represents a looper.toml configuration file.
type File struct {
	Defaults Section            `toml:"defaults"`
	Presets  map[string]Section `toml:"presets,omitempty"`
	Items    []FileItem         `toml:"items,omitempty"`
}

// Section holds one layer of track options. Unset keys keep the value of
// the layer below.
type Section struct {
	Speed     *float64 `toml:"speed,omitempty"`
	Direction string   `toml:"direction,omitempty"` // forward|reverse|left|right
	Gap       *float64 `toml:"gap,omitempty"`
	Fade      *bool    `toml:"fade,omitempty"`
	FadeWidth *float64 `toml:"fade_width,omitempty"`
	Mode      string   `toml:"mode,omitempty"` // per-item|whole-set
	// Classes are utility classes applied before the explicit keys.
	Classes string `toml:"classes,omitempty"`
}

// FileItem is a text item listed in the file.
type FileItem struct {
	Text string `toml:"text"`
}

// BuiltinPresets are available without a configuration file.
var BuiltinPresets = map[string]Section{
	// The brand strip: slow, wide fade.
	"brands": {
		Speed:     ptr(30.0),
		Direction: "forward",
		Gap:       ptr(32.0),
		Fade:      ptr(true),
		FadeWidth: ptr(64.0),
	},
	// Module cards scroll the other way as whole pages.
	"modules": {
		Direction: "reverse",
		Mode:      "whole-set",
	},
}

func ptr[T any](v T) *T { return &v }

// ParseFile parses looper.toml content.
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return &f, nil
}

// LoadFile reads and parses the file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseFile(data)
}

// WriteFile writes f to path.
func WriteFile(path string, f *File) error {
	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// FindFile looks for looper.toml in dir and its parents.
// It returns "" when none is found.
func FindFile(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Config resolves the configuration for preset: DefaultConfig, then the
// file's defaults, then the preset. An empty preset name skips the last layer.
// File presets shadow built-in ones. f may be nil.
func (f *File) Config(preset string) (Config, error) {
	cfg := DefaultConfig()

	if f != nil {
		var err error
		if cfg, err = f.Defaults.Apply(cfg); err != nil {
			return cfg, fmt.Errorf("failed to apply defaults: %w", err)
		}
	}
	if preset == "" {
		return cfg, nil
	}

	sec, ok := Section{}, false
	if f != nil {
		sec, ok = f.Presets[preset]
	}
	if !ok {
		sec, ok = BuiltinPresets[preset]
	}
	if !ok {
		return cfg, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}

	cfg, err := sec.Apply(cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to apply preset %q: %w", preset, err)
	}
	return cfg, nil
}

// Apply layers s over cfg.
func (s Section) Apply(cfg Config) (Config, error) {
	if s.Classes != "" {
		cfg = ParseClasses(cfg, s.Classes)
	}
	if s.Speed != nil {
		cfg.SpeedPxPerSec = *s.Speed
	}
	if s.Direction != "" {
		d, err := ParseDirection(s.Direction)
		if err != nil {
			return cfg, err
		}
		cfg.Direction = d
	}
	if s.Gap != nil {
		cfg.GapPx = *s.Gap
	}
	if s.Fade != nil {
		cfg.FadeEdges = *s.Fade
	}
	if s.FadeWidth != nil {
		cfg.FadeWidthPx = *s.FadeWidth
	}
	if s.Mode != "" {
		m, err := ParseTilingMode(s.Mode)
		if err != nil {
			return cfg, err
		}
		cfg.TilingMode = m
	}
	return cfg, nil
}

// ParseDirection accepts forward/left and reverse/right.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "forward", "left":
		return Forward, nil
	case "reverse", "right":
		return Reverse, nil
	default:
		return Forward, fmt.Errorf("invalid direction %q", s)
	}
}

// ParseTilingMode accepts per-item and whole-set.
func ParseTilingMode(s string) (TilingMode, error) {
	switch s {
	case "per-item", "items":
		return PerItem, nil
	case "whole-set", "container":
		return WholeSet, nil
	default:
		return PerItem, fmt.Errorf("invalid tiling mode %q", s)
	}
}
