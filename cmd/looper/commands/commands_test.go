package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agiangrant/looper"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const siteConfig = `
[defaults]
speed = 40
gap = 24

[presets.site]
classes = "marquee-reverse fade-[64px]"

[[items]]
text = "Go"

[[items]]
text = ""

[[items]]
text = "Rust"
`

// writeConfig writes content to a looper.toml in a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), looper.FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// newTrackCmd returns a command with fresh track flags parsed from args.
func newTrackCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addTrackFlags(cmd)
	cmd.Flags().Float64VarP(&planWidth, "width", "w", 0, "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestTrackConfig(t *testing.T) {
	path := writeConfig(t, siteConfig)

	tests := []struct {
		name     string
		args     []string
		validate func(*testing.T, looper.Config)
	}{
		{
			name: "file defaults",
			args: []string{"--config", path},
			validate: func(t *testing.T, cfg looper.Config) {
				assert.Equal(t, 40.0, cfg.SpeedPxPerSec)
				assert.Equal(t, 24.0, cfg.GapPx)
				assert.Equal(t, looper.Forward, cfg.Direction)
			},
		},
		{
			name: "file preset",
			args: []string{"--config", path, "--preset", "site"},
			validate: func(t *testing.T, cfg looper.Config) {
				assert.Equal(t, looper.Reverse, cfg.Direction)
				assert.Equal(t, 64.0, cfg.FadeWidthPx)
				assert.Equal(t, 40.0, cfg.SpeedPxPerSec)
			},
		},
		{
			name: "classes over preset",
			args: []string{"--config", path, "--preset", "site", "--classes", "marquee-forward gap-2"},
			validate: func(t *testing.T, cfg looper.Config) {
				assert.Equal(t, looper.Forward, cfg.Direction)
				assert.Equal(t, 8.0, cfg.GapPx)
			},
		},
		{
			name: "flags over everything",
			args: []string{
				"--config", path, "--preset", "site", "--classes", "gap-2",
				"--gap", "10", "--speed", "-30", "--no-fade", "--whole-set", "--reverse=false",
			},
			validate: func(t *testing.T, cfg looper.Config) {
				assert.Equal(t, 10.0, cfg.GapPx)
				assert.Equal(t, 30.0, cfg.SpeedPxPerSec)
				assert.False(t, cfg.FadeEdges)
				assert.Equal(t, looper.WholeSet, cfg.TilingMode)
				assert.Equal(t, looper.Forward, cfg.Direction)
			},
		},
		{
			name: "unset flags keep defaults",
			args: []string{"--config", path, "--preset", "brands"},
			validate: func(t *testing.T, cfg looper.Config) {
				assert.Equal(t, 30.0, cfg.SpeedPxPerSec)
				assert.Equal(t, 32.0, cfg.GapPx)
				assert.True(t, cfg.FadeEdges)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newTrackCmd(t, tt.args...)
			f, err := loadConfigFile(configPath)
			require.NoError(t, err)
			cfg, err := trackConfig(cmd, f)
			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}

func TestTrackConfigUnknownPreset(t *testing.T) {
	cmd := newTrackCmd(t, "--preset", "nope")
	_, err := trackConfig(cmd, nil)
	assert.ErrorIs(t, err, looper.ErrUnknownPreset)
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := loadConfigFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

// planValue returns the value printed for key in plan output.
func planValue(t *testing.T, out, key string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, key+" ") {
			fields := strings.Fields(line)
			return fields[len(fields)-1]
		}
	}
	t.Fatalf("no %q in output:\n%s", key, out)
	return ""
}

func TestRunPlan(t *testing.T) {
	path := writeConfig(t, "")
	cmd := newTrackCmd(t, "--config", path, "--width", "500", "--gap", "20")
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, runPlan(cmd, []string{"100", "100", "100"}))

	s := out.String()
	assert.Equal(t, "340", planValue(t, s, "base width"))
	assert.Equal(t, "3", planValue(t, s, "copies"))
	assert.Equal(t, "1060", planValue(t, s, "track width"))
	assert.Equal(t, "840", planValue(t, s, "required"))
	assert.Contains(t, s, "copy  x")
}

func TestRunPlanWholeSet(t *testing.T) {
	path := writeConfig(t, "")
	cmd := newTrackCmd(t, "--config", path, "--width", "300", "--whole-set")
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, runPlan(cmd, []string{"50", "70"}))
	assert.Equal(t, "300", planValue(t, out.String(), "base width"))
	assert.Equal(t, "2", planValue(t, out.String(), "copies"))
}

func TestParseWidths(t *testing.T) {
	widths, err := parseWidths([]string{"100", "12.5", "0"})
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 12.5, 0}, widths)

	_, err = parseWidths([]string{"wide"})
	assert.Error(t, err)
	_, err = parseWidths([]string{"-4"})
	assert.Error(t, err)
}

func TestRunItems(t *testing.T) {
	f, err := looper.ParseFile([]byte(siteConfig))
	require.NoError(t, err)

	assert.Len(t, runItems(f, []string{"a", "b", "c"}), 3)
	assert.Len(t, runItems(f, nil), 2, "blank file items are skipped")
	assert.Empty(t, runItems(nil, nil))
}

func TestRunWithoutItems(t *testing.T) {
	path := writeConfig(t, "[defaults]\nspeed = 10\n")
	cmd := newTrackCmd(t, "--config", path)
	assert.ErrorIs(t, runRun(cmd, nil), errNoItems)
}

func TestRunInit(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	initForce = false
	var out bytes.Buffer
	initCmd.SetOut(&out)

	require.NoError(t, runInit(initCmd, nil))
	assert.Contains(t, out.String(), looper.FileName)

	f, err := looper.LoadFile(filepath.Join(dir, looper.FileName))
	require.NoError(t, err)
	assert.Len(t, f.Items, 4)

	cfg, err := f.Config("")
	require.NoError(t, err)
	assert.Equal(t, looper.DefaultConfig(), cfg)

	cfg, err = f.Config("brands")
	require.NoError(t, err)
	assert.Equal(t, 30.0, cfg.SpeedPxPerSec)
	assert.Equal(t, 64.0, cfg.FadeWidthPx)

	err = runInit(initCmd, nil)
	assert.ErrorContains(t, err, "already exists")

	initForce = true
	defer func() { initForce = false }()
	assert.NoError(t, runInit(initCmd, nil))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "looper version "+Version+"\n", out.String())
}
