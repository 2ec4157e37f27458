package commands

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/agiangrant/looper"
	"github.com/agiangrant/looper/term"
	"github.com/spf13/cobra"
)

var runFPS int

var runCmd = &cobra.Command{
	Use:   "run [items...]",
	Short: "Scroll items across the terminal",
	Long: `Animates the items as a seamless track on the current terminal line.

Items come from the arguments, or from the [[items]] list in looper.toml
when no arguments are given. Press space to pause or resume, q to quit.`,
	Example: `  looper run Go Rust Zig
  looper run --preset brands
  looper run --classes "marquee-reverse marquee-speed-[30]" one two three`,
	RunE: runRun,
}

func init() {
	addTrackFlags(runCmd)
	runCmd.Flags().IntVar(&runFPS, "fps", term.DefaultRunnerConfig().FPS, "frames per second")
	rootCmd.AddCommand(runCmd)
}

var errNoItems = errors.New("no items: pass them as arguments or list [[items]] in " + looper.FileName)

func runRun(cmd *cobra.Command, args []string) error {
	f, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}
	cfg, err := trackConfig(cmd, f)
	if err != nil {
		return err
	}
	items := runItems(f, args)
	if len(items) == 0 {
		return errNoItems
	}
	if !term.IsTerminal() {
		return fmt.Errorf("looper run needs an interactive terminal")
	}

	log.Printf("looper: %s at %.0f px/s, gap %.0f px, %s", cfg.Direction, cfg.SpeedPxPerSec, cfg.GapPx, cfg.TilingMode)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	r := term.NewRunner(term.NewTerminal(os.Stdout), term.RunnerConfig{FPS: runFPS})
	return r.Run(ctx, items, cfg)
}

// runItems returns labels for args, or for the file's items when args is empty.
func runItems(f *looper.File, args []string) []looper.Item {
	texts := args
	if len(texts) == 0 && f != nil {
		for _, it := range f.Items {
			if it.Text != "" {
				texts = append(texts, it.Text)
			}
		}
	}
	return term.Labels(texts...)
}
