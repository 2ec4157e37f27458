package commands

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/agiangrant/looper"
	"github.com/spf13/cobra"
)

var planWidth float64

var planCmd = &cobra.Command{
	Use:   "plan --width W [widths...]",
	Short: "Print the tiling plan for a container",
	Long: `Tiles blocks of the given widths into a container of width W and prints
the base width, the copy count and the position of every tile.`,
	Example: `  looper plan --width 500 --gap 20 100 100 100
  looper plan --width 800 --whole-set 120 80`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func init() {
	addTrackFlags(planCmd)
	planCmd.Flags().Float64VarP(&planWidth, "width", "w", 0, "container width in px")
	planCmd.MarkFlagRequired("width")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	widths, err := parseWidths(args)
	if err != nil {
		return err
	}
	f, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}
	cfg, err := trackConfig(cmd, f)
	if err != nil {
		return err
	}

	track := looper.BuildTrack(looper.Blocks(0, widths...), planWidth, cfg)
	return writePlan(cmd.OutOrStdout(), track, planWidth)
}

func parseWidths(args []string) ([]float64, error) {
	widths := make([]float64, len(args))
	for i, arg := range args {
		w, err := strconv.ParseFloat(arg, 64)
		if err != nil || w < 0 {
			return nil, fmt.Errorf("invalid item width %q", arg)
		}
		widths[i] = w
	}
	return widths, nil
}

func writePlan(out io.Writer, track *looper.Track, containerWidth float64) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "container width\t%g\n", containerWidth)
	fmt.Fprintf(tw, "base width\t%g\n", track.BaseWidth)
	fmt.Fprintf(tw, "copies\t%d\n", track.Copies)
	fmt.Fprintf(tw, "track width\t%g\n", track.Width())
	fmt.Fprintf(tw, "required\t%g\n", containerWidth+track.BaseWidth)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "copy\tx\twidth\titems")
	for _, tile := range track.Tiles {
		fmt.Fprintf(tw, "%d\t%g\t%g\t%d\n", tile.Copy, tile.X, tile.Width, len(tile.Items))
	}
	return tw.Flush()
}
