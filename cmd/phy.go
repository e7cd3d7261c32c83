package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/wifi-doctor/pkg/phy"
)

var (
	phyMCS          int
	phyStreams      int
	phyWidth        int
	phyGI           int
	phyGeneration   string
	phyOutputFormat string
)

func NewPhyRateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phy-rate",
		Short: "Look up the theoretical PHY rate for an MCS configuration",
		Long: `Look up the theoretical PHY rate for an MCS index, spatial stream count,
channel width, guard interval and Wi-Fi generation.

Examples:
  # Wi-Fi 6, MCS 11, two streams on 80 MHz
  wifi-doctor phy-rate --mcs 11 --streams 2 --width 80 --generation 6

  # Wi-Fi 5 with short guard interval
  wifi-doctor phy-rate --mcs 9 --streams 3 --width 80 --gi 400 --generation 802.11ac`,
		Args: cobra.NoArgs,
		RunE: runPhyRate,
	}

	cmd.Flags().IntVar(&phyMCS, "mcs", 0, "MCS index")
	cmd.Flags().IntVar(&phyStreams, "streams", 1, "Spatial streams")
	cmd.Flags().IntVar(&phyWidth, "width", 20, "Channel width in MHz (20, 40, 80, 160, 320)")
	cmd.Flags().IntVar(&phyGI, "gi", 800, "Guard interval in ns (400, 800, 1600, 3200)")
	cmd.Flags().StringVar(&phyGeneration, "generation", "6", "Wi-Fi generation (4, 5, 6, 6E, 7 or 802.11n/ac/ax/be)")
	cmd.Flags().StringVarP(&phyOutputFormat, "output", "o", "human", "Output format (human, json, yaml)")

	return cmd
}

func runPhyRate(cmd *cobra.Command, args []string) error {
	if err := validateFormat(phyOutputFormat); err != nil {
		return err
	}
	gen, err := phy.ParseGeneration(phyGeneration)
	if err != nil {
		return err
	}

	lookup, lookupErr := phy.Query(phyMCS, phyStreams, phyWidth, phy.GuardInterval(phyGI), gen)
	out := cmd.OutOrStdout()
	switch phyOutputFormat {
	case "json":
		data, err := json.MarshalIndent(lookup, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	case "yaml":
		data, err := yaml.Marshal(lookup)
		if err != nil {
			return err
		}
		fmt.Fprint(out, string(data))
	default:
		displayLookup(out, lookup, lookupErr)
	}
	return lookupErr
}

func displayLookup(w io.Writer, l phy.Lookup, err error) {
	desc := fmt.Sprintf("Wi-Fi %s, MCS %d, %dSS, %d MHz, GI %d ns", l.Generation, l.MCS, l.Streams, l.WidthMHz, l.GuardInterval)
	if err != nil {
		printError(w, desc)
		fmt.Fprintf(w, "   %s\n", err)
	} else {
		printSuccess(w, desc)
		fmt.Fprintf(w, "   PHY rate: %s\n", color.New(color.Bold).Sprintf("%.1f Mbps", l.RateMbps))
	}
	if l.MaxMCS >= 0 {
		fmt.Fprintf(w, "   Highest MCS for this configuration: %d (%.1f Mbps)\n", l.MaxMCS, l.MaxRateMbps)
	} else {
		fmt.Fprintln(w, "   No MCS is defined for this configuration.")
	}
}
