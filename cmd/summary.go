package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/homeload/pkg/stats"
)

var summaryFormat string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print per request statistics of the runs inside the window",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVarP(&summaryFormat, "format", "f", "table", "output format: table or json")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	if summaryFormat != "table" && summaryFormat != "json" {
		return fmt.Errorf("unsupported format %q", summaryFormat)
	}
	s, err := loadSite(cmd)
	if err != nil {
		return err
	}
	runs, err := s.collect()
	if err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	sums := stats.Summarize(runs)
	if summaryFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(sums)
	}
	return stats.Write(cmd.OutOrStdout(), sums)
}
