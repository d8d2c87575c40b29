package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/homeload/core/scheduler"
)

var validateCmd = &cobra.Command{
	Use:   "validate [requests-file...]",
	Short: "Check the site configuration, or standalone requests files, and their triggers",
	Long: `Without arguments validate loads the site given by --config.
Each argument is instead read as a standalone requests file (a YAML or JSON
mapping from request name to request) and checked on its own.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		s, err := loadSite(cmd)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d requests ok\n", cfgPath, s.requests.Len())
		return err
	}
	for _, path := range args {
		reqs, err := scheduler.LoadRequests(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := checkTriggers(reqs); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %d requests ok\n", path, reqs.Len()); err != nil {
			return err
		}
	}
	return nil
}
