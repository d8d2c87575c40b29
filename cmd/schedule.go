package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kilianp07/homeload/core/consumption"
	"github.com/kilianp07/homeload/core/metrics"
	"github.com/kilianp07/homeload/core/scheduler"
	"github.com/kilianp07/homeload/infra/logger"
	_ "github.com/kilianp07/homeload/infra/metrics"
	"github.com/kilianp07/homeload/pkg/export"
)

var (
	scheduleFormat string
	scheduleEpoch  string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print the runs inside the configured window and feed the sinks",
	RunE:  runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVarP(&scheduleFormat, "format", "f", "json", "output format: json or csv")
	scheduleCmd.Flags().StringVar(&scheduleEpoch, "epoch", "", "RFC3339 wall-clock time of hour zero (default: today at midnight UTC)")
	rootCmd.AddCommand(scheduleCmd)
}

// collect returns the runs starting inside the site window.
func (s *site) collect() ([]consumption.Run, error) {
	sched, err := scheduler.New(s.requests, consumption.NewRand(s.seed), scheduler.WithLogger(logger.New("scheduler")))
	if err != nil {
		return nil, err
	}
	return sched.Collect(s.cfg.Window.Hours())
}

func parseEpoch(v string) (time.Time, error) {
	if v == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch %q: %w", v, err)
	}
	return t, nil
}

func runSchedule(cmd *cobra.Command, args []string) error {
	write := export.WriteJSON
	switch scheduleFormat {
	case "json":
	case "csv":
		write = export.WriteCSV
	default:
		return fmt.Errorf("unsupported format %q", scheduleFormat)
	}
	epoch, err := parseEpoch(scheduleEpoch)
	if err != nil {
		return err
	}
	s, err := loadSite(cmd)
	if err != nil {
		return err
	}
	runs, err := s.collect()
	if err != nil {
		return fmt.Errorf("schedule: %w", err)
	}

	sink, err := metrics.NewRunSink(s.cfg.Metrics().Sinks)
	if err != nil {
		return fmt.Errorf("sinks: %w", err)
	}
	batch := metrics.Batch{Session: uuid.NewString(), Epoch: epoch, Runs: runs}
	if err := sink.RecordRuns(batch); err != nil {
		logger.New("main").Errorf("record runs: %v", err)
	}
	if f, ok := sink.(metrics.Flusher); ok {
		if err := f.Flush(); err != nil {
			logger.New("main").Errorf("flush sinks: %v", err)
		}
	}
	logger.New("main").Infof("session %s: %d runs in [%g, %g]", batch.Session, len(runs), s.cfg.Window.Hours().From, s.cfg.Window.Hours().To)
	return write(cmd.OutOrStdout(), runs)
}
