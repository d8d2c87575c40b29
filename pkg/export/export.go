package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"slices"
	"strconv"

	"github.com/kilianp07/homeload/core/consumption"
)

// CSVHeader is the first record written by WriteCSV.
var CSVHeader = []string{"request", "triggered", "start_at", "end_at", "segment", "power_w", "duration_h", "source"}

// WriteJSON writes the runs to w as a JSON array.
func WriteJSON(w io.Writer, runs []consumption.Run) error {
	if runs == nil {
		runs = []consumption.Run{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(runs)
}

// WriteCSV writes one record per consumption segment. A run without
// segments still gets a record, with the segment columns left empty.
func WriteCSV(w io.Writer, runs []consumption.Run) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range runs {
		head := []string{
			string(r.Name),
			strconv.FormatBool(r.Triggered),
			formatHours(r.StartAt),
			formatHours(r.EndAt),
		}
		if len(r.Consumption) == 0 {
			if err := cw.Write(append(head, "", "", "", "")); err != nil {
				return err
			}
			continue
		}
		for i, c := range r.Consumption {
			rec := append(slices.Clone(head),
				strconv.Itoa(i),
				strconv.FormatFloat(c.Power, 'f', -1, 64),
				formatHours(c.Duration),
				string(c.Source),
			)
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
