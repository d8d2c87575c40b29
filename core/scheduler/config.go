package scheduler

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/homeload/core/consumption"
)

// LoadRequests loads a standalone requests file in JSON or YAML. The file
// holds a mapping from request name to request.
func LoadRequests(path string) (consumption.Requests, error) {
	f, err := os.Open(path)
	if err != nil {
		return consumption.Requests{}, err
	}
	defer f.Close()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return DecodeRequests(f, ext)
}

// DecodeRequests reads requests from r in the given format and validates them.
func DecodeRequests(r io.Reader, format string) (consumption.Requests, error) {
	var specs map[string]consumption.RequestSpec
	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&specs); err != nil && err != io.EOF {
			return consumption.Requests{}, err
		}
	case "json":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&specs); err != nil {
			return consumption.Requests{}, err
		}
	default:
		return consumption.Requests{}, fmt.Errorf("unsupported format: %s", format)
	}
	return consumption.Build("", specs)
}
