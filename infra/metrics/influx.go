package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/homeload/core/metrics"
	"github.com/kilianp07/homeload/infra/logger"
)

// InfluxConfig configures the InfluxDB sink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes consumption segments to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.RunSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRuns writes one point per consumption segment. Segments of a run
// follow each other, so each point is stamped with its own start.
func (s *InfluxSink) RecordRuns(b coremetrics.Batch) error {
	points := segmentPoints(b)
	if len(points) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.writeAPI.WritePoint(ctx, points...); err != nil {
		return err
	}
	s.log.Debugf("wrote %d segments for session %s", len(points), b.Session)
	return nil
}

// Flush closes the underlying client.
func (s *InfluxSink) Flush() error {
	s.client.Close()
	return nil
}

func segmentPoints(b coremetrics.Batch) []*write.Point {
	var points []*write.Point
	for _, r := range b.Runs {
		at := r.StartAt
		for i, c := range r.Consumption {
			p := write.NewPointWithMeasurement("consumption_segment").
				AddTag("request", string(r.Name)).
				AddTag("triggered", strconv.FormatBool(r.Triggered)).
				AddTag("source", string(c.Source)).
				AddTag("segment", strconv.Itoa(i))
			if b.Session != "" {
				p = p.AddTag("session", b.Session)
			}
			p = p.AddField("power_w", round3(c.Power)).
				AddField("duration_h", round3(c.Duration)).
				AddField("start_h", round3(at)).
				SetTime(b.At(at))
			points = append(points, p)
			at += c.Duration
		}
	}
	return points
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
