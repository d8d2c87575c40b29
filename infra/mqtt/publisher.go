package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/homeload/core/consumption"
	"github.com/kilianp07/homeload/core/logger"
	coremetrics "github.com/kilianp07/homeload/core/metrics"
	infralogger "github.com/kilianp07/homeload/infra/logger"
)

// runMessage is the JSON payload published for every run.
type runMessage struct {
	Session     string                  `json:"session,omitempty"`
	Request     string                  `json:"request"`
	StartAt     float64                 `json:"start_at"`
	EndAt       float64                 `json:"end_at"`
	StartTime   time.Time               `json:"start_time"`
	Triggered   bool                    `json:"triggered"`
	Consumption []consumption.UsedPower `json:"consumption"`
}

// Publisher streams runs to an MQTT broker, one message per run on
// <topic_prefix>/<request>.
type Publisher struct {
	cli        pahoClient
	prefix     string
	qos        byte
	retain     bool
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

// NewPublisher connects to the broker described by cfg.
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := infralogger.New("mqtt_publisher")
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &Publisher{
		cli:        c,
		prefix:     cfg.TopicPrefix,
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.backoff(),
		log:        log,
	}, nil
}

// Topic returns the topic runs of name are published on.
func (p *Publisher) Topic(name consumption.Name) string {
	return fmt.Sprintf("%s/%s", p.prefix, name)
}

// RecordRuns publishes every run of the batch.
func (p *Publisher) RecordRuns(b coremetrics.Batch) error {
	for _, r := range b.Runs {
		payload, err := json.Marshal(runMessage{
			Session:     b.Session,
			Request:     string(r.Name),
			StartAt:     r.StartAt,
			EndAt:       r.EndAt,
			StartTime:   b.At(r.StartAt),
			Triggered:   r.Triggered,
			Consumption: r.Consumption,
		})
		if err != nil {
			return err
		}
		if err := p.publish(p.Topic(r.Name), payload); err != nil {
			return fmt.Errorf("publish %s at %.3fh: %w", r.Name, r.StartAt, err)
		}
	}
	return nil
}

func (p *Publisher) publish(topic string, payload []byte) error {
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, p.qos, p.retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			return nil
		}
		p.log.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt < p.maxRetries {
			time.Sleep(p.backoff * time.Duration(1<<attempt))
		}
	}
	return publishErr
}

// Flush disconnects from the broker.
func (p *Publisher) Flush() error {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
	return nil
}
