package hermes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Handler processes one message. A non-nil error asks for redelivery.
type Handler func(subject string, data []byte) error

// Client is the event bus surface used by the API and the ingest worker.
type Client interface {
	Publish(subject string, data interface{}) error
	Consume(ctx context.Context, durable, subject string, handler Handler) error
	Close()
}

const (
	redeliverDelay = 5 * time.Second
	maxDeliver     = 5
)

type NATSClient struct {
	conn      *nats.Conn
	js        jetstream.JetStream
	consumers []jetstream.ConsumeContext
	logger    *slog.Logger
}

func NewNATSClient(ctx context.Context, url string, logger *slog.Logger) (*NATSClient, error) {
	nc, err := nats.Connect(url,
		nats.Name("gradebook"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	c := &NATSClient{conn: nc, js: js, logger: logger}
	if err := c.ensureStream(ctx); err != nil {
		logger.Warn("failed to ensure stream", "stream", StreamName, "error", err)
	}
	logger.Info("connected to NATS", "url", nc.ConnectedUrl(), "stream", StreamName)
	return c, nil
}

func (c *NATSClient) ensureStream(ctx context.Context) error {
	maxAge, err := time.ParseDuration(StreamMaxAge)
	if err != nil {
		return fmt.Errorf("stream max age %q: %w", StreamMaxAge, err)
	}
	_, err = c.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{StreamSubjects},
		MaxAge:   maxAge,
	})
	return err
}

// Publish sends data as JSON. Subjects under StreamSubjects are retained by
// the stream.
func (c *NATSClient) Publish(subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", subject, err)
	}
	return c.conn.Publish(subject, payload)
}

// Consume attaches a durable pull consumer filtered to subject. Messages
// submitted while the service was down are delivered on start. A handler
// error naks the message for redelivery after redeliverDelay, up to
// maxDeliver attempts.
func (c *NATSClient) Consume(ctx context.Context, durable, subject string, handler Handler) error {
	cons, err := c.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:       durable,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
		MaxDeliver:    maxDeliver,
	})
	if err != nil {
		return fmt.Errorf("consumer %s: %w", durable, err)
	}

	cc, err := cons.Consume(func(msg jetstream.Msg) {
		if err := handler(msg.Subject(), msg.Data()); err != nil {
			c.logger.Warn("message handler failed, will redeliver", "subject", msg.Subject(), "durable", durable, "error", err)
			_ = msg.NakWithDelay(redeliverDelay)
			return
		}
		_ = msg.Ack()
	}, jetstream.ConsumeErrHandler(func(_ jetstream.ConsumeContext, err error) {
		if !errors.Is(err, jetstream.ErrNoHeartbeat) {
			c.logger.Warn("consume error", "durable", durable, "error", err)
		}
	}))
	if err != nil {
		return fmt.Errorf("consume %s: %w", durable, err)
	}
	c.consumers = append(c.consumers, cc)
	return nil
}

// Close stops consumers and drains the connection so in-flight mark
// submissions finish.
func (c *NATSClient) Close() {
	for _, cc := range c.consumers {
		cc.Stop()
	}
	if err := c.conn.Drain(); err != nil {
		c.logger.Warn("nats drain failed", "error", err)
		c.conn.Close()
	}
}
