// Package events publishes pipeline activity to NATS for offline analysis
// dashboards. Publishing is best-effort: the pipeline logs and drops failures.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects for the three pipeline stages.
const (
	SubjectTranscriptAnalyzed = "quill.pipeline.transcript.analyzed"
	SubjectPostGenerated      = "quill.pipeline.post.generated"
	SubjectPostIterated       = "quill.pipeline.post.iterated"
)

// StageEvent is emitted when a pipeline stage completes. It carries only
// metadata, never prompt or completion content.
type StageEvent struct {
	Stage       string `json:"stage"`
	PostID      string `json:"post_id,omitempty"`
	InputChars  int    `json:"input_chars"`
	ResultChars int    `json:"result_chars"`
	Timestamp   string `json:"timestamp"`
}

type Client struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewClient(url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Close() {
	c.conn.Close()
}
