// Package trigger notifies the ingestion component that items need
// re-processing.
package trigger

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/bbcarchdev/patchwork/internal/domain/identifier"
)

// publisher is the consumer interface for a message connection (ISP).
type publisher interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
}

// Config holds broker parameters.
type Config struct {
	URL     string
	Subject string
	// Root is the public base URI bare identifiers are resolved against.
	Root string
}

// Trigger publishes update notifications.
type Trigger struct {
	conn    publisher
	close   func()
	subject string
	root    string
}

// Connect dials the broker in cfg.
func Connect(cfg Config) (*Trigger, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("nats url is required")
	}
	conn, err := nats.Connect(cfg.URL,
		nats.Name("patchwork"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.URL, err)
	}
	t := newTrigger(conn, cfg.Subject, cfg.Root)
	t.close = conn.Close
	return t, nil
}

func newTrigger(conn publisher, subject, root string) *Trigger {
	return &Trigger{conn: conn, close: func() {}, subject: subject, root: root}
}

// Message returns the notification for target: a bare identifier becomes
// the local subject URI, anything else is sent as given.
func (t *Trigger) Message(target string) string {
	return identifier.Local(t.root, target) + " updated"
}

// Update publishes a notification for each target and waits for the broker
// to acknowledge them.
func (t *Trigger) Update(ctx context.Context, targets ...string) error {
	for _, target := range targets {
		if err := t.conn.Publish(t.subject, []byte(t.Message(target))); err != nil {
			return fmt.Errorf("publish %s: %w", target, err)
		}
	}
	if err := t.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Close disconnects from the broker.
func (t *Trigger) Close() { t.close() }
