// Package events publishes catalog and request-queue changes so other
// services can react to them. Delivery is fire-and-forget.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

const (
	ResourceCreated      = "resource.created"
	ResourceUpdated      = "resource.updated"
	ResourceDeleted      = "resource.deleted"
	RequestCreated       = "request.created"
	RequestUpdated       = "request.updated"
	RequestDeleted       = "request.deleted"
	RequestStatusChanged = "request.status_changed"
)

type Publisher interface {
	Publish(ctx context.Context, event string, data interface{}) error
	Close()
}

// Envelope is the JSON body of every message.
type Envelope struct {
	Event      string          `json:"event"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

// Connect returns a NATS publisher, or a no-op publisher when url is empty.
func Connect(url, prefix string, log logrus.FieldLogger) (Publisher, error) {
	if url == "" {
		log.Info("NATS_URL not set, domain events are disabled")
		return Noop{}, nil
	}
	nc, err := nats.Connect(url,
		nats.Name("resource-hub"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	log.WithField("url", nc.ConnectedUrl()).Info("Connected to NATS")
	return NewNATSPublisher(nc, prefix), nil
}

func NewNATSPublisher(nc *nats.Conn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: nc, prefix: prefix}
}

func (p *NATSPublisher) Subject(event string) string {
	if p.prefix == "" {
		return event
	}
	return p.prefix + "." + event
}

func (p *NATSPublisher) Publish(ctx context.Context, event string, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event, err)
	}
	body, err := json.Marshal(Envelope{Event: event, OccurredAt: time.Now().UTC(), Data: raw})
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", event, err)
	}
	if err := p.conn.Publish(p.Subject(event), body); err != nil {
		return fmt.Errorf("publish %s: %w", event, err)
	}
	return nil
}

func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Drain()
	}
}

type Noop struct{}

func (Noop) Publish(context.Context, string, interface{}) error { return nil }
func (Noop) Close()                                             {}
