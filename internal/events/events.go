// Package events publishes booking lifecycle notifications to a message broker.
// Delivery is best effort: callers log publish failures and carry on.
package events

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Subjects are relative; publishers prepend their configured prefix.
const (
	SubjectBookingCreated       = "bookings.created"
	SubjectBookingStatusChanged = "bookings.status_changed"
	SubjectBookingCancelled     = "bookings.cancelled"
	SubjectBookingReviewed      = "bookings.reviewed"
)

const (
	DriverNone = "none"
	DriverNATS = "nats"
	DriverMQTT = "mqtt"
)

// Publisher sends a JSON encoded payload on a subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
	Close() error
}

type Options struct {
	Driver       string
	Prefix       string
	NATSURL      string
	MQTTBroker   string
	MQTTClientID string
}

// New builds the publisher selected by opts.Driver.
func New(opts Options, logger log.FieldLogger) (Publisher, error) {
	switch strings.ToLower(opts.Driver) {
	case "", DriverNone:
		return Noop{}, nil
	case DriverNATS:
		p, err := NewNATSPublisher(opts.NATSURL, opts.Prefix)
		if err != nil {
			return nil, err
		}
		logger.WithField("url", opts.NATSURL).Info("publishing events to NATS")
		return p, nil
	case DriverMQTT:
		p, err := NewMQTTPublisher(opts.MQTTBroker, opts.MQTTClientID, opts.Prefix)
		if err != nil {
			return nil, err
		}
		logger.WithField("broker", opts.MQTTBroker).Info("publishing events to MQTT")
		return p, nil
	}
	return nil, fmt.Errorf("unknown events driver %q", opts.Driver)
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }
func (Noop) Close() error                               { return nil }
