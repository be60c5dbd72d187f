package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"

	"coolbooks_server/models"
)

// Notifier announces newly created listings. Notification is best effort,
// the listing is already stored when it runs.
type Notifier interface {
	NotifyListingCreated(ctx context.Context, listing models.Listing) error
}

// MultiNotifier fans a notification out to every notifier it holds
type MultiNotifier []Notifier

func (m MultiNotifier) NotifyListingCreated(ctx context.Context, listing models.Listing) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyListingCreated(ctx, listing); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NATSPublisher is the part of *nats.Conn NATSNotifier needs
type NATSPublisher interface {
	Publish(subject string, data []byte) error
}

// NATSNotifier publishes each new listing as JSON on Subject
type NATSNotifier struct {
	Conn    NATSPublisher
	Subject string
}

// NewNATSNotifier connects to url. The caller owns the returned connection.
func NewNATSNotifier(url, subject string) (*NATSNotifier, *nats.Conn, error) {
	conn, err := nats.Connect(url, nats.Name("coolbooks"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to nats at %s: %w", url, err)
	}
	return &NATSNotifier{Conn: conn, Subject: subject}, conn, nil
}

func (n *NATSNotifier) NotifyListingCreated(_ context.Context, listing models.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("failed to marshal listing %s: %w", listing.ID, err)
	}
	if err := n.Conn.Publish(n.Subject, data); err != nil {
		return fmt.Errorf("failed to publish listing %s: %w", listing.ID, err)
	}
	return nil
}
