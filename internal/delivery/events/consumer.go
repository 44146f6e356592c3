package events

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/Pesokrava/storefront/internal/config"
	"github.com/Pesokrava/storefront/internal/domain"
	"github.com/Pesokrava/storefront/internal/pkg/logger"
)

// Consumer handles consuming events from NATS
type Consumer struct {
	nc     *nats.Conn
	logger *logger.Logger
	sub    *nats.Subscription
}

// NewConsumer creates a new NATS consumer
func NewConsumer(cfg *config.Config, log *logger.Logger) (*Consumer, error) {
	nc, err := nats.Connect(cfg.NATS.URL, nats.Name("storefront-notifier"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Infof("Connected to NATS at %s", cfg.NATS.URL)

	return &Consumer{
		nc:     nc,
		logger: log,
	}, nil
}

// Subscribe subscribes to a NATS subject and processes messages
func (c *Consumer) Subscribe(subject string, handler func(data []byte) error) error {
	sub, err := c.nc.Subscribe(subject, func(msg *nats.Msg) {
		c.logger.Debugf("Received message on subject %s", msg.Subject)

		if err := handler(msg.Data); err != nil {
			c.logger.Errorf(err, "Failed to handle message on subject %s", msg.Subject)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", subject, err)
	}

	c.sub = sub
	c.logger.Infof("Subscribed to NATS subject: %s", subject)
	return nil
}

// Close closes the NATS connection
func (c *Consumer) Close() {
	if c.sub != nil {
		if err := c.sub.Unsubscribe(); err != nil {
			c.logger.Warnf("Failed to unsubscribe from NATS: %v", err)
		}
	}
	if c.nc != nil {
		c.nc.Close()
		c.logger.Info("NATS consumer connection closed")
	}
}

// LoggingHandler logs every decoded event
func LoggingHandler(log *logger.Logger) func(data []byte) error {
	return func(data []byte) error {
		event, err := domain.DecodeEvent(data)
		if err != nil {
			log.Error("Failed to unmarshal event", err)
			return err
		}

		fields := map[string]interface{}{
			"kind":      event.Kind,
			"timestamp": event.Timestamp,
		}
		if event.ProductID != uuid.Nil {
			fields["product_id"] = event.ProductID
		}
		if event.Review != nil {
			fields["review_id"] = event.Review.ID
			fields["rating"] = event.Review.Rating
		}
		if event.Kind == domain.EventCatalogReloaded {
			fields["count"] = event.Count
		}

		log.WithFields(fields).Info("Received storefront event")
		return nil
	}
}
