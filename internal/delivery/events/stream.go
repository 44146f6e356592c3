package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Pesokrava/storefront/internal/domain"
	"github.com/Pesokrava/storefront/internal/pkg/logger"
)

const (
	// StreamName is the JetStream stream holding storefront events
	StreamName = "STOREFRONT"

	// StreamSubjects matches every event kind
	StreamSubjects = domain.EventSubjectPrefix + ">"

	// StreamMaxAge bounds how long events are retained
	StreamMaxAge = 72 * time.Hour
)

// StreamManager is the subset of nats.JetStreamContext used to manage the stream
type StreamManager interface {
	StreamInfo(stream string, opts ...nats.JSOpt) (*nats.StreamInfo, error)
	AddStream(cfg *nats.StreamConfig, opts ...nats.JSOpt) (*nats.StreamInfo, error)
}

// StreamConfig holds the JetStream stream configuration
type StreamConfig struct {
	js     StreamManager
	logger *logger.Logger
}

// NewStreamConfig creates a new stream configuration helper
func NewStreamConfig(js StreamManager, log *logger.Logger) *StreamConfig {
	return &StreamConfig{
		js:     js,
		logger: log,
	}
}

// Definition returns the stream configuration EnsureStream creates.
// Limits retention lets any number of subscribers read the same events.
func Definition() *nats.StreamConfig {
	return &nats.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{StreamSubjects},
		Retention:   nats.LimitsPolicy,
		Storage:     nats.FileStorage,
		Replicas:    1,
		MaxAge:      StreamMaxAge,
		Discard:     nats.DiscardOld,
		Description: "Storefront catalog and review events",
	}
}

// EnsureStream creates the stream if it does not exist yet
func (s *StreamConfig) EnsureStream() error {
	stream, err := s.js.StreamInfo(StreamName)

	if errors.Is(err, nats.ErrStreamNotFound) {
		s.logger.WithFields(map[string]interface{}{
			"stream":   StreamName,
			"subjects": StreamSubjects,
		}).Info("Creating JetStream stream")

		if _, err = s.js.AddStream(Definition()); err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}

		s.logger.Info("JetStream stream created successfully")
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to get stream info: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"stream":   stream.Config.Name,
		"messages": stream.State.Msgs,
		"bytes":    stream.State.Bytes,
	}).Info("JetStream stream already exists")

	return nil
}
