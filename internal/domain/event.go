package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventSubjectPrefix is prepended to every event kind to form its subject
const EventSubjectPrefix = "storefront.events."

const (
	EventProductCreated  = "product.created"
	EventProductUpdated  = "product.updated"
	EventProductDeleted  = "product.deleted"
	EventReviewCreated   = "review.created"
	EventCatalogReloaded = "catalog.reloaded"
)

// Event is published after a catalog command has been applied
type Event struct {
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	ProductID uuid.UUID `json:"product_id,omitempty"`
	Product   *Product  `json:"product,omitempty"`
	Review    *Review   `json:"review,omitempty"`
	Count     int       `json:"count,omitempty"`
}

// Subject returns the subject the event is published on
func (e Event) Subject() string {
	return EventSubjectPrefix + e.Kind
}

// Encode marshals the event, stamping it with the current time if unset
func (e Event) Encode() ([]byte, error) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	return json.Marshal(e)
}

// DecodeEvent parses an event payload
func DecodeEvent(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}
