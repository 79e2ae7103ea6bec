package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

// ProducerName identifies this service in envelopes
const ProducerName = "gadgethub-api"

// Envelope wraps every event put on the order topic (version 1)
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order reference
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID    uint   `json:"order_id"`
	Reference  string `json:"reference"`
	ListingID  uint   `json:"listing_id"`
	BuyerID    uint   `json:"buyer_id"`
	SellerID   uint   `json:"seller_id"`
	Method     string `json:"method"`
	BasePrice  int64  `json:"base_price"`
	AgentFee   int64  `json:"agent_fee"`
	TotalPrice int64  `json:"total_price"`
	Branch     string `json:"branch"`
}

type OrderStatusChangedPayload struct {
	OrderID    uint   `json:"order_id"`
	Reference  string `json:"reference"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	ActorID    uint   `json:"actor_id"`
	ActorRole  string `json:"actor_role"`
	Branch     string `json:"branch"`
}

// NewEnvelope stamps payload with a fresh event id and time
func NewEnvelope(eventType, correlationID string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      ProducerName,
		CorrelationID: correlationID,
		Payload:       raw,
	}, nil
}

// Publisher ships envelopes somewhere. Publish must not block the caller.
type Publisher interface {
	Publish(env Envelope)
	Close() error
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(Envelope) {}
func (NopPublisher) Close() error     { return nil }
