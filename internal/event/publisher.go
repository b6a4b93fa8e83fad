package event

import (
	"context"
	"time"
)

const (
	routingKeyCustomerCreated = "customer.created"
	publisherAppID            = "customer-registry"
)

type CustomerEventPayload struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Aadhar      string  `json:"aadhar"`
	Phone       string  `json:"phone"`
	Months      int     `json:"months"`
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"payment_date"`
	CreatedAt   string  `json:"created_at"`
}

type CustomerCreatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type EventPublisher interface {
	PublishCustomerCreated(ctx context.Context, event CustomerCreatedEvent) error
}

// NoopPublisher drops every event. Used when events are disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishCustomerCreated(context.Context, CustomerCreatedEvent) error {
	return nil
}

var _ EventPublisher = NoopPublisher{}
