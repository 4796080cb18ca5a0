package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventLeadCreated        = "lead.created"
	EventOpportunityCreated = "opportunity.created"
)

// PipelineEvent is published after a lead or opportunity has been persisted.
// It carries everything the consumers need so the worker never reads the store.
type PipelineEvent struct {
	Type          string    `json:"type"`
	LeadID        string    `json:"lead_id"`
	OpportunityID string    `json:"opportunity_id,omitempty"`
	Name          string    `json:"name"`
	Value         float64   `json:"value,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Company       string    `json:"company,omitempty"`
	AssignedTo    string    `json:"assigned_to"`
	AssigneeName  string    `json:"assignee_name,omitempty"`
	AssigneeEmail string    `json:"assignee_email,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher is the subset of *amqp.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishEvent(ctx context.Context, event PipelineEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         event.Type,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}
