package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// LeadSyncer pushes new leads to an external CRM.
type LeadSyncer interface {
	SyncLead(ctx context.Context, event PipelineEvent) error
}

// AssignmentNotifier tells an identity a deal was assigned to them.
type AssignmentNotifier interface {
	NotifyOpportunityAssigned(ctx context.Context, event PipelineEvent) error
}

type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  Consumer
	Syncer   LeadSyncer
	Notifier AssignmentNotifier
}

// NewWorker accepts nil collaborators; events for them are acked and dropped.
func NewWorker(ch Consumer, syncer LeadSyncer, notifier AssignmentNotifier) *Worker {
	return &Worker{Channel: ch, Syncer: syncer, Notifier: notifier}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	log.Printf(" [*] Worker waiting on queue '%s'", queueName)
	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ [WORKER] stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var event PipelineEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		log.Printf("❌ [WORKER] invalid JSON: %s", err)
		d.Nack(false, false)
		return
	}

	if err := w.processMessage(ctx, event); err != nil {
		log.Printf("❌ [WORKER] %s for lead %s failed: %s", event.Type, event.LeadID, err)
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}

func (w *Worker) processMessage(ctx context.Context, event PipelineEvent) error {
	switch event.Type {
	case EventLeadCreated:
		if w.Syncer == nil {
			return nil
		}
		return w.Syncer.SyncLead(ctx, event)

	case EventOpportunityCreated:
		if w.Notifier == nil || event.AssigneeEmail == "" {
			return nil
		}
		return w.Notifier.NotifyOpportunityAssigned(ctx, event)

	default:
		log.Printf("⚠️ [WORKER] unknown event type %q, dropping", event.Type)
		return nil
	}
}
