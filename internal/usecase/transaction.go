package usecase

import (
	"context"
	"fmt"
	"log"
)

// Transaction runs a sequence of writes that the store cannot commit
// atomically. When step i fails, the compensations registered for steps
// before i run in reverse order, detached from ctx cancellation. A failed
// compensation is only logged.
type Transaction struct {
	steps []step
}

type step struct {
	name       string
	fn         func(context.Context) error
	compensate func(context.Context) error
}

func NewTransaction() *Transaction {
	return &Transaction{}
}

// AddOperation appends a step. compensate may be nil.
func (t *Transaction) AddOperation(name string, fn, compensate func(context.Context) error) {
	t.steps = append(t.steps, step{name: name, fn: fn, compensate: compensate})
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, s := range t.steps {
		if err := s.fn(ctx); err != nil {
			rolledBack := t.rollback(context.WithoutCancel(ctx), i)
			return fmt.Errorf("operation '%s' failed: %w (rolled back %d operations)", s.name, err, rolledBack)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAt int) int {
	rolledBack := 0
	for i := failedAt - 1; i >= 0; i-- {
		s := t.steps[i]
		if s.compensate == nil {
			continue
		}
		if err := s.compensate(ctx); err != nil {
			log.Printf("⚠️ WARNING: compensation for '%s' failed: %v (inconsistency risk!)", s.name, err)
			continue
		}
		rolledBack++
	}
	return rolledBack
}
