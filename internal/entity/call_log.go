package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type CallType string

const (
	CallInbound  CallType = "inbound"
	CallOutbound CallType = "outbound"
)

func (c CallType) Valid() bool {
	return c == CallInbound || c == CallOutbound
}

// CallLog references are not checked against existing leads or opportunities.
type CallLog struct {
	ID            string    `json:"id"`
	CallType      CallType  `json:"call_type"`
	Duration      *int      `json:"duration,omitempty"` // minutes
	Notes         string    `json:"notes,omitempty"`
	LeadID        string    `json:"lead_id,omitempty"`
	OpportunityID string    `json:"opportunity_id,omitempty"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewCallLog(createdBy string, callType CallType) *CallLog {
	return &CallLog{
		ID:        uuid.New().String(),
		CallType:  callType,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
}

func (c *CallLog) OwnerValue(field ScopeField) string {
	if field == ScopeCreatedBy {
		return c.CreatedBy
	}
	return ""
}

type CallLogRepositoryInterface interface {
	Create(ctx context.Context, call *CallLog) error
	List(ctx context.Context, scope Scope, limit int) ([]*CallLog, error)
}
