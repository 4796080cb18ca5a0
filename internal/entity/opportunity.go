package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type OpportunityStage string

const (
	StageQualified   OpportunityStage = "qualified"
	StageProposal    OpportunityStage = "proposal"
	StageNegotiation OpportunityStage = "negotiation"
	StageWon         OpportunityStage = "won"
	StageLost        OpportunityStage = "lost"
)

func (s OpportunityStage) Valid() bool {
	switch s {
	case StageQualified, StageProposal, StageNegotiation, StageWon, StageLost:
		return true
	}
	return false
}

// Opportunity is a deal derived from exactly one Lead. LeadID and AssignedTo
// are fixed at creation.
type Opportunity struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Value             float64          `json:"value"`
	Stage             OpportunityStage `json:"stage"`
	ExpectedCloseDate *time.Time       `json:"expected_close_date,omitempty"`
	Notes             string           `json:"notes,omitempty"`
	LeadID            string           `json:"lead_id"`
	AssignedTo        string           `json:"assigned_to"`
	CreatedBy         string           `json:"created_by"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// NewOpportunity inherits the assignment of the lead it is derived from.
func NewOpportunity(lead *Lead, createdBy string) *Opportunity {
	now := time.Now().UTC()
	return &Opportunity{
		ID:         uuid.New().String(),
		Stage:      StageQualified,
		LeadID:     lead.ID,
		AssignedTo: lead.AssignedTo,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (o *Opportunity) OwnerValue(field ScopeField) string {
	switch field {
	case ScopeAssignedTo:
		return o.AssignedTo
	case ScopeCreatedBy:
		return o.CreatedBy
	}
	return ""
}

type OpportunityStats struct {
	Total      int
	Won        int
	TotalValue float64
}

type OpportunityRepositoryInterface interface {
	Create(ctx context.Context, opp *Opportunity) error
	FindByID(ctx context.Context, id string) (*Opportunity, error)
	List(ctx context.Context, scope Scope, limit int) ([]*Opportunity, error)
	Update(ctx context.Context, opp *Opportunity) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, scope Scope) (OpportunityStats, error)
}
