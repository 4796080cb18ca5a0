package usecase

import (
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type RegisterInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	FullName string      `json:"full_name"`
	Role     entity.Role `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginOutput struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *entity.User `json:"user"`
}

// LeadInput is used both for creation and for full-record updates.
type LeadInput struct {
	Name       string            `json:"name"`
	Email      string            `json:"email,omitempty"`
	Phone      string            `json:"phone,omitempty"`
	Company    string            `json:"company,omitempty"`
	Source     string            `json:"source,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Status     entity.LeadStatus `json:"status,omitempty"`
	AssignedTo string            `json:"assigned_to,omitempty"`
}

// OpportunityInput is the mutable subset of an opportunity.
type OpportunityInput struct {
	Name              string                  `json:"name"`
	Value             float64                 `json:"value"`
	Stage             entity.OpportunityStage `json:"stage,omitempty"`
	ExpectedCloseDate *time.Time              `json:"expected_close_date,omitempty"`
	Notes             string                  `json:"notes,omitempty"`
}

type CreateOpportunityInput struct {
	OpportunityInput
	LeadID string `json:"lead_id"`
}

type CallLogInput struct {
	CallType      entity.CallType `json:"call_type"`
	Duration      *int            `json:"duration,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	LeadID        string          `json:"lead_id,omitempty"`
	OpportunityID string          `json:"opportunity_id,omitempty"`
}

type DashboardStats struct {
	TotalLeads            int     `json:"total_leads"`
	NewLeads              int     `json:"new_leads"`
	QualifiedLeads        int     `json:"qualified_leads"`
	TotalOpportunities    int     `json:"total_opportunities"`
	WonOpportunities      int     `json:"won_opportunities"`
	TotalOpportunityValue float64 `json:"total_opportunity_value"`
}
