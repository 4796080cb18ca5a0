package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusLost      LeadStatus = "lost"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusLost:
		return true
	}
	return false
}

type Lead struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Company    string     `json:"company,omitempty"`
	Source     string     `json:"source,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	Status     LeadStatus `json:"status"`
	AssignedTo string     `json:"assigned_to"`
	CreatedBy  string     `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewLead assigns the lead to its creator unless assignedTo is given.
func NewLead(createdBy, assignedTo string) *Lead {
	if assignedTo == "" {
		assignedTo = createdBy
	}
	now := time.Now().UTC()
	return &Lead{
		ID:         uuid.New().String(),
		Status:     LeadStatusNew,
		AssignedTo: assignedTo,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (l *Lead) OwnerValue(field ScopeField) string {
	switch field {
	case ScopeAssignedTo:
		return l.AssignedTo
	case ScopeCreatedBy:
		return l.CreatedBy
	}
	return ""
}

type LeadStats struct {
	Total     int
	New       int
	Qualified int
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, scope Scope, limit int) ([]*Lead, error)
	Update(ctx context.Context, lead *Lead) error
	// UpdateStatus overwrites the status unconditionally.
	UpdateStatus(ctx context.Context, id string, status LeadStatus) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, scope Scope) (LeadStats, error)
}
