package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type LeadUseCase struct {
	Leads  entity.LeadRepositoryInterface
	Events EventPublisher
	Policy AccessPolicy
}

func NewLeadUseCase(leads entity.LeadRepositoryInterface, events EventPublisher) *LeadUseCase {
	if events == nil {
		events = NopPublisher{}
	}
	return &LeadUseCase{Leads: leads, Events: events}
}

func (uc *LeadUseCase) Create(ctx context.Context, caller *entity.User, input LeadInput) (*entity.Lead, error) {
	if err := validationFailed(ValidateLeadInput(input)); err != nil {
		return nil, err
	}

	lead := entity.NewLead(caller.ID, input.AssignedTo)
	applyLeadInput(lead, input)

	if err := uc.Leads.Create(ctx, lead); err != nil {
		return nil, databaseError("create lead", err)
	}

	publish(ctx, uc.Events, queue.PipelineEvent{
		Type:       queue.EventLeadCreated,
		LeadID:     lead.ID,
		Name:       lead.Name,
		Email:      lead.Email,
		Phone:      lead.Phone,
		Company:    lead.Company,
		AssignedTo: lead.AssignedTo,
		OccurredAt: lead.CreatedAt,
	})
	return lead, nil
}

func (uc *LeadUseCase) List(ctx context.Context, caller *entity.User) ([]*entity.Lead, error) {
	leads, err := uc.Leads.List(ctx, uc.Policy.ScopeFor(caller, KindLead), ListLimit)
	if err != nil {
		return nil, databaseError("list leads", err)
	}
	return leads, nil
}

// Get reports NOT_FOUND before it reports FORBIDDEN.
func (uc *LeadUseCase) Get(ctx context.Context, caller *entity.User, id string) (*entity.Lead, error) {
	lead, err := uc.Leads.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound("Lead")
		}
		return nil, databaseError("find lead", err)
	}
	if err := uc.Policy.CheckRecord(caller, KindLead, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// Update overwrites every mutable field. An empty assigned_to keeps the
// current assignment.
func (uc *LeadUseCase) Update(ctx context.Context, caller *entity.User, id string, input LeadInput) (*entity.Lead, error) {
	lead, err := uc.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := validationFailed(ValidateLeadInput(input)); err != nil {
		return nil, err
	}

	applyLeadInput(lead, input)
	if input.AssignedTo != "" {
		lead.AssignedTo = input.AssignedTo
	}
	lead.UpdatedAt = time.Now().UTC()

	if err := uc.Leads.Update(ctx, lead); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound("Lead")
		}
		return nil, databaseError("update lead", err)
	}
	return lead, nil
}

func (uc *LeadUseCase) Delete(ctx context.Context, caller *entity.User, id string) error {
	if _, err := uc.Get(ctx, caller, id); err != nil {
		return err
	}
	if err := uc.Leads.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return notFound("Lead")
		}
		return databaseError("delete lead", err)
	}
	return nil
}

func applyLeadInput(lead *entity.Lead, input LeadInput) {
	lead.Name = input.Name
	lead.Email = input.Email
	lead.Phone = input.Phone
	lead.Company = input.Company
	lead.Source = input.Source
	lead.Notes = input.Notes
	lead.Status = statusOrDefault(input.Status)
}

func publish(ctx context.Context, events EventPublisher, event queue.PipelineEvent) {
	if err := events.PublishEvent(ctx, event); err != nil {
		log.Printf("⚠️ %s %s persisted, but publishing failed: %v", event.Type, event.LeadID, err)
	}
}
