package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type OpportunityUseCase struct {
	Opportunities entity.OpportunityRepositoryInterface
	Leads         entity.LeadRepositoryInterface
	Users         entity.UserRepositoryInterface
	Events        EventPublisher
	Policy        AccessPolicy
}

func NewOpportunityUseCase(
	opps entity.OpportunityRepositoryInterface,
	leads entity.LeadRepositoryInterface,
	users entity.UserRepositoryInterface,
	events EventPublisher,
) *OpportunityUseCase {
	if events == nil {
		events = NopPublisher{}
	}
	return &OpportunityUseCase{
		Opportunities: opps,
		Leads:         leads,
		Users:         users,
		Events:        events,
	}
}

// Create derives an opportunity from a lead the caller can see and forces
// that lead's status to qualified, whatever it was before.
func (uc *OpportunityUseCase) Create(ctx context.Context, caller *entity.User, input CreateOpportunityInput) (*entity.Opportunity, error) {
	if err := validationFailed(ValidateCreateOpportunityInput(input)); err != nil {
		return nil, err
	}

	lead, err := uc.Leads.FindByID(ctx, input.LeadID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound("Lead")
		}
		return nil, databaseError("find lead", err)
	}
	if err := uc.Policy.CheckRecord(caller, KindLead, lead); err != nil {
		return nil, err
	}

	opp := entity.NewOpportunity(lead, caller.ID)
	applyOpportunityInput(opp, input.OpportunityInput)

	txn := NewTransaction()
	txn.AddOperation("create_opportunity",
		func(ctx context.Context) error {
			return uc.Opportunities.Create(ctx, opp)
		},
		func(ctx context.Context) error {
			return uc.Opportunities.Delete(ctx, opp.ID)
		},
	)
	txn.AddOperation("qualify_lead",
		func(ctx context.Context) error {
			return uc.Leads.UpdateStatus(ctx, lead.ID, entity.LeadStatusQualified)
		},
		nil,
	)
	if err := txn.Execute(ctx); err != nil {
		return nil, databaseError("persist opportunity", err)
	}

	event := queue.PipelineEvent{
		Type:          queue.EventOpportunityCreated,
		LeadID:        lead.ID,
		OpportunityID: opp.ID,
		Name:          opp.Name,
		Value:         opp.Value,
		AssignedTo:    opp.AssignedTo,
		OccurredAt:    opp.CreatedAt,
	}
	if assignee, err := uc.Users.FindByID(ctx, opp.AssignedTo); err == nil {
		event.AssigneeName = assignee.FullName
		event.AssigneeEmail = assignee.Email
	} else {
		log.Printf("⚠️ Assignee %s of opportunity %s not resolved: %v", opp.AssignedTo, opp.ID, err)
	}
	publish(ctx, uc.Events, event)

	return opp, nil
}

func (uc *OpportunityUseCase) List(ctx context.Context, caller *entity.User) ([]*entity.Opportunity, error) {
	opps, err := uc.Opportunities.List(ctx, uc.Policy.ScopeFor(caller, KindOpportunity), ListLimit)
	if err != nil {
		return nil, databaseError("list opportunities", err)
	}
	return opps, nil
}

func (uc *OpportunityUseCase) Get(ctx context.Context, caller *entity.User, id string) (*entity.Opportunity, error) {
	opp, err := uc.Opportunities.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound("Opportunity")
		}
		return nil, databaseError("find opportunity", err)
	}
	if err := uc.Policy.CheckRecord(caller, KindOpportunity, opp); err != nil {
		return nil, err
	}
	return opp, nil
}

// Update overwrites name, value, stage, expected close date and notes. The
// lead reference and assignment never change.
func (uc *OpportunityUseCase) Update(ctx context.Context, caller *entity.User, id string, input OpportunityInput) (*entity.Opportunity, error) {
	opp, err := uc.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := validationFailed(ValidateOpportunityInput(input)); err != nil {
		return nil, err
	}

	applyOpportunityInput(opp, input)
	opp.UpdatedAt = time.Now().UTC()

	if err := uc.Opportunities.Update(ctx, opp); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound("Opportunity")
		}
		return nil, databaseError("update opportunity", err)
	}
	return opp, nil
}

func applyOpportunityInput(opp *entity.Opportunity, input OpportunityInput) {
	opp.Name = input.Name
	opp.Value = input.Value
	opp.Stage = stageOrDefault(input.Stage)
	opp.ExpectedCloseDate = input.ExpectedCloseDate
	opp.Notes = input.Notes
}
