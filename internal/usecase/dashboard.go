package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type DashboardUseCase struct {
	Leads         entity.LeadRepositoryInterface
	Opportunities entity.OpportunityRepositoryInterface
	Policy        AccessPolicy
}

func NewDashboardUseCase(leads entity.LeadRepositoryInterface, opps entity.OpportunityRepositoryInterface) *DashboardUseCase {
	return &DashboardUseCase{Leads: leads, Opportunities: opps}
}

// Stats aggregates over exactly the records the caller could list.
func (uc *DashboardUseCase) Stats(ctx context.Context, caller *entity.User) (*DashboardStats, error) {
	return uc.stats(ctx,
		uc.Policy.ScopeFor(caller, KindLead),
		uc.Policy.ScopeFor(caller, KindOpportunity),
	)
}

// PipelineTotals aggregates over every record, for internal reporting.
func (uc *DashboardUseCase) PipelineTotals(ctx context.Context) (*DashboardStats, error) {
	return uc.stats(ctx, entity.Unrestricted(), entity.Unrestricted())
}

func (uc *DashboardUseCase) stats(ctx context.Context, leadScope, oppScope entity.Scope) (*DashboardStats, error) {
	leads, err := uc.Leads.Stats(ctx, leadScope)
	if err != nil {
		return nil, databaseError("aggregate leads", err)
	}
	opps, err := uc.Opportunities.Stats(ctx, oppScope)
	if err != nil {
		return nil, databaseError("aggregate opportunities", err)
	}
	return &DashboardStats{
		TotalLeads:            leads.Total,
		NewLeads:              leads.New,
		QualifiedLeads:        leads.Qualified,
		TotalOpportunities:    opps.Total,
		WonOpportunities:      opps.Won,
		TotalOpportunityValue: opps.TotalValue,
	}, nil
}
