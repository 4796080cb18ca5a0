package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type CallLogUseCase struct {
	CallLogs entity.CallLogRepositoryInterface
	Policy   AccessPolicy
}

func NewCallLogUseCase(calls entity.CallLogRepositoryInterface) *CallLogUseCase {
	return &CallLogUseCase{CallLogs: calls}
}

// Create stores the lead and opportunity ids as given, without looking them up.
func (uc *CallLogUseCase) Create(ctx context.Context, caller *entity.User, input CallLogInput) (*entity.CallLog, error) {
	if err := validationFailed(ValidateCallLogInput(input)); err != nil {
		return nil, err
	}

	call := entity.NewCallLog(caller.ID, input.CallType)
	call.Duration = input.Duration
	call.Notes = input.Notes
	call.LeadID = input.LeadID
	call.OpportunityID = input.OpportunityID

	if err := uc.CallLogs.Create(ctx, call); err != nil {
		return nil, databaseError("create call log", err)
	}
	return call, nil
}

func (uc *CallLogUseCase) List(ctx context.Context, caller *entity.User) ([]*entity.CallLog, error) {
	calls, err := uc.CallLogs.List(ctx, uc.Policy.ScopeFor(caller, KindCallLog), ListLimit)
	if err != nil {
		return nil, databaseError("list call logs", err)
	}
	return calls, nil
}
