package usecase

import "github.com/xavierca1/ligue-crm/internal/entity"

type RecordKind string

const (
	KindLead        RecordKind = "lead"
	KindOpportunity RecordKind = "opportunity"
	KindCallLog     RecordKind = "call_log"
)

type Action string

const (
	ActionListUsers Action = "users:list"
	// ActionManageAny covers reads and writes on records outside the caller's scope.
	ActionManageAny Action = "records:manage_any"
)

// rolePolicy is one row of the static role table. An empty ScopeField means
// the role sees every record of that kind.
type rolePolicy struct {
	scopes       map[RecordKind]entity.ScopeField
	capabilities map[Action]bool
}

var unrestrictedPolicy = rolePolicy{
	scopes: map[RecordKind]entity.ScopeField{},
	capabilities: map[Action]bool{
		ActionListUsers: true,
		ActionManageAny: true,
	},
}

// Lead and opportunity ownership follows assigned_to, call logs follow created_by.
var salesRepPolicy = rolePolicy{
	scopes: map[RecordKind]entity.ScopeField{
		KindLead:        entity.ScopeAssignedTo,
		KindOpportunity: entity.ScopeAssignedTo,
		KindCallLog:     entity.ScopeCreatedBy,
	},
	capabilities: map[Action]bool{},
}

var rolePolicies = map[entity.Role]rolePolicy{
	entity.RoleAdmin:    unrestrictedPolicy,
	entity.RoleManager:  unrestrictedPolicy,
	entity.RoleSalesRep: salesRepPolicy,
}

// AccessPolicy answers visibility and capability questions from the role table.
type AccessPolicy struct{}

func (AccessPolicy) policyFor(role entity.Role) rolePolicy {
	if p, ok := rolePolicies[role]; ok {
		return p
	}
	return salesRepPolicy
}

// ScopeFor returns the filter applied to every query the user makes on kind.
func (p AccessPolicy) ScopeFor(user *entity.User, kind RecordKind) entity.Scope {
	field, restricted := p.policyFor(user.Role).scopes[kind]
	if !restricted {
		return entity.Unrestricted()
	}
	return entity.OwnedBy(field, user.ID)
}

func (p AccessPolicy) Authorize(user *entity.User, action Action) bool {
	return p.policyFor(user.Role).capabilities[action]
}

// CheckRecord must be called after the record is known to exist.
func (p AccessPolicy) CheckRecord(user *entity.User, kind RecordKind, rec entity.Owned) error {
	if p.Authorize(user, ActionManageAny) || p.ScopeFor(user, kind).Permits(rec) {
		return nil
	}
	return ErrForbidden
}
