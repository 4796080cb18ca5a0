package entity

// ScopeField names the ownership column a restricted scope filters on.
type ScopeField string

const (
	ScopeAssignedTo ScopeField = "assigned_to"
	ScopeCreatedBy  ScopeField = "created_by"
)

// Scope restricts a query to the records owned by OwnerID through Field.
// The zero Scope is unrestricted.
type Scope struct {
	Field   ScopeField
	OwnerID string
}

func Unrestricted() Scope {
	return Scope{}
}

func OwnedBy(field ScopeField, ownerID string) Scope {
	return Scope{Field: field, OwnerID: ownerID}
}

func (s Scope) IsUnrestricted() bool {
	return s.Field == ""
}

// Owned is implemented by records that can be filtered by a Scope.
type Owned interface {
	OwnerValue(field ScopeField) string
}

func (s Scope) Permits(rec Owned) bool {
	if s.IsUnrestricted() {
		return true
	}
	return rec.OwnerValue(s.Field) == s.OwnerID
}
