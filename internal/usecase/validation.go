package usecase

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// bcrypt ignores everything past 72 bytes.
const maxPasswordBytes = 72

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationFailed(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
	}
}

func ValidateRegisterInput(input RegisterInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if !isValidEmail(input.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if input.Password == "" {
		errors = append(errors, ValidationError{"password", "is required"})
	} else if len(input.Password) > maxPasswordBytes {
		errors = append(errors, ValidationError{"password", "must not exceed 72 bytes"})
	}

	if strings.TrimSpace(input.FullName) == "" {
		errors = append(errors, ValidationError{"full_name", "is required"})
	}

	if input.Role != "" && !input.Role.Valid() {
		errors = append(errors, ValidationError{"role", "must be admin, manager or sales_rep"})
	}

	return errors
}

func ValidateLoginInput(input LoginInput) []ValidationError {
	var errors []ValidationError
	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	}
	if input.Password == "" {
		errors = append(errors, ValidationError{"password", "is required"})
	}
	return errors
}

func ValidateLeadInput(input LeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	}
	if input.Email != "" && !isValidEmail(input.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}
	if input.Status != "" && !input.Status.Valid() {
		errors = append(errors, ValidationError{"status", "must be new, contacted, qualified or lost"})
	}

	return errors
}

func ValidateOpportunityInput(input OpportunityInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	}
	if input.Value < 0 {
		errors = append(errors, ValidationError{"value", "must not be negative"})
	}
	if input.Stage != "" && !input.Stage.Valid() {
		errors = append(errors, ValidationError{"stage", "must be qualified, proposal, negotiation, won or lost"})
	}

	return errors
}

func ValidateCreateOpportunityInput(input CreateOpportunityInput) []ValidationError {
	errors := ValidateOpportunityInput(input.OpportunityInput)
	if strings.TrimSpace(input.LeadID) == "" {
		errors = append(errors, ValidationError{"lead_id", "is required"})
	}
	return errors
}

func ValidateCallLogInput(input CallLogInput) []ValidationError {
	var errors []ValidationError

	if input.CallType == "" {
		errors = append(errors, ValidationError{"call_type", "is required"})
	} else if !input.CallType.Valid() {
		errors = append(errors, ValidationError{"call_type", "must be inbound or outbound"})
	}
	if input.Duration != nil && *input.Duration < 0 {
		errors = append(errors, ValidationError{"duration", "must not be negative"})
	}

	return errors
}

func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// statusOrDefault mirrors the wire defaults applied when a field is omitted.
func statusOrDefault(s entity.LeadStatus) entity.LeadStatus {
	if s == "" {
		return entity.LeadStatusNew
	}
	return s
}

func stageOrDefault(s entity.OpportunityStage) entity.OpportunityStage {
	if s == "" {
		return entity.StageQualified
	}
	return s
}
