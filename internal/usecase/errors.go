package usecase

import "errors"

const (
	CodeDuplicateIdentity  = "DUPLICATE_IDENTITY"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeIdentityNotFound   = "IDENTITY_NOT_FOUND"
	CodeNotFound           = "NOT_FOUND"
	CodeForbidden          = "FORBIDDEN"
	CodeValidation         = "VALIDATION_ERROR"

	CodeDatabase = "DATABASE_ERROR"
	CodeSecurity = "SECURITY_ERROR"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError carrying the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ErrorCode returns the stable kind of err, or "" when it is not a usecase error.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

var (
	ErrDuplicateIdentity  = &DomainError{Code: CodeDuplicateIdentity, Message: "Email already registered"}
	ErrInvalidCredentials = &DomainError{Code: CodeInvalidCredentials, Message: "Incorrect email or password"}
	ErrInvalidToken       = &DomainError{Code: CodeInvalidToken, Message: "Invalid authentication credentials"}
	ErrTokenExpired       = &DomainError{Code: CodeTokenExpired, Message: "Token has expired"}
	ErrIdentityNotFound   = &DomainError{Code: CodeIdentityNotFound, Message: "User not found"}
	ErrForbidden          = &DomainError{Code: CodeForbidden, Message: "Not authorized"}
)

func notFound(what string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: what + " not found"}
}

func databaseError(op string, err error) *TechnicalError {
	return &TechnicalError{Code: CodeDatabase, Message: "failed to " + op + ": " + err.Error(), Err: err}
}
