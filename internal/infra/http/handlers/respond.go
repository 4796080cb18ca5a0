package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ErrorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, ErrorResponse{Code: code, Detail: detail})
}

// WriteError renders a usecase error with the status its code maps to.
// Technical failures are logged and answered with a generic message.
func WriteError(w http.ResponseWriter, err error) {
	code := usecase.ErrorCode(err)
	status := statusFor(code)

	var de *usecase.DomainError
	if errors.As(err, &de) {
		writeErrorResponse(w, status, de.Code, de.Message)
		return
	}

	log.Printf("❌ Request failed: %v", err)
	if code == "" {
		code = "INTERNAL_ERROR"
	}
	writeErrorResponse(w, status, code, "Internal server error")
}

func statusFor(code string) int {
	switch code {
	case usecase.CodeValidation, usecase.CodeDuplicateIdentity:
		return http.StatusBadRequest
	case usecase.CodeInvalidCredentials, usecase.CodeInvalidToken,
		usecase.CodeTokenExpired, usecase.CodeIdentityNotFound:
		return http.StatusUnauthorized
	case usecase.CodeForbidden:
		return http.StatusForbidden
	case usecase.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}
