package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type LeadHandler struct {
	LeadUC *usecase.LeadUseCase
}

func NewLeadHandler(uc *usecase.LeadUseCase) *LeadHandler {
	return &LeadHandler{LeadUC: uc}
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var input usecase.LeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	lead, err := h.LeadUC.Create(r.Context(), caller, input)
	if err != nil {
		WriteError(w, err)
		return
	}

	middleware.RecordRecordCreated(string(usecase.KindLead))
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	leads, err := h.LeadUC.List(r.Context(), caller)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	lead, err := h.LeadUC.Get(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var input usecase.LeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	lead, err := h.LeadUC.Update(r.Context(), caller, chi.URLParam(r, "id"), input)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	if err := h.LeadUC.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Lead deleted successfully"})
}
