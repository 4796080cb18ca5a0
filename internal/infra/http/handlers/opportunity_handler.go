package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type OpportunityHandler struct {
	OpportunityUC *usecase.OpportunityUseCase
}

func NewOpportunityHandler(uc *usecase.OpportunityUseCase) *OpportunityHandler {
	return &OpportunityHandler{OpportunityUC: uc}
}

func (h *OpportunityHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var input usecase.CreateOpportunityInput
	if !decodeJSON(w, r, &input) {
		return
	}

	opp, err := h.OpportunityUC.Create(r.Context(), caller, input)
	if err != nil {
		WriteError(w, err)
		return
	}

	middleware.RecordRecordCreated(string(usecase.KindOpportunity))
	writeJSON(w, http.StatusCreated, opp)
}

func (h *OpportunityHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	opps, err := h.OpportunityUC.List(r.Context(), caller)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, opps)
}

func (h *OpportunityHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	opp, err := h.OpportunityUC.Get(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, opp)
}

func (h *OpportunityHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var input usecase.OpportunityInput
	if !decodeJSON(w, r, &input) {
		return
	}

	opp, err := h.OpportunityUC.Update(r.Context(), caller, chi.URLParam(r, "id"), input)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, opp)
}
