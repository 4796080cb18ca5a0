package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type DashboardHandler struct {
	DashboardUC *usecase.DashboardUseCase
}

func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{DashboardUC: uc}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	stats, err := h.DashboardUC.Stats(r.Context(), caller)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
