package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type CallLogHandler struct {
	CallLogUC *usecase.CallLogUseCase
}

func NewCallLogHandler(uc *usecase.CallLogUseCase) *CallLogHandler {
	return &CallLogHandler{CallLogUC: uc}
}

func (h *CallLogHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var input usecase.CallLogInput
	if !decodeJSON(w, r, &input) {
		return
	}

	call, err := h.CallLogUC.Create(r.Context(), caller, input)
	if err != nil {
		WriteError(w, err)
		return
	}

	middleware.RecordRecordCreated(string(usecase.KindCallLog))
	writeJSON(w, http.StatusCreated, call)
}

func (h *CallLogHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	calls, err := h.CallLogUC.List(r.Context(), caller)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, calls)
}
