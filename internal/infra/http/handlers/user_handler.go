package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type UserHandler struct {
	UserUC *usecase.UserUseCase
}

func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{UserUC: uc}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	users, err := h.UserUC.List(r.Context(), caller)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}
