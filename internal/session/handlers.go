package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pizzaparty/backend-pizzeria/internal/common"
)

// Handler wires the session store to HTTP.
type Handler struct {
	Store *Store
}

// Get returns the active session.
func (h *Handler) Get(w http.ResponseWriter, _ *http.Request) {
	current := h.Store.Current()
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"name":     current.Name,
			"email":    current.Email,
			"address":  current.Address,
			"greeting": "Welcome, " + current.Name + "!",
		},
	})
}

// Update replaces the session contact details.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in ContactInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if err := h.Store.SetContact(in); err != nil {
		if errors.Is(err, ErrInvalidInput) {
			common.WriteError(w, common.NewAppError("BAD_REQUEST", err.Error(), http.StatusBadRequest, err))
			return
		}
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Store.Current()})
}
