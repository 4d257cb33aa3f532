package checkout

import (
	"errors"
	"net/http"

	"github.com/pizzaparty/backend-pizzeria/internal/catalog"
	"github.com/pizzaparty/backend-pizzeria/internal/common"
	"github.com/pizzaparty/backend-pizzeria/internal/obs"
	"github.com/pizzaparty/backend-pizzeria/internal/session"
)

// Handler wires checkout to HTTP.
type Handler struct {
	Svc      *Service
	Sessions *session.Store
	Currency string
}

// Checkout validates the cart and projects an order summary. It has no
// side effects; the caller shows the summary and confirms separately.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Svc.Build(h.Sessions.Current())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": sum, "currency": h.Currency})
}

// Confirm finalizes the order: the summary is built once more, the cart
// is cleared and the confirmation is returned.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Svc.Build(h.Sessions.Current())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.Svc.Finalize(r.Context(), sum); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "finalize order", nil)
		return
	}
	if obs.OrdersConfirmedTotal != nil {
		obs.OrdersConfirmedTotal.Inc()
	}
	if obs.OrderValueThousandths != nil {
		obs.OrderValueThousandths.Observe(float64(sum.GrandTotal))
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": sum, "currency": h.Currency})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if ve, ok := AsValidationError(err); ok {
		if obs.CheckoutRejectedTotal != nil {
			obs.CheckoutRejectedTotal.WithLabelValues(string(ve.Reason)).Inc()
		}
		common.WriteError(w, &common.AppError{
			Code:       "VALIDATION_FAILED",
			Message:    ve.Error(),
			HTTPStatus: http.StatusUnprocessableEntity,
			Err:        ve,
			Details:    map[string]any{"reason": ve.Reason},
		})
		return
	}
	if errors.Is(err, catalog.ErrNotFound) {
		common.WriteError(w, common.NewAppError("NOT_FOUND", err.Error(), http.StatusNotFound, err))
		return
	}
	common.WriteError(w, err)
}
