package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pizzaparty/backend-pizzeria/internal/catalog"
	"github.com/pizzaparty/backend-pizzeria/internal/common"
	"github.com/pizzaparty/backend-pizzeria/internal/events"
	"github.com/pizzaparty/backend-pizzeria/internal/money"
	"github.com/pizzaparty/backend-pizzeria/internal/obs"
)

// Handler wires the cart to HTTP.
type Handler struct {
	Cart     *Cart
	Catalog  *catalog.Service
	Events   *events.Bus
	Currency string
}

type lineView struct {
	ItemID         string      `json:"itemId"`
	Qty            int         `json:"qty"`
	UnitPrice      money.Money `json:"unitPrice"`
	LineTotal      money.Money `json:"lineTotal"`
	Customizations []string    `json:"customizations,omitempty"`
}

// Get returns the cart contents with per-line display pricing and the
// running total.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{"data": h.view()})
}

// AddItem puts one unit of the item into the cart at the current catalog
// price.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ItemID string `json:"itemId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	id := strings.TrimSpace(payload.ItemID)
	if id == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "itemId is required", nil)
		return
	}
	price, err := h.Catalog.PriceOf(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.Cart.Add(id, price); err != nil {
		h.countOp("add", "error")
		h.writeError(w, err)
		return
	}
	h.countOp("add", "ok")
	if h.Events != nil {
		_, _ = h.Events.Emit(r.Context(), events.TopicCartItemAdded, map[string]any{
			"itemId":    id,
			"unitPrice": price,
			"total":     h.Cart.Total(),
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.view()})
}

// RemoveItem takes one unit of the item out of the cart.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Cart.RemoveOne(id); err != nil {
		h.countOp("remove", "error")
		h.writeError(w, err)
		return
	}
	h.countOp("remove", "ok")
	if h.Events != nil {
		_, _ = h.Events.Emit(r.Context(), events.TopicCartItemRemoved, map[string]any{
			"itemId": id,
			"total":  h.Cart.Total(),
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.view()})
}

// Clear empties the cart.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	h.Cart.Clear()
	h.countOp("clear", "ok")
	if h.Events != nil {
		_, _ = h.Events.Emit(r.Context(), events.TopicCartCleared, nil)
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.view()})
}

func (h *Handler) view() map[string]any {
	lines := h.Cart.Lines()
	views := make([]lineView, 0, len(lines))
	for _, line := range lines {
		view := lineView{ItemID: line.ItemID, Qty: line.Qty}
		if item, err := h.Catalog.Get(line.ItemID); err == nil {
			view.UnitPrice = item.CurrentPrice
			view.LineTotal = item.CurrentPrice.Mul(line.Qty)
			view.Customizations = item.Customizations
		}
		views = append(views, view)
	}
	return map[string]any{
		"items":    views,
		"total":    h.Cart.Total(),
		"empty":    h.Cart.IsEmpty(),
		"currency": h.Currency,
	}
}

func (h *Handler) countOp(op, result string) {
	if obs.CartMutationsTotal != nil {
		obs.CartMutationsTotal.WithLabelValues(op, result).Inc()
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		common.WriteError(w, common.NewAppError("NOT_FOUND", err.Error(), http.StatusNotFound, err))
	case errors.Is(err, ErrInvalidInput), errors.Is(err, catalog.ErrInvalidInput):
		common.WriteError(w, common.NewAppError("BAD_REQUEST", err.Error(), http.StatusBadRequest, err))
	default:
		common.WriteError(w, err)
	}
}
