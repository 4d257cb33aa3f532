package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pizzaparty/backend-pizzeria/internal/common"
	"github.com/pizzaparty/backend-pizzeria/internal/customize"
	"github.com/pizzaparty/backend-pizzeria/internal/events"
	"github.com/pizzaparty/backend-pizzeria/internal/money"
	"github.com/pizzaparty/backend-pizzeria/internal/obs"
)

// Adder receives customized items on the "customize then add" path.
// The cart satisfies this.
type Adder interface {
	Add(id string, unitPrice money.Money) error
}

// Handler wires the menu to HTTP.
type Handler struct {
	Svc      *Service
	Cart     Adder
	Events   *events.Bus
	Currency string
}

// List returns the full menu in declaration order.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{
		"data":     h.Svc.Items(),
		"currency": h.Currency,
	})
}

// Deals returns the fixed-price bundles.
func (h *Handler) Deals(w http.ResponseWriter, r *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{
		"data":     h.Svc.Deals(),
		"currency": h.Currency,
	})
}

// Favorites returns items rated four stars or better.
func (h *Handler) Favorites(w http.ResponseWriter, r *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{
		"data":     h.Svc.Favorites(),
		"currency": h.Currency,
	})
}

// Detail returns a single menu item.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	item, err := h.Svc.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": item, "currency": h.Currency})
}

// Rate stores a star rating for an item.
func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload struct {
		Stars int `json:"stars"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if err := h.Svc.SetRating(id, payload.Stars); err != nil {
		h.writeError(w, err)
		return
	}
	if obs.ItemsRatedTotal != nil {
		obs.ItemsRatedTotal.Inc()
	}
	if h.Events != nil {
		_, _ = h.Events.Emit(r.Context(), events.TopicItemRated, map[string]any{
			"itemId": id,
			"stars":  payload.Stars,
		})
	}
	item, err := h.Svc.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": item})
}

// Quote resolves a customization without committing anything: the live
// price preview of the customization dialog.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var opts customize.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	item, err := h.Svc.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if item.Deal {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "deals cannot be customized", nil)
		return
	}
	final, labels, err := customize.Resolve(item.BasePrice, opts)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"itemId":     id,
			"basePrice":  item.BasePrice,
			"finalPrice": final,
			"labels":     labels,
		},
		"currency": h.Currency,
	})
}

// Customize commits a customization to the catalog and, when requested,
// immediately adds the item to the cart at the new price. This mirrors
// the dialog's "Add to Cart" path; quantities already in the cart keep
// their add-time totals.
func (h *Handler) Customize(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload struct {
		customize.Options
		AddToCart bool `json:"addToCart"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	item, err := h.Svc.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	final, labels, err := customize.Resolve(item.BasePrice, payload.Options)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	if err := h.Svc.ApplyCustomization(id, labels, final-item.BasePrice); err != nil {
		h.writeError(w, err)
		return
	}
	if h.Events != nil {
		_, _ = h.Events.Emit(r.Context(), events.TopicItemCustomized, map[string]any{
			"itemId":     id,
			"finalPrice": final,
			"labels":     labels,
		})
	}
	added := false
	if payload.AddToCart && h.Cart != nil {
		price, err := h.Svc.PriceOf(id)
		if err != nil {
			h.writeError(w, err)
			return
		}
		if err := h.Cart.Add(id, price); err != nil {
			h.writeError(w, err)
			return
		}
		added = true
		if h.Events != nil {
			_, _ = h.Events.Emit(r.Context(), events.TopicCartItemAdded, map[string]any{
				"itemId":    id,
				"unitPrice": price,
			})
		}
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"itemId":     id,
			"finalPrice": final,
			"labels":     labels,
			"added":      added,
		},
		"currency": h.Currency,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.WriteError(w, common.NewAppError("NOT_FOUND", "menu item not found", http.StatusNotFound, err))
	case errors.Is(err, ErrInvalidInput):
		common.WriteError(w, common.NewAppError("BAD_REQUEST", err.Error(), http.StatusBadRequest, err))
	default:
		common.WriteError(w, err)
	}
}
