package cart_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/pizzaparty/backend-pizzeria/internal/cart"
	"github.com/pizzaparty/backend-pizzeria/internal/catalog"
)

type cartViewBody struct {
	Data struct {
		Items []struct {
			ItemID    string `json:"itemId"`
			Qty       int    `json:"qty"`
			UnitPrice string `json:"unitPrice"`
			LineTotal string `json:"lineTotal"`
		} `json:"items"`
		Total    string `json:"total"`
		Empty    bool   `json:"empty"`
		Currency string `json:"currency"`
	} `json:"data"`
}

func newCartRouter(t *testing.T) (*chi.Mux, *cart.Cart, *catalog.Service) {
	t.Helper()
	cat, err := catalog.NewService(catalog.DefaultMenu())
	require.NoError(t, err)
	c := cart.New(cat)
	h := &cart.Handler{Cart: c, Catalog: cat, Currency: "OMR"}

	r := chi.NewRouter()
	r.Get("/cart", h.Get)
	r.Post("/cart/items", h.AddItem)
	r.Delete("/cart/items/{id}", h.RemoveItem)
	r.Delete("/cart", h.Clear)
	return r, c, cat
}

func do(t *testing.T, r http.Handler, method, target, body string) (*httptest.ResponseRecorder, cartViewBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	var view cartViewBody
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	}
	return rec, view
}

func TestCartHandlerAddAndGet(t *testing.T) {
	r, _, _ := newCartRouter(t)

	rec, view := do(t, r, http.MethodPost, "/cart/items", `{"itemId":"MARGHERITA"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, view.Data.Empty)
	require.Equal(t, "4.936", view.Data.Total)

	rec, view = do(t, r, http.MethodPost, "/cart/items", `{"itemId":"MARGHERITA"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, view.Data.Items, 1)
	require.Equal(t, 2, view.Data.Items[0].Qty)
	require.Equal(t, "9.872", view.Data.Total)
	require.Equal(t, "9.872", view.Data.Items[0].LineTotal)
	require.Equal(t, "OMR", view.Data.Currency)
}

func TestCartHandlerUnknownItem(t *testing.T) {
	r, c, _ := newCartRouter(t)

	rec, _ := do(t, r, http.MethodPost, "/cart/items", `{"itemId":"CALZONE"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "NOT_FOUND")
	require.True(t, c.IsEmpty())
}

func TestCartHandlerMissingItemID(t *testing.T) {
	r, _, _ := newCartRouter(t)

	rec, _ := do(t, r, http.MethodPost, "/cart/items", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "itemId is required")
}

func TestCartHandlerRemoveAndClear(t *testing.T) {
	r, c, _ := newCartRouter(t)

	_, _ = do(t, r, http.MethodPost, "/cart/items", `{"itemId":"PEPPERONI"}`)
	_, _ = do(t, r, http.MethodPost, "/cart/items", `{"itemId":"VEGGIE DELIGHT"}`)

	rec, view := do(t, r, http.MethodDelete, "/cart/items/PEPPERONI", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, view.Data.Items, 1)
	require.Equal(t, "VEGGIE DELIGHT", view.Data.Items[0].ItemID)

	rec, _ = do(t, r, http.MethodDelete, "/cart/items/PEPPERONI", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, view = do(t, r, http.MethodDelete, "/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, view.Data.Empty)
	require.Equal(t, "0.000", view.Data.Total)
	require.True(t, c.IsEmpty())
}
