package checkout_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pizzaparty/backend-pizzeria/internal/cart"
	"github.com/pizzaparty/backend-pizzeria/internal/catalog"
	"github.com/pizzaparty/backend-pizzeria/internal/checkout"
	"github.com/pizzaparty/backend-pizzeria/internal/events"
	"github.com/pizzaparty/backend-pizzeria/internal/money"
	"github.com/pizzaparty/backend-pizzeria/internal/session"
)

func newFixture(t *testing.T) (*checkout.Service, *cart.Cart, *catalog.Service, *events.MemoryStore) {
	t.Helper()
	cat, err := catalog.NewService(catalog.DefaultMenu())
	require.NoError(t, err)
	c := cart.New(cat)
	store := events.NewMemoryStore()
	svc := &checkout.Service{
		Cart:    c,
		Catalog: cat,
		Events:  &events.Bus{Store: store},
		Now:     func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
	return svc, c, cat, store
}

func validSession() session.Session {
	return session.Session{
		Name:    "Amal",
		Email:   "amal@example.com",
		Address: "12 Harbour Road, Muscat",
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, c, _, _ := newFixture(t)

	_, err := svc.Build(validSession())
	ve, ok := checkout.AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, checkout.ReasonEmptyCart, ve.Reason)
	require.True(t, c.IsEmpty())
}

func TestCheckoutMissingContact(t *testing.T) {
	svc, c, cat, _ := newFixture(t)
	price, err := cat.PriceOf("MARGHERITA")
	require.NoError(t, err)
	require.NoError(t, c.Add("MARGHERITA", price))

	cases := []session.Session{
		{Name: "Amal"},
		{Name: "Amal", Email: "amal@example.com"},
		{Name: "Amal", Address: "12 Harbour Road"},
		{Name: "Amal", Email: "not-an-email", Address: "12 Harbour Road"},
	}
	for _, sess := range cases {
		_, err := svc.Build(sess)
		ve, ok := checkout.AsValidationError(err)
		require.True(t, ok, "session %+v", sess)
		require.Equal(t, checkout.ReasonMissingContact, ve.Reason)
	}
	// the gate never mutates the cart
	require.False(t, c.IsEmpty())
	require.Equal(t, price, c.Total())
}

func TestLegacyEmailPattern(t *testing.T) {
	valid := []string{
		"amal@example.com",
		"first.last@mail.example.org",
		"user-name@sub-domain.example.co",
		"a_b@example.io",
	}
	for _, addr := range valid {
		require.True(t, checkout.ValidEmail(addr), addr)
	}
	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@example",
		"user@example.museum", // final label longer than four characters
		"user@example.c",      // final label shorter than two characters
		"user name@example.com",
	}
	for _, addr := range invalid {
		require.False(t, checkout.ValidEmail(addr), addr)
	}
}

func TestBuildProjectsCartWithoutSideEffects(t *testing.T) {
	svc, c, cat, _ := newFixture(t)

	require.NoError(t, cat.ApplyCustomization("MARGHERITA", []string{"Medium Size", "Pepperoni"}, money.MustParse("1.850")))
	price, err := cat.PriceOf("MARGHERITA")
	require.NoError(t, err)
	require.NoError(t, c.Add("MARGHERITA", price))
	require.NoError(t, c.Add("MARGHERITA", price))
	dealPrice, err := cat.PriceOf("Lunch Combo")
	require.NoError(t, err)
	require.NoError(t, c.Add("Lunch Combo", dealPrice))

	preTotal := c.Total()
	sum, err := svc.Build(validSession())
	require.NoError(t, err)

	require.NotEmpty(t, sum.ID)
	require.Equal(t, preTotal, sum.GrandTotal)
	require.Equal(t, "Amal", sum.CustomerName)
	require.Len(t, sum.Lines, 2)

	require.Equal(t, "MARGHERITA", sum.Lines[0].ItemID)
	require.Equal(t, 2, sum.Lines[0].Qty)
	require.Equal(t, money.MustParse("6.786"), sum.Lines[0].UnitPrice)
	require.Equal(t, money.MustParse("13.572"), sum.Lines[0].LineTotal)
	require.Equal(t, []string{"Medium Size", "Pepperoni"}, sum.Lines[0].Customizations)

	require.Equal(t, "Lunch Combo", sum.Lines[1].ItemID)
	require.Equal(t, money.MustParse("8.750"), sum.Lines[1].LineTotal)

	// building changed nothing
	require.Equal(t, preTotal, c.Total())
	require.False(t, c.IsEmpty())
}

func TestGrandTotalCopiedFromRunningTotalUnderDrift(t *testing.T) {
	svc, c, cat, _ := newFixture(t)

	base, err := cat.PriceOf("MARGHERITA")
	require.NoError(t, err)
	require.NoError(t, c.Add("MARGHERITA", base))
	// price changes after the add; the summary line shows the new price
	// but the grand total stays what the customer was shown
	require.NoError(t, cat.ApplyCustomization("MARGHERITA", []string{"Large Size"}, money.MustParse("2.000")))

	sum, err := svc.Build(validSession())
	require.NoError(t, err)
	require.Equal(t, base, sum.GrandTotal)
	require.Equal(t, money.MustParse("6.936"), sum.Lines[0].LineTotal)
}

func TestFinalizeClearsCartAndEmitsEvent(t *testing.T) {
	svc, c, cat, store := newFixture(t)
	price, err := cat.PriceOf("PEPPERONI")
	require.NoError(t, err)
	require.NoError(t, c.Add("PEPPERONI", price))

	sum, err := svc.Build(validSession())
	require.NoError(t, err)
	require.NoError(t, svc.Finalize(context.Background(), sum))

	require.True(t, c.IsEmpty())
	require.Equal(t, money.Money(0), c.Total())

	recorded := store.List()
	require.Len(t, recorded, 1)
	require.Equal(t, events.TopicOrderConfirmed, recorded[0].Topic)
	require.Contains(t, string(recorded[0].Payload), sum.ID)

	// catalog survives confirmation untouched
	p, err := cat.PriceOf("PEPPERONI")
	require.NoError(t, err)
	require.Equal(t, price, p)
}
