package checkout

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/pizzaparty/backend-pizzeria/internal/cart"
	"github.com/pizzaparty/backend-pizzeria/internal/catalog"
	"github.com/pizzaparty/backend-pizzeria/internal/events"
	"github.com/pizzaparty/backend-pizzeria/internal/money"
	"github.com/pizzaparty/backend-pizzeria/internal/session"
)

// Reason identifies which checkout gate rejected the order.
type Reason string

// Checkout gate failures, evaluated in this order.
const (
	ReasonEmptyCart      Reason = "EMPTY_CART"
	ReasonMissingContact Reason = "MISSING_CONTACT"
)

// ValidationError is a non-fatal gate failure. The cart is left untouched.
type ValidationError struct {
	Reason Reason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("checkout: validation failed: %s", e.Reason)
}

// AsValidationError unwraps err into a ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Legacy address-book pattern: word, dot and hyphen characters in the
// local part and domain labels, final label between two and four
// characters. Kept byte for byte for compatibility.
var emailPattern = regexp.MustCompile(`^[\w-.]+@([\w-]+\.)+[\w-]{2,4}$`)

// ValidEmail reports whether the address satisfies the legacy pattern.
func ValidEmail(addr string) bool {
	return emailPattern.MatchString(addr)
}

// SummaryLine is one itemized row of an order summary.
type SummaryLine struct {
	ItemID         string      `json:"itemId"`
	Qty            int         `json:"qty"`
	UnitPrice      money.Money `json:"unitPrice"`
	LineTotal      money.Money `json:"lineTotal"`
	Customizations []string    `json:"customizations,omitempty"`
}

// Summary is the immutable projection of cart, catalog and session state
// built at checkout time. Confirmation discards it and resets the cart.
type Summary struct {
	ID           string        `json:"id"`
	Lines        []SummaryLine `json:"lines"`
	GrandTotal   money.Money   `json:"grandTotal"`
	CustomerName string        `json:"customerName"`
	Email        string        `json:"email"`
	Address      string        `json:"address"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// Service validates checkout preconditions, projects order summaries and
// finalizes confirmed orders.
type Service struct {
	Cart    *cart.Cart
	Catalog *catalog.Service
	Events  *events.Bus
	Now     func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Validate runs the checkout gates in order: a non-empty cart first, then
// a known delivery contact with a syntactically valid email.
func (s *Service) Validate(sess session.Session) error {
	if s == nil || s.Cart == nil {
		return errors.New("checkout service not configured")
	}
	if s.Cart.IsEmpty() {
		return &ValidationError{Reason: ReasonEmptyCart}
	}
	if sess.Email == "" || sess.Address == "" || !ValidEmail(sess.Email) {
		return &ValidationError{Reason: ReasonMissingContact}
	}
	return nil
}

// Build projects the validated cart into an order summary. Line totals
// are recomputed from the current catalog unit price; the grand total is
// copied from the cart's running total so the number shown matches what
// the customer saw before checkout. Building has no side effects.
func (s *Service) Build(sess session.Session) (Summary, error) {
	if err := s.Validate(sess); err != nil {
		return Summary{}, err
	}
	if s.Catalog == nil {
		return Summary{}, errors.New("checkout service not configured")
	}
	lines := s.Cart.Lines()
	summaryLines := make([]SummaryLine, 0, len(lines))
	for _, line := range lines {
		item, err := s.Catalog.Get(line.ItemID)
		if err != nil {
			return Summary{}, fmt.Errorf("summarize %q: %w", line.ItemID, err)
		}
		summaryLines = append(summaryLines, SummaryLine{
			ItemID:         line.ItemID,
			Qty:            line.Qty,
			UnitPrice:      item.CurrentPrice,
			LineTotal:      item.CurrentPrice.Mul(line.Qty),
			Customizations: item.Customizations,
		})
	}
	return Summary{
		ID:           uuid.NewString(),
		Lines:        summaryLines,
		GrandTotal:   s.Cart.Total(),
		CustomerName: sess.Name,
		Email:        sess.Email,
		Address:      sess.Address,
		CreatedAt:    s.now(),
	}, nil
}

// Finalize confirms the order: the cart is cleared and an order.confirmed
// event is emitted. Catalog and session state are left as-is.
func (s *Service) Finalize(ctx context.Context, sum Summary) error {
	if s == nil || s.Cart == nil {
		return errors.New("checkout service not configured")
	}
	s.Cart.Clear()
	if s.Events != nil {
		_, err := s.Events.Emit(ctx, events.TopicOrderConfirmed, map[string]any{
			"orderId":    sum.ID,
			"grandTotal": sum.GrandTotal,
			"email":      sum.Email,
			"lineCount":  len(sum.Lines),
		})
		if err != nil {
			return fmt.Errorf("emit confirmation: %w", err)
		}
	}
	return nil
}
