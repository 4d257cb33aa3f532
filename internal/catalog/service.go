package catalog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pizzaparty/backend-pizzeria/internal/money"
)

// ErrNotFound indicates the requested menu item could not be located.
var ErrNotFound = errors.New("catalog: item not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("catalog: invalid input")

// Item is a purchasable menu entry. Deals are items with Deal set: they
// carry a fixed all-inclusive price and reject customization, but share
// the add-to-cart contract with regular items.
type Item struct {
	ID             string      `json:"id"`
	BasePrice      money.Money `json:"basePrice"`
	CurrentPrice   money.Money `json:"currentPrice"`
	Description    string      `json:"description"`
	ImageRef       string      `json:"imageRef"`
	Rating         int         `json:"rating"`
	Customizations []string    `json:"customizations,omitempty"`
	Deal           bool        `json:"deal,omitempty"`
}

func (it Item) clone() Item {
	out := it
	if it.Customizations != nil {
		out.Customizations = append([]string(nil), it.Customizations...)
	}
	return out
}

// Service owns the menu table. It is the single writer for item prices,
// ratings and committed customizations; all access is serialized on one
// mutex.
type Service struct {
	mu    sync.Mutex
	items []*Item
	index map[string]*Item
}

// NewService seeds the catalog. Current prices start at the base price
// and item order is preserved for listing and favorites.
func NewService(items []Item) (*Service, error) {
	s := &Service{index: make(map[string]*Item, len(items))}
	for _, it := range items {
		if it.ID == "" {
			return nil, fmt.Errorf("%w: item without id", ErrInvalidInput)
		}
		if _, ok := s.index[it.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate item %q", ErrInvalidInput, it.ID)
		}
		if it.BasePrice < 0 {
			return nil, fmt.Errorf("%w: negative price for %q", ErrInvalidInput, it.ID)
		}
		owned := it.clone()
		owned.CurrentPrice = owned.BasePrice
		owned.Customizations = nil
		s.items = append(s.items, &owned)
		s.index[owned.ID] = &owned
	}
	return s, nil
}

// PriceOf returns the item's current price.
func (s *Service) PriceOf(id string) (money.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.index[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return it.CurrentPrice, nil
}

// Get returns a copy of the item.
func (s *Service) Get(id string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.index[id]
	if !ok {
		return Item{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return it.clone(), nil
}

// Items returns the full menu, deals included, in declaration order.
func (s *Service) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it.clone())
	}
	return out
}

// Deals returns the fixed-price bundles in declaration order.
func (s *Service) Deals() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Item
	for _, it := range s.items {
		if it.Deal {
			out = append(out, it.clone())
		}
	}
	return out
}

// ApplyCustomization commits a confirmed customization: the current price
// becomes basePrice + priceDelta and the label list is replaced. The cart
// is not touched; the new price applies to future additions only, because
// cart lines store item identity and quantity, not a price snapshot.
func (s *Service) ApplyCustomization(id string, labels []string, priceDelta money.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if it.Deal {
		return fmt.Errorf("%w: deal %q cannot be customized", ErrInvalidInput, id)
	}
	next := it.BasePrice + priceDelta
	if next < 0 {
		return fmt.Errorf("%w: customization would make %q price negative", ErrInvalidInput, id)
	}
	it.CurrentPrice = next
	it.Customizations = append([]string(nil), labels...)
	return nil
}

// SetRating stores a user rating between 1 and 5 stars. Ratings are
// independent of pricing.
func (s *Service) SetRating(id string, stars int) error {
	if stars < 1 || stars > 5 {
		return fmt.Errorf("%w: rating %d out of range", ErrInvalidInput, stars)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	it.Rating = stars
	return nil
}

// Favorites lists items rated four stars or better, in declaration order.
// The slice is recomputed on every call.
func (s *Service) Favorites() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Item
	for _, it := range s.items {
		if it.Rating >= 4 {
			out = append(out, it.clone())
		}
	}
	return out
}
