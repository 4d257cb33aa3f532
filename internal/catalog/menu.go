package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pizzaparty/backend-pizzeria/internal/money"
)

// DefaultMenu returns the built-in menu: eight pizzas and three deals.
func DefaultMenu() []Item {
	return []Item{
		{ID: "MARGHERITA", BasePrice: money.MustParse("4.936"), Description: "Classic tomato, mozzarella, and basil", ImageRef: "margherita.jpg"},
		{ID: "PEPPERONI", BasePrice: money.MustParse("5.696"), Description: "Spicy pepperoni with extra cheese", ImageRef: "pepperoni.jpg"},
		{ID: "VEGGIE DELIGHT", BasePrice: money.MustParse("5.316"), Description: "Mixed veggies with goat cheese", ImageRef: "veggie.jpg"},
		{ID: "TRUFFLE SPECIAL", BasePrice: money.MustParse("7.216"), Description: "White sauce with truffle oil", ImageRef: "truffle.jpg"},
		{ID: "HAWAIIAN", BasePrice: money.MustParse("6.076"), Description: "Ham and pineapple combo", ImageRef: "hawaiian.jpg"},
		{ID: "BBQ CHICKEN", BasePrice: money.MustParse("6.356"), Description: "BBQ sauce with grilled chicken", ImageRef: "bbq_chicken.jpg"},
		{ID: "MEDITERRANEAN", BasePrice: money.MustParse("5.896"), Description: "Olives, feta, and sun-dried tomatoes", ImageRef: "mediterranean.jpg"},
		{ID: "BUFFALO RANCH", BasePrice: money.MustParse("6.756"), Description: "Spicy buffalo sauce with ranch", ImageRef: "buffalo_ranch.jpg"},

		{ID: "Family Feast", BasePrice: money.MustParse("19.999"), Description: "2 Large Pizzas + 2 Sides + 4 Drinks (perfect for family gatherings)", ImageRef: "family_deal.jpg", Deal: true},
		{ID: "Couple's Special", BasePrice: money.MustParse("12.499"), Description: "1 Medium Pizza + 1 Side + 2 Drinks (romantic dinner for two)", ImageRef: "couple_deal.jpg", Deal: true},
		{ID: "Lunch Combo", BasePrice: money.MustParse("8.750"), Description: "1 Personal Pizza + 1 Drink (quick and delicious lunch)", ImageRef: "lunch_deal.jpg", Deal: true},
	}
}

type menuRecord struct {
	ID          string `json:"id"`
	BasePrice   string `json:"basePrice"`
	Description string `json:"description"`
	ImageRef    string `json:"imageRef"`
	Deal        bool   `json:"deal"`
}

// LoadMenu reads an ordered menu file: a JSON array of
// {id, basePrice, description, imageRef} records, one per item.
func LoadMenu(path string) ([]Item, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu: %w", err)
	}
	var records []menuRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	items := make([]Item, 0, len(records))
	for _, rec := range records {
		price, err := money.Parse(rec.BasePrice)
		if err != nil {
			return nil, fmt.Errorf("menu item %q: %w", rec.ID, err)
		}
		items = append(items, Item{
			ID:          rec.ID,
			BasePrice:   price,
			Description: rec.Description,
			ImageRef:    rec.ImageRef,
			Deal:        rec.Deal,
		})
	}
	return items, nil
}
