package customize

import (
	"errors"
	"fmt"

	"github.com/pizzaparty/backend-pizzeria/internal/money"
)

// Size selects the pizza size. Small is the default and carries no
// surcharge and no label.
type Size string

// Supported sizes.
const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// ErrUnknownSize is returned for a size outside the fixed schedule.
var ErrUnknownSize = errors.New("customize: unknown size")

// Option surcharges in thousandths.
const (
	deltaMedium      money.Money = 1000
	deltaLarge       money.Money = 2000
	deltaExtraCheese money.Money = 760
	deltaPepperoni   money.Money = 850
	deltaMushrooms   money.Money = 650
	deltaOlives      money.Money = 550
	deltaJalapenos   money.Money = 600
)

// Options is the set of flags a customer can pick for a pizza.
type Options struct {
	Size        Size `json:"size"`
	ExtraCheese bool `json:"extraCheese"`
	Pepperoni   bool `json:"pepperoni"`
	Mushrooms   bool `json:"mushrooms"`
	Olives      bool `json:"olives"`
	Jalapenos   bool `json:"jalapenos"`
}

// Resolve computes the final unit price and the display labels for the
// selected options. It has no side effects; committing the result to the
// catalog is the caller's decision. Selecting nothing returns the base
// price unchanged and no labels.
func Resolve(base money.Money, opts Options) (money.Money, []string, error) {
	var delta money.Money
	var labels []string

	switch opts.Size {
	case SizeSmall, "":
	case SizeMedium:
		delta += deltaMedium
		labels = append(labels, "Medium Size")
	case SizeLarge:
		delta += deltaLarge
		labels = append(labels, "Large Size")
	default:
		return 0, nil, fmt.Errorf("%w: %q", ErrUnknownSize, opts.Size)
	}
	if opts.ExtraCheese {
		delta += deltaExtraCheese
		labels = append(labels, "Extra Cheese")
	}
	if opts.Pepperoni {
		delta += deltaPepperoni
		labels = append(labels, "Pepperoni")
	}
	if opts.Mushrooms {
		delta += deltaMushrooms
		labels = append(labels, "Mushrooms")
	}
	if opts.Olives {
		delta += deltaOlives
		labels = append(labels, "Olives")
	}
	if opts.Jalapenos {
		delta += deltaJalapenos
		labels = append(labels, "Jalapeños")
	}

	return base + delta, labels, nil
}
