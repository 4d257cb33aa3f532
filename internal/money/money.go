package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Money is a fixed-point monetary amount stored in thousandths. The shop
// prices everything at three decimal places, so one unit of currency is
// 1000 thousandths.
type Money int64

const scale = 1000

// ErrInvalid is returned when an amount cannot be parsed.
var ErrInvalid = errors.New("money: invalid amount")

// Parse converts a decimal string such as "4.936" into Money. Up to three
// fractional digits are accepted; missing digits are treated as zero.
func Parse(value string) (Money, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, ErrInvalid
	}
	negative := strings.HasPrefix(trimmed, "-")
	if negative {
		trimmed = trimmed[1:]
	}
	intPart, fracPart, _ := strings.Cut(trimmed, ".")
	if intPart == "" {
		intPart = "0"
	}
	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, value)
	}
	if len(fracPart) > 3 {
		return 0, fmt.Errorf("%w: %q has more than three decimal places", ErrInvalid, value)
	}
	for len(fracPart) < 3 {
		fracPart += "0"
	}
	frac, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, value)
	}
	amount := units*scale + frac
	if negative {
		amount = -amount
	}
	return Money(amount), nil
}

// MustParse is a Parse that panics, intended for literal menu prices.
func MustParse(value string) Money {
	m, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return m
}

// Mul scales the amount by a line quantity.
func (m Money) Mul(qty int) Money {
	return m * Money(qty)
}

// String renders the amount with exactly three decimal places.
func (m Money) String() string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%03d", sign, v/scale, v%scale)
}

// MarshalJSON encodes the amount as its three decimal display form.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON accepts the quoted display form or a bare decimal number.
func (m *Money) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = unquoted
	}
	parsed, err := Parse(text)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
