package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Amount is a money value in minor units (1/100 of the currency unit).
// On the wire it is a plain decimal number of major units.
type Amount int64

// Rupees returns the Amount for a whole number of major units.
func Rupees(major int64) Amount {
	return Amount(major * 100)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(a)/100, 'f', -1, 64)), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "null" || raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("parse amount %q: %w", raw, err)
	}
	*a = Amount(math.Round(value * 100))
	return nil
}

// String formats the amount with grouped thousands, e.g. ₹5,000 or ₹2,579.50.
func (a Amount) String() string {
	value := int64(a)
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	out := sign + "₹" + humanize.Comma(value/100)
	if minor := value % 100; minor != 0 {
		out += fmt.Sprintf(".%02d", minor)
	}
	return out
}
