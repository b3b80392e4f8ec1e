package models

import (
	"fmt"
	"math"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// Money is an amount in cents. It is written to JSON as a decimal number
// with two fraction digits.
type Money int64

func MoneyFromFloat(f float64) Money {
	return Money(math.Round(f * 100))
}

func (m Money) Float64() float64 {
	return float64(m) / 100
}

// Times multiplies the amount by a ticket count.
func (m Money) Times(n int) Money {
	return m * Money(n)
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", s, err)
	}
	cents := f * 100
	rounded := math.Round(cents)
	if math.Abs(cents-rounded) > 1e-6 {
		return fmt.Errorf("invalid amount %q: at most two decimals are allowed", s)
	}
	if math.Abs(rounded) >= math.MaxInt64 {
		return fmt.Errorf("invalid amount %q: out of range", s)
	}
	*m = Money(rounded)
	return nil
}

// Schema documents Money as a number in the OpenAPI document.
func (Money) Schema(r huma.Registry) *huma.Schema {
	return &huma.Schema{Type: huma.TypeNumber, Format: "double", Description: "Amount in euros, two decimals"}
}
