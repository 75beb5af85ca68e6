package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Money is a fixed-point amount in minor currency units (grosz).
// The wholesale API serializes amounts as decimal strings ("99.00" = 99 zł);
// parsing and formatting go through exact integer arithmetic so a price
// string always round-trips byte-identical. Never convert through float.
type Money int64

// ParseMoney converts a decimal string amount to minor units.
// Accepts "12", "12.5", "12.50"; rejects signs, a trailing dot, more than
// two fractional digits, and anything not purely numeric.
// Examples: "99.00" → 9900, "1234.56" → 123456, "0.5" → 50
func ParseMoney(s string) (Money, error) {
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	whole, frac := s, ""
	dotted := false
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			whole, frac = s[:i], s[i+1:]
			dotted = true
			break
		}
	}

	if whole == "" || (dotted && frac == "") || len(frac) > 2 {
		return 0, fmt.Errorf("malformed amount %q", s)
	}

	// Digits only. ParseInt alone would let a sign through, and "-0.50"
	// has a whole part that parses to zero with the sign lost.
	for _, part := range [2]string{whole, frac} {
		for i := 0; i < len(part); i++ {
			if part[i] < '0' || part[i] > '9' {
				return 0, fmt.Errorf("malformed amount %q", s)
			}
		}
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed amount %q", s)
	}

	// Right-pad the fraction so "12.5" means 50 grosz, not 5.
	cents := int64(0)
	if frac != "" {
		for len(frac) < 2 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed amount %q", s)
		}
	}

	return Money(units*100 + cents), nil
}

// String formats the amount as a fixed-point decimal with two fractional
// digits, matching the wire representation ("25.50").
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Add returns m + other.
func (m Money) Add(other Money) Money { return m + other }

// MulInt returns the amount multiplied by a quantity.
func (m Money) MulInt(n int) Money { return m * Money(n) }

// IsZero reports whether the amount is the zero sentinel.
// A zero price marks a catalog entry as not purchasable.
func (m Money) IsZero() bool { return m == 0 }

// MarshalJSON serializes the amount as a decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON parses a decimal string amount.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("money must be a decimal string: %w", err)
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
