// Package money implements exact-decimal cents arithmetic for the ledger.
//
// All monetary amounts inside the core are signed integer minor units
// (cents). On the wire they travel as decimal strings of the form
// [-]d+(.dd)?; this package is the only place that crosses that boundary.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned by ParseCents when the input is not a
// well-formed decimal string with at most two fractional digits.
var ErrInvalidAmount = errors.New("money: invalid amount")

// ParseCents parses a decimal string into signed integer cents.
//
// The input must be a decimal with at most two fractional digits that
// fits in int64 cents ("3", "1.0" and "-42.10" are all accepted);
// ParseCents never loses precision and never rounds. Anything else is
// ErrInvalidAmount.
func ParseCents(s string) (int64, error) {
	if s == "" {
		return 0, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	if d.Exponent() < -2 {
		return 0, ErrInvalidAmount
	}

	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, ErrInvalidAmount
	}

	if !cents.IsInt64() {
		return 0, ErrInvalidAmount
	}

	return cents.IntPart(), nil
}

// MustParseCentsOrZero parses s and returns 0 when it is malformed.
//
// This is the spec's documented legacy tolerance for call sites that
// choose to swallow parse errors; prefer ParseCents at ingress.
func MustParseCentsOrZero(s string) int64 {
	cents, err := ParseCents(s)
	if err != nil {
		return 0
	}

	return cents
}

// Format renders signed cents as a decimal string with exactly two
// fractional digits and a leading '-' for negative values.
func Format(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}

	whole := cents / 100
	frac := cents % 100

	if neg {
		return fmt.Sprintf("-%d.%02d", whole, frac)
	}

	return fmt.Sprintf("%d.%02d", whole, frac)
}

// Canonical reformats a valid decimal string into its canonical form,
// i.e. Format(ParseCents(s)). It is used to assert the round-trip law
// format(parse(s)) = canonical(s).
func Canonical(s string) (string, error) {
	cents, err := ParseCents(s)
	if err != nil {
		return "", err
	}

	return Format(cents), nil
}
