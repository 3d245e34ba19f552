package domain

import (
	"fmt"
	"math/big"
	"strings"
)

// maxDecimalPlaces bounds the exact decimal rendering used for storage.
const maxDecimalPlaces = 12

// Money represents a monetary value with precise decimal arithmetic using big.Rat.
// It is immutable: every arithmetic operation returns a new instance.
type Money struct {
	rat *big.Rat
}

// NewMoney creates a new Money instance from numerator and denominator.
// Example: NewMoney(599, 100) represents 5.99
func NewMoney(numerator, denominator int64) (*Money, error) {
	if denominator == 0 {
		return nil, fmt.Errorf("denominator cannot be zero")
	}

	return &Money{rat: big.NewRat(numerator, denominator)}, nil
}

// MustMoney is NewMoney for constants known to be valid.
func MustMoney(numerator, denominator int64) *Money {
	m, err := NewMoney(numerator, denominator)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns a zero value.
func ZeroMoney() *Money {
	return &Money{rat: new(big.Rat)}
}

// ParseMoney parses a decimal string such as "5.99", "10" or "1/3".
// A comma decimal separator is accepted.
func ParseMoney(s string) (*Money, error) {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}

	rat, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return &Money{rat: rat}, nil
}

// OrZero returns m, or zero when m is nil. Optional amounts go through here.
func OrZero(m *Money) *Money {
	if m == nil {
		return ZeroMoney()
	}
	return m
}

// Add adds two Money values and returns a new Money instance.
func (m *Money) Add(other *Money) *Money {
	return &Money{rat: new(big.Rat).Add(m.rat, OrZero(other).rat)}
}

// Subtract subtracts another Money value from this one and returns a new Money instance.
func (m *Money) Subtract(other *Money) *Money {
	return &Money{rat: new(big.Rat).Sub(m.rat, OrZero(other).rat)}
}

// MultiplyInt multiplies the value by an integer count.
func (m *Money) MultiplyInt(n int) *Money {
	return &Money{rat: new(big.Rat).Mul(m.rat, new(big.Rat).SetInt64(int64(n)))}
}

// IsZero returns true if the money value is zero.
func (m *Money) IsZero() bool {
	return m.rat.Sign() == 0
}

// IsNegative returns true if the money value is negative.
func (m *Money) IsNegative() bool {
	return m.rat.Sign() < 0
}

// IsPositive returns true if the money value is positive.
func (m *Money) IsPositive() bool {
	return m.rat.Sign() > 0
}

// Equals returns true if this Money value equals another.
func (m *Money) Equals(other *Money) bool {
	return m.rat.Cmp(OrZero(other).rat) == 0
}

// String returns a two-decimal representation.
func (m *Money) String() string {
	return m.rat.FloatString(2)
}

// DecimalString renders the exact value with the fewest decimals needed,
// falling back to "num/denom" for values with no finite decimal expansion.
func (m *Money) DecimalString() string {
	if m.rat.IsInt() {
		return m.rat.Num().String()
	}
	for places := 1; places <= maxDecimalPlaces; places++ {
		s := m.rat.FloatString(places)
		if back, ok := new(big.Rat).SetString(s); ok && back.Cmp(m.rat) == 0 {
			return s
		}
	}
	return m.rat.RatString()
}

// Copy creates a deep copy of this Money instance.
func (m *Money) Copy() *Money {
	if m == nil {
		return nil
	}
	return &Money{rat: new(big.Rat).Set(m.rat)}
}
