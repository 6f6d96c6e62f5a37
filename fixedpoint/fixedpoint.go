// Package fixedpoint provides overflow-checked proportional arithmetic for
// settlement math. Every multiply-before-divide runs through a 256-bit
// intermediate and every cast back to uint64 is truncation-checked, so a
// failed computation surfaces as an error instead of wrapping.
package fixedpoint

import (
	"errors"

	"github.com/holiman/uint256"
)

// PriceScale is the fixed-point scale for unit prices: prices are expressed
// in quote units per 10^12 base units.
const PriceScale uint64 = 1_000_000_000_000

// BpsDenominator is the basis-point base (1 bps = 1/10_000).
const BpsDenominator uint64 = 10_000

var (
	ErrOverflow     = errors.New("fixedpoint: arithmetic overflow")
	ErrDivideByZero = errors.New("fixedpoint: division by zero")
)

// MulDiv returns floor(a*b/den) computed without intermediate overflow.
func MulDiv(a, b, den uint64) (uint64, error) {
	if den == 0 {
		return 0, ErrDivideByZero
	}
	prod := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	quo := new(uint256.Int).Div(prod, uint256.NewInt(den))
	if !quo.IsUint64() {
		return 0, ErrOverflow
	}
	return quo.Uint64(), nil
}

// Bps returns floor(amount*bps/10_000).
func Bps(amount, bps uint64) (uint64, error) {
	return MulDiv(amount, bps, BpsDenominator)
}

// Price returns the fixed-point unit price floor(raise*PriceScale/tokens).
func Price(raise, tokens uint64) (uint64, error) {
	return MulDiv(raise, PriceScale, tokens)
}

// Add returns a+b or ErrOverflow if the sum does not fit in uint64.
func Add(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrOverflow
	}
	return sum, nil
}

// Sub returns a-b or ErrOverflow if b exceeds a.
func Sub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrOverflow
	}
	return a - b, nil
}

// Mul returns a*b or ErrOverflow.
func Mul(a, b uint64) (uint64, error) {
	prod := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	if !prod.IsUint64() {
		return 0, ErrOverflow
	}
	return prod.Uint64(), nil
}

// Share returns floor(part*total/whole), the pro-rata share of total that
// part represents out of whole. It is the single formula behind claim and
// refund entitlements.
func Share(part, total, whole uint64) (uint64, error) {
	return MulDiv(part, total, whole)
}
