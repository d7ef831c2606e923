package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PricingPolicy decides what happens when a discount exceeds the list price.
type PricingPolicy string

const (
	// PricingAllowNegative persists the raw difference, negative or not.
	PricingAllowNegative PricingPolicy = "allow"
	// PricingClampAtZero floors the unit price at zero.
	PricingClampAtZero PricingPolicy = "clamp"
	// PricingRejectNegative fails the insertion with ErrNegativePrice.
	PricingRejectNegative PricingPolicy = "reject"
)

func ParsePricingPolicy(s string) (PricingPolicy, error) {
	switch p := PricingPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PricingAllowNegative, PricingClampAtZero, PricingRejectNegative:
		return p, nil
	case "":
		return PricingClampAtZero, nil
	}
	return "", fmt.Errorf("unknown pricing policy %q", s)
}

// DiscountedPrice returns listPrice - amount under the policy.
func (p PricingPolicy) DiscountedPrice(listPrice, amount decimal.Decimal) (decimal.Decimal, error) {
	price := listPrice.Sub(amount)
	if !price.IsNegative() {
		return price, nil
	}

	switch p {
	case PricingAllowNegative:
		return price, nil
	case PricingRejectNegative:
		return decimal.Zero, fmt.Errorf("%w: %s - %s", ErrNegativePrice, listPrice, amount)
	default:
		return decimal.Zero, nil
	}
}

// UnknownDiscountPolicy decides how a new item is priced when its
// discount code does not resolve.
type UnknownDiscountPolicy string

const (
	UnknownDiscountReject UnknownDiscountPolicy = "reject"
	UnknownDiscountZero   UnknownDiscountPolicy = "zero"
)

func ParseUnknownDiscountPolicy(s string) (UnknownDiscountPolicy, error) {
	switch p := UnknownDiscountPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case UnknownDiscountReject, UnknownDiscountZero:
		return p, nil
	case "":
		return UnknownDiscountReject, nil
	}
	return "", fmt.Errorf("unknown discount policy %q", s)
}
