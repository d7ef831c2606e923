package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscountedPrice(t *testing.T) {
	d := decimal.NewFromInt

	tests := []struct {
		name    string
		policy  PricingPolicy
		list    decimal.Decimal
		amount  decimal.Decimal
		want    decimal.Decimal
		wantErr error
	}{
		{"positive allow", PricingAllowNegative, d(699), d(100), d(599), nil},
		{"positive clamp", PricingClampAtZero, d(699), d(100), d(599), nil},
		{"exact zero reject", PricingRejectNegative, d(100), d(100), d(0), nil},
		{"negative allow", PricingAllowNegative, d(50), d(100), d(-50), nil},
		{"negative clamp", PricingClampAtZero, d(50), d(100), d(0), nil},
		{"negative reject", PricingRejectNegative, d(50), d(100), d(0), ErrNegativePrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.policy.DiscountedPrice(tt.list, tt.amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestParsePolicies(t *testing.T) {
	p, err := ParsePricingPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PricingClampAtZero, p)

	p, err = ParsePricingPolicy(" Allow ")
	require.NoError(t, err)
	assert.Equal(t, PricingAllowNegative, p)

	_, err = ParsePricingPolicy("floor")
	assert.Error(t, err)

	u, err := ParseUnknownDiscountPolicy("")
	require.NoError(t, err)
	assert.Equal(t, UnknownDiscountReject, u)

	u, err = ParseUnknownDiscountPolicy("zero")
	require.NoError(t, err)
	assert.Equal(t, UnknownDiscountZero, u)

	_, err = ParseUnknownDiscountPolicy("ignore")
	assert.Error(t, err)
}
