package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func activeCoupon() Coupon {
	return Coupon{
		Code:          "WELCOME10",
		DiscountType:  DiscountPercentage,
		DiscountValue: 10,
		IsActive:      true,
		ValidFrom:     time.Now().Add(-time.Hour),
		ValidUntil:    time.Now().Add(time.Hour),
	}
}

func TestCouponIsValid(t *testing.T) {
	now := time.Now()

	testCases := []struct {
		desc     string
		mutate   func(c Coupon) Coupon
		expected bool
	}{
		{
			desc:     "Active coupon inside window",
			mutate:   func(c Coupon) Coupon { return c },
			expected: true,
		},
		{
			desc: "Inactive coupon",
			mutate: func(c Coupon) Coupon {
				c.IsActive = false
				return c
			},
			expected: false,
		},
		{
			desc: "Before window",
			mutate: func(c Coupon) Coupon {
				c.ValidFrom = now.Add(time.Hour)
				c.ValidUntil = now.Add(2 * time.Hour)
				return c
			},
			expected: false,
		},
		{
			desc: "After window",
			mutate: func(c Coupon) Coupon {
				c.ValidFrom = now.Add(-2 * time.Hour)
				c.ValidUntil = now.Add(-time.Hour)
				return c
			},
			expected: false,
		},
		{
			desc: "Usage limit exhausted",
			mutate: func(c Coupon) Coupon {
				limit := int64(5)
				c.UsageLimit = &limit
				c.UsedCount = 5
				return c
			},
			expected: false,
		},
		{
			desc: "Usage limit with room",
			mutate: func(c Coupon) Coupon {
				limit := int64(5)
				c.UsageLimit = &limit
				c.UsedCount = 4
				return c
			},
			expected: true,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.expected, tC.mutate(activeCoupon()).IsValid(now))
		})
	}
}

func TestCouponCanBeUsedBy(t *testing.T) {
	now := time.Now()
	items := []OrderItem{
		{ProductID: 1, Quantity: 2, UnitPrice: 500},
		{ProductID: 2, Quantity: 1, UnitPrice: 1000},
	}

	testCases := []struct {
		desc     string
		mutate   func(c Coupon) Coupon
		userID   int64
		amount   int64
		expected bool
	}{
		{
			desc:     "No gates",
			mutate:   func(c Coupon) Coupon { return c },
			userID:   1,
			amount:   2000,
			expected: true,
		},
		{
			desc: "User on the allow list",
			mutate: func(c Coupon) Coupon {
				c.AllowedUserIDs = []int64{1, 2}
				return c
			},
			userID:   2,
			amount:   2000,
			expected: true,
		},
		{
			desc: "User off the allow list",
			mutate: func(c Coupon) Coupon {
				c.AllowedUserIDs = []int64{1, 2}
				return c
			},
			userID:   3,
			amount:   2000,
			expected: false,
		},
		{
			desc: "Below minimum order amount",
			mutate: func(c Coupon) Coupon {
				c.MinOrderAmount = 5000
				return c
			},
			userID:   1,
			amount:   2000,
			expected: false,
		},
		{
			desc: "Below minimum quantity",
			mutate: func(c Coupon) Coupon {
				c.MinQuantity = 4
				return c
			},
			userID:   1,
			amount:   2000,
			expected: false,
		},
		{
			desc: "At minimum quantity",
			mutate: func(c Coupon) Coupon {
				c.MinQuantity = 3
				return c
			},
			userID:   1,
			amount:   2000,
			expected: true,
		},
		{
			desc: "Applicable product present",
			mutate: func(c Coupon) Coupon {
				c.ApplicableProductIDs = []int64{2}
				return c
			},
			userID:   1,
			amount:   2000,
			expected: true,
		},
		{
			desc: "No applicable product in the order",
			mutate: func(c Coupon) Coupon {
				c.ApplicableProductIDs = []int64{9}
				return c
			},
			userID:   1,
			amount:   2000,
			expected: false,
		},
		{
			desc: "Excluded product in the order",
			mutate: func(c Coupon) Coupon {
				c.ExcludedProductIDs = []int64{1}
				return c
			},
			userID:   1,
			amount:   2000,
			expected: false,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			coupon := tC.mutate(activeCoupon())
			assert.Equal(t, tC.expected, coupon.CanBeUsedBy(tC.userID, tC.amount, items, now))
		})
	}
}

func TestComputeDiscount(t *testing.T) {
	testCases := []struct {
		desc     string
		coupon   Coupon
		amount   int64
		expected int64
	}{
		{
			desc:     "Percentage",
			coupon:   Coupon{DiscountType: DiscountPercentage, DiscountValue: 10},
			amount:   2000,
			expected: 200,
		},
		{
			desc:     "Percentage rounds down",
			coupon:   Coupon{DiscountType: DiscountPercentage, DiscountValue: 15},
			amount:   999,
			expected: 149,
		},
		{
			desc:     "Fixed amount",
			coupon:   Coupon{DiscountType: DiscountFixedAmount, DiscountValue: 500},
			amount:   2000,
			expected: 500,
		},
		{
			desc:     "Fixed amount capped at the order total",
			coupon:   Coupon{DiscountType: DiscountFixedAmount, DiscountValue: 5000},
			amount:   2000,
			expected: 2000,
		},
		{
			desc:     "Free shipping discounts nothing",
			coupon:   Coupon{DiscountType: DiscountFreeShipping, DiscountValue: 100},
			amount:   2000,
			expected: 0,
		},
		{
			desc:     "Unknown type discounts nothing",
			coupon:   Coupon{DiscountType: DiscountType("mystery"), DiscountValue: 100},
			amount:   2000,
			expected: 0,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.expected, tC.coupon.ComputeDiscount(tC.amount, nil))
		})
	}
}
