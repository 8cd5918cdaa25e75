package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	testCases := []struct {
		desc     string
		from     OrderStatus
		to       OrderStatus
		expected bool
	}{
		{
			desc:     "Pending to waiting payment",
			from:     OrderPending,
			to:       OrderWaitingPayment,
			expected: true,
		},
		{
			desc:     "Pending straight to processing",
			from:     OrderPending,
			to:       OrderProcessing,
			expected: true,
		},
		{
			desc:     "Delivered to completed",
			from:     OrderDelivered,
			to:       OrderCompleted,
			expected: true,
		},
		{
			desc:     "Completed can still be cancelled",
			from:     OrderCompleted,
			to:       OrderCancelled,
			expected: true,
		},
		{
			desc:     "Cancelled is terminal",
			from:     OrderCancelled,
			to:       OrderPending,
			expected: false,
		},
		{
			desc:     "No skipping to completed",
			from:     OrderPending,
			to:       OrderCompleted,
			expected: false,
		},
		{
			desc:     "No moving backwards",
			from:     OrderShipped,
			to:       OrderProcessing,
			expected: false,
		},
		{
			desc:     "Unknown status",
			from:     OrderStatus("lost"),
			to:       OrderShipped,
			expected: false,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.expected, CanTransition(tC.from, tC.to))
		})
	}
}

func TestRequiresPayment(t *testing.T) {
	assert.True(t, RequiresPayment(OrderProcessing))
	assert.True(t, RequiresPayment(OrderShipped))
	assert.True(t, RequiresPayment(OrderDelivered))
	assert.True(t, RequiresPayment(OrderCompleted))
	assert.False(t, RequiresPayment(OrderPending))
	assert.False(t, RequiresPayment(OrderWaitingPayment))
	assert.False(t, RequiresPayment(OrderCancelled))
}

func TestGenerateOrderNumber(t *testing.T) {
	first := generateOrderNumber()
	second := generateOrderNumber()

	assert.True(t, strings.HasPrefix(first, "ORD-"))
	assert.Len(t, first, len("ORD-")+26)
	assert.NotEqual(t, first, second)
}
