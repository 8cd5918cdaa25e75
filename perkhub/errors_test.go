package perkhub

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/perkhub/perkhub/db"
)

func TestErrorStatus(t *testing.T) {
	testCases := []struct {
		desc     string
		err      error
		expected int
	}{
		{
			desc:     "Missing entity",
			err:      db.ErrNotFound,
			expected: http.StatusNotFound,
		},
		{
			desc:     "Duplicate settlement",
			err:      db.ErrAlreadyProcessed,
			expected: http.StatusConflict,
		},
		{
			desc:     "Out of stock",
			err:      db.ErrOutOfStock,
			expected: http.StatusConflict,
		},
		{
			desc:     "Insufficient balance",
			err:      db.ErrInsufficientBalance,
			expected: http.StatusBadRequest,
		},
		{
			desc:     "Invalid transition",
			err:      db.ErrInvalidTransition,
			expected: http.StatusBadRequest,
		},
		{
			desc:     "Closed contest",
			err:      db.ErrContestClosed,
			expected: http.StatusBadRequest,
		},
		{
			desc:     "Closed voting",
			err:      db.ErrVotingClosed,
			expected: http.StatusBadRequest,
		},
		{
			desc:     "Closed survey",
			err:      db.ErrSurveyClosed,
			expected: http.StatusBadRequest,
		},
		{
			desc:     "Vote limit",
			err:      db.ErrVoteLimitReached,
			expected: http.StatusBadRequest,
		},
		{
			desc:     "Unusable coupon",
			err:      db.ErrCouponNotUsable,
			expected: http.StatusBadRequest,
		},
		{
			desc:     "Anything else",
			err:      errors.New("boom"),
			expected: http.StatusInternalServerError,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.expected, errorStatus(tC.err))
		})
	}
}
