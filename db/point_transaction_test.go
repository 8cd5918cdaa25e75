package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReasonIsValid(t *testing.T) {
	testCases := []struct {
		desc     string
		reason   PointTransactionReason
		expected bool
	}{
		{
			desc:     "Plain reason",
			reason:   ReasonOrderCompletion,
			expected: true,
		},
		{
			desc:     "Reversal of a reason",
			reason:   ReasonOrderCompletion.Reversal(),
			expected: true,
		},
		{
			desc:     "Unknown reason",
			reason:   PointTransactionReason("bribery"),
			expected: false,
		},
		{
			desc:     "Reversal of an unknown reason",
			reason:   PointTransactionReason("bribery-reversal"),
			expected: false,
		},
		{
			desc:     "Bare reversal suffix",
			reason:   PointTransactionReason("-reversal"),
			expected: false,
		},
		{
			desc:     "Empty reason",
			reason:   PointTransactionReason(""),
			expected: false,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.expected, tC.reason.IsValid())
		})
	}
}

func TestReasonReversal(t *testing.T) {
	assert.Equal(t, PointTransactionReason("vote-reversal"), ReasonVote.Reversal())
	assert.Equal(t, PointTransactionReason("order-completion-reversal"), ReasonOrderCompletion.Reversal())
}

func TestIdempotencyKeys(t *testing.T) {
	assert.Equal(t, "order:42:completion", OrderCompletionKey(42))
	assert.Equal(t, "order:42:points-used", OrderPointsUsedKey(42))
	assert.Equal(t, "order:42:points-refund", OrderPointsRefundKey(42))
	assert.Equal(t, "order:42:completion-reversal", OrderCompletionReversalKey(42))
	assert.Equal(t, "contest-submission:7:entry", ContestEntryKey(7))
	assert.Equal(t, "contest-submission:7:win", ContestWinKey(7))
	assert.Equal(t, "vote:9", VoteKey(9))
	assert.Equal(t, "vote:9:removal", VoteRemovalKey(9))
	assert.Equal(t, "review:3", ReviewRewardKey(3))
	assert.Equal(t, "survey-response:5", SurveyResponseKey(5))
	assert.Equal(t, "referral:11", ReferralKey(11))
	assert.Equal(t, "admin-grant:goodwill-2024-01", AdminGrantKey("goodwill-2024-01"))
}

func TestLedgerEntryValidate(t *testing.T) {
	valid := LedgerEntry{
		UserID:         1,
		Amount:         50,
		Reason:         ReasonReferral,
		IdempotencyKey: ReferralKey(2),
	}

	testCases := []struct {
		desc    string
		mutate  func(e LedgerEntry) LedgerEntry
		wantErr bool
	}{
		{
			desc:    "Valid entry",
			mutate:  func(e LedgerEntry) LedgerEntry { return e },
			wantErr: false,
		},
		{
			desc: "Negative amount is valid",
			mutate: func(e LedgerEntry) LedgerEntry {
				e.Amount = -50
				return e
			},
			wantErr: false,
		},
		{
			desc: "Missing user",
			mutate: func(e LedgerEntry) LedgerEntry {
				e.UserID = 0
				return e
			},
			wantErr: true,
		},
		{
			desc: "Zero amount",
			mutate: func(e LedgerEntry) LedgerEntry {
				e.Amount = 0
				return e
			},
			wantErr: true,
		},
		{
			desc: "Unknown reason",
			mutate: func(e LedgerEntry) LedgerEntry {
				e.Reason = "bribery"
				return e
			},
			wantErr: true,
		},
		{
			desc: "Missing idempotency key",
			mutate: func(e LedgerEntry) LedgerEntry {
				e.IdempotencyKey = ""
				return e
			},
			wantErr: true,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			err := tC.mutate(valid).Validate()
			if tC.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
