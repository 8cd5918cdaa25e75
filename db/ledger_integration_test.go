package db

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/go-pg/pg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run against a migrated Postgres database and are skipped
// unless PERKHUB_TEST_PG_ADDR is set. Fixtures use unique suffixes so the
// suite can run repeatedly against the same database.

func testDBClient(t *testing.T) *Client {
	addr := os.Getenv("PERKHUB_TEST_PG_ADDR")
	if addr == "" {
		t.Skip("set PERKHUB_TEST_PG_ADDR to run database tests")
	}

	db := pg.Connect(&pg.Options{
		Addr:     addr,
		User:     envOrDefault("PERKHUB_TEST_PG_USER", "postgres"),
		Password: os.Getenv("PERKHUB_TEST_PG_PASS"),
		Database: envOrDefault("PERKHUB_TEST_PG_NAME", "perkhub_test"),
	})
	t.Cleanup(func() {
		_ = db.Close()
	})

	return &Client{DB: db}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func createTestUser(t *testing.T, c *Client, points int64) *User {
	n := time.Now().UnixNano()
	user := &User{
		Username:     fmt.Sprintf("ledger-%d", n),
		Email:        fmt.Sprintf("ledger-%d@example.com", n),
		Password:     "unused",
		Points:       points,
		ReferralCode: fmt.Sprintf("LEDGER%d", n),
	}
	require.NoError(t, c.Insert(user))

	return user
}

func createTestContest(t *testing.T, c *Client, entryCost, rewardPoints int64) *Contest {
	now := time.Now()
	contest := &Contest{
		Title:           fmt.Sprintf("contest-%d", now.UnixNano()),
		Question:        "which way is up",
		PointsPerAnswer: entryCost,
		RewardPoints:    rewardPoints,
		Status:          ContestActive,
		StartDate:       now.Add(-time.Hour),
		EndDate:         now.Add(time.Hour),
	}
	require.NoError(t, c.Insert(contest))

	return contest
}

func TestApplyLedgerEntryIdempotentReplay(t *testing.T) {
	c := testDBClient(t)
	user := createTestUser(t, c, 0)
	entry := LedgerEntry{
		UserID:         user.ID,
		Amount:         100,
		Reason:         ReasonAdminGrant,
		IdempotencyKey: AdminGrantKey(fmt.Sprintf("replay-%d", user.ID)),
	}

	first, err := c.ApplyLedgerEntry(entry)
	require.NoError(t, err)
	assert.True(t, first.Applied)
	assert.Equal(t, int64(100), first.NewBalance)

	second, err := c.ApplyLedgerEntry(entry)
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.Equal(t, int64(100), second.NewBalance)
	assert.Equal(t, first.Transaction.ID, second.Transaction.ID)

	fresh, err := c.UserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), fresh.Points)
}

func TestApplyLedgerEntryInsufficientBalance(t *testing.T) {
	c := testDBClient(t)
	user := createTestUser(t, c, 10)
	key := AdminGrantKey(fmt.Sprintf("overdraw-%d", user.ID))

	_, err := c.ApplyLedgerEntry(LedgerEntry{
		UserID:         user.ID,
		Amount:         -25,
		Reason:         ReasonAdminGrant,
		IdempotencyKey: key,
	})
	assert.Equal(t, ErrInsufficientBalance, err)

	fresh, err := c.UserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), fresh.Points)

	// The rejected debit must leave no audit row behind.
	stored, err := c.PointTransactionByKey(key)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestReverseLedgerEntryRestoresBalance(t *testing.T) {
	c := testDBClient(t)
	user := createTestUser(t, c, 0)
	key := AdminGrantKey(fmt.Sprintf("reverse-%d", user.ID))

	applied, err := c.ApplyLedgerEntry(LedgerEntry{
		UserID:         user.ID,
		Amount:         40,
		Reason:         ReasonAdminGrant,
		IdempotencyKey: key,
	})
	require.NoError(t, err)
	require.True(t, applied.Applied)

	reversalKey := key + ReversalSuffix
	reversed, err := c.ReverseLedgerEntry(applied.Transaction.ID, reversalKey)
	require.NoError(t, err)
	assert.True(t, reversed.Applied)
	assert.Equal(t, int64(0), reversed.NewBalance)
	assert.Equal(t, int64(-40), reversed.Transaction.Amount)
	assert.Equal(t, ReasonAdminGrant.Reversal(), reversed.Transaction.Reason)

	// Reversing twice settles once.
	again, err := c.ReverseLedgerEntry(applied.Transaction.ID, reversalKey)
	require.NoError(t, err)
	assert.False(t, again.Applied)
	assert.Equal(t, int64(0), again.NewBalance)

	original, err := c.PointTransactionByKey(key)
	require.NoError(t, err)
	require.NotNil(t, original)
	assert.Equal(t, int64(40), original.Amount)
}

func TestPublishContestAnswerWithZeroReward(t *testing.T) {
	c := testDBClient(t)
	contest := createTestContest(t, c, 0, 0)
	user := createTestUser(t, c, 0)

	submission, err := c.SubmitContestAnswer(contest.ID, user.ID, "up")
	require.NoError(t, err)

	result, err := c.PublishContestAnswer(contest.ID, "Up", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Submissions)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Equal(t, int64(0), result.PointsAwarded)

	fresh, err := c.UserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fresh.Points)

	stored, err := c.PointTransactionByKey(ContestWinKey(submission.ID))
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSubmitContestAnswerAfterPublish(t *testing.T) {
	c := testDBClient(t)
	contest := createTestContest(t, c, 0, 50)
	user := createTestUser(t, c, 0)

	_, err := c.PublishContestAnswer(contest.ID, "up", 1)
	require.NoError(t, err)

	_, err = c.SubmitContestAnswer(contest.ID, user.ID, "up")
	assert.Equal(t, ErrContestClosed, err)
}

func TestContestEntryFeeRejectedWithoutBalance(t *testing.T) {
	c := testDBClient(t)
	contest := createTestContest(t, c, 30, 100)
	user := createTestUser(t, c, 10)

	_, err := c.SubmitContestAnswer(contest.ID, user.ID, "up")
	assert.Equal(t, ErrInsufficientBalance, err)

	submissions, err := c.SubmissionsByContest(contest.ID)
	require.NoError(t, err)
	assert.Empty(t, submissions)
}

func TestMarkOrderPaidRejectsCancelledOrder(t *testing.T) {
	c := testDBClient(t)
	user := createTestUser(t, c, 0)
	order := &Order{
		UserID:        user.ID,
		OrderNumber:   generateOrderNumber(),
		Status:        OrderCancelled,
		PaymentStatus: PaymentPending,
	}
	require.NoError(t, c.Insert(order))

	_, err := c.MarkOrderPaid(order.ID)
	assert.Equal(t, ErrInvalidTransition, err)
}

func TestCastVoteHonorsCampaignCap(t *testing.T) {
	c := testDBClient(t)
	user := createTestUser(t, c, 0)

	now := time.Now()
	campaign := &VotingCampaign{
		Title:           fmt.Sprintf("campaign-%d", now.UnixNano()),
		Status:          CampaignActive,
		StartDate:       now.Add(-time.Hour),
		EndDate:         now.Add(time.Hour),
		PointsPerVote:   5,
		MaxVotesPerUser: 1,
		VotingFrequency: FrequencyUnlimited,
	}
	require.NoError(t, c.Insert(campaign))

	first := &VoteEntry{CampaignID: campaign.ID, Title: "first", IsApproved: true}
	second := &VoteEntry{CampaignID: campaign.ID, Title: "second", IsApproved: true}
	require.NoError(t, c.Insert(first))
	require.NoError(t, c.Insert(second))

	_, err := c.CastVote(campaign.ID, first.ID, user.ID)
	require.NoError(t, err)

	_, err = c.CastVote(campaign.ID, second.ID, user.ID)
	assert.Equal(t, ErrVoteLimitReached, err)

	fresh, err := c.UserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), fresh.Points)
}
