package db

import (
	"fmt"

	"github.com/go-pg/pg"
)

// PointTransactionReason tags a ledger entry with the business event that
// produced it
type PointTransactionReason string

// All the reasons a point balance can change
const (
	ReasonCheckIn              PointTransactionReason = "check-in"
	ReasonReferral             PointTransactionReason = "referral"
	ReasonFeedback             PointTransactionReason = "feedback"
	ReasonPredictionWin        PointTransactionReason = "prediction-win"
	ReasonAdminGrant           PointTransactionReason = "admin-grant"
	ReasonStreakBonus          PointTransactionReason = "streak-bonus"
	ReasonSurveyCompletion     PointTransactionReason = "survey-completion"
	ReasonOrderCompletion      PointTransactionReason = "order-completion"
	ReasonOrderPointsUsed      PointTransactionReason = "order-points-used"
	ReasonOrderPointsRefund    PointTransactionReason = "order-points-refund"
	ReasonVote                 PointTransactionReason = "vote"
	ReasonVoteRemoval          PointTransactionReason = "vote-removal"
	ReasonContestParticipation PointTransactionReason = "contest-participation"
	ReasonContestWin           PointTransactionReason = "contest-win"
	ReasonReviewReward         PointTransactionReason = "review-reward"
)

// ReversalSuffix is appended to the original reason on compensating entries
const ReversalSuffix = "-reversal"

var validReasons = map[PointTransactionReason]bool{
	ReasonCheckIn:              true,
	ReasonReferral:             true,
	ReasonFeedback:             true,
	ReasonPredictionWin:        true,
	ReasonAdminGrant:           true,
	ReasonStreakBonus:          true,
	ReasonSurveyCompletion:     true,
	ReasonOrderCompletion:      true,
	ReasonOrderPointsUsed:      true,
	ReasonOrderPointsRefund:    true,
	ReasonVote:                 true,
	ReasonVoteRemoval:          true,
	ReasonContestParticipation: true,
	ReasonContestWin:           true,
	ReasonReviewReward:         true,
}

// IsValid reports whether the reason is a member of the closed enum,
// either directly or as a reversal of a member
func (r PointTransactionReason) IsValid() bool {
	if validReasons[r] {
		return true
	}
	l := len(r) - len(ReversalSuffix)
	if l > 0 && r[l:] == ReversalSuffix {
		return validReasons[r[:l]]
	}
	return false
}

// Reversal returns the compensating reason for this reason
func (r PointTransactionReason) Reversal() PointTransactionReason {
	return r + ReversalSuffix
}

// PointTransaction is one immutable, signed record of a point balance change.
// Rows are only ever inserted; corrections happen via reversal entries.
type PointTransaction struct {
	Timestamps

	ID             int64                  `json:"id"`
	UserID         int64                  `json:"user_id"`
	AdminID        *int64                 `json:"admin_id,omitempty"`
	Amount         int64                  `json:"amount"`
	Reason         PointTransactionReason `json:"reason"`
	IdempotencyKey string                 `json:"idempotency_key"`
	Notes          string                 `json:"notes"`
}

// LedgerEntry is the input for one ledger mutation
type LedgerEntry struct {
	UserID         int64
	AdminID        *int64
	Amount         int64
	Reason         PointTransactionReason
	IdempotencyKey string
	Notes          string
}

// LedgerResult is the outcome of applying a ledger entry. Applied is false
// when the idempotency key had already been settled and the stored
// transaction was returned instead.
type LedgerResult struct {
	Transaction *PointTransaction
	NewBalance  int64
	Applied     bool
}

// Idempotency key builders. One key identifies one triggering event.
func OrderCompletionKey(orderID int64) string {
	return fmt.Sprintf("order:%d:completion", orderID)
}

func OrderPointsUsedKey(orderID int64) string {
	return fmt.Sprintf("order:%d:points-used", orderID)
}

func OrderPointsRefundKey(orderID int64) string {
	return fmt.Sprintf("order:%d:points-refund", orderID)
}

func OrderCompletionReversalKey(orderID int64) string {
	return fmt.Sprintf("order:%d:completion-reversal", orderID)
}

func ContestEntryKey(submissionID int64) string {
	return fmt.Sprintf("contest-submission:%d:entry", submissionID)
}

func ContestWinKey(submissionID int64) string {
	return fmt.Sprintf("contest-submission:%d:win", submissionID)
}

func VoteKey(voteID int64) string {
	return fmt.Sprintf("vote:%d", voteID)
}

func VoteRemovalKey(voteID int64) string {
	return fmt.Sprintf("vote:%d:removal", voteID)
}

func ReviewRewardKey(reviewID int64) string {
	return fmt.Sprintf("review:%d", reviewID)
}

func SurveyResponseKey(responseID int64) string {
	return fmt.Sprintf("survey-response:%d", responseID)
}

func ReferralKey(newUserID int64) string {
	return fmt.Sprintf("referral:%d", newUserID)
}

func AdminGrantKey(reference string) string {
	return fmt.Sprintf("admin-grant:%s", reference)
}

// Validate checks the entry invariants before it reaches the database
func (e LedgerEntry) Validate() error {
	if e.UserID == 0 {
		return fmt.Errorf("ledger entry: missing user")
	}
	if e.Amount == 0 {
		return fmt.Errorf("ledger entry: amount must be non-zero")
	}
	if !e.Reason.IsValid() {
		return fmt.Errorf("ledger entry: unknown reason %q", e.Reason)
	}
	if e.IdempotencyKey == "" {
		return fmt.Errorf("ledger entry: missing idempotency key")
	}
	return nil
}

// applyLedgerEntryInTx is the single write path for point balances. It
// inserts the transaction record if the idempotency key is unseen and moves
// the balance under a non-negativity predicate, all inside the caller's
// transaction. Every settlement path (orders, contests, votes, reviews,
// surveys, grants) funnels through here.
func (c *Client) applyLedgerEntryInTx(tx *pg.Tx, entry LedgerEntry) (*LedgerResult, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	transaction := &PointTransaction{
		UserID:         entry.UserID,
		AdminID:        entry.AdminID,
		Amount:         entry.Amount,
		Reason:         entry.Reason,
		IdempotencyKey: entry.IdempotencyKey,
		Notes:          entry.Notes,
	}
	_, err := tx.Model(transaction).
		OnConflict("(idempotency_key) DO NOTHING").
		Insert()
	if err != nil {
		return nil, err
	}

	// ID stays zero when the key already exists: the event was settled
	// before, so return the stored entry without touching the balance.
	if transaction.ID == 0 {
		existing := new(PointTransaction)
		err = tx.Model(existing).
			Where("idempotency_key = ?", entry.IdempotencyKey).
			First()
		if err != nil {
			return nil, err
		}
		balance, err := balanceInTx(tx, existing.UserID)
		if err != nil {
			return nil, err
		}
		return &LedgerResult{Transaction: existing, NewBalance: balance, Applied: false}, nil
	}

	user := new(User)
	result, err := tx.Model(user).
		Where("id = ?", entry.UserID).
		Where("points + ? >= 0", entry.Amount).
		Set("points = points + ?", entry.Amount).
		Update()
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		exists, err := tx.Model((*User)(nil)).Where("id = ?", entry.UserID).Count()
		if err != nil {
			return nil, err
		}
		if exists == 0 {
			return nil, ErrNotFound
		}
		return nil, ErrInsufficientBalance
	}

	balance, err := balanceInTx(tx, entry.UserID)
	if err != nil {
		return nil, err
	}

	return &LedgerResult{Transaction: transaction, NewBalance: balance, Applied: true}, nil
}

func balanceInTx(tx *pg.Tx, userID int64) (int64, error) {
	var balance int64
	_, err := tx.Query(pg.Scan(&balance), `SELECT points FROM users WHERE id = ?`, userID)
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// ApplyLedgerEntry applies one ledger entry in its own transaction
func (c *Client) ApplyLedgerEntry(entry LedgerEntry) (*LedgerResult, error) {
	var ledgerResult *LedgerResult
	err := c.RunInTransaction(func(tx *pg.Tx) error {
		var err error
		ledgerResult, err = c.applyLedgerEntryInTx(tx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ledgerResult, nil
}

// ReverseLedgerEntry compensates a prior entry by inserting a new one with
// the negated amount and a reversal reason. The original is never mutated.
func (c *Client) ReverseLedgerEntry(originalID int64, key string) (*LedgerResult, error) {
	var ledgerResult *LedgerResult
	err := c.RunInTransaction(func(tx *pg.Tx) error {
		var err error
		ledgerResult, err = c.reverseLedgerEntryInTx(tx, originalID, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ledgerResult, nil
}

func (c *Client) reverseLedgerEntryInTx(tx *pg.Tx, originalID int64, key string) (*LedgerResult, error) {
	original := new(PointTransaction)
	err := tx.Model(original).Where("id = ?", originalID).First()
	if err == pg.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return c.applyLedgerEntryInTx(tx, LedgerEntry{
		UserID:         original.UserID,
		AdminID:        original.AdminID,
		Amount:         -original.Amount,
		Reason:         original.Reason.Reversal(),
		IdempotencyKey: key,
		Notes:          fmt.Sprintf("reversal of transaction %d", original.ID),
	})
}

// PointTransactionsByUser returns the audit trail for a user, newest first
func (c *Client) PointTransactionsByUser(userID int64) ([]PointTransaction, error) {
	transactions := make([]PointTransaction, 0)
	err := c.Model(&transactions).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Select()
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

// PointTransactionByKey returns the transaction settled under the given
// idempotency key, or nil when the event has not been settled
func (c *Client) PointTransactionByKey(key string) (*PointTransaction, error) {
	transaction := new(PointTransaction)
	err := c.Model(transaction).Where("idempotency_key = ?", key).First()
	if err == pg.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return transaction, nil
}
