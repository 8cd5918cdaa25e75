package db

import (
	"strings"
	"time"

	"github.com/go-pg/pg"
)

// ContestStatus is the lifecycle state of a contest
type ContestStatus string

// Contest lifecycle states
const (
	ContestActive    ContestStatus = "active"
	ContestFinished  ContestStatus = "finished"
	ContestCancelled ContestStatus = "cancelled"
)

// Contest is a time-boxed prediction question. Entering costs
// PointsPerAnswer; every correct submission earns RewardPoints once the
// admin publishes the answer.
type Contest struct {
	Timestamps

	ID                int64         `json:"id"`
	Title             string        `json:"title"`
	Question          string        `json:"question"`
	PointsPerAnswer   int64         `json:"points_per_answer" sql:"type:,notnull"`
	RewardPoints      int64         `json:"reward_points" sql:"type:,notnull"`
	Answer            string        `json:"answer"`
	IsAnswerPublished bool          `json:"is_answer_published" sql:"type:,notnull"`
	Status            ContestStatus `json:"status"`
	StartDate         time.Time     `json:"start_date"`
	EndDate           time.Time     `json:"end_date"`
}

// IsOpen reports whether submissions are being accepted at the given time
func (contest Contest) IsOpen(now time.Time) bool {
	if contest.IsAnswerPublished || contest.Status != ContestActive {
		return false
	}
	return !now.Before(contest.StartDate) && !now.After(contest.EndDate)
}

// ContestSubmission is one answer from one user. PointsSpent is the entry
// fee snapshot; RewardPointsEarned is filled in at publish time.
type ContestSubmission struct {
	Timestamps

	ID                 int64  `json:"id"`
	ContestID          int64  `json:"contest_id"`
	UserID             int64  `json:"user_id"`
	Answer             string `json:"answer"`
	PointsSpent        int64  `json:"points_spent" sql:"type:,notnull"`
	IsCorrect          bool   `json:"is_correct" sql:"type:,notnull"`
	RewardPointsEarned int64  `json:"reward_points_earned" sql:"type:,notnull"`
}

// AnswersMatch compares a submission against the published answer,
// case-insensitively and ignoring surrounding whitespace
func AnswersMatch(submitted, published string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(published))
}

// Contests returns all contests, newest first
func (c *Client) Contests() ([]Contest, error) {
	contests := make([]Contest, 0)
	err := c.Model(&contests).
		Where("deleted_at IS NULL").
		Order("start_date DESC").
		Select()
	if err != nil {
		return nil, err
	}

	return contests, nil
}

// ContestByID finds a contest by id
func (c *Client) ContestByID(ID int64) (*Contest, error) {
	contest := new(Contest)
	err := c.Model(contest).Where("id = ?", ID).First()
	if err == pg.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return contest, nil
}

// SubmissionsByContest returns every submission for a contest
func (c *Client) SubmissionsByContest(contestID int64) ([]ContestSubmission, error) {
	submissions := make([]ContestSubmission, 0)
	err := c.Model(&submissions).
		Where("contest_id = ?", contestID).
		Order("id").
		Select()
	if err != nil {
		return nil, err
	}

	return submissions, nil
}

// SubmitContestAnswer records an answer and debits the entry fee in one
// transaction. The debit carries the balance predicate, so a user without
// enough points gets ErrInsufficientBalance and no submission. Multiple
// submissions per user are allowed by design.
func (c *Client) SubmitContestAnswer(contestID, userID int64, answer string) (*ContestSubmission, error) {
	contest, err := c.ContestByID(contestID)
	if err != nil {
		return nil, err
	}
	if contest == nil {
		return nil, ErrNotFound
	}
	if !contest.IsOpen(time.Now()) {
		return nil, ErrContestClosed
	}

	submission := &ContestSubmission{
		ContestID:   contestID,
		UserID:      userID,
		Answer:      answer,
		PointsSpent: contest.PointsPerAnswer,
	}

	err = c.RunInTransaction(func(tx *pg.Tx) error {
		// Re-check under a share lock. The publish path takes the contest
		// row FOR UPDATE, so a publish committing between the open check
		// above and this transaction cannot slip a paid submission onto a
		// settled contest.
		locked := new(Contest)
		err := tx.Model(locked).
			Where("id = ?", contestID).
			Where("is_answer_published is false").
			Where("status = ?", ContestActive).
			For("SHARE").
			First()
		if err == pg.ErrNoRows {
			return ErrContestClosed
		}
		if err != nil {
			return err
		}

		err = tx.Insert(submission)
		if err != nil {
			return err
		}

		if contest.PointsPerAnswer == 0 {
			return nil
		}
		_, err = c.applyLedgerEntryInTx(tx, LedgerEntry{
			UserID:         userID,
			Amount:         -contest.PointsPerAnswer,
			Reason:         ReasonContestParticipation,
			IdempotencyKey: ContestEntryKey(submission.ID),
			Notes:          contest.Title,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return submission, nil
}

// ContestPublishResult summarizes one publish pass
type ContestPublishResult struct {
	Contest        *Contest `json:"contest"`
	Submissions    int      `json:"submissions"`
	CorrectAnswers int      `json:"correct_answers"`
	PointsAwarded  int64    `json:"points_awarded"`
}

// PublishContestAnswer settles a whole contest in one all-or-nothing pass.
// The conditional update on is_answer_published locks the contest: a second
// publish sees zero rows and fails with ErrAlreadyProcessed. Every
// submission is visited exactly once; any failure rolls the batch back so
// there are never partial awards.
func (c *Client) PublishContestAnswer(contestID int64, answer string, adminID int64) (*ContestPublishResult, error) {
	publishResult := &ContestPublishResult{}

	err := c.RunInTransaction(func(tx *pg.Tx) error {
		contest := new(Contest)
		err := tx.Model(contest).Where("id = ?", contestID).For("UPDATE").First()
		if err == pg.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		result, err := tx.Model(contest).
			Where("id = ?", contestID).
			Where("is_answer_published is false").
			Set("is_answer_published = true").
			Set("answer = ?", answer).
			Set("status = ?", ContestFinished).
			Update()
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrAlreadyProcessed
		}
		contest.Answer = answer
		contest.IsAnswerPublished = true
		contest.Status = ContestFinished
		publishResult.Contest = contest

		submissions := make([]ContestSubmission, 0)
		err = tx.Model(&submissions).
			Where("contest_id = ?", contestID).
			Order("id").
			Select()
		if err != nil {
			return err
		}
		publishResult.Submissions = len(submissions)

		for i := range submissions {
			submission := &submissions[i]
			if !AnswersMatch(submission.Answer, answer) {
				continue
			}

			// Free contests mark winners without a ledger entry; the
			// ledger rejects zero amounts.
			if contest.RewardPoints != 0 {
				ledgerResult, err := c.applyLedgerEntryInTx(tx, LedgerEntry{
					UserID:         submission.UserID,
					AdminID:        &adminID,
					Amount:         contest.RewardPoints,
					Reason:         ReasonContestWin,
					IdempotencyKey: ContestWinKey(submission.ID),
					Notes:          contest.Title,
				})
				if err != nil {
					return err
				}
				if ledgerResult.Applied {
					publishResult.PointsAwarded += contest.RewardPoints
				}
			}

			_, err = tx.Model(submission).
				Where("id = ?", submission.ID).
				Set("is_correct = true").
				Set("reward_points_earned = ?", contest.RewardPoints).
				Update()
			if err != nil {
				return err
			}

			publishResult.CorrectAnswers++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return publishResult, nil
}
