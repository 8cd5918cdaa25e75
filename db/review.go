package db

import (
	"github.com/go-pg/pg"
)

// Review is a product review. One review per (product, user); an approved
// review earns a one-shot review-reward credit.
type Review struct {
	Timestamps

	ID         int64  `json:"id"`
	ProductID  int64  `json:"product_id"`
	UserID     int64  `json:"user_id"`
	Rating     int    `json:"rating"`
	Body       string `json:"body"`
	IsApproved bool   `json:"is_approved" sql:"type:,notnull"`
}

// AddReview inserts a review; the unique (product_id, user_id) index makes
// a second review from the same user a duplicate
func (c *Client) AddReview(review *Review) error {
	_, err := c.Model(review).
		OnConflict("DO NOTHING").
		Insert()
	if err != nil {
		return err
	}
	if review.ID == 0 {
		return ErrAlreadyProcessed
	}

	return nil
}

// ReviewByID finds a review by id
func (c *Client) ReviewByID(ID int64) (*Review, error) {
	review := new(Review)
	err := c.Model(review).Where("id = ?", ID).First()
	if err == pg.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return review, nil
}

// ReviewsByProduct returns the approved reviews of a product
func (c *Client) ReviewsByProduct(productID int64) ([]Review, error) {
	reviews := make([]Review, 0)
	err := c.Model(&reviews).
		Where("product_id = ?", productID).
		Where("is_approved is true").
		Where("deleted_at IS NULL").
		Order("created_at DESC").
		Select()
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

// ApproveReview approves a review and credits the reward once. The
// conditional update is the first guard; the ledger key is the second.
func (c *Client) ApproveReview(reviewID int64, adminID int64, rewardPoints int64) (*Review, error) {
	review := new(Review)
	err := c.RunInTransaction(func(tx *pg.Tx) error {
		err := tx.Model(review).Where("id = ?", reviewID).For("UPDATE").First()
		if err == pg.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		result, err := tx.Model(review).
			Where("id = ?", reviewID).
			Where("is_approved is false").
			Set("is_approved = true").
			Update()
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrAlreadyProcessed
		}
		review.IsApproved = true

		if rewardPoints <= 0 {
			return nil
		}
		_, err = c.applyLedgerEntryInTx(tx, LedgerEntry{
			UserID:         review.UserID,
			AdminID:        &adminID,
			Amount:         rewardPoints,
			Reason:         ReasonReviewReward,
			IdempotencyKey: ReviewRewardKey(review.ID),
			Notes:          "review approved",
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return review, nil
}
