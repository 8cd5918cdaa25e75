package db

import (
	"context"
	"time"

	"github.com/go-pg/pg/orm"
)

// Datastore defines all operations on the DB
// This interface can be mocked out for tests, etc.
type Datastore interface {
	Mutations
	Queries
}

// Mutations write to the database
type Mutations interface {
	SignupUser(user *User, referralCode string, referralReward int64) error
	GrantPoints(userID int64, adminID int64, amount int64, key, notes string) (*LedgerResult, error)
	ApplyLedgerEntry(entry LedgerEntry) (*LedgerResult, error)
	ReverseLedgerEntry(originalID int64, key string) (*LedgerResult, error)
	CreateOrder(input OrderInput) (*Order, error)
	MarkOrderPaid(orderID int64) (*Order, error)
	UpdateOrderStatus(orderID int64, newStatus OrderStatus, adminID *int64) (*Order, error)
	CancelOrder(orderID int64, adminID *int64) (*Order, error)
	SubmitContestAnswer(contestID, userID int64, answer string) (*ContestSubmission, error)
	PublishContestAnswer(contestID int64, answer string, adminID int64) (*ContestPublishResult, error)
	CastVote(campaignID, entryID, userID int64) (*UserVote, error)
	RemoveVote(campaignID, entryID, userID int64) error
	AddReview(review *Review) error
	ApproveReview(reviewID int64, adminID int64, rewardPoints int64) (*Review, error)
	SubmitSurveyResponse(surveyID, userID int64, answers string) (*SurveyResponse, error)
}

// Queries read from the database
type Queries interface {
	UserByID(ID int64) (*User, error)
	UserByEmailOrUsername(identifier string) (*User, error)
	UserByEmail(email string) (*User, error)
	UserByUsername(username string) (*User, error)
	UserByReferralCode(code string) (*User, error)
	GetAuthenticatedUser(identifier, password string) (*User, error)
	PointTransactionsByUser(userID int64) ([]PointTransaction, error)
	PointTransactionByKey(key string) (*PointTransaction, error)
	Products() ([]Product, error)
	ProductByID(ID int64) (*Product, error)
	OrderByID(ID int64) (*Order, error)
	OrdersByUser(userID int64) ([]Order, error)
	OrderItemsByOrder(orderID int64) ([]OrderItem, error)
	Contests() ([]Contest, error)
	ContestByID(ID int64) (*Contest, error)
	SubmissionsByContest(contestID int64) ([]ContestSubmission, error)
	VotingCampaigns() ([]VotingCampaign, error)
	VotingCampaignByID(ID int64) (*VotingCampaign, error)
	VoteEntryByID(ID int64) (*VoteEntry, error)
	VoteEntriesByCampaign(campaignID int64) ([]VoteEntry, error)
	UserVotesInCampaign(campaignID, userID int64) (int64, error)
	CouponByCode(code string) (*Coupon, error)
	ReviewByID(ID int64) (*Review, error)
	ReviewsByProduct(productID int64) ([]Review, error)
	SurveyByID(ID int64) (*Survey, error)
}

// Timestamps carries the default timestamp fields for any derived model
type Timestamps struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// BeforeInsert is the hook that fills in the created_at and updated_at fields
func (m *Timestamps) BeforeInsert(ctx context.Context, db orm.DB) error {
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}
	return nil
}

// BeforeUpdate is the hook that updates the updated_at field
func (m *Timestamps) BeforeUpdate(ctx context.Context, db orm.DB) error {
	m.UpdatedAt = time.Now()
	return nil
}
