package db

import (
	"time"

	"github.com/go-pg/pg"
)

// VotingFrequency limits how often a user may vote in a campaign
type VotingFrequency string

// Voting frequencies
const (
	FrequencyUnlimited VotingFrequency = "unlimited"
	FrequencyDaily     VotingFrequency = "daily"
)

// CampaignStatus is the lifecycle state of a voting campaign
type CampaignStatus string

// Campaign lifecycle states
const (
	CampaignActive    CampaignStatus = "active"
	CampaignCancelled CampaignStatus = "cancelled"
)

// VotingCampaign is a time-boxed poll. Each vote credits PointsPerVote to
// the voter; removing a vote reverses that exact credit.
type VotingCampaign struct {
	Timestamps

	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Status          CampaignStatus  `json:"status"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	PointsPerVote   int64           `json:"points_per_vote" sql:"type:,notnull"`
	MaxVotesPerUser int64           `json:"max_votes_per_user" sql:"type:,notnull"`
	VotingFrequency VotingFrequency `json:"voting_frequency"`
}

// IsOpen reports whether the voting window is open at the given time
func (campaign VotingCampaign) IsOpen(now time.Time) bool {
	if campaign.Status != CampaignActive {
		return false
	}
	return !now.Before(campaign.StartDate) && !now.After(campaign.EndDate)
}

// VoteEntry is one candidate in a campaign. VoteCount moves in lockstep
// with the user_votes rows and the voters' balances.
type VoteEntry struct {
	Timestamps

	ID         int64  `json:"id"`
	CampaignID int64  `json:"campaign_id"`
	Title      string `json:"title"`
	IsApproved bool   `json:"is_approved" sql:"type:,notnull"`
	VoteCount  int64  `json:"vote_count" sql:"type:,notnull"`
}

// UserVote is one (user, campaign, entry) vote; the triple is unique
type UserVote struct {
	Timestamps

	ID         int64 `json:"id"`
	CampaignID int64 `json:"campaign_id"`
	EntryID    int64 `json:"entry_id"`
	UserID     int64 `json:"user_id"`
}

// VotingCampaigns returns all campaigns, newest first
func (c *Client) VotingCampaigns() ([]VotingCampaign, error) {
	campaigns := make([]VotingCampaign, 0)
	err := c.Model(&campaigns).
		Where("deleted_at IS NULL").
		Order("start_date DESC").
		Select()
	if err != nil {
		return nil, err
	}

	return campaigns, nil
}

// VotingCampaignByID finds a campaign by id
func (c *Client) VotingCampaignByID(ID int64) (*VotingCampaign, error) {
	campaign := new(VotingCampaign)
	err := c.Model(campaign).Where("id = ?", ID).First()
	if err == pg.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return campaign, nil
}

// VoteEntryByID finds an entry by id
func (c *Client) VoteEntryByID(ID int64) (*VoteEntry, error) {
	entry := new(VoteEntry)
	err := c.Model(entry).Where("id = ?", ID).First()
	if err == pg.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// VoteEntriesByCampaign returns the approved entries of a campaign
func (c *Client) VoteEntriesByCampaign(campaignID int64) ([]VoteEntry, error) {
	entries := make([]VoteEntry, 0)
	err := c.Model(&entries).
		Where("campaign_id = ?", campaignID).
		Where("is_approved is true").
		Order("vote_count DESC").
		Select()
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// CastVote records a vote and credits the voter in one transaction. The
// unique (campaign, entry, user) index catches duplicates; the entry count
// and the point balance move together or not at all.
func (c *Client) CastVote(campaignID, entryID, userID int64) (*UserVote, error) {
	now := time.Now()

	campaign, err := c.VotingCampaignByID(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrNotFound
	}
	if !campaign.IsOpen(now) {
		return nil, ErrVotingClosed
	}

	entry, err := c.VoteEntryByID(entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.CampaignID != campaignID {
		return nil, ErrNotFound
	}
	if !entry.IsApproved {
		return nil, ErrNotFound
	}

	vote := &UserVote{
		CampaignID: campaignID,
		EntryID:    entryID,
		UserID:     userID,
	}

	err = c.RunInTransaction(func(tx *pg.Tx) error {
		// The cap check below is a read-then-insert; locking the voter row
		// first serializes concurrent votes by the same user so two of
		// them cannot both pass the cap.
		voter := new(User)
		err := tx.Model(voter).
			Column("id").
			Where("id = ?", userID).
			For("UPDATE").
			First()
		if err == pg.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		votesCast, err := userVotesInCampaignInTx(tx, campaignID, userID)
		if err != nil {
			return err
		}
		if campaign.MaxVotesPerUser > 0 && votesCast >= campaign.MaxVotesPerUser {
			return ErrVoteLimitReached
		}
		if campaign.VotingFrequency == FrequencyDaily {
			votedToday, err := userVotedSinceInTx(tx, campaignID, userID, startOfDay(now))
			if err != nil {
				return err
			}
			if votedToday {
				return ErrVoteLimitReached
			}
		}

		_, err = tx.Model(vote).
			OnConflict("DO NOTHING").
			Insert()
		if err != nil {
			return err
		}
		if vote.ID == 0 {
			return ErrAlreadyProcessed
		}

		_, err = tx.Model((*VoteEntry)(nil)).
			Where("id = ?", entryID).
			Set("vote_count = vote_count + 1").
			Update()
		if err != nil {
			return err
		}

		if campaign.PointsPerVote == 0 {
			return nil
		}
		_, err = c.applyLedgerEntryInTx(tx, LedgerEntry{
			UserID:         userID,
			Amount:         campaign.PointsPerVote,
			Reason:         ReasonVote,
			IdempotencyKey: VoteKey(vote.ID),
			Notes:          campaign.Title,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return vote, nil
}

// RemoveVote deletes a vote and reverses its credit in one transaction.
// Only allowed while the voting window is still open.
func (c *Client) RemoveVote(campaignID, entryID, userID int64) error {
	now := time.Now()

	campaign, err := c.VotingCampaignByID(campaignID)
	if err != nil {
		return err
	}
	if campaign == nil {
		return ErrNotFound
	}
	if !campaign.IsOpen(now) {
		return ErrVotingClosed
	}

	return c.RunInTransaction(func(tx *pg.Tx) error {
		vote := new(UserVote)
		err := tx.Model(vote).
			Where("campaign_id = ?", campaignID).
			Where("entry_id = ?", entryID).
			Where("user_id = ?", userID).
			For("UPDATE").
			First()
		if err == pg.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		result, err := tx.Model((*UserVote)(nil)).
			Where("id = ?", vote.ID).
			Delete()
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrAlreadyProcessed
		}

		_, err = tx.Model((*VoteEntry)(nil)).
			Where("id = ?", entryID).
			Set("vote_count = GREATEST(vote_count - 1, 0)").
			Update()
		if err != nil {
			return err
		}

		if campaign.PointsPerVote == 0 {
			return nil
		}
		_, err = c.applyLedgerEntryInTx(tx, LedgerEntry{
			UserID:         userID,
			Amount:         -campaign.PointsPerVote,
			Reason:         ReasonVoteRemoval,
			IdempotencyKey: VoteRemovalKey(vote.ID),
			Notes:          campaign.Title,
		})
		return err
	})
}

// UserVotesInCampaign counts a user's live votes in a campaign
func (c *Client) UserVotesInCampaign(campaignID, userID int64) (int64, error) {
	count, err := c.Model((*UserVote)(nil)).
		Where("campaign_id = ?", campaignID).
		Where("user_id = ?", userID).
		Count()
	if err != nil {
		return 0, err
	}
	return int64(count), nil
}

func userVotesInCampaignInTx(tx *pg.Tx, campaignID, userID int64) (int64, error) {
	count, err := tx.Model((*UserVote)(nil)).
		Where("campaign_id = ?", campaignID).
		Where("user_id = ?", userID).
		Count()
	if err != nil {
		return 0, err
	}
	return int64(count), nil
}

func userVotedSinceInTx(tx *pg.Tx, campaignID, userID int64, since time.Time) (bool, error) {
	count, err := tx.Model((*UserVote)(nil)).
		Where("campaign_id = ?", campaignID).
		Where("user_id = ?", userID).
		Where("created_at >= ?", since).
		Count()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
