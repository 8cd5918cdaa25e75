package db

import (
	"time"

	"github.com/go-pg/pg"
)

// Survey is a questionnaire paying RewardPoints on completion
type Survey struct {
	Timestamps

	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	RewardPoints int64     `json:"reward_points"`
	IsActive     bool      `json:"is_active"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
}

// IsOpen reports whether responses are being accepted at the given time
func (survey Survey) IsOpen(now time.Time) bool {
	if !survey.IsActive {
		return false
	}
	return !now.Before(survey.StartDate) && !now.After(survey.EndDate)
}

// SurveyResponse is one user's completion of a survey; the
// (survey_id, user_id) pair is unique
type SurveyResponse struct {
	Timestamps

	ID           int64  `json:"id"`
	SurveyID     int64  `json:"survey_id"`
	UserID       int64  `json:"user_id"`
	Answers      string `json:"answers"`
	PointsEarned int64  `json:"points_earned" sql:"type:,notnull"`
}

// SurveyByID finds a survey by id
func (c *Client) SurveyByID(ID int64) (*Survey, error) {
	survey := new(Survey)
	err := c.Model(survey).Where("id = ?", ID).First()
	if err == pg.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return survey, nil
}

// SubmitSurveyResponse records a completion and credits the reward in one
// transaction. The unique constraint rejects a second completion; the
// ledger key would refuse the double credit even without it.
func (c *Client) SubmitSurveyResponse(surveyID, userID int64, answers string) (*SurveyResponse, error) {
	survey, err := c.SurveyByID(surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, ErrNotFound
	}
	if !survey.IsOpen(time.Now()) {
		return nil, ErrSurveyClosed
	}

	response := &SurveyResponse{
		SurveyID:     surveyID,
		UserID:       userID,
		Answers:      answers,
		PointsEarned: survey.RewardPoints,
	}

	err = c.RunInTransaction(func(tx *pg.Tx) error {
		_, err := tx.Model(response).
			OnConflict("DO NOTHING").
			Insert()
		if err != nil {
			return err
		}
		if response.ID == 0 {
			return ErrAlreadyProcessed
		}

		if survey.RewardPoints <= 0 {
			return nil
		}
		_, err = c.applyLedgerEntryInTx(tx, LedgerEntry{
			UserID:         userID,
			Amount:         survey.RewardPoints,
			Reason:         ReasonSurveyCompletion,
			IdempotencyKey: SurveyResponseKey(response.ID),
			Notes:          survey.Title,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return response, nil
}
