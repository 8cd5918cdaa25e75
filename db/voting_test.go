package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCampaignIsOpen(t *testing.T) {
	now := time.Now()
	open := VotingCampaign{
		Status:    CampaignActive,
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
	}

	testCases := []struct {
		desc     string
		mutate   func(c VotingCampaign) VotingCampaign
		expected bool
	}{
		{
			desc:     "Active inside window",
			mutate:   func(c VotingCampaign) VotingCampaign { return c },
			expected: true,
		},
		{
			desc: "Cancelled",
			mutate: func(c VotingCampaign) VotingCampaign {
				c.Status = CampaignCancelled
				return c
			},
			expected: false,
		},
		{
			desc: "Not started yet",
			mutate: func(c VotingCampaign) VotingCampaign {
				c.StartDate = now.Add(time.Minute)
				return c
			},
			expected: false,
		},
		{
			desc: "Already over",
			mutate: func(c VotingCampaign) VotingCampaign {
				c.EndDate = now.Add(-time.Minute)
				return c
			},
			expected: false,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.expected, tC.mutate(open).IsOpen(now))
		})
	}
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	ts := time.Date(2024, time.March, 15, 17, 45, 12, 999, loc)

	start := startOfDay(ts)

	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, loc), start)
	assert.Equal(t, loc, start.Location())
}
