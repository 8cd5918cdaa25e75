package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnswersMatch(t *testing.T) {
	testCases := []struct {
		desc      string
		submitted string
		published string
		expected  bool
	}{
		{
			desc:      "Exact match",
			submitted: "Paris",
			published: "Paris",
			expected:  true,
		},
		{
			desc:      "Case insensitive",
			submitted: "PARIS",
			published: "paris",
			expected:  true,
		},
		{
			desc:      "Surrounding whitespace ignored",
			submitted: "  Paris  ",
			published: "Paris",
			expected:  true,
		},
		{
			desc:      "Different answers",
			submitted: "Lyon",
			published: "Paris",
			expected:  false,
		},
		{
			desc:      "Inner whitespace matters",
			submitted: "Pa ris",
			published: "Paris",
			expected:  false,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.expected, AnswersMatch(tC.submitted, tC.published))
		})
	}
}

func TestContestIsOpen(t *testing.T) {
	now := time.Now()
	open := Contest{
		Status:    ContestActive,
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
	}

	testCases := []struct {
		desc     string
		mutate   func(c Contest) Contest
		expected bool
	}{
		{
			desc:     "Active inside window",
			mutate:   func(c Contest) Contest { return c },
			expected: true,
		},
		{
			desc: "Answer already published",
			mutate: func(c Contest) Contest {
				c.IsAnswerPublished = true
				return c
			},
			expected: false,
		},
		{
			desc: "Cancelled",
			mutate: func(c Contest) Contest {
				c.Status = ContestCancelled
				return c
			},
			expected: false,
		},
		{
			desc: "Not started yet",
			mutate: func(c Contest) Contest {
				c.StartDate = now.Add(time.Minute)
				return c
			},
			expected: false,
		},
		{
			desc: "Already over",
			mutate: func(c Contest) Contest {
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
