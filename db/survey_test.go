package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSurveyIsOpen(t *testing.T) {
	now := time.Now()
	open := Survey{
		IsActive:  true,
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
	}

	assert.True(t, open.IsOpen(now))

	inactive := open
	inactive.IsActive = false
	assert.False(t, inactive.IsOpen(now))

	early := open
	early.StartDate = now.Add(time.Minute)
	assert.False(t, early.IsOpen(now))

	late := open
	late.EndDate = now.Add(-time.Minute)
	assert.False(t, late.IsOpen(now))
}
