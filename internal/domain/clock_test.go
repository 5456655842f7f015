package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestToday_UsesInjectedClock(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2024, 7, 4, 15, 30, 0, 0, time.UTC)))
	defer SetClock(nil)

	assert.Equal(t, time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC), Today())
}

func TestToday_MidnightUTC(t *testing.T) {
	SetClock(nil)
	got := Today()
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, time.UTC, got.Location())
}
