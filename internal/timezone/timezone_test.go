package timezone_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendusalao/salon-api/internal/timezone"
)

func TestLocation(t *testing.T) {
	loc := timezone.Location()
	require.NotNil(t, loc)
	assert.Equal(t, timezone.DefaultTimezone, loc.String())
}

func TestToday_IsPinnedCalendarDateAtUTCMidnight(t *testing.T) {
	today := timezone.Today()

	assert.Equal(t, time.UTC, today.Location())
	assert.Equal(t, 0, today.Hour())
	assert.Equal(t, 0, today.Minute())

	y, m, d := timezone.Now().Date()
	assert.Equal(t, y, today.Year())
	assert.Equal(t, m, today.Month())
	assert.Equal(t, d, today.Day())
}

func TestToday_ComparesAgainstParsedDates(t *testing.T) {
	today := timezone.Today()

	parsed, err := time.Parse("2006-01-02", today.Format("2006-01-02"))
	require.NoError(t, err)

	assert.False(t, parsed.Before(today), "same calendar date is not in the past")
	assert.True(t, parsed.AddDate(0, 0, -1).Before(today))
}
