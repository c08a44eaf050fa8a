package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotDayLocalMidnight(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)

	// The daily run fires at 02:00 local; the stamp must stay on the
	// same local calendar day.
	now := time.Date(2026, 6, 10, 2, 0, 0, 0, loc)
	day := snapshotDay(now, loc)

	assert.Equal(t, time.Date(2026, 6, 10, 0, 0, 0, 0, loc), day)
	assert.Equal(t, loc, day.Location())
}

func TestSnapshotDayConvertsFromUTC(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)

	// 23:30 UTC is already past midnight in Istanbul (UTC+3).
	now := time.Date(2026, 6, 10, 23, 30, 0, 0, time.UTC)
	day := snapshotDay(now, loc)

	assert.Equal(t, time.Date(2026, 6, 11, 0, 0, 0, 0, loc), day)
}

func TestSnapshotDayIdempotentWithinDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)

	morning := time.Date(2026, 6, 10, 2, 0, 0, 0, loc)
	evening := time.Date(2026, 6, 10, 23, 59, 0, 0, loc)

	assert.Equal(t, snapshotDay(morning, loc), snapshotDay(evening, loc))
}
