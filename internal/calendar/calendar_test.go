package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name          string
		paymentStatus string
		want          string
	}{
		{"paid maps to occupied", "paid", "occupied"},
		{"pending maps to maintenance", "pending", "maintenance"},
		{"overdue maps to inspection", "overdue", "inspection"},
		{"unknown passes through", "refunded", "refunded"},
		{"empty passes through", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.paymentStatus))
		})
	}
}

func TestBuildPeriods(t *testing.T) {
	units := map[int64]UnitInfo{
		5: {Name: "A-101", Where: "Istanbul / Kadikoy"},
	}

	t.Run("resolves unit name and status", func(t *testing.T) {
		rents := []RentRecord{
			{ID: 1, UnitID: 5, RentStart: "2024-06-10", RentEnd: "2024-06-12", PaymentStatus: "paid"},
		}

		periods, issues := BuildPeriods(rents, units, time.UTC)
		require.Len(t, periods, 1)
		assert.Empty(t, issues)

		p := periods[0]
		assert.Equal(t, "rent-1", p.ID)
		assert.Equal(t, "unit", p.Kind)
		assert.Equal(t, "A-101", p.Entity)
		assert.Equal(t, "occupied", p.Status)
		assert.Equal(t, "Istanbul / Kadikoy", p.Where)
	})

	t.Run("falls back to Unit {id} when lookup misses", func(t *testing.T) {
		rents := []RentRecord{
			{ID: 2, UnitID: 99, RentStart: "2024-06-01", RentEnd: "2024-06-02", PaymentStatus: "pending"},
		}

		periods, _ := BuildPeriods(rents, units, time.UTC)
		require.Len(t, periods, 1)
		assert.Equal(t, "Unit 99", periods[0].Entity)
	})

	t.Run("missing dates produce an issue, not a period", func(t *testing.T) {
		rents := []RentRecord{
			{ID: 3, UnitID: 5, RentStart: "", RentEnd: "2024-06-12", PaymentStatus: "paid"},
			{ID: 4, UnitID: 5, RentStart: "2024-06-10", RentEnd: "", PaymentStatus: "paid"},
		}

		periods, issues := BuildPeriods(rents, units, time.UTC)
		assert.Empty(t, periods)
		require.Len(t, issues, 2)
		assert.Equal(t, "rent_start", issues[0].Field)
		assert.Equal(t, "rent_end", issues[1].Field)
		assert.Equal(t, "missing date", issues[0].Reason)
	})

	t.Run("unparseable dates produce an issue, not a panic", func(t *testing.T) {
		rents := []RentRecord{
			{ID: 5, UnitID: 5, RentStart: "2024-06-10", RentEnd: "not-a-date", PaymentStatus: "paid"},
		}

		periods, issues := BuildPeriods(rents, units, time.UTC)
		assert.Empty(t, periods)
		require.Len(t, issues, 1)
		assert.Equal(t, "rent_end", issues[0].Field)
		assert.Equal(t, "not-a-date", issues[0].Value)
	})
}

func TestDayMapInclusiveBothEnds(t *testing.T) {
	rents := []RentRecord{
		{ID: 1, UnitID: 5, RentStart: "2024-06-01", RentEnd: "2024-06-03", PaymentStatus: "paid"},
	}

	periods, issues := BuildPeriods(rents, nil, time.UTC)
	require.Empty(t, issues)

	days := DayMap(periods, 2024, time.June, time.UTC)
	require.Len(t, days, 3)
	for _, key := range []string{"2024-06-01", "2024-06-02", "2024-06-03"} {
		require.Contains(t, days, key)
		require.Len(t, days[key], 1)
		assert.Equal(t, "rent-1", days[key][0].ID)
	}
	assert.NotContains(t, days, "2024-05-31")
	assert.NotContains(t, days, "2024-06-04")
}

func TestDayMapClipsToDisplayedMonth(t *testing.T) {
	rents := []RentRecord{
		{ID: 7, UnitID: 1, RentStart: "2024-05-28", RentEnd: "2024-06-02", PaymentStatus: "paid"},
	}

	periods, _ := BuildPeriods(rents, nil, time.UTC)
	days := DayMap(periods, 2024, time.June, time.UTC)

	assert.Len(t, days, 2)
	assert.Contains(t, days, "2024-06-01")
	assert.Contains(t, days, "2024-06-02")
}

func TestConflicts(t *testing.T) {
	t.Run("overlapping rents for one unit are reported", func(t *testing.T) {
		rents := []RentRecord{
			{ID: 1, UnitID: 5, RentStart: "2024-06-01", RentEnd: "2024-06-10", PaymentStatus: "paid"},
			{ID: 2, UnitID: 5, RentStart: "2024-06-08", RentEnd: "2024-06-15", PaymentStatus: "pending"},
		}

		periods, _ := BuildPeriods(rents, nil, time.UTC)
		conflicts := Conflicts(periods)

		require.Len(t, conflicts, 1)
		c := conflicts[0]
		assert.Equal(t, int64(5), c.UnitID)
		assert.Equal(t, "rent-1", c.FirstID)
		assert.Equal(t, "rent-2", c.OtherID)
		assert.Equal(t, "2024-06-08", c.From.Format(DateLayout))
		assert.Equal(t, "2024-06-10", c.To.Format(DateLayout))
	})

	t.Run("both periods still appear in the day map", func(t *testing.T) {
		rents := []RentRecord{
			{ID: 1, UnitID: 5, RentStart: "2024-06-01", RentEnd: "2024-06-10", PaymentStatus: "paid"},
			{ID: 2, UnitID: 5, RentStart: "2024-06-08", RentEnd: "2024-06-15", PaymentStatus: "pending"},
		}

		periods, _ := BuildPeriods(rents, nil, time.UTC)
		days := DayMap(periods, 2024, time.June, time.UTC)
		assert.Len(t, days["2024-06-09"], 2)
	})

	t.Run("same unit back to back is not a conflict", func(t *testing.T) {
		rents := []RentRecord{
			{ID: 1, UnitID: 5, RentStart: "2024-06-01", RentEnd: "2024-06-10", PaymentStatus: "paid"},
			{ID: 2, UnitID: 5, RentStart: "2024-06-11", RentEnd: "2024-06-15", PaymentStatus: "paid"},
		}

		periods, _ := BuildPeriods(rents, nil, time.UTC)
		assert.Empty(t, Conflicts(periods))
	})

	t.Run("different units never conflict", func(t *testing.T) {
		rents := []RentRecord{
			{ID: 1, UnitID: 5, RentStart: "2024-06-01", RentEnd: "2024-06-10", PaymentStatus: "paid"},
			{ID: 2, UnitID: 6, RentStart: "2024-06-01", RentEnd: "2024-06-10", PaymentStatus: "paid"},
		}

		periods, _ := BuildPeriods(rents, nil, time.UTC)
		assert.Empty(t, Conflicts(periods))
	})
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name string
		rent RentRecord
		want int
	}{
		{"inclusive day count", RentRecord{RentStart: "2024-06-10", RentEnd: "2024-06-12"}, 3},
		{"single day", RentRecord{RentStart: "2024-06-10", RentEnd: "2024-06-10"}, 1},
		{"unparseable end is zero days", RentRecord{RentStart: "2024-06-10", RentEnd: "garbage"}, 0},
		{"unparseable start is zero days", RentRecord{RentStart: "??", RentEnd: "2024-06-12"}, 0},
		{"inverted range is zero days", RentRecord{RentStart: "2024-06-12", RentEnd: "2024-06-10"}, 0},
		{"empty dates are zero days", RentRecord{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, Days{Days: tt.want}, Duration(tt.rent))
			})
		})
	}
}

// End-to-end shape of the calendar endpoint: rents plus unit lookup in,
// day-indexed occupancy out.
func TestCalendarEndToEnd(t *testing.T) {
	rents := []RentRecord{
		{ID: 1, UnitID: 5, RentStart: "2024-06-10", RentEnd: "2024-06-12", PaymentStatus: "paid"},
	}
	units := map[int64]UnitInfo{5: {Name: "A-101"}}

	periods, issues := BuildPeriods(rents, units, time.UTC)
	require.Empty(t, issues)

	days := DayMap(periods, 2024, time.June, time.UTC)
	require.Len(t, days, 3)

	for _, key := range []string{"2024-06-10", "2024-06-11", "2024-06-12"} {
		require.Len(t, days[key], 1)
		assert.Equal(t, "A-101", days[key][0].Entity)
		assert.Equal(t, "occupied", days[key][0].Status)
	}
}
