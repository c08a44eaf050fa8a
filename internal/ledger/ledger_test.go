package ledger

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMergeCompleteness(t *testing.T) {
	occasional := map[int64][]OccasionalRecord{
		5: {
			{ID: 1, UnitID: 5, Category: "wifi", Amount: 20},
			{ID: 2, UnitID: 5, Category: "cleaning", Amount: 45},
		},
		7: {
			{ID: 3, UnitID: 7, Category: "repair", Amount: 130},
		},
	}
	rents := []RentRecord{
		{ID: 10, UnitID: 5, TotalAmount: 900, PaymentStatus: "paid"},
		{ID: 11, UnitID: 7, TotalAmount: 750, PaymentStatus: "pending"},
	}

	entries := Merge(occasional, rents, map[int64]string{5: "A-101"})

	// Every input appears exactly once: no drops, no duplicates
	require.Len(t, entries, 5)

	seen := make(map[string]int)
	for _, e := range entries {
		seen[e.ID]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "entry %s duplicated", id)
	}
	assert.Contains(t, seen, "occasional-1")
	assert.Contains(t, seen, "occasional-2")
	assert.Contains(t, seen, "occasional-3")
	assert.Contains(t, seen, "rent-10")
	assert.Contains(t, seen, "rent-11")
}

func TestMergeEmptyInputs(t *testing.T) {
	assert.Empty(t, Merge(nil, nil, nil))
	assert.Len(t, Merge(nil, []RentRecord{{ID: 1, UnitID: 2}}, nil), 1)
}

func TestMergeUnitNameResolution(t *testing.T) {
	occasional := map[int64][]OccasionalRecord{
		5: {{ID: 1, UnitID: 5, Category: "water", Amount: 15}},
	}
	rents := []RentRecord{{ID: 2, UnitID: 9, TotalAmount: 400}}

	entries := Merge(occasional, rents, map[int64]string{5: "A-101"})
	require.Len(t, entries, 2)

	assert.Equal(t, "A-101", entries[0].UnitName)
	assert.Equal(t, TypeOccasional, entries[0].PaymentType)
	// Lookup miss falls back to the synthetic label
	assert.Equal(t, "Unit 9", entries[1].UnitName)
	assert.Equal(t, TypeRent, entries[1].PaymentType)
}

func TestRollup(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

	entries := []Entry{
		{ID: "rent-1", PaymentType: TypeRent, Amount: 900, PaymentDate: strPtr("2024-06-10")},
		{ID: "rent-2", PaymentType: TypeRent, Amount: 500, PaymentDate: strPtr("2024-05-02")},
		{ID: "occasional-1", PaymentType: TypeOccasional, Amount: 50, PaymentDate: strPtr("2024-06-01")},
		{ID: "occasional-2", PaymentType: TypeOccasional, Amount: 25},
	}

	summary, issues := Rollup(entries, now, time.UTC)
	assert.Empty(t, issues)
	assert.Equal(t, 1475.0, summary.Total)
	assert.Equal(t, 950.0, summary.TotalThisMonth)
	assert.Equal(t, 75.0, summary.TotalOccasional)
	assert.Equal(t, 4, summary.EntryCount)
}

func TestRollupIdempotence(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{ID: "rent-1", PaymentType: TypeRent, Amount: 123.45, PaymentDate: strPtr("2024-06-01")},
		{ID: "occasional-1", PaymentType: TypeOccasional, Amount: 10},
	}

	first, _ := Rollup(entries, now, time.UTC)
	second, _ := Rollup(entries, now, time.UTC)
	assert.Equal(t, first, second)
}

func TestRollupMalformedAmount(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{ID: "rent-1", PaymentType: TypeRent, Amount: math.NaN()},
		{ID: "rent-2", PaymentType: TypeRent, Amount: 100, PaymentDate: strPtr("2024-06-03")},
	}

	summary, issues := Rollup(entries, now, time.UTC)

	// Bad record contributes nothing but is reported, not masked
	assert.Equal(t, 100.0, summary.Total)
	require.Len(t, issues, 1)
	assert.Equal(t, "rent-1", issues[0].EntryID)
	assert.Equal(t, "amount", issues[0].Field)
}

func TestRollupUnparseablePaymentDate(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{ID: "rent-1", PaymentType: TypeRent, Amount: 100, PaymentDate: strPtr("06/15/2024")},
	}

	summary, issues := Rollup(entries, now, time.UTC)

	// Still counted in the total, just not in the monthly bucket
	assert.Equal(t, 100.0, summary.Total)
	assert.Equal(t, 0.0, summary.TotalThisMonth)
	require.Len(t, issues, 1)
	assert.Equal(t, "payment_date", issues[0].Field)
}

func TestRollupMonthBoundaryUsesServerLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// Late on the last day of May in Tokyo
	now := time.Date(2024, time.May, 31, 23, 30, 0, 0, tokyo)
	entries := []Entry{
		{ID: "rent-1", PaymentType: TypeRent, Amount: 100, PaymentDate: strPtr("2024-05-31")},
		{ID: "rent-2", PaymentType: TypeRent, Amount: 200, PaymentDate: strPtr("2024-06-01")},
	}

	summary, _ := Rollup(entries, now, tokyo)
	assert.Equal(t, 100.0, summary.TotalThisMonth)
}
