package handlers

import (
	"math"
	"testing"

	"property-admin/internal/ledger"
	"property-admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ownedUnit(id, ownerID int64, pct float64) models.Unit {
	return models.Unit{ID: id, OwnerID: &ownerID, OwnerPercentage: &pct}
}

func TestSplitEntriesOwnerShare(t *testing.T) {
	units := map[int64]models.Unit{
		1: ownedUnit(1, 10, 40),
		2: {ID: 2},
	}
	entries := []ledger.Entry{
		{UnitID: 1, Amount: 1000},
		{UnitID: 2, Amount: 500},
	}

	companyTotal, payouts := splitEntries(entries, units)

	// Unit 1 pays 40% to owner 10; unit 2 has no owner.
	assert.InDelta(t, 1100.0, companyTotal, 0.001)
	require.Len(t, payouts, 1)
	assert.InDelta(t, 400.0, payouts[10], 0.001)
}

func TestSplitEntriesUnknownUnitGoesToCompany(t *testing.T) {
	companyTotal, payouts := splitEntries(
		[]ledger.Entry{{UnitID: 99, Amount: 250}},
		map[int64]models.Unit{},
	)

	assert.InDelta(t, 250.0, companyTotal, 0.001)
	assert.Empty(t, payouts)
}

func TestSplitEntriesMalformedAmountCountsAsZero(t *testing.T) {
	units := map[int64]models.Unit{1: ownedUnit(1, 10, 50)}
	entries := []ledger.Entry{
		{UnitID: 1, Amount: math.NaN()},
		{UnitID: 1, Amount: math.Inf(1)},
		{UnitID: 1, Amount: 200},
	}

	companyTotal, payouts := splitEntries(entries, units)

	// The rollup excludes malformed amounts, so the ownership split must
	// agree with it instead of propagating NaN into both totals.
	assert.False(t, math.IsNaN(companyTotal))
	assert.InDelta(t, 100.0, companyTotal, 0.001)
	assert.InDelta(t, 100.0, payouts[10], 0.001)
}
