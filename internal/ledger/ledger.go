package ledger

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// DateLayout is the wire format for payment dates
const DateLayout = "2006-01-02"

// Payment types tagged onto merged entries
const (
	TypeRent       = "rent"
	TypeOccasional = "occasional"
)

// RentRecord is the slice of a rent the ledger needs
type RentRecord struct {
	ID            int64   `json:"id"`
	UnitID        int64   `json:"unit_id"`
	TotalAmount   float64 `json:"total_amount"`
	PaymentStatus string  `json:"payment_status"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	PaymentDate   *string `json:"payment_date,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

// OccasionalRecord is a non-rent charge against a unit
type OccasionalRecord struct {
	ID            int64   `json:"id"`
	UnitID        int64   `json:"unit_id"`
	Category      string  `json:"category"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	PaymentDate   *string `json:"payment_date,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

// Entry is one normalized row of the merged ledger
type Entry struct {
	ID            string  `json:"id"`
	PaymentType   string  `json:"payment_type"`
	UnitID        int64   `json:"unit_id"`
	UnitName      string  `json:"unit_name"`
	Category      string  `json:"category,omitempty"`
	Amount        float64 `json:"amount"`
	PaymentStatus string  `json:"payment_status,omitempty"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	PaymentDate   *string `json:"payment_date,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

// Summary is the revenue roll-up for the dashboard cards
type Summary struct {
	Total           float64 `json:"total"`
	TotalThisMonth  float64 `json:"total_this_month"`
	TotalOccasional float64 `json:"total_occasional"`
	EntryCount      int     `json:"entry_count"`
}

// Issue reports an entry whose amount or date could not be used as-is
type Issue struct {
	EntryID string `json:"entry_id"`
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Reason  string `json:"reason"`
}

// Merge unifies the occasional payment streams and the rent stream into one
// sortable table. Every input record appears exactly once; unit names fall
// back to "Unit {id}" when the lookup misses. Pure transform, no drops.
func Merge(occasionalByUnit map[int64][]OccasionalRecord, rents []RentRecord, unitNames map[int64]string) []Entry {
	total := len(rents)
	for _, payments := range occasionalByUnit {
		total += len(payments)
	}
	entries := make([]Entry, 0, total)

	// Stable order over the map: unit id ascending
	unitIDs := make([]int64, 0, len(occasionalByUnit))
	for id := range occasionalByUnit {
		unitIDs = append(unitIDs, id)
	}
	sort.Slice(unitIDs, func(i, j int) bool { return unitIDs[i] < unitIDs[j] })

	for _, unitID := range unitIDs {
		for _, p := range occasionalByUnit[unitID] {
			entries = append(entries, Entry{
				ID:            fmt.Sprintf("occasional-%d", p.ID),
				PaymentType:   TypeOccasional,
				UnitID:        p.UnitID,
				UnitName:      unitName(unitNames, p.UnitID),
				Category:      p.Category,
				Amount:        p.Amount,
				PaymentMethod: p.PaymentMethod,
				PaymentDate:   p.PaymentDate,
				Notes:         p.Notes,
			})
		}
	}

	for _, r := range rents {
		entries = append(entries, Entry{
			ID:            fmt.Sprintf("rent-%d", r.ID),
			PaymentType:   TypeRent,
			UnitID:        r.UnitID,
			UnitName:      unitName(unitNames, r.UnitID),
			Amount:        r.TotalAmount,
			PaymentStatus: r.PaymentStatus,
			PaymentMethod: r.PaymentMethod,
			PaymentDate:   r.PaymentDate,
			Notes:         r.Notes,
		})
	}

	return entries
}

// Rollup sums the merged ledger by scope. The "this month" bucket is
// evaluated against the caller-supplied clock and location so reporting is
// pinned to the server timezone, not whichever client asks. Malformed
// amounts contribute zero and are reported as issues instead of silently
// vanishing. Pure function; summing the same ledger twice gives the same
// totals.
func Rollup(entries []Entry, now time.Time, loc *time.Location) (Summary, []Issue) {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	summary := Summary{EntryCount: len(entries)}
	var issues []Issue

	for _, e := range entries {
		amount := e.Amount
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			issues = append(issues, Issue{
				EntryID: e.ID,
				Field:   "amount",
				Reason:  "malformed amount, counted as zero",
			})
			amount = 0
		}

		summary.Total += amount
		if e.PaymentType == TypeOccasional {
			summary.TotalOccasional += amount
		}

		if e.PaymentDate == nil || *e.PaymentDate == "" {
			continue
		}
		paid, err := time.ParseInLocation(DateLayout, *e.PaymentDate, loc)
		if err != nil {
			issues = append(issues, Issue{
				EntryID: e.ID,
				Field:   "payment_date",
				Value:   *e.PaymentDate,
				Reason:  "unparseable date, excluded from monthly bucket",
			})
			continue
		}
		if paid.Year() == now.Year() && paid.Month() == now.Month() {
			summary.TotalThisMonth += amount
		}
	}

	return summary, issues
}

func unitName(names map[int64]string, id int64) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("Unit %d", id)
}
