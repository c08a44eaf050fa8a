package calendar

import (
	"fmt"
	"sort"
	"time"
)

// DateLayout is the wire format for rent dates
const DateLayout = "2006-01-02"

// RentRecord is the slice of a rent the calendar needs. Dates stay as
// raw strings so one malformed record degrades to an Issue instead of
// failing the whole aggregation pass.
type RentRecord struct {
	ID            int64  `json:"id"`
	UnitID        int64  `json:"unit_id"`
	RentStart     string `json:"rent_start"`
	RentEnd       string `json:"rent_end"`
	PaymentStatus string `json:"payment_status"`
}

// UnitInfo resolves display fields for a unit id
type UnitInfo struct {
	Name  string `json:"name"`
	Where string `json:"where"`
}

// Period is a rent projected onto day-level occupancy for grid rendering.
// Derived fresh on every pass; identity is only the synthetic rent-{id} key.
type Period struct {
	ID     string    `json:"id"`
	Kind   string    `json:"kind"`
	Entity string    `json:"entity"`
	Status string    `json:"status"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Where  string    `json:"where,omitempty"`
	UnitID int64     `json:"unit_id"`
	RentID int64     `json:"rent_id"`
}

// Issue reports a record that could not be fully aggregated
type Issue struct {
	RentID int64  `json:"rent_id"`
	Field  string `json:"field"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

// Conflict is a pair of periods occupying the same unit on overlapping days.
// Overlaps are reported, never suppressed; whether double occupancy is an
// error is the consumer's call.
type Conflict struct {
	UnitID  int64     `json:"unit_id"`
	FirstID string    `json:"first_id"`
	OtherID string    `json:"other_id"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
}

// Days is an inclusive day count for a rent period
type Days struct {
	Days int `json:"days"`
}

// StatusFor maps a rent payment status onto a calendar status.
// The mapping is arbitrary but fixed; unknown values pass through unchanged.
func StatusFor(paymentStatus string) string {
	switch paymentStatus {
	case "paid":
		return "occupied"
	case "pending":
		return "maintenance"
	case "overdue":
		return "inspection"
	default:
		return paymentStatus
	}
}

// BuildPeriods converts rent records into calendar periods. Records with a
// missing or unparseable date produce an Issue instead of a period.
func BuildPeriods(rents []RentRecord, units map[int64]UnitInfo, loc *time.Location) ([]Period, []Issue) {
	if loc == nil {
		loc = time.Local
	}

	periods := make([]Period, 0, len(rents))
	var issues []Issue

	for _, r := range rents {
		if r.RentStart == "" || r.RentEnd == "" {
			issues = append(issues, Issue{
				RentID: r.ID,
				Field:  missingField(r),
				Reason: "missing date",
			})
			continue
		}

		start, err := time.ParseInLocation(DateLayout, r.RentStart, loc)
		if err != nil {
			issues = append(issues, Issue{RentID: r.ID, Field: "rent_start", Value: r.RentStart, Reason: "unparseable date"})
			continue
		}
		end, err := time.ParseInLocation(DateLayout, r.RentEnd, loc)
		if err != nil {
			issues = append(issues, Issue{RentID: r.ID, Field: "rent_end", Value: r.RentEnd, Reason: "unparseable date"})
			continue
		}

		entity := fmt.Sprintf("Unit %d", r.UnitID)
		where := ""
		if info, ok := units[r.UnitID]; ok {
			if info.Name != "" {
				entity = info.Name
			}
			where = info.Where
		}

		periods = append(periods, Period{
			ID:     fmt.Sprintf("rent-%d", r.ID),
			Kind:   "unit",
			Entity: entity,
			Status: StatusFor(r.PaymentStatus),
			Start:  start,
			End:    end,
			Where:  where,
			UnitID: r.UnitID,
			RentID: r.ID,
		})
	}

	return periods, issues
}

// DayMap indexes periods by day for the displayed month. Keys are
// "2006-01-02" strings; a day appears only when at least one period covers
// it, inclusive on both ends.
func DayMap(periods []Period, year int, month time.Month, loc *time.Location) map[string][]Period {
	if loc == nil {
		loc = time.Local
	}

	days := make(map[string][]Period)
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)

	for day := first; day.Month() == month; day = day.AddDate(0, 0, 1) {
		for _, p := range periods {
			if covers(p, day) {
				key := day.Format(DateLayout)
				days[key] = append(days[key], p)
			}
		}
	}

	return days
}

// covers reports whether the period contains the day, inclusive both ends
func covers(p Period, day time.Time) bool {
	return !day.Before(p.Start) && !day.After(p.End)
}

// Conflicts returns every pair of periods that occupy one unit on
// overlapping days.
func Conflicts(periods []Period) []Conflict {
	sorted := make([]Period, len(periods))
	copy(sorted, periods)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].UnitID != sorted[j].UnitID {
			return sorted[i].UnitID < sorted[j].UnitID
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var conflicts []Conflict
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			a, b := sorted[i], sorted[j]
			if a.UnitID != b.UnitID {
				break
			}
			if b.Start.After(a.End) {
				break
			}
			from := b.Start
			to := a.End
			if b.End.Before(to) {
				to = b.End
			}
			conflicts = append(conflicts, Conflict{
				UnitID:  a.UnitID,
				FirstID: a.ID,
				OtherID: b.ID,
				From:    from,
				To:      to,
			})
		}
	}

	return conflicts
}

// Duration returns the inclusive day count of a rent period. Malformed or
// inverted dates yield zero days rather than an error; the caller learns
// about bad dates through BuildPeriods issues.
func Duration(r RentRecord) Days {
	start, err := time.Parse(DateLayout, r.RentStart)
	if err != nil {
		return Days{Days: 0}
	}
	end, err := time.Parse(DateLayout, r.RentEnd)
	if err != nil {
		return Days{Days: 0}
	}
	if end.Before(start) {
		return Days{Days: 0}
	}
	return Days{Days: int(end.Sub(start).Hours()/24) + 1}
}

func missingField(r RentRecord) string {
	if r.RentStart == "" {
		return "rent_start"
	}
	return "rent_end"
}
