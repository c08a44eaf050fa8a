package calendar

import "property-admin/internal/models"

// RentRecords projects stored rents onto calendar records
func RentRecords(rents []models.Rent) []RentRecord {
	records := make([]RentRecord, 0, len(rents))
	for _, r := range rents {
		records = append(records, RentRecord{
			ID:            r.ID,
			UnitID:        r.UnitID,
			RentStart:     r.RentStart,
			RentEnd:       r.RentEnd,
			PaymentStatus: string(r.PaymentStatus),
		})
	}
	return records
}

// UnitLookup builds the display lookup for period derivation
func UnitLookup(units map[int64]models.Unit) map[int64]UnitInfo {
	lookup := make(map[int64]UnitInfo, len(units))
	for id, u := range units {
		lookup[id] = UnitInfo{
			Name:  u.Name,
			Where: u.DisplayLabel(),
		}
	}
	return lookup
}
