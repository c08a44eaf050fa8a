package ledger

import "property-admin/internal/models"

// RentRecords projects stored rents onto ledger records
func RentRecords(rents []models.Rent) []RentRecord {
	records := make([]RentRecord, 0, len(rents))
	for _, r := range rents {
		records = append(records, RentRecord{
			ID:            r.ID,
			UnitID:        r.UnitID,
			TotalAmount:   r.TotalAmount,
			PaymentStatus: string(r.PaymentStatus),
			PaymentMethod: string(r.PaymentMethod),
			PaymentDate:   r.PaymentDate,
			Notes:         r.Notes,
		})
	}
	return records
}

// OccasionalRecords projects stored occasional payments, keyed by unit
func OccasionalRecords(byUnit map[int64][]models.OccasionalPayment) map[int64][]OccasionalRecord {
	records := make(map[int64][]OccasionalRecord, len(byUnit))
	for unitID, payments := range byUnit {
		for _, p := range payments {
			records[unitID] = append(records[unitID], OccasionalRecord{
				ID:            p.ID,
				UnitID:        p.UnitID,
				Category:      string(p.Category),
				Amount:        p.Amount,
				PaymentMethod: string(p.PaymentMethod),
				PaymentDate:   p.PaymentDate,
				Notes:         p.Notes,
			})
		}
	}
	return records
}

// UnitNames builds the lookup the merge resolves display names from
func UnitNames(units map[int64]models.Unit) map[int64]string {
	names := make(map[int64]string, len(units))
	for id, u := range units {
		names[id] = u.Name
	}
	return names
}
