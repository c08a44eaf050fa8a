package snapshot

import (
	"fmt"
	"log"
	"time"

	"property-admin/internal/ledger"
	"property-admin/internal/models"

	"gorm.io/gorm"
)

// Service handles daily revenue snapshot operations
type Service struct {
	db  *gorm.DB
	loc *time.Location
}

// NewService creates a new snapshot service
func NewService(db *gorm.DB, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{db: db, loc: loc}
}

// CaptureDaily rolls up the current ledger and stores today's revenue
// snapshot, detecting changes against the most recent previous day.
// Running twice on one day updates the existing row.
func (s *Service) CaptureDaily(now time.Time) (*models.RevenueSnapshot, error) {
	summary, rentCount, occasionalCount, err := s.currentSummary(now)
	if err != nil {
		return nil, err
	}

	snapshot := &models.RevenueSnapshot{
		SnapshotAt:      snapshotDay(now, s.loc),
		Total:           summary.Total,
		TotalThisMonth:  summary.TotalThisMonth,
		TotalOccasional: summary.TotalOccasional,
		RentCount:       rentCount,
		OccasionalCount: occasionalCount,
	}

	// Compare against the most recent prior snapshot
	changes := s.detectChanges(snapshot)
	snapshot.HasChanged = len(changes) > 0
	if len(changes) > 0 {
		snapshot.ChangeNote = fmt.Sprintf("%d changes detected: %v", len(changes), changes)
	}

	// Check if a snapshot already exists for today
	var existing models.RevenueSnapshot
	result := s.db.Where("snapshot_at = ?", snapshot.SnapshotAt).First(&existing)

	if result.Error == gorm.ErrRecordNotFound {
		if err := s.db.Create(snapshot).Error; err != nil {
			return nil, err
		}
		return snapshot, nil
	} else if result.Error != nil {
		return nil, result.Error
	}

	// Update existing snapshot
	snapshot.ID = existing.ID
	snapshot.CreatedAt = existing.CreatedAt
	if err := s.db.Save(snapshot).Error; err != nil {
		return nil, err
	}
	return snapshot, nil
}

// snapshotDay stamps a capture with midnight of its calendar day in the
// configured timezone. Truncate works on UTC days, which would shift an
// early-morning run back to the previous local day.
func snapshotDay(now time.Time, loc *time.Location) time.Time {
	t := now.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// currentSummary builds the merged ledger from storage and rolls it up
func (s *Service) currentSummary(now time.Time) (ledger.Summary, int, int, error) {
	var rents []models.Rent
	if err := s.db.Find(&rents).Error; err != nil {
		return ledger.Summary{}, 0, 0, err
	}

	var payments []models.OccasionalPayment
	if err := s.db.Find(&payments).Error; err != nil {
		return ledger.Summary{}, 0, 0, err
	}
	byUnit := make(map[int64][]models.OccasionalPayment)
	for _, p := range payments {
		byUnit[p.UnitID] = append(byUnit[p.UnitID], p)
	}

	entries := ledger.Merge(ledger.OccasionalRecords(byUnit), ledger.RentRecords(rents), nil)
	summary, issues := ledger.Rollup(entries, now, s.loc)
	if len(issues) > 0 {
		log.Printf("[Snapshot] %d data-quality issues in today's roll-up", len(issues))
	}

	return summary, len(rents), len(payments), nil
}

// detectChanges compares the pending snapshot with the latest prior day
func (s *Service) detectChanges(pending *models.RevenueSnapshot) []string {
	var last models.RevenueSnapshot
	result := s.db.Where("snapshot_at < ?", pending.SnapshotAt).
		Order("snapshot_at DESC").
		First(&last)

	if result.Error == gorm.ErrRecordNotFound {
		return []string{"first snapshot"}
	} else if result.Error != nil {
		log.Printf("[Snapshot] failed to load previous snapshot: %v", result.Error)
		return nil
	}

	var changes []string
	if last.Total != pending.Total {
		changes = append(changes, fmt.Sprintf("total %.2f -> %.2f", last.Total, pending.Total))
	}
	if last.TotalOccasional != pending.TotalOccasional {
		changes = append(changes, fmt.Sprintf("occasional %.2f -> %.2f", last.TotalOccasional, pending.TotalOccasional))
	}
	if last.RentCount != pending.RentCount {
		changes = append(changes, fmt.Sprintf("rents %d -> %d", last.RentCount, pending.RentCount))
	}
	if last.OccasionalCount != pending.OccasionalCount {
		changes = append(changes, fmt.Sprintf("payments %d -> %d", last.OccasionalCount, pending.OccasionalCount))
	}

	return changes
}

// GetHistory retrieves snapshot history, newest first
func (s *Service) GetHistory(limit int) ([]models.RevenueSnapshot, error) {
	var snapshots []models.RevenueSnapshot
	query := s.db.Order("snapshot_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&snapshots).Error; err != nil {
		return nil, err
	}

	return snapshots, nil
}

// GetLatest returns the most recent snapshot
func (s *Service) GetLatest() (*models.RevenueSnapshot, error) {
	var snapshot models.RevenueSnapshot
	err := s.db.Order("snapshot_at DESC").First(&snapshot).Error
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
