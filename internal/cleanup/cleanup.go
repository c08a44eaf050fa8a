package cleanup

import (
	"fmt"
	"log"
	"time"

	"property-admin/internal/models"

	"gorm.io/gorm"
)

// Service handles physical deletion of aged revenue snapshots
type Service struct {
	db *gorm.DB
}

// NewService creates a new cleanup service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CleanupConfig holds configuration for cleanup operations
type CleanupConfig struct {
	RetentionDays    int  // Days to keep revenue snapshots before physical deletion
	MaxDeletionCount int  // Maximum number of rows to delete in one run (safety limit)
	DryRun           bool // If true, only log what would be deleted without actually deleting
}

// DefaultCleanupConfig returns default configuration
func DefaultCleanupConfig() CleanupConfig {
	return CleanupConfig{
		RetentionDays:    365,
		MaxDeletionCount: 10000,
		DryRun:           false,
	}
}

// CleanupResult holds the result of a cleanup operation
type CleanupResult struct {
	TargetCount  int       `json:"target_count"`  // Number of snapshots eligible for deletion
	DeletedCount int       `json:"deleted_count"` // Number of snapshots actually deleted
	ErrorCount   int       `json:"error_count"`   // Number of errors encountered
	DryRun       bool      `json:"dry_run"`       // Whether this was a dry run
	ExecutedAt   time.Time `json:"executed_at"`   // When the cleanup was executed
	Errors       []string  `json:"errors,omitempty"`
}

// FindExpiredSnapshots finds revenue snapshots older than the retention window
func (s *Service) FindExpiredSnapshots(retentionDays int) ([]models.RevenueSnapshot, error) {
	var snapshots []models.RevenueSnapshot

	cutoffDate := time.Now().AddDate(0, 0, -retentionDays)

	err := s.db.Where("snapshot_at < ?", cutoffDate).Find(&snapshots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find expired snapshots: %w", err)
	}

	log.Printf("Found %d snapshots expired before %s", len(snapshots), cutoffDate.Format("2006-01-02"))
	return snapshots, nil
}

// PhysicallyDelete removes expired snapshots, recording each deletion in
// the audit log
func (s *Service) PhysicallyDelete(config CleanupConfig) (*CleanupResult, error) {
	result := &CleanupResult{
		DryRun:     config.DryRun,
		ExecutedAt: time.Now(),
	}

	expired, err := s.FindExpiredSnapshots(config.RetentionDays)
	if err != nil {
		return nil, err
	}

	result.TargetCount = len(expired)

	if result.TargetCount == 0 {
		log.Println("No expired snapshots found for deletion")
		return result, nil
	}

	// Safety check: abort if too many rows would be deleted
	if result.TargetCount > config.MaxDeletionCount {
		return nil, fmt.Errorf("safety check failed: %d snapshots exceed max deletion limit of %d",
			result.TargetCount, config.MaxDeletionCount)
	}

	log.Printf("Starting cleanup: %d snapshots to delete (retention: %d days, dry-run: %v)",
		result.TargetCount, config.RetentionDays, config.DryRun)

	if config.DryRun {
		for _, snap := range expired {
			log.Printf("[DRY RUN] Would delete snapshot %d (%s)", snap.ID, snap.SnapshotAt.Format("2006-01-02"))
		}
		return result, nil
	}

	for _, snap := range expired {
		tx := s.db.Begin()

		// 1. Record the deletion in the audit log
		entry := models.AuditLog{
			Entity:   "revenue_snapshot",
			EntityID: int64(snap.ID),
			Action:   models.AuditActionPurged,
			Detail:   fmt.Sprintf("snapshot_at=%s total=%.2f", snap.SnapshotAt.Format("2006-01-02"), snap.Total),
		}
		if err := tx.Create(&entry).Error; err != nil {
			tx.Rollback()
			errMsg := fmt.Sprintf("Failed to create audit entry for snapshot %d: %v", snap.ID, err)
			log.Printf("ERROR: %s", errMsg)
			result.Errors = append(result.Errors, errMsg)
			result.ErrorCount++
			continue
		}

		// 2. Delete the snapshot row
		if err := tx.Delete(&snap).Error; err != nil {
			tx.Rollback()
			errMsg := fmt.Sprintf("Failed to delete snapshot %d: %v", snap.ID, err)
			log.Printf("ERROR: %s", errMsg)
			result.Errors = append(result.Errors, errMsg)
			result.ErrorCount++
			continue
		}

		if err := tx.Commit().Error; err != nil {
			errMsg := fmt.Sprintf("Failed to commit deletion for snapshot %d: %v", snap.ID, err)
			log.Printf("ERROR: %s", errMsg)
			result.Errors = append(result.Errors, errMsg)
			result.ErrorCount++
			continue
		}

		result.DeletedCount++
	}

	log.Printf("Cleanup completed: %d/%d deleted, %d errors (dry-run: %v)",
		result.DeletedCount, result.TargetCount, result.ErrorCount, config.DryRun)

	return result, nil
}

// GetDeleteStats returns statistics about purged snapshots
func (s *Service) GetDeleteStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	// Total purge entries
	var totalPurged int64
	if err := s.db.Model(&models.AuditLog{}).
		Where("action = ?", models.AuditActionPurged).
		Count(&totalPurged).Error; err != nil {
		return nil, err
	}
	stats["total_purged"] = totalPurged

	// Recent purges (last 30 days)
	var recentPurged int64
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	if err := s.db.Model(&models.AuditLog{}).
		Where("action = ? AND recorded_at >= ?", models.AuditActionPurged, thirtyDaysAgo).
		Count(&recentPurged).Error; err != nil {
		return nil, err
	}
	stats["purged_last_30_days"] = recentPurged

	// Snapshots currently held
	var held int64
	if err := s.db.Model(&models.RevenueSnapshot{}).Count(&held).Error; err != nil {
		return nil, err
	}
	stats["snapshots_held"] = held

	return stats, nil
}

// GetRecentAuditLogs returns recent audit entries
func (s *Service) GetRecentAuditLogs(limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := s.db.Order("recorded_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
