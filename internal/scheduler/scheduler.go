package scheduler

import (
	"fmt"
	"log"
	"time"

	"property-admin/internal/config"
	"property-admin/internal/database"
	"property-admin/internal/models"
	"property-admin/internal/snapshot"

	"github.com/robfig/cron/v3"
)

// Scheduler handles the nightly maintenance jobs: flipping pending rents
// past their end date to overdue and capturing the daily revenue snapshot.
type Scheduler struct {
	cron      *cron.Cron
	db        *database.GormDB
	snapshot  *snapshot.Service
	config    *config.Config
	loc       *time.Location
	isRunning bool
}

// NewScheduler creates a new scheduler
func NewScheduler(db *database.GormDB, snap *snapshot.Service, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		db:       db,
		snapshot: snap,
		config:   cfg,
		loc:      cfg.Location(),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Scheduler.DailyRunEnabled {
		log.Println("Scheduler: Daily run is disabled in configuration")
		return nil
	}

	// Parse daily run time (HH:MM format in config)
	cronSpec := s.parseDailyRunTime(s.config.Scheduler.DailyRunTime)

	_, err := s.cron.AddFunc(cronSpec, func() {
		log.Println("Scheduler: Starting daily maintenance job...")
		if err := s.runDailyMaintenance(); err != nil {
			log.Printf("Scheduler: Daily maintenance failed: %v", err)
		} else {
			log.Println("Scheduler: Daily maintenance completed successfully")
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Scheduler: Started with daily run at %s (cron: %s)", s.config.Scheduler.DailyRunTime, cronSpec)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("Scheduler: Stopped")
	}
}

// runDailyMaintenance executes the nightly routine
func (s *Scheduler) runDailyMaintenance() error {
	now := time.Now().In(s.loc)

	// Step 1: mark pending rents past their end date as overdue
	ids, err := s.db.MarkOverdueRents(now)
	if err != nil {
		return fmt.Errorf("failed to mark overdue rents: %w", err)
	}
	if len(ids) > 0 {
		log.Printf("Scheduler: Marked %d rents as overdue", len(ids))
		for _, id := range ids {
			if err := s.db.RecordAudit("rent", id, models.AuditActionOverdue, ""); err != nil {
				log.Printf("Scheduler: Failed to record audit for rent %d: %v", id, err)
			}
		}
	} else {
		log.Println("Scheduler: No rents to mark overdue")
	}

	// Step 2: capture the daily revenue snapshot
	snap, err := s.snapshot.CaptureDaily(now)
	if err != nil {
		return fmt.Errorf("failed to capture revenue snapshot: %w", err)
	}
	log.Printf("Scheduler: Revenue snapshot captured (total: %.2f, this month: %.2f, changed: %v)",
		snap.Total, snap.TotalThisMonth, snap.HasChanged)

	return nil
}

// RunNow immediately executes the daily maintenance job (for manual trigger)
func (s *Scheduler) RunNow() error {
	log.Println("Scheduler: Manual trigger - starting maintenance job...")
	return s.runDailyMaintenance()
}

// parseDailyRunTime converts HH:MM format to cron specification
// Example: "02:00" -> "0 2 * * *" (run at 2:00 AM every day)
func (s *Scheduler) parseDailyRunTime(timeStr string) string {
	var hour, minute int
	n, _ := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute)
	if n == 2 {
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}

	// Default to 2:00 AM if parsing fails
	log.Printf("Scheduler: Failed to parse time '%s', using default 02:00", timeStr)
	return "0 2 * * *"
}
