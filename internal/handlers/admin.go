package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"property-admin/internal/cleanup"
	"property-admin/internal/database"
	"property-admin/internal/models"
	"property-admin/internal/ratelimit"
	"property-admin/internal/scheduler"
	"property-admin/internal/snapshot"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles admin-related requests
type AdminHandler struct {
	db              *database.GormDB
	scheduler       *scheduler.Scheduler
	snapshotService *snapshot.Service
	cleanupService  *cleanup.Service
	limiter         *ratelimit.RateLimiter
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *database.GormDB, sched *scheduler.Scheduler, snap *snapshot.Service, limiter *ratelimit.RateLimiter) *AdminHandler {
	return &AdminHandler{
		db:              db,
		scheduler:       sched,
		snapshotService: snap,
		cleanupService:  cleanup.NewService(db.DB()),
		limiter:         limiter,
	}
}

// GetStats returns system statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats := make(map[string]interface{})
	db := h.db.DB()

	// Unit counts by status
	var availableCount, occupiedCount, maintenanceCount int64
	db.Model(&models.Unit{}).Where("status = ?", models.UnitStatusAvailable).Count(&availableCount)
	db.Model(&models.Unit{}).Where("status = ?", models.UnitStatusOccupied).Count(&occupiedCount)
	db.Model(&models.Unit{}).Where("status = ?", models.UnitStatusMaintenance).Count(&maintenanceCount)

	stats["units"] = map[string]interface{}{
		"available":   availableCount,
		"occupied":    occupiedCount,
		"maintenance": maintenanceCount,
		"total":       availableCount + occupiedCount + maintenanceCount,
	}

	// Rent counts by payment status
	var paidCount, pendingCount, overdueCount int64
	db.Model(&models.Rent{}).Where("payment_status = ?", models.PaymentStatusPaid).Count(&paidCount)
	db.Model(&models.Rent{}).Where("payment_status = ?", models.PaymentStatusPending).Count(&pendingCount)
	db.Model(&models.Rent{}).Where("payment_status = ?", models.PaymentStatusOverdue).Count(&overdueCount)

	stats["rents"] = map[string]interface{}{
		"paid":    paidCount,
		"pending": pendingCount,
		"overdue": overdueCount,
		"total":   paidCount + pendingCount + overdueCount,
	}

	// Open maintenance load
	var openRequests int64
	db.Model(&models.MaintenanceRequest{}).
		Where("status != ?", models.MaintenanceStatusResolved).Count(&openRequests)
	stats["maintenance"] = map[string]interface{}{
		"open": openRequests,
	}

	// Recent mutation activity (last 24 hours)
	last24h := time.Now().AddDate(0, 0, -1)
	var recentMutations int64
	db.Model(&models.AuditLog{}).Where("recorded_at >= ?", last24h).Count(&recentMutations)
	stats["recent_activity"] = map[string]interface{}{
		"mutations_last_24h": recentMutations,
	}

	// Snapshot statistics
	var snapshotCount int64
	db.Model(&models.RevenueSnapshot{}).Count(&snapshotCount)
	stats["snapshots"] = map[string]interface{}{
		"total": snapshotCount,
	}

	// Cleanup statistics
	deleteStats, err := h.cleanupService.GetDeleteStats()
	if err != nil {
		log.Printf("Failed to get delete stats: %v", err)
	} else {
		stats["deletions"] = deleteStats
	}

	if h.limiter != nil {
		stats["rate_limit"] = h.limiter.GetStats()
	}

	c.JSON(http.StatusOK, stats)
}

// GetRecentActivity returns recent audit log entries
func (h *AdminHandler) GetRecentActivity(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "50")
	limit, _ := strconv.Atoi(limitStr)

	logs, err := h.db.GetRecentAuditLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activity": logs,
		"count":    len(logs),
	})
}

// TriggerDailyRun manually triggers the nightly maintenance pass
func (h *AdminHandler) TriggerDailyRun(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Scheduler not available (MySQL/GORM required)",
		})
		return
	}

	log.Println("Admin: Manual daily run requested")

	// Run in goroutine to avoid blocking
	go func() {
		if err := h.scheduler.RunNow(); err != nil {
			log.Printf("Admin: Manual daily run failed: %v", err)
		} else {
			log.Println("Admin: Manual daily run completed successfully")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Daily maintenance job started",
		"status":  "running",
	})
}

// GetRevenueHistory returns the recorded revenue snapshots
func (h *AdminHandler) GetRevenueHistory(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "30")
	limit, _ := strconv.Atoi(limitStr)

	snapshots, err := h.snapshotService.GetHistory(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}

// GetLatestSnapshot returns the most recent revenue snapshot
func (h *AdminHandler) GetLatestSnapshot(c *gin.Context) {
	snap, err := h.snapshotService.GetLatest()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot recorded yet"})
		return
	}

	c.JSON(http.StatusOK, snap)
}

// RunCleanup executes physical deletion of expired revenue snapshots
func (h *AdminHandler) RunCleanup(c *gin.Context) {
	var req struct {
		RetentionDays    int  `json:"retention_days"`     // Days to keep (default: 365)
		MaxDeletionCount int  `json:"max_deletion_count"` // Safety limit (default: 10000)
		DryRun           bool `json:"dry_run"`            // Dry run mode (default: true)
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Set defaults
	config := cleanup.DefaultCleanupConfig()
	if req.RetentionDays > 0 {
		config.RetentionDays = req.RetentionDays
	}
	if req.MaxDeletionCount > 0 {
		config.MaxDeletionCount = req.MaxDeletionCount
	}
	config.DryRun = req.DryRun

	log.Printf("Admin: Running cleanup (retention: %d days, max: %d, dry-run: %v)",
		config.RetentionDays, config.MaxDeletionCount, config.DryRun)

	result, err := h.cleanupService.PhysicallyDelete(config)
	if err != nil {
		log.Printf("Admin: Cleanup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Printf("Admin: Cleanup completed: %d/%d deleted (dry-run: %v)",
		result.DeletedCount, result.TargetCount, result.DryRun)

	c.JSON(http.StatusOK, result)
}

// GetCleanupLogs returns recent cleanup audit entries
func (h *AdminHandler) GetCleanupLogs(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "100")
	limit, _ := strconv.Atoi(limitStr)

	logs, err := h.cleanupService.GetRecentAuditLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"count": len(logs),
	})
}

// GetCityStats returns unit counts by city
func (h *AdminHandler) GetCityStats(c *gin.Context) {
	type CityStat struct {
		City  string `json:"city"`
		Count int64  `json:"count"`
	}

	var stats []CityStat
	err := h.db.DB().Model(&models.Unit{}).
		Select("city, count(*) as count").
		Where("city IS NOT NULL AND city != ''").
		Group("city").
		Order("count DESC").
		Limit(20).
		Scan(&stats).Error

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"city_stats": stats,
		"count":      len(stats),
	})
}

// GetPriceDistribution returns nightly price distribution across units
func (h *AdminHandler) GetPriceDistribution(c *gin.Context) {
	type PriceRange struct {
		RangeLabel string  `json:"range_label"`
		MinPrice   float64 `json:"min_price"`
		MaxPrice   float64 `json:"max_price"`
		Count      int64   `json:"count"`
	}

	ranges := []PriceRange{
		{RangeLabel: "0-50", MinPrice: 0, MaxPrice: 50},
		{RangeLabel: "50-100", MinPrice: 50, MaxPrice: 100},
		{RangeLabel: "100-150", MinPrice: 100, MaxPrice: 150},
		{RangeLabel: "150-250", MinPrice: 150, MaxPrice: 250},
		{RangeLabel: "250-500", MinPrice: 250, MaxPrice: 500},
		{RangeLabel: "500+", MinPrice: 500, MaxPrice: 1000000},
	}

	for i := range ranges {
		var count int64
		h.db.DB().Model(&models.Unit{}).
			Where("price_per_day >= ? AND price_per_day < ?",
				ranges[i].MinPrice, ranges[i].MaxPrice).
			Count(&count)
		ranges[i].Count = count
	}

	c.JSON(http.StatusOK, gin.H{
		"price_distribution": ranges,
	})
}
