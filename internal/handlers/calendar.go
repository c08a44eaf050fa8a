package handlers

import (
	"net/http"
	"strconv"
	"time"

	"property-admin/internal/calendar"
	"property-admin/internal/database"
	"property-admin/internal/models"

	"github.com/gin-gonic/gin"
)

// CalendarHandler derives occupancy periods from rents for the grid view
type CalendarHandler struct {
	db  *database.GormDB
	loc *time.Location
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(db *database.GormDB, loc *time.Location) *CalendarHandler {
	return &CalendarHandler{db: db, loc: loc}
}

// GetCalendar returns periods, the per-day occupancy map, conflicts and
// issues for the requested month. Defaults to the current month.
func (h *CalendarHandler) GetCalendar(c *gin.Context) {
	now := time.Now().In(h.loc)

	year := now.Year()
	if v := c.Query("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1970 || parsed > 9999 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		year = parsed
	}

	month := now.Month()
	if v := c.Query("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must be between 1 and 12"})
			return
		}
		month = time.Month(parsed)
	}

	rents, err := h.db.GetRents(database.RentFilters{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// One batch lookup for every unit the rents reference
	ids := make([]int64, 0, len(rents))
	seen := make(map[int64]bool, len(rents))
	for _, r := range rents {
		if !seen[r.UnitID] {
			seen[r.UnitID] = true
			ids = append(ids, r.UnitID)
		}
	}
	byID, err := h.db.GetUnitsByIDs(ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	periods, issues := calendar.BuildPeriods(calendar.RentRecords(rents), calendar.UnitLookup(byID), h.loc)
	dayMap := calendar.DayMap(periods, year, month, h.loc)
	conflicts := calendar.Conflicts(periods)

	c.JSON(http.StatusOK, gin.H{
		"year":      year,
		"month":     int(month),
		"periods":   periods,
		"days":      dayMap,
		"conflicts": conflicts,
		"issues":    issues,
	})
}

// GetRentDuration returns the inclusive day count of one rent
func (h *CalendarHandler) GetRentDuration(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rent id"})
		return
	}

	rent, err := h.db.GetRentByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "rent not found"})
		return
	}

	records := calendar.RentRecords([]models.Rent{*rent})
	c.JSON(http.StatusOK, gin.H{
		"rent_id":  id,
		"duration": calendar.Duration(records[0]),
	})
}
