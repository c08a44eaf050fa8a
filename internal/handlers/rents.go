package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"property-admin/internal/database"
	"property-admin/internal/events"
	"property-admin/internal/models"

	"github.com/gin-gonic/gin"
)

// RentHandler handles rent CRUD requests
type RentHandler struct {
	db  *database.GormDB
	bus *events.Bus
}

// NewRentHandler creates a new rent handler
func NewRentHandler(db *database.GormDB, bus *events.Bus) *RentHandler {
	return &RentHandler{db: db, bus: bus}
}

// ListRents returns rents, optionally filtered by unit or tenant
func (h *RentHandler) ListRents(c *gin.Context) {
	filters, err := parseRentFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rents, err := h.db.GetRents(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rents": rents,
		"count": len(rents),
	})
}

// parseRentFilters reads the unit and tenant query filters. The long-form
// unit_id/tenant_id names are accepted as aliases.
func parseRentFilters(c *gin.Context) (database.RentFilters, error) {
	var filters database.RentFilters
	for _, key := range []string{"unit", "unit_id"} {
		v := c.Query(key)
		if v == "" {
			continue
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filters, fmt.Errorf("invalid %s", key)
		}
		filters.UnitID = &id
		break
	}
	for _, key := range []string{"tenant", "tenant_id"} {
		v := c.Query(key)
		if v == "" {
			continue
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filters, fmt.Errorf("invalid %s", key)
		}
		filters.TenantID = &id
		break
	}
	return filters, nil
}

// GetRent returns a single rent by id
func (h *RentHandler) GetRent(c *gin.Context) {
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

	c.JSON(http.StatusOK, rent)
}

type rentRequest struct {
	UnitID        int64   `json:"unit_id" binding:"required"`
	TenantID      int64   `json:"tenant_id" binding:"required"`
	RentStart     string  `json:"rent_start" binding:"required"`
	RentEnd       string  `json:"rent_end" binding:"required"`
	TotalAmount   float64 `json:"total_amount" binding:"required"`
	PaymentStatus string  `json:"payment_status"`
	PaymentMethod string  `json:"payment_method"`
	PaymentDate   *string `json:"payment_date"`
	Notes         string  `json:"notes"`
}

// CreateRent creates a new rent after validating its date range
func (h *RentHandler) CreateRent(c *gin.Context) {
	var req rentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse(models.DateLayout, req.RentStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rent_start must be formatted as 2006-01-02"})
		return
	}
	end, err := time.Parse(models.DateLayout, req.RentEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rent_end must be formatted as 2006-01-02"})
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rent_end must not be before rent_start"})
		return
	}

	status := models.PaymentStatus(req.PaymentStatus)
	if status == "" {
		status = models.PaymentStatusPending
	}
	if !validPaymentStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_status must be paid, pending or overdue"})
		return
	}

	if _, err := h.db.GetUnitByID(req.UnitID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit does not exist"})
		return
	}
	if _, err := h.db.GetTenantByID(req.TenantID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant does not exist"})
		return
	}

	rent := models.Rent{
		UnitID:        req.UnitID,
		TenantID:      req.TenantID,
		RentStart:     req.RentStart,
		RentEnd:       req.RentEnd,
		TotalAmount:   req.TotalAmount,
		PaymentStatus: status,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		PaymentDate:   req.PaymentDate,
		Notes:         req.Notes,
	}

	if err := h.db.CreateRent(&rent); err != nil {
		log.Printf("[Rents] create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.bus.Publish(events.Event{Topic: events.TopicRentCreated, Entity: "rent", EntityID: rent.ID, At: time.Now()})
	c.JSON(http.StatusCreated, rent)
}

// UpdateRent applies a partial update to a rent
func (h *RentHandler) UpdateRent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rent id"})
		return
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := pickAllowed(body, "unit_id", "tenant_id", "rent_start", "rent_end",
		"total_amount", "payment_status", "payment_method", "payment_date", "notes")
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no updatable fields in request"})
		return
	}

	for _, field := range []string{"rent_start", "rent_end"} {
		if raw, ok := updates[field]; ok {
			s, _ := raw.(string)
			if _, err := time.Parse(models.DateLayout, s); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": field + " must be formatted as 2006-01-02"})
				return
			}
		}
	}
	if raw, ok := updates["payment_status"]; ok {
		s, _ := raw.(string)
		if !validPaymentStatus(models.PaymentStatus(s)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment_status must be paid, pending or overdue"})
			return
		}
	}

	rent, err := h.db.UpdateRent(id, updates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.bus.Publish(events.Event{Topic: events.TopicRentUpdated, Entity: "rent", EntityID: id, At: time.Now()})
	c.JSON(http.StatusOK, rent)
}

// DeleteRent removes a rent
func (h *RentHandler) DeleteRent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rent id"})
		return
	}

	if err := h.db.DeleteRent(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.bus.Publish(events.Event{Topic: events.TopicRentDeleted, Entity: "rent", EntityID: id, At: time.Now()})
	c.JSON(http.StatusOK, gin.H{"message": "rent deleted", "id": id})
}

func validPaymentStatus(s models.PaymentStatus) bool {
	switch s {
	case models.PaymentStatusPaid, models.PaymentStatusPending, models.PaymentStatusOverdue:
		return true
	}
	return false
}
