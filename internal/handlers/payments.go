package handlers

import (
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"property-admin/internal/database"
	"property-admin/internal/events"
	"property-admin/internal/ledger"
	"property-admin/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// PaymentHandler handles occasional payments and the merged ledger
type PaymentHandler struct {
	db  *database.GormDB
	bus *events.Bus
	loc *time.Location
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(db *database.GormDB, bus *events.Bus, loc *time.Location) *PaymentHandler {
	return &PaymentHandler{db: db, bus: bus, loc: loc}
}

// ListPayments returns the occasional payments of a unit
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	unitID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit id"})
		return
	}

	payments, err := h.db.GetOccasionalPaymentsByUnit(unitID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"count":    len(payments),
	})
}

type paymentRequest struct {
	Category      string  `json:"category" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	PaymentMethod string  `json:"payment_method"`
	PaymentDate   *string `json:"payment_date"`
	Notes         string  `json:"notes"`
}

// CreatePayment records an occasional payment against a unit
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	unitID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit id"})
		return
	}

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !validPaymentCategory(models.PaymentCategory(req.Category)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment category"})
		return
	}
	if req.PaymentDate != nil {
		if _, err := time.Parse(models.DateLayout, *req.PaymentDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment_date must be formatted as 2006-01-02"})
			return
		}
	}
	if _, err := h.db.GetUnitByID(unitID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit does not exist"})
		return
	}

	payment := models.OccasionalPayment{
		UnitID:        unitID,
		Category:      models.PaymentCategory(req.Category),
		Amount:        req.Amount,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		PaymentDate:   req.PaymentDate,
		Notes:         req.Notes,
	}

	if err := h.db.CreateOccasionalPayment(&payment); err != nil {
		log.Printf("[Payments] create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.bus.Publish(events.Event{Topic: events.TopicPaymentCreated, Entity: "payment", EntityID: payment.ID, At: time.Now()})
	c.JSON(http.StatusCreated, payment)
}

// UpdatePayment applies a partial update to an occasional payment
func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	unitID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit id"})
		return
	}
	paymentID, err := strconv.ParseInt(c.Param("paymentId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := pickAllowed(body, "category", "amount", "payment_method", "payment_date", "notes")
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no updatable fields in request"})
		return
	}
	if raw, ok := updates["category"]; ok {
		s, _ := raw.(string)
		if !validPaymentCategory(models.PaymentCategory(s)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment category"})
			return
		}
	}

	payment, err := h.db.UpdateOccasionalPayment(unitID, paymentID, updates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.bus.Publish(events.Event{Topic: events.TopicPaymentUpdated, Entity: "payment", EntityID: paymentID, At: time.Now()})
	c.JSON(http.StatusOK, payment)
}

// DeletePayment removes an occasional payment
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	unitID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit id"})
		return
	}
	paymentID, err := strconv.ParseInt(c.Param("paymentId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}

	if err := h.db.DeleteOccasionalPayment(unitID, paymentID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.bus.Publish(events.Event{Topic: events.TopicPaymentDeleted, Entity: "payment", EntityID: paymentID, At: time.Now()})
	c.JSON(http.StatusOK, gin.H{"message": "payment deleted", "id": paymentID})
}

// GetLedger returns every rent and occasional payment as one merged list
func (h *PaymentHandler) GetLedger(c *gin.Context) {
	entries, issues, err := h.mergedEntries()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
		"issues":  issues,
	})
}

// GetSummary rolls the merged ledger up into revenue totals. The current
// month is resolved against the configured server timezone.
func (h *PaymentHandler) GetSummary(c *gin.Context) {
	entries, issues, err := h.mergedEntries()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	summary, rollupIssues := ledger.Rollup(entries, time.Now(), h.loc)
	issues = append(issues, rollupIssues...)

	companyTotal, ownerPayouts, err := h.splitByOwnership(entries)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":       summary,
		"company_total": companyTotal,
		"owner_payouts": ownerPayouts,
		"issues":        issues,
	})
}

// mergedEntries assembles the full ledger from both payment streams.
// The three source tables are independent, so they are fetched in parallel.
func (h *PaymentHandler) mergedEntries() ([]ledger.Entry, []ledger.Issue, error) {
	var (
		rents    []models.Rent
		payments map[int64][]models.OccasionalPayment
		units    []models.Unit
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		rents, err = h.db.GetRents(database.RentFilters{})
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = h.db.GetOccasionalPaymentsGroupedByUnit()
		return err
	})
	g.Go(func() error {
		var err error
		units, err = h.db.GetUnits()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	names := make(map[int64]string, len(units))
	for _, u := range units {
		names[u.ID] = u.Name
	}

	entries := ledger.Merge(ledger.OccasionalRecords(payments), ledger.RentRecords(rents), names)
	return entries, []ledger.Issue{}, nil
}

// splitByOwnership divides ledger revenue between the company and unit
// owners using each unit's owner percentage. Units with no owner keep
// the full amount on the company side.
func (h *PaymentHandler) splitByOwnership(entries []ledger.Entry) (float64, map[int64]float64, error) {
	units, err := h.db.GetUnits()
	if err != nil {
		return 0, nil, err
	}
	byID := make(map[int64]models.Unit, len(units))
	for _, u := range units {
		byID[u.ID] = u
	}

	companyTotal, ownerPayouts := splitEntries(entries, byID)
	return companyTotal, ownerPayouts, nil
}

// splitEntries walks the ledger and apportions each amount. Malformed
// amounts count as zero, matching how the rollup treats them.
func splitEntries(entries []ledger.Entry, byID map[int64]models.Unit) (float64, map[int64]float64) {
	companyTotal := 0.0
	ownerPayouts := make(map[int64]float64)
	for _, e := range entries {
		amount := e.Amount
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			amount = 0
		}
		unit, ok := byID[e.UnitID]
		if !ok || unit.OwnerID == nil || unit.OwnerPercentage == nil {
			companyTotal += amount
			continue
		}
		ownerShare := amount * (*unit.OwnerPercentage / 100)
		ownerPayouts[*unit.OwnerID] += ownerShare
		companyTotal += amount - ownerShare
	}
	return companyTotal, ownerPayouts
}

func validPaymentCategory(c models.PaymentCategory) bool {
	switch c {
	case models.PaymentCategoryWifi, models.PaymentCategoryElectricity,
		models.PaymentCategoryWater, models.PaymentCategoryCleaning,
		models.PaymentCategoryMaintenance, models.PaymentCategoryRepair,
		models.PaymentCategoryOther:
		return true
	}
	return false
}
