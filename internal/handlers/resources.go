package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"property-admin/internal/database"
	"property-admin/internal/models"

	"github.com/gin-gonic/gin"
)

// ResourceHandler covers the flat CRUD resources: buildings, owners,
// tenants, contracts, maintenance requests and reviews. Mutations are
// recorded in the audit log.
type ResourceHandler struct {
	db *database.GormDB
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(db *database.GormDB) *ResourceHandler {
	return &ResourceHandler{db: db}
}

func (h *ResourceHandler) audit(entity string, id int64, action string) {
	if err := h.db.RecordAudit(entity, id, action, ""); err != nil {
		log.Printf("[Audit] failed to record %s %s %d: %v", action, entity, id, err)
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// ----- Buildings -----

func (h *ResourceHandler) ListBuildings(c *gin.Context) {
	buildings, err := h.db.GetBuildings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"buildings": buildings, "count": len(buildings)})
}

func (h *ResourceHandler) GetBuilding(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	building, err := h.db.GetBuildingByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
		return
	}
	c.JSON(http.StatusOK, building)
}

func (h *ResourceHandler) CreateBuilding(c *gin.Context) {
	var building models.Building
	if err := c.ShouldBindJSON(&building); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if building.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	building.ID = 0
	if err := h.db.CreateBuilding(&building); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit("building", building.ID, models.AuditActionCreated)
	c.JSON(http.StatusCreated, building)
}

func (h *ResourceHandler) UpdateBuilding(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates := pickAllowed(body, "name", "address", "city", "district", "floors", "notes")
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no updatable fields in request"})
		return
	}
	building, err := h.db.UpdateBuilding(id, updates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit("building", id, models.AuditActionUpdated)
	c.JSON(http.StatusOK, building)
}

func (h *ResourceHandler) DeleteBuilding(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.db.DeleteBuilding(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit("building", id, models.AuditActionDeleted)
	c.JSON(http.StatusOK, gin.H{"message": "building deleted", "id": id})
}

// ----- Owners -----

func (h *ResourceHandler) ListOwners(c *gin.Context) {
	owners, err := h.db.GetOwners()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"owners": owners, "count": len(owners)})
}

func (h *ResourceHandler) GetOwner(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	owner, err := h.db.GetOwnerByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "owner not found"})
		return
	}
	c.JSON(http.StatusOK, owner)
}

func (h *ResourceHandler) CreateOwner(c *gin.Context) {
	var owner models.Owner
	if err := c.ShouldBindJSON(&owner); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if owner.FirstName == "" || owner.LastName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "first_name and last_name are required"})
		return
	}
	owner.ID = 0
	if err := h.db.CreateOwner(&owner); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit("owner", owner.ID, models.AuditActionCreated)
	c.JSON(http.StatusCreated, owner)
}

func (h *ResourceHandler) UpdateOwner(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates := pickAllowed(body, "first_name", "last_name", "email", "phone", "iban", "notes")
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no updatable fields in request"})
		return
	}
	owner, err := h.db.UpdateOwner(id, updates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit("owner", id, models.AuditActionUpdated)
	c.JSON(http.StatusOK, owner)
}

func (h *ResourceHandler) DeleteOwner(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.db.DeleteOwner(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit("owner", id, models.AuditActionDeleted)
	c.JSON(http.StatusOK, gin.H{"message": "owner deleted", "id": id})
}

// ----- Tenants -----

func (h *ResourceHandler) ListTenants(c *gin.Context) {
	tenants, err := h.db.GetTenants()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tenants": tenants, "count": len(tenants)})
}

func (h *ResourceHandler) GetTenant(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tenant, err := h.db.GetTenantByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func (h *ResourceHandler) CreateTenant(c *gin.Context) {
	var tenant models.Tenant
	if err := c.ShouldBindJSON(&tenant); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if tenant.FirstName == "" || tenant.LastName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "first_name and last_name are required"})
		return
	}
	tenant.ID = 0
	if err := h.db.CreateTenant(&tenant); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit("tenant", tenant.ID, models.AuditActionCreated)
	c.JSON(http.StatusCreated, tenant)
}

func (h *ResourceHandler) UpdateTenant(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates := pickAllowed(body, "first_name", "last_name", "email", "phone", "id_number", "notes")
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no updatable fields in request"})
		return
	}
	tenant, err := h.db.UpdateTenant(id, updates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit("tenant", id, models.AuditActionUpdated)
	c.JSON(http.StatusOK, tenant)
}

func (h *ResourceHandler) DeleteTenant(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.db.DeleteTenant(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit("tenant", id, models.AuditActionDeleted)
	c.JSON(http.StatusOK, gin.H{"message": "tenant deleted", "id": id})
}

// ----- Contracts -----

func (h *ResourceHandler) ListContracts(c *gin.Context) {
	contracts, err := h.db.GetContracts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contracts": contracts, "count": len(contracts)})
}

func (h *ResourceHandler) GetContract(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	contract, err := h.db.GetContractByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "contract not found"})
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *ResourceHandler) CreateContract(c *gin.Context) {
	var contract models.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if contract.UnitID == 0 || contract.TenantID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit_id and tenant_id are required"})
		return
	}
	for field, value := range map[string]string{"start_date": contract.StartDate, "end_date": contract.EndDate} {
		if _, err := time.Parse(models.DateLayout, value); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": field + " must be formatted as 2006-01-02"})
			return
		}
	}
	contract.ID = 0
	if err := h.db.CreateContract(&contract); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit("contract", contract.ID, models.AuditActionCreated)
	c.JSON(http.StatusCreated, contract)
}

func (h *ResourceHandler) UpdateContract(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates := pickAllowed(body, "unit_id", "tenant_id", "start_date", "end_date", "deposit", "terms")
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no updatable fields in request"})
		return
	}
	for _, field := range []string{"start_date", "end_date"} {
		if raw, ok := updates[field]; ok {
			s, _ := raw.(string)
			if _, err := time.Parse(models.DateLayout, s); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": field + " must be formatted as 2006-01-02"})
				return
			}
		}
	}
	contract, err := h.db.UpdateContract(id, updates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit("contract", id, models.AuditActionUpdated)
	c.JSON(http.StatusOK, contract)
}

func (h *ResourceHandler) DeleteContract(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.db.DeleteContract(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit("contract", id, models.AuditActionDeleted)
	c.JSON(http.StatusOK, gin.H{"message": "contract deleted", "id": id})
}

// ----- Maintenance requests -----

func (h *ResourceHandler) ListMaintenanceRequests(c *gin.Context) {
	requests, err := h.db.GetMaintenanceRequests()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests, "count": len(requests)})
}

func (h *ResourceHandler) GetMaintenanceRequest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	request, err := h.db.GetMaintenanceRequestByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "maintenance request not found"})
		return
	}
	c.JSON(http.StatusOK, request)
}

func (h *ResourceHandler) CreateMaintenanceRequest(c *gin.Context) {
	var request models.MaintenanceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.UnitID == 0 || request.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit_id and title are required"})
		return
	}
	if request.Priority != "" && !validMaintenancePriority(request.Priority) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "priority must be low, normal, high or urgent"})
		return
	}
	request.ID = 0
	if err := h.db.CreateMaintenanceRequest(&request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit("maintenance_request", request.ID, models.AuditActionCreated)
	c.JSON(http.StatusCreated, request)
}

func (h *ResourceHandler) UpdateMaintenanceRequest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates := pickAllowed(body, "title", "description", "priority", "status")
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no updatable fields in request"})
		return
	}
	if raw, ok := updates["priority"]; ok {
		s, _ := raw.(string)
		if !validMaintenancePriority(models.MaintenancePriority(s)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "priority must be low, normal, high or urgent"})
			return
		}
	}
	if raw, ok := updates["status"]; ok {
		s, _ := raw.(string)
		if !validMaintenanceStatus(models.MaintenanceStatus(s)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be open, in_progress or resolved"})
			return
		}
		if models.MaintenanceStatus(s) == models.MaintenanceStatusResolved {
			updates["resolved_at"] = time.Now()
		}
	}
	request, err := h.db.UpdateMaintenanceRequest(id, updates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit("maintenance_request", id, models.AuditActionUpdated)
	c.JSON(http.StatusOK, request)
}

func (h *ResourceHandler) DeleteMaintenanceRequest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.db.DeleteMaintenanceRequest(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit("maintenance_request", id, models.AuditActionDeleted)
	c.JSON(http.StatusOK, gin.H{"message": "maintenance request deleted", "id": id})
}

// ----- Reviews -----

func (h *ResourceHandler) ListReviews(c *gin.Context) {
	reviews, err := h.db.GetReviews()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "count": len(reviews)})
}

func (h *ResourceHandler) GetReview(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	review, err := h.db.GetReviewByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ResourceHandler) CreateReview(c *gin.Context) {
	var review models.Review
	if err := c.ShouldBindJSON(&review); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if review.UnitID == 0 || review.TenantID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit_id and tenant_id are required"})
		return
	}
	if review.Rating < 1 || review.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
		return
	}
	review.ID = 0
	if err := h.db.CreateReview(&review); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit("review", review.ID, models.AuditActionCreated)
	c.JSON(http.StatusCreated, review)
}

func (h *ResourceHandler) UpdateReview(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates := pickAllowed(body, "rating", "comment")
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no updatable fields in request"})
		return
	}
	if raw, ok := updates["rating"]; ok {
		rating, _ := raw.(float64)
		if rating < 1 || rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
			return
		}
	}
	review, err := h.db.UpdateReview(id, updates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit("review", id, models.AuditActionUpdated)
	c.JSON(http.StatusOK, review)
}

func (h *ResourceHandler) DeleteReview(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.db.DeleteReview(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit("review", id, models.AuditActionDeleted)
	c.JSON(http.StatusOK, gin.H{"message": "review deleted", "id": id})
}

func validMaintenancePriority(p models.MaintenancePriority) bool {
	switch p {
	case models.MaintenancePriorityLow, models.MaintenancePriorityNormal,
		models.MaintenancePriorityHigh, models.MaintenancePriorityUrgent:
		return true
	}
	return false
}

func validMaintenanceStatus(s models.MaintenanceStatus) bool {
	switch s {
	case models.MaintenanceStatusOpen, models.MaintenanceStatusInProgress, models.MaintenanceStatusResolved:
		return true
	}
	return false
}
