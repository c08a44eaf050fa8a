package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"property-admin/internal/database"
	"property-admin/internal/events"
	"property-admin/internal/models"
	"property-admin/internal/search"

	"github.com/gin-gonic/gin"
)

// UnitHandler handles unit CRUD and search requests
type UnitHandler struct {
	db     *database.GormDB
	search *search.SearchClient
	bus    *events.Bus
}

// NewUnitHandler creates a new unit handler
func NewUnitHandler(db *database.GormDB, searchClient *search.SearchClient, bus *events.Bus) *UnitHandler {
	return &UnitHandler{db: db, search: searchClient, bus: bus}
}

// ListUnits returns all units
func (h *UnitHandler) ListUnits(c *gin.Context) {
	units, err := h.db.GetUnits()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"units": units,
		"count": len(units),
	})
}

// GetUnit returns a single unit by id
func (h *UnitHandler) GetUnit(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit id"})
		return
	}

	unit, err := h.db.GetUnitByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unit not found"})
		return
	}

	c.JSON(http.StatusOK, unit)
}

type unitRequest struct {
	BuildingID      *int64   `json:"building_id"`
	Name            string   `json:"name" binding:"required"`
	City            string   `json:"city"`
	District        string   `json:"district"`
	PricePerDay     *float64 `json:"price_per_day"`
	OwnerID         *int64   `json:"owner_id"`
	OwnerPercentage *float64 `json:"owner_percentage"`
	Status          string   `json:"status"`
	Notes           string   `json:"notes"`
}

// CreateUnit creates a new unit
func (h *UnitHandler) CreateUnit(c *gin.Context) {
	var req unitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.UnitStatus(req.Status)
	if status == "" {
		status = models.UnitStatusAvailable
	}
	if !validUnitStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be available, occupied or maintenance"})
		return
	}

	unit := models.Unit{
		BuildingID:      req.BuildingID,
		Name:            req.Name,
		City:            req.City,
		District:        req.District,
		PricePerDay:     req.PricePerDay,
		OwnerID:         req.OwnerID,
		OwnerPercentage: req.OwnerPercentage,
		Status:          status,
		Notes:           req.Notes,
	}

	if err := h.db.CreateUnit(&unit); err != nil {
		log.Printf("[Units] create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.bus.Publish(events.Event{Topic: events.TopicUnitCreated, Entity: "unit", EntityID: unit.ID, At: time.Now()})
	c.JSON(http.StatusCreated, unit)
}

// UpdateUnit applies a partial update to a unit
func (h *UnitHandler) UpdateUnit(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit id"})
		return
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := pickAllowed(body, "building_id", "name", "city", "district",
		"price_per_day", "owner_id", "owner_percentage", "status", "notes")
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no updatable fields in request"})
		return
	}

	if raw, ok := updates["status"]; ok {
		status, _ := raw.(string)
		if !validUnitStatus(models.UnitStatus(status)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be available, occupied or maintenance"})
			return
		}
	}

	unit, err := h.db.UpdateUnit(id, updates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.bus.Publish(events.Event{Topic: events.TopicUnitUpdated, Entity: "unit", EntityID: id, At: time.Now()})
	c.JSON(http.StatusOK, unit)
}

// DeleteUnit removes a unit
func (h *UnitHandler) DeleteUnit(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit id"})
		return
	}

	if err := h.db.DeleteUnit(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.bus.Publish(events.Event{Topic: events.TopicUnitDeleted, Entity: "unit", EntityID: id, At: time.Now()})
	c.JSON(http.StatusOK, gin.H{"message": "unit deleted", "id": id})
}

// SearchUnits searches the Meilisearch index
func (h *UnitHandler) SearchUnits(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not configured"})
		return
	}

	query := c.Query("q")
	limitStr := c.DefaultQuery("limit", "20")
	limit, _ := strconv.ParseInt(limitStr, 10, 64)

	params := search.FilterParams{
		Query:  query,
		SortBy: c.Query("sort"),
		Limit:  limit,
	}
	if v := c.Query("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			params.MinPrice = &f
		}
	}
	if v := c.Query("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			params.MaxPrice = &f
		}
	}
	if v := c.QueryArray("status"); len(v) > 0 {
		params.Statuses = v
	}
	if v := c.QueryArray("city"); len(v) > 0 {
		params.Cities = v
	}

	var units []models.Unit
	var err error
	if params.MinPrice == nil && params.MaxPrice == nil &&
		len(params.Statuses) == 0 && len(params.Cities) == 0 && params.SortBy == "" {
		units, err = h.search.Search(query, limit)
	} else {
		units, err = h.search.FilterSearch(params)
	}
	if err != nil {
		log.Printf("[Search API] unit search failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"units": units,
		"count": len(units),
		"query": query,
	})
}

type advancedSearchRequest struct {
	Query    string   `json:"query"`
	Limit    int64    `json:"limit"`
	Offset   int64    `json:"offset"`
	MinPrice *float64 `json:"min_price"`
	MaxPrice *float64 `json:"max_price"`
	Statuses []string `json:"statuses"`
	Cities   []string `json:"cities"`
	Sort     string   `json:"sort"` // "price_asc", "price_desc", "newest"
	Facets   []string `json:"facets"`
}

// AdvancedSearchUnits performs a search with filters, sorting and facets
func (h *UnitHandler) AdvancedSearchUnits(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not configured"})
		return
	}

	var reqBody advancedSearchRequest
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filters := []string{}
	if reqBody.MinPrice != nil {
		filters = append(filters, fmt.Sprintf("price_per_day >= %f", *reqBody.MinPrice))
	}
	if reqBody.MaxPrice != nil {
		filters = append(filters, fmt.Sprintf("price_per_day <= %f", *reqBody.MaxPrice))
	}
	if len(reqBody.Statuses) > 0 {
		statusFilters := make([]string, len(reqBody.Statuses))
		for i, s := range reqBody.Statuses {
			statusFilters[i] = fmt.Sprintf("status = '%s'", s)
		}
		filters = append(filters, "("+strings.Join(statusFilters, " OR ")+")")
	}
	if len(reqBody.Cities) > 0 {
		cityFilters := make([]string, len(reqBody.Cities))
		for i, city := range reqBody.Cities {
			cityFilters[i] = fmt.Sprintf("city = '%s'", city)
		}
		filters = append(filters, "("+strings.Join(cityFilters, " OR ")+")")
	}

	sortConditions := []string{}
	switch reqBody.Sort {
	case "price_asc":
		sortConditions = append(sortConditions, "price_per_day:asc")
	case "price_desc":
		sortConditions = append(sortConditions, "price_per_day:desc")
	case "newest":
		sortConditions = append(sortConditions, "created_at:desc")
	}

	facets := reqBody.Facets
	if len(facets) == 0 {
		facets = []string{"status", "city"}
	}

	result, err := h.search.AdvancedSearch(search.SearchRequest{
		Query:        reqBody.Query,
		Limit:        reqBody.Limit,
		Offset:       reqBody.Offset,
		Filter:       filters,
		Sort:         sortConditions,
		FacetsFilter: facets,
	})
	if err != nil {
		log.Printf("[Search API] advanced search failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hits":            result.Hits,
		"total_hits":      result.TotalHits,
		"facets":          result.Facets,
		"processing_time": result.ProcessingTime,
		"query":           reqBody.Query,
		"filters":         filters,
	})
}

// GetSearchFacets returns facet distributions for the unit index
func (h *UnitHandler) GetSearchFacets(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not configured"})
		return
	}

	facetsParam := c.DefaultQuery("facets", "status,city")
	facets := strings.Split(facetsParam, ",")

	facetDist, err := h.search.GetFacets(facets)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"facets": facetDist,
	})
}

// ReindexUnits rebuilds the search index from the database
func (h *UnitHandler) ReindexUnits(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not configured"})
		return
	}

	units, err := h.db.GetUnits()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.search.IndexUnits(units); err != nil {
		log.Printf("[Search API] reindex failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "reindex started", "count": len(units)})
}

func validUnitStatus(s models.UnitStatus) bool {
	switch s {
	case models.UnitStatusAvailable, models.UnitStatusOccupied, models.UnitStatusMaintenance:
		return true
	}
	return false
}

// pickAllowed copies only the whitelisted keys from a JSON body
func pickAllowed(body map[string]interface{}, keys ...string) map[string]interface{} {
	updates := make(map[string]interface{})
	for _, k := range keys {
		if v, ok := body[k]; ok {
			updates[k] = v
		}
	}
	return updates
}
