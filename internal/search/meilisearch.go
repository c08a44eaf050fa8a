package search

import (
	"fmt"

	"property-admin/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

type SearchClient struct {
	client *meilisearch.Client
	index  string
}

func NewSearchClient(host, apiKey string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &SearchClient{
		client: client,
		index:  "units",
	}
}

// InitIndex initializes the Meilisearch index
func (s *SearchClient) InitIndex() error {
	// Create index if it doesn't exist
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	// Configure searchable attributes
	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"name",
		"city",
		"district",
		"notes",
	})
	if err != nil {
		return err
	}

	// Configure filterable attributes
	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"id",
		"status",
		"city",
		"district",
		"price_per_day",
		"owner_id",
		"building_id",
	})
	if err != nil {
		return err
	}

	// Configure sortable attributes
	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"price_per_day",
		"created_at",
	})
	if err != nil {
		return err
	}

	return nil
}

// IndexUnit indexes a single unit
func (s *SearchClient) IndexUnit(unit *models.Unit) error {
	_, err := s.client.Index(s.index).AddDocuments([]models.Unit{*unit})
	return err
}

// IndexUnits indexes multiple units
func (s *SearchClient) IndexUnits(units []models.Unit) error {
	if len(units) == 0 {
		return nil
	}
	_, err := s.client.Index(s.index).AddDocuments(units)
	return err
}

// DeleteUnit removes a unit from the index
func (s *SearchClient) DeleteUnit(id int64) error {
	_, err := s.client.Index(s.index).DeleteDocument(fmt.Sprintf("%d", id))
	return err
}

// SearchRequest represents advanced search parameters
type SearchRequest struct {
	Query        string
	Limit        int64
	Offset       int64
	Filter       []string
	Sort         []string
	FacetsFilter []string
}

// SearchResult represents search results with facets
type SearchResult struct {
	Hits           []models.Unit
	TotalHits      int64
	Facets         map[string]interface{}
	ProcessingTime int64
}

// Search searches for units with basic options
func (s *SearchClient) Search(query string, limit int64) ([]models.Unit, error) {
	result, err := s.AdvancedSearch(SearchRequest{
		Query: query,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}
	return result.Hits, nil
}

// AdvancedSearch performs advanced search with facets and filters
func (s *SearchClient) AdvancedSearch(req SearchRequest) (*SearchResult, error) {
	if req.Limit == 0 {
		req.Limit = 20
	}

	searchReq := &meilisearch.SearchRequest{
		Limit:  req.Limit,
		Offset: req.Offset,
	}

	// Add filters
	if len(req.Filter) > 0 {
		filterStr := ""
		for i, f := range req.Filter {
			if i > 0 {
				filterStr += " AND "
			}
			filterStr += f
		}
		searchReq.Filter = filterStr
	}

	// Add sorting
	if len(req.Sort) > 0 {
		searchReq.Sort = req.Sort
	}

	// Add facets
	if len(req.FacetsFilter) > 0 {
		searchReq.Facets = req.FacetsFilter
	}

	searchRes, err := s.client.Index(s.index).Search(req.Query, searchReq)
	if err != nil {
		return nil, err
	}

	units := make([]models.Unit, 0, len(searchRes.Hits))
	for _, hit := range searchRes.Hits {
		units = append(units, parseUnitFromHit(hit))
	}

	var facets map[string]interface{}
	if searchRes.FacetDistribution != nil {
		facets, _ = searchRes.FacetDistribution.(map[string]interface{})
	}

	result := &SearchResult{
		Hits:           units,
		TotalHits:      searchRes.EstimatedTotalHits,
		Facets:         facets,
		ProcessingTime: searchRes.ProcessingTimeMs,
	}

	return result, nil
}

// parseUnitFromHit converts a search hit to a Unit
func parseUnitFromHit(hit interface{}) models.Unit {
	hitMap, ok := hit.(map[string]interface{})
	if !ok {
		return models.Unit{}
	}

	unit := models.Unit{
		Name:     getString(hitMap, "name"),
		City:     getString(hitMap, "city"),
		District: getString(hitMap, "district"),
		Notes:    getString(hitMap, "notes"),
		Status:   models.UnitStatus(getString(hitMap, "status")),
	}

	// Parse numeric fields
	if id, ok := hitMap["id"].(float64); ok {
		unit.ID = int64(id)
	}
	if buildingID, ok := hitMap["building_id"].(float64); ok {
		v := int64(buildingID)
		unit.BuildingID = &v
	}
	if price, ok := hitMap["price_per_day"].(float64); ok {
		unit.PricePerDay = &price
	}
	if ownerID, ok := hitMap["owner_id"].(float64); ok {
		v := int64(ownerID)
		unit.OwnerID = &v
	}
	if pct, ok := hitMap["owner_percentage"].(float64); ok {
		unit.OwnerPercentage = &pct
	}

	return unit
}

// getString safely extracts a string from map
func getString(m map[string]interface{}, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}

// GetFacets retrieves facet distribution for specified fields
func (s *SearchClient) GetFacets(facets []string) (map[string]interface{}, error) {
	searchRes, err := s.client.Index(s.index).Search("", &meilisearch.SearchRequest{
		Limit:  0,
		Facets: facets,
	})
	if err != nil {
		return nil, err
	}

	if searchRes.FacetDistribution != nil {
		if facetMap, ok := searchRes.FacetDistribution.(map[string]interface{}); ok {
			return facetMap, nil
		}
	}
	return map[string]interface{}{}, nil
}
