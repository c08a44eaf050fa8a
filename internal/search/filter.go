package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"property-admin/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

type FilterParams struct {
	Query    string
	MinPrice *float64
	MaxPrice *float64
	Statuses []string
	Cities   []string
	SortBy   string
	Limit    int64
}

// FilterSearch performs advanced search with filters
func (s *SearchClient) FilterSearch(params FilterParams) ([]models.Unit, error) {
	var filters []string

	// Price range filter
	if params.MinPrice != nil {
		filters = append(filters, fmt.Sprintf("price_per_day >= %f", *params.MinPrice))
	}
	if params.MaxPrice != nil {
		filters = append(filters, fmt.Sprintf("price_per_day <= %f", *params.MaxPrice))
	}

	// Status filter
	if len(params.Statuses) > 0 {
		statusFilters := make([]string, len(params.Statuses))
		for i, status := range params.Statuses {
			statusFilters[i] = fmt.Sprintf("status = '%s'", status)
		}
		filters = append(filters, fmt.Sprintf("(%s)", strings.Join(statusFilters, " OR ")))
	}

	// City filter
	if len(params.Cities) > 0 {
		cityFilters := make([]string, len(params.Cities))
		for i, city := range params.Cities {
			cityFilters[i] = fmt.Sprintf("city = '%s'", city)
		}
		filters = append(filters, fmt.Sprintf("(%s)", strings.Join(cityFilters, " OR ")))
	}

	// Combine filters
	var filterStr string
	if len(filters) > 0 {
		filterStr = strings.Join(filters, " AND ")
	}

	// Determine sort order
	var sort []string
	if params.SortBy != "" {
		sort = []string{params.SortBy}
	}

	// Default limit
	if params.Limit == 0 {
		params.Limit = 20
	}

	// Perform search
	searchReq := &meilisearch.SearchRequest{
		Limit: params.Limit,
	}

	if filterStr != "" {
		searchReq.Filter = filterStr
	}

	if len(sort) > 0 {
		searchReq.Sort = sort
	}

	searchRes, err := s.client.Index(s.index).Search(params.Query, searchReq)
	if err != nil {
		return nil, err
	}

	// Convert hits to units
	var units []models.Unit
	for _, hit := range searchRes.Hits {
		// Convert hit to JSON then to Unit struct
		hitJSON, err := json.Marshal(hit)
		if err != nil {
			continue
		}

		var unit models.Unit
		if err := json.Unmarshal(hitJSON, &unit); err != nil {
			continue
		}

		units = append(units, unit)
	}

	return units, nil
}
