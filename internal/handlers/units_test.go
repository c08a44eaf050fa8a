package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"property-admin/internal/events"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupSearchRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewUnitHandler(nil, nil, events.NewBus())
	r := gin.New()
	r.GET("/api/search", h.SearchUnits)
	r.POST("/api/search/advanced", h.AdvancedSearchUnits)
	r.GET("/api/search/facets", h.GetSearchFacets)
	return r
}

func TestSearchEndpointsUnavailableWithoutClient(t *testing.T) {
	r := setupSearchRouter()

	for _, tc := range []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/search?q=loft", ""},
		{http.MethodPost, "/api/search/advanced", `{"query":"loft"}`},
		{http.MethodGet, "/api/search/facets", ""},
	} {
		w := httptest.NewRecorder()
		var req *http.Request
		if tc.body != "" {
			req = httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
		} else {
			req = httptest.NewRequest(tc.method, tc.path, nil)
		}
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code, "%s %s", tc.method, tc.path)
	}
}
