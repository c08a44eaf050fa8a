package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"property-admin/internal/events"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The create path validates the request body before touching storage,
// so rejection tests run against a handler without a database.
func setupRentRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewRentHandler(nil, events.NewBus())
	r := gin.New()
	r.POST("/api/rents", h.CreateRent)
	return r
}

func postRent(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rents", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateRentRejectsInvertedDateRange(t *testing.T) {
	r := setupRentRouter()

	w := postRent(t, r, `{
		"unit_id": 1, "tenant_id": 1, "total_amount": 1200,
		"rent_start": "2026-03-10", "rent_end": "2026-03-01"
	}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "rent_end must not be before rent_start")
}

func TestCreateRentAcceptsSingleDayRange(t *testing.T) {
	r := setupRentRouter()

	// Equal start and end is a valid one-day rent; the handler must get
	// past date validation (it then fails on the missing unit lookup,
	// which also returns 400 but with a different message).
	w := postRent(t, r, `{
		"unit_id": 1, "tenant_id": 1, "total_amount": 100,
		"rent_start": "2026-03-10", "rent_end": "2026-03-10"
	}`)

	assert.NotContains(t, w.Body.String(), "rent_end must not be before rent_start")
}

func TestCreateRentRejectsMalformedDates(t *testing.T) {
	r := setupRentRouter()

	w := postRent(t, r, `{
		"unit_id": 1, "tenant_id": 1, "total_amount": 1200,
		"rent_start": "10/03/2026", "rent_end": "2026-03-20"
	}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "rent_start must be formatted as 2006-01-02")

	w = postRent(t, r, `{
		"unit_id": 1, "tenant_id": 1, "total_amount": 1200,
		"rent_start": "2026-03-10", "rent_end": "not-a-date"
	}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "rent_end must be formatted as 2006-01-02")
}

func TestCreateRentRejectsUnknownPaymentStatus(t *testing.T) {
	r := setupRentRouter()

	w := postRent(t, r, `{
		"unit_id": 1, "tenant_id": 1, "total_amount": 1200,
		"rent_start": "2026-03-01", "rent_end": "2026-03-10",
		"payment_status": "refunded"
	}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "payment_status must be paid, pending or overdue")
}

func TestCreateRentRejectsMissingRequiredFields(t *testing.T) {
	r := setupRentRouter()

	w := postRent(t, r, `{"unit_id": 1}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func filterContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/rents?"+rawQuery, nil)
	return c
}

func TestParseRentFiltersShortNames(t *testing.T) {
	filters, err := parseRentFilters(filterContext(t, "unit=5&tenant=9"))
	require.NoError(t, err)
	require.NotNil(t, filters.UnitID)
	require.NotNil(t, filters.TenantID)
	assert.Equal(t, int64(5), *filters.UnitID)
	assert.Equal(t, int64(9), *filters.TenantID)
}

func TestParseRentFiltersLongAliases(t *testing.T) {
	filters, err := parseRentFilters(filterContext(t, "unit_id=5&tenant_id=9"))
	require.NoError(t, err)
	require.NotNil(t, filters.UnitID)
	require.NotNil(t, filters.TenantID)
	assert.Equal(t, int64(5), *filters.UnitID)
	assert.Equal(t, int64(9), *filters.TenantID)
}

func TestParseRentFiltersShortNameWins(t *testing.T) {
	filters, err := parseRentFilters(filterContext(t, "unit=5&unit_id=7"))
	require.NoError(t, err)
	require.NotNil(t, filters.UnitID)
	assert.Equal(t, int64(5), *filters.UnitID)
}

func TestParseRentFiltersRejectsNonNumeric(t *testing.T) {
	_, err := parseRentFilters(filterContext(t, "unit=abc"))
	assert.Error(t, err)

	_, err = parseRentFilters(filterContext(t, "tenant_id=abc"))
	assert.Error(t, err)
}

func TestParseRentFiltersEmpty(t *testing.T) {
	filters, err := parseRentFilters(filterContext(t, ""))
	require.NoError(t, err)
	assert.Nil(t, filters.UnitID)
	assert.Nil(t, filters.TenantID)
}
