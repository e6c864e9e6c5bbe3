package planner

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routepilot/routepilot/internal/directions"
	"github.com/routepilot/routepilot/internal/navexport"
	"github.com/routepilot/routepilot/internal/routestore"
)

func newTestRouter(engine Engine, history History, navigator Navigator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	service := NewService(engine, history, navigator, directions.UnitsImperial)
	NewHandler(service).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPlanRouteEndpoint(t *testing.T) {
	engine := &fakeEngine{route: engineRouteFixture()}
	router := newTestRouter(engine, &fakeHistory{}, &fakeNavigator{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/routes/plan", gin.H{
		"origin":      "100 Main St",
		"destination": "300 Pine Rd",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_distance":"1.9 mi"`)
}

func TestPlanRouteEndpointMissingOrigin(t *testing.T) {
	router := newTestRouter(&fakeEngine{}, &fakeHistory{}, &fakeNavigator{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/routes/plan", gin.H{
		"destination": "300 Pine Rd",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanRouteEndpointRejectsBadMode(t *testing.T) {
	router := newTestRouter(&fakeEngine{}, &fakeHistory{}, &fakeNavigator{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/routes/plan", gin.H{
		"origin":      "a",
		"destination": "b",
		"mode":        "teleport",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanRouteEndpointErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", &directions.ValidationError{Reason: "bad"}, http.StatusBadRequest},
		{"no route", directions.ErrNoData, http.StatusNotFound},
		{"network", &directions.NetworkError{Err: assert.AnError}, http.StatusServiceUnavailable},
		{"engine rejection", &directions.APIError{Status: "REQUEST_DENIED"}, http.StatusBadGateway},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeEngine{err: tt.err}, &fakeHistory{}, &fakeNavigator{})

			w := doJSON(t, router, http.MethodPost, "/api/v1/routes/plan", gin.H{
				"origin":      "a",
				"destination": "b",
			})

			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestListRoutesEndpoint(t *testing.T) {
	history := &fakeHistory{saved: []routestore.SavedRoute{{ID: "r1", Name: "commute"}}}
	router := newTestRouter(&fakeEngine{}, history, &fakeNavigator{})

	w := doJSON(t, router, http.MethodGet, "/api/v1/routes", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "commute")
}

func TestUpdateRouteEndpoint(t *testing.T) {
	history := &fakeHistory{saved: []routestore.SavedRoute{{ID: "r1", Name: "old"}}}
	router := newTestRouter(&fakeEngine{}, history, &fakeNavigator{})

	w := doJSON(t, router, http.MethodPatch, "/api/v1/routes/r1", gin.H{"name": "new"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "new", history.saved[0].Name)
}

func TestUpdateRouteEndpointNotFound(t *testing.T) {
	router := newTestRouter(&fakeEngine{}, &fakeHistory{}, &fakeNavigator{})

	w := doJSON(t, router, http.MethodPatch, "/api/v1/routes/missing", gin.H{"favorite": true})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateRouteEndpointEmptyBody(t *testing.T) {
	history := &fakeHistory{saved: []routestore.SavedRoute{{ID: "r1"}}}
	router := newTestRouter(&fakeEngine{}, history, &fakeNavigator{})

	w := doJSON(t, router, http.MethodPatch, "/api/v1/routes/r1", gin.H{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteRouteEndpoint(t *testing.T) {
	history := &fakeHistory{saved: []routestore.SavedRoute{{ID: "r1"}}}
	router := newTestRouter(&fakeEngine{}, history, &fakeNavigator{})

	w := doJSON(t, router, http.MethodDelete, "/api/v1/routes/r1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/routes/r1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportRouteEndpointBySavedID(t *testing.T) {
	history := &fakeHistory{saved: []routestore.SavedRoute{{ID: "r1", Name: "commute"}}}
	navigator := &fakeNavigator{result: navexport.ExportResult{Success: true, Message: "Route opened in Google Maps"}}
	router := newTestRouter(&fakeEngine{}, history, navigator)

	w := doJSON(t, router, http.MethodPost, "/api/v1/routes/export", gin.H{
		"target":   "google_maps",
		"route_id": "r1",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, navexport.TargetGoogleMaps, navigator.lastKey)
	assert.Contains(t, w.Body.String(), "Route opened in Google Maps")
}

func TestExportRouteEndpointUnknownID(t *testing.T) {
	router := newTestRouter(&fakeEngine{}, &fakeHistory{}, &fakeNavigator{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/routes/export", gin.H{
		"target":   "waze",
		"route_id": "missing",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportRouteEndpointRequiresRoute(t *testing.T) {
	router := newTestRouter(&fakeEngine{}, &fakeHistory{}, &fakeNavigator{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/routes/export", gin.H{
		"target": "waze",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTargetsEndpoint(t *testing.T) {
	router := newTestRouter(&fakeEngine{}, &fakeHistory{}, &fakeNavigator{})

	w := doJSON(t, router, http.MethodGet, "/api/v1/navigation/targets", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "google_maps")
	assert.Contains(t, w.Body.String(), `"multi_waypoint":true`)
}

func TestListTargetsEndpointPlatformFilter(t *testing.T) {
	router := newTestRouter(&fakeEngine{}, &fakeHistory{}, &fakeNavigator{})

	w := doJSON(t, router, http.MethodGet, "/api/v1/navigation/targets?platform=ios", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "apple_maps")

	w = doJSON(t, router, http.MethodGet, "/api/v1/navigation/targets?platform=web", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "waze")
	assert.Contains(t, w.Body.String(), "google_maps")
}

func TestListTargetsEndpointRejectsBadPlatform(t *testing.T) {
	router := newTestRouter(&fakeEngine{}, &fakeHistory{}, &fakeNavigator{})

	w := doJSON(t, router, http.MethodGet, "/api/v1/navigation/targets?platform=boat", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportRouteEndpointInlineRoute(t *testing.T) {
	navigator := &fakeNavigator{result: navexport.ExportResult{Success: true}}
	router := newTestRouter(&fakeEngine{}, &fakeHistory{}, navigator)

	w := doJSON(t, router, http.MethodPost, "/api/v1/routes/export", gin.H{
		"target": "waze",
		"route": gin.H{
			"stops": []gin.H{
				{"latitude": 29.7604, "longitude": -95.3698},
				{"latitude": 29.7800, "longitude": -95.3900},
			},
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, navexport.TargetWaze, navigator.lastKey)
}

func TestExportRouteEndpointRejectsBadCoordinates(t *testing.T) {
	router := newTestRouter(&fakeEngine{}, &fakeHistory{}, &fakeNavigator{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/routes/export", gin.H{
		"target": "waze",
		"route": gin.H{
			"stops": []gin.H{
				{"latitude": 123.0, "longitude": -95.3698},
			},
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
