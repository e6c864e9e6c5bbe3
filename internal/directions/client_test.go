package directions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okResponse = `{
	"status": "OK",
	"routes": [{
		"legs": [{
			"start_address": "100 Main St, Houston, TX",
			"end_address": "300 Pine Rd, Houston, TX",
			"start_location": {"lat": 29.7604, "lng": -95.3698},
			"end_location": {"lat": 29.7800, "lng": -95.3900},
			"distance": {"text": "1.9 mi", "value": 3000},
			"duration": {"text": "5 mins", "value": 300},
			"duration_in_traffic": {"text": "6 mins", "value": 360}
		}],
		"overview_polyline": {"points": "_p~iF~ps|U"},
		"waypoint_order": []
	}]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, TimeoutSeconds: 5})
	return client, server
}

func TestComputeRoute(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, okResponse)
	})

	route, err := client.ComputeRoute(context.Background(), &RouteRequest{
		Origin:      "100 Main St",
		Destination: "300 Pine Rd",
	})

	require.NoError(t, err)
	require.Len(t, route.Legs, 1)
	assert.Equal(t, 3000, route.Legs[0].DistanceMeters)
	assert.Equal(t, 300, route.Legs[0].DurationSeconds)
	assert.Equal(t, 360, route.Legs[0].DurationInTraffic)
	assert.Equal(t, 29.7604, route.Legs[0].StartLocation.Latitude)
	assert.Equal(t, "_p~iF~ps|U", route.EncodedPolyline)
}

func TestComputeRouteValidatesBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, okResponse)
	})

	tooMany := make([]string, MaxStops+1)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("stop %d", i)
	}

	tests := []struct {
		name string
		req  *RouteRequest
	}{
		{"empty origin", &RouteRequest{Origin: "  ", Destination: "b"}},
		{"empty destination", &RouteRequest{Origin: "a", Destination: ""}},
		{"too many stops", &RouteRequest{Origin: "a", Destination: "b", Stops: tooMany}},
		{"blank stop", &RouteRequest{Origin: "a", Destination: "b", Stops: []string{"c", " "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.ComputeRoute(context.Background(), tt.req)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}

	assert.Equal(t, int32(0), calls.Load(), "validation failures must not reach the network")
}

func TestComputeRouteEngineStatusError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "REQUEST_DENIED", "error_message": "API key invalid"}`)
	})

	_, err := client.ComputeRoute(context.Background(), &RouteRequest{Origin: "a", Destination: "b"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAPI)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "REQUEST_DENIED", apiErr.Status)
	assert.Contains(t, apiErr.Message, "API key invalid")
}

func TestComputeRouteZeroResults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "ZERO_RESULTS", "routes": []}`)
	})

	_, err := client.ComputeRoute(context.Background(), &RouteRequest{Origin: "a", Destination: "b"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "ZERO_RESULTS", apiErr.Status)
}

func TestComputeRouteNoRoutes(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "OK", "routes": []}`)
	})

	_, err := client.ComputeRoute(context.Background(), &RouteRequest{Origin: "a", Destination: "b"})

	assert.ErrorIs(t, err, ErrNoData)
}

func TestComputeRouteHTTPError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	_, err := client.ComputeRoute(context.Background(), &RouteRequest{Origin: "a", Destination: "b"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "HTTP_500", apiErr.Status)
}

func TestComputeRouteNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, TimeoutSeconds: 1})
	server.Close()

	_, err := client.ComputeRoute(context.Background(), &RouteRequest{Origin: "a", Destination: "b"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)

	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestComputeRouteMalformedResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": `)
	})

	_, err := client.ComputeRoute(context.Background(), &RouteRequest{Origin: "a", Destination: "b"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_RESPONSE", apiErr.Status)
}

func TestComputeRouteRequestParams(t *testing.T) {
	var query map[string][]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		fmt.Fprint(w, okResponse)
	})

	_, err := client.ComputeRoute(context.Background(), &RouteRequest{
		Origin:            "  100 Main St  ",
		Destination:       "300 Pine Rd",
		Stops:             []string{"200 Oak Ave", "250 Elm St"},
		OptimizeWaypoints: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "100 Main St", query["origin"][0])
	assert.Equal(t, "300 Pine Rd", query["destination"][0])
	assert.Equal(t, "optimize:true|200 Oak Ave|250 Elm St", query["waypoints"][0])
	assert.Equal(t, "test-key", query["key"][0])
	assert.Equal(t, "driving", query["mode"][0], "mode defaults to driving")
	assert.Equal(t, "imperial", query["units"][0], "units default to imperial")
	assert.NotContains(t, query, "departure_time")
}

func TestComputeRouteWaypointsWithoutOptimization(t *testing.T) {
	var query map[string][]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		fmt.Fprint(w, okResponse)
	})

	_, err := client.ComputeRoute(context.Background(), &RouteRequest{
		Origin:      "a",
		Destination: "b",
		Stops:       []string{"c", "d"},
	})
	require.NoError(t, err)

	assert.Equal(t, "c|d", query["waypoints"][0])
}

func TestComputeRouteTrafficAware(t *testing.T) {
	var query map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		fmt.Fprint(w, okResponse)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, TrafficAware: true})

	_, err := client.ComputeRoute(context.Background(), &RouteRequest{
		Origin:      "a",
		Destination: "b",
		Mode:        ModeWalking,
		Units:       UnitsMetric,
	})
	require.NoError(t, err)

	assert.Equal(t, "now", query["departure_time"][0])
	assert.Equal(t, "walking", query["mode"][0])
	assert.Equal(t, "metric", query["units"][0])
}

func TestErrorCategoriesAreDistinct(t *testing.T) {
	vErr := &ValidationError{Reason: "x"}
	assert.True(t, errors.Is(vErr, ErrValidation))
	assert.False(t, errors.Is(vErr, ErrAPI))

	netErr := &NetworkError{Err: errors.New("refused")}
	assert.True(t, errors.Is(netErr, ErrNetwork))
	assert.False(t, errors.Is(netErr, ErrNoData))

	apiErr := &APIError{Status: "OVER_QUERY_LIMIT"}
	assert.True(t, errors.Is(apiErr, ErrAPI))
	assert.False(t, errors.Is(apiErr, ErrNetwork))
}
