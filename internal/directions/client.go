package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/routepilot/routepilot/pkg/httpclient"
	"github.com/routepilot/routepilot/pkg/logger"
	"github.com/routepilot/routepilot/pkg/resilience"
	"go.uber.org/zap"
)

const (
	defaultBaseURL     = "https://maps.googleapis.com/maps/api"
	directionsEndpoint = "/directions/json"

	// optimizePrefix tells the engine it may reorder the waypoints.
	optimizePrefix = "optimize:true|"

	defaultTimeoutSeconds = 30
)

// Config holds configuration for the directions engine client.
type Config struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
	// TrafficAware attaches departure_time=now so the engine returns
	// traffic-adjusted leg durations.
	TrafficAware bool
}

// Client calls the external directions engine. It validates requests,
// performs the network call with a hard timeout, and parses the raw
// response into a typed EngineRoute. It never retries on its own.
type Client struct {
	apiKey       string
	client       *httpclient.Client
	trafficAware bool
	breaker      *resilience.CircuitBreaker
}

// NewClient creates a directions engine client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = defaultTimeoutSeconds
	}

	return &Client{
		apiKey:       cfg.APIKey,
		client:       httpclient.NewClient(baseURL, time.Duration(timeout)*time.Second),
		trafficAware: cfg.TrafficAware,
	}
}

// SetCircuitBreaker wraps engine calls in the given breaker. Optional.
func (c *Client) SetCircuitBreaker(breaker *resilience.CircuitBreaker) {
	c.breaker = breaker
}

// ComputeRoute validates the request, queries the engine and returns the
// best route (engines return best-first, so the first one is selected).
func (c *Client) ComputeRoute(ctx context.Context, req *RouteRequest) (*EngineRoute, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	params := c.buildParams(req)

	logger.DebugContext(ctx, "directions request",
		zap.Int("stops", len(req.Stops)),
		zap.Bool("optimize", req.OptimizeWaypoints),
	)

	body, err := c.get(ctx, directionsEndpoint+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp engineResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &APIError{Status: "INVALID_RESPONSE", Message: err.Error()}
	}

	if resp.Status != "OK" {
		return nil, &APIError{Status: resp.Status, Message: resp.ErrorMessage}
	}

	if len(resp.Routes) == 0 {
		return nil, ErrNoData
	}

	return convertRoute(&resp.Routes[0]), nil
}

func (c *Client) buildParams(req *RouteRequest) url.Values {
	params := url.Values{}
	params.Set("origin", strings.TrimSpace(req.Origin))
	params.Set("destination", strings.TrimSpace(req.Destination))
	params.Set("key", c.apiKey)

	mode := req.Mode
	if mode == "" {
		mode = ModeDriving
	}
	params.Set("mode", string(mode))

	units := req.Units
	if units == "" {
		units = UnitsImperial
	}
	params.Set("units", string(units))

	if len(req.Stops) > 0 {
		waypoints := make([]string, len(req.Stops))
		for i, stop := range req.Stops {
			waypoints[i] = strings.TrimSpace(stop)
		}
		joined := strings.Join(waypoints, "|")
		if req.OptimizeWaypoints {
			joined = optimizePrefix + joined
		}
		params.Set("waypoints", joined)
	}

	if c.trafficAware {
		params.Set("departure_time", "now")
	}

	return params
}

// get performs the engine call, through the breaker when one is configured,
// and maps transport failures onto the error taxonomy.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	call := func(ctx context.Context) (interface{}, error) {
		return c.client.Get(ctx, path, nil)
	}

	var result interface{}
	var err error
	if c.breaker != nil {
		result, err = c.breaker.Execute(ctx, call)
	} else {
		result, err = call(ctx)
	}

	if err != nil {
		if httpErr, ok := err.(*httpclient.HTTPError); ok {
			return nil, &APIError{
				Status:  fmt.Sprintf("HTTP_%d", httpErr.StatusCode),
				Message: httpErr.Body,
			}
		}
		return nil, &NetworkError{Err: err}
	}

	return result.([]byte), nil
}

func convertRoute(r *engineRouteJSON) *EngineRoute {
	route := &EngineRoute{
		EncodedPolyline: r.OverviewPolyline.Points,
		WaypointOrder:   r.WaypointOrder,
	}

	for _, leg := range r.Legs {
		route.Legs = append(route.Legs, EngineLeg{
			StartAddress:      leg.StartAddress,
			EndAddress:        leg.EndAddress,
			StartLocation:     Coordinate{Latitude: leg.StartLocation.Lat, Longitude: leg.StartLocation.Lng},
			EndLocation:       Coordinate{Latitude: leg.EndLocation.Lat, Longitude: leg.EndLocation.Lng},
			DistanceMeters:    leg.Distance.Value,
			DurationSeconds:   leg.Duration.Value,
			DurationInTraffic: leg.DurationInTraffic.Value,
		})
	}

	return route
}

// Engine wire-format structures

type engineResponse struct {
	Status       string            `json:"status"`
	ErrorMessage string            `json:"error_message,omitempty"`
	Routes       []engineRouteJSON `json:"routes"`
}

type engineRouteJSON struct {
	Legs             []engineLegJSON `json:"legs"`
	OverviewPolyline enginePolyline  `json:"overview_polyline"`
	WaypointOrder    []int           `json:"waypoint_order"`
}

type engineLegJSON struct {
	StartAddress      string       `json:"start_address"`
	EndAddress        string       `json:"end_address"`
	StartLocation     engineLatLng `json:"start_location"`
	EndLocation       engineLatLng `json:"end_location"`
	Distance          engineValue  `json:"distance"`
	Duration          engineValue  `json:"duration"`
	DurationInTraffic engineValue  `json:"duration_in_traffic"`
}

type enginePolyline struct {
	Points string `json:"points"`
}

type engineLatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type engineValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}
