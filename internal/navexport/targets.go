package navexport

import (
	"fmt"

	"github.com/routepilot/routepilot/internal/routes"
)

// Platform identifies the host platform the export runs on.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformWeb     Platform = "web"
)

// TargetKey identifies a navigation app.
type TargetKey string

const (
	TargetGoogleMaps TargetKey = "google_maps"
	TargetWaze       TargetKey = "waze"
	TargetAppleMaps  TargetKey = "apple_maps"
)

// URLBuilder produces a launchable URL for a route. Builders embed
// coordinates only, never address text, so launch behavior does not depend
// on how the target app geocodes free text.
type URLBuilder func(route *routes.OptimizedRoute) string

// Target is the capability record for one navigation app: where it is
// available, what it can represent, and how to build its URLs. Adding an app
// means adding a record here, nothing else changes.
type Target struct {
	Key         TargetKey
	DisplayName string

	// MultiWaypoint is true when the target can represent a full
	// multi-stop route in one URL. Single-destination targets are handed
	// the next stop to visit instead.
	MultiWaypoint bool

	// Platforms lists where the target is available; empty means all.
	Platforms []Platform

	// InstallHint is shown when every launch attempt fails.
	InstallHint string

	// PrimaryURL is the native app URL. FallbackURLs are tried in order
	// when the primary fails to launch, ending with a web URL that any
	// browser can open.
	PrimaryURL   URLBuilder
	FallbackURLs []URLBuilder
}

// AvailableOn reports whether the target can be offered on the platform.
func (t *Target) AvailableOn(platform Platform) bool {
	if len(t.Platforms) == 0 {
		return true
	}
	for _, p := range t.Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// navigationPoint picks the stop a single-destination target should be
// pointed at. With intermediate stops present that is the first one, so the
// user navigates leg by leg; otherwise it is the final destination.
func navigationPoint(route *routes.OptimizedRoute) (routes.RouteStop, bool) {
	switch len(route.Stops) {
	case 0:
		return routes.RouteStop{}, false
	case 1:
		return route.Stops[0], true
	case 2:
		return route.Stops[1], true
	default:
		return route.Stops[1], true
	}
}

func latLng(stop routes.RouteStop) string {
	return fmt.Sprintf("%f,%f", stop.Latitude, stop.Longitude)
}

// TargetsFor returns the targets available on the given platform, in table
// order.
func TargetsFor(platform Platform) []Target {
	all := Targets()
	available := make([]Target, 0, len(all))
	for _, t := range all {
		if t.AvailableOn(platform) {
			available = append(available, t)
		}
	}
	return available
}

// Targets returns the full capability table.
func Targets() []Target {
	return []Target{
		{
			Key:           TargetGoogleMaps,
			DisplayName:   "Google Maps",
			MultiWaypoint: true,
			InstallHint:   "Install Google Maps or open maps.google.com in a browser",
			PrimaryURL:    googleMapsNativeURL,
			FallbackURLs:  []URLBuilder{googleMapsWebURL},
		},
		{
			Key:         TargetWaze,
			DisplayName: "Waze",
			Platforms:   []Platform{PlatformAndroid, PlatformIOS},
			InstallHint: "Install Waze from your app store",
			PrimaryURL:  wazeNativeURL,
			FallbackURLs: []URLBuilder{
				wazeWebURL,
			},
		},
		{
			Key:         TargetAppleMaps,
			DisplayName: "Apple Maps",
			Platforms:   []Platform{PlatformIOS},
			InstallHint: "Apple Maps is available on iOS devices",
			PrimaryURL:  appleMapsNativeURL,
			FallbackURLs: []URLBuilder{
				appleMapsWebURL,
			},
		},
	}
}

func googleMapsNativeURL(route *routes.OptimizedRoute) string {
	stops := route.Stops
	switch len(stops) {
	case 0:
		return "comgooglemaps://"
	case 1:
		return fmt.Sprintf("comgooglemaps://?daddr=%s&directionsmode=driving", latLng(stops[0]))
	default:
		url := fmt.Sprintf("comgooglemaps://?saddr=%s&daddr=%s", latLng(stops[0]), latLng(stops[1]))
		for _, stop := range stops[2:] {
			url += "+to:" + latLng(stop)
		}
		return url + "&directionsmode=driving"
	}
}

func googleMapsWebURL(route *routes.OptimizedRoute) string {
	stops := route.Stops
	switch len(stops) {
	case 0:
		return "https://www.google.com/maps"
	case 1:
		return fmt.Sprintf("https://www.google.com/maps/dir/?api=1&destination=%s", latLng(stops[0]))
	default:
		url := fmt.Sprintf("https://www.google.com/maps/dir/?api=1&origin=%s&destination=%s",
			latLng(stops[0]), latLng(stops[len(stops)-1]))
		if len(stops) > 2 {
			waypoints := ""
			for i, stop := range stops[1 : len(stops)-1] {
				if i > 0 {
					waypoints += "%7C"
				}
				waypoints += latLng(stop)
			}
			url += "&waypoints=" + waypoints
		}
		return url + "&travelmode=driving"
	}
}

func wazeNativeURL(route *routes.OptimizedRoute) string {
	point, ok := navigationPoint(route)
	if !ok {
		return "waze://"
	}
	return fmt.Sprintf("waze://?ll=%s&navigate=yes", latLng(point))
}

func wazeWebURL(route *routes.OptimizedRoute) string {
	point, ok := navigationPoint(route)
	if !ok {
		return "https://waze.com/ul"
	}
	return fmt.Sprintf("https://waze.com/ul?ll=%s&navigate=yes", latLng(point))
}

func appleMapsNativeURL(route *routes.OptimizedRoute) string {
	point, ok := navigationPoint(route)
	if !ok {
		return "maps://"
	}
	return fmt.Sprintf("maps://?daddr=%s&dirflg=d", latLng(point))
}

func appleMapsWebURL(route *routes.OptimizedRoute) string {
	point, ok := navigationPoint(route)
	if !ok {
		return "https://maps.apple.com/"
	}
	return fmt.Sprintf("https://maps.apple.com/?daddr=%s&dirflg=d", latLng(point))
}
