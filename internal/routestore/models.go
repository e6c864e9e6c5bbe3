package routestore

import (
	"fmt"
	"time"

	"github.com/routepilot/routepilot/internal/directions"
	"github.com/routepilot/routepilot/internal/routes"
)

// SavedRoute is one history entry: a full snapshot of the optimized route
// plus the request that produced it, so a saved route can be re-planned or
// exported without recomputation.
type SavedRoute struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Favorite bool      `json:"favorite"`
	SavedAt  time.Time `json:"saved_at"`

	Route   routes.OptimizedRoute   `json:"route"`
	Request directions.RouteRequest `json:"request"`
}

// autoName derives a display name from the route's endpoints when the user
// did not supply one.
func autoName(route *routes.OptimizedRoute) string {
	if len(route.Stops) < 2 {
		return fmt.Sprintf("Route (%d stops)", len(route.Stops))
	}

	first := route.Stops[0].DisplayName
	last := route.Stops[len(route.Stops)-1].DisplayName
	name := fmt.Sprintf("%s to %s", first, last)

	if extra := len(route.Stops) - 2; extra > 0 {
		name = fmt.Sprintf("%s (+%d stops)", name, extra)
	}
	return name
}
