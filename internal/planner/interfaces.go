package planner

import (
	"context"

	"github.com/routepilot/routepilot/internal/directions"
	"github.com/routepilot/routepilot/internal/navexport"
	"github.com/routepilot/routepilot/internal/routes"
	"github.com/routepilot/routepilot/internal/routestore"
)

// Engine computes routes from an external directions engine.
type Engine interface {
	ComputeRoute(ctx context.Context, req *directions.RouteRequest) (*directions.EngineRoute, error)
}

// History persists and queries saved routes.
type History interface {
	Save(ctx context.Context, route *routes.OptimizedRoute, req *directions.RouteRequest, name string) (*routestore.SavedRoute, error)
	List(ctx context.Context) []routestore.SavedRoute
	Delete(ctx context.Context, id string) bool
	Update(ctx context.Context, id string, name *string, favorite *bool) bool
	FindSimilar(ctx context.Context, route *routes.OptimizedRoute) *routestore.SavedRoute
}

// Navigator hands routes to external navigation apps.
type Navigator interface {
	Export(ctx context.Context, key navexport.TargetKey, route *routes.OptimizedRoute) navexport.ExportResult
	AvailableTargets() []navexport.Target
	IsAppAvailable(key navexport.TargetKey) bool
}
