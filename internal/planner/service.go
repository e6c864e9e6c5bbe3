package planner

import (
	"context"

	"go.uber.org/zap"

	"github.com/routepilot/routepilot/internal/directions"
	"github.com/routepilot/routepilot/internal/navexport"
	"github.com/routepilot/routepilot/internal/routes"
	"github.com/routepilot/routepilot/internal/routestore"
	"github.com/routepilot/routepilot/pkg/logger"
)

// Service runs the route pipeline: compute, assemble, optionally save, and
// export on demand.
type Service struct {
	engine    Engine
	history   History
	navigator Navigator

	// defaultUnits applies when the request does not choose a unit system.
	defaultUnits directions.UnitSystem
}

// NewService wires the pipeline together.
func NewService(engine Engine, history History, navigator Navigator, defaultUnits directions.UnitSystem) *Service {
	if defaultUnits == "" {
		defaultUnits = directions.UnitsImperial
	}
	return &Service{
		engine:       engine,
		history:      history,
		navigator:    navigator,
		defaultUnits: defaultUnits,
	}
}

// PlanResult is the outcome of one planning run.
type PlanResult struct {
	Route *routes.OptimizedRoute `json:"route"`
	// Saved is the history entry created by auto-save, nil when saving was
	// not requested, was suppressed as a duplicate, or failed.
	Saved *routestore.SavedRoute `json:"saved,omitempty"`
	// DuplicateOf carries the id of the existing similar route when
	// auto-save was suppressed.
	DuplicateOf string `json:"duplicate_of,omitempty"`
}

// PlanRoute computes and assembles an optimized route. With save set, the
// result is recorded in the history unless a similar route already exists.
// Persistence problems never fail the plan: the route is still returned.
func (s *Service) PlanRoute(ctx context.Context, req *directions.RouteRequest, save bool, name string) (*PlanResult, error) {
	if req.Units == "" {
		req.Units = s.defaultUnits
	}

	engineRoute, err := s.engine.ComputeRoute(ctx, req)
	if err != nil {
		return nil, err
	}

	route := routes.Assemble(engineRoute, req)
	result := &PlanResult{Route: route}

	logger.InfoContext(ctx, "route planned",
		zap.Int("stops", len(route.Stops)),
		zap.String("total_distance", route.TotalDistance),
		zap.String("total_time", route.TotalTime),
	)

	if !save {
		return result, nil
	}

	if existing := s.history.FindSimilar(ctx, route); existing != nil {
		result.DuplicateOf = existing.ID
		logger.InfoContext(ctx, "auto-save suppressed, similar route exists",
			zap.String("existing_id", existing.ID),
		)
		return result, nil
	}

	saved, err := s.history.Save(ctx, route, req, name)
	if err != nil {
		logger.WarnContext(ctx, "auto-save failed", zap.Error(err))
		return result, nil
	}
	result.Saved = saved

	return result, nil
}

// History returns the saved routes, most recent first.
func (s *Service) History(ctx context.Context) []routestore.SavedRoute {
	return s.history.List(ctx)
}

// UpdateRoute renames or toggles the favorite flag on a saved route. Nil
// fields are left unchanged. Returns false when the route does not exist.
func (s *Service) UpdateRoute(ctx context.Context, id string, name *string, favorite *bool) bool {
	return s.history.Update(ctx, id, name, favorite)
}

// DeleteRoute removes a saved route. Returns false when it does not exist.
func (s *Service) DeleteRoute(ctx context.Context, id string) bool {
	return s.history.Delete(ctx, id)
}

// FindSaved returns the saved route with the given id, or nil.
func (s *Service) FindSaved(ctx context.Context, id string) *routestore.SavedRoute {
	for _, saved := range s.history.List(ctx) {
		if saved.ID == id {
			match := saved
			return &match
		}
	}
	return nil
}

// Export hands a route to the named navigation app.
func (s *Service) Export(ctx context.Context, key navexport.TargetKey, route *routes.OptimizedRoute) navexport.ExportResult {
	return s.navigator.Export(ctx, key, route)
}

// Targets lists the navigation apps available on this platform.
func (s *Service) Targets() []navexport.Target {
	return s.navigator.AvailableTargets()
}
