package planner

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/routepilot/routepilot/internal/directions"
	"github.com/routepilot/routepilot/internal/navexport"
	"github.com/routepilot/routepilot/internal/routes"
	"github.com/routepilot/routepilot/pkg/common"
	sentryerrors "github.com/routepilot/routepilot/pkg/errors"
	"github.com/routepilot/routepilot/pkg/logger"
	"github.com/routepilot/routepilot/pkg/validation"
)

// Handler exposes the route pipeline over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a planner HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the planner endpoints on the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		routesGroup := v1.Group("/routes")
		{
			routesGroup.POST("/plan", h.PlanRoute)
			routesGroup.GET("", h.ListRoutes)
			routesGroup.PATCH("/:id", h.UpdateRoute)
			routesGroup.DELETE("/:id", h.DeleteRoute)
			routesGroup.POST("/export", h.ExportRoute)
		}

		v1.GET("/navigation/targets", h.ListTargets)
	}
}

type planRouteRequest struct {
	Origin            string   `json:"origin" binding:"required"`
	Destination       string   `json:"destination" binding:"required"`
	Stops             []string `json:"stops"`
	OriginName        string   `json:"origin_name"`
	DestinationName   string   `json:"destination_name"`
	StopNames         []string `json:"stop_names"`
	Mode              string   `json:"mode" validate:"travel_mode"`
	Units             string   `json:"units" validate:"unit_system"`
	OptimizeWaypoints bool     `json:"optimize_waypoints"`
	Save              bool     `json:"save"`
	Name              string   `json:"name"`
}

// PlanRoute computes an optimized route and optionally saves it.
func (h *Handler) PlanRoute(c *gin.Context) {
	var req planRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.AppErrorResponse(c, common.NewBadRequestError("invalid request body: "+err.Error(), err))
		return
	}

	if err := validation.ValidateStruct(&req); err != nil {
		common.AppErrorResponse(c, common.NewValidationError(err.Error()))
		return
	}

	result, err := h.service.PlanRoute(c.Request.Context(), &directions.RouteRequest{
		Origin:            req.Origin,
		Destination:       req.Destination,
		Stops:             req.Stops,
		OriginName:        req.OriginName,
		DestinationName:   req.DestinationName,
		StopNames:         req.StopNames,
		Mode:              directions.TravelMode(req.Mode),
		Units:             directions.UnitSystem(req.Units),
		OptimizeWaypoints: req.OptimizeWaypoints,
	}, req.Save, req.Name)
	if err != nil {
		respondDirectionsError(c, err)
		return
	}

	common.SuccessResponse(c, result)
}

// ListRoutes returns the saved route history, most recent first.
func (h *Handler) ListRoutes(c *gin.Context) {
	common.SuccessResponse(c, h.service.History(c.Request.Context()))
}

type updateRouteRequest struct {
	Name     *string `json:"name"`
	Favorite *bool   `json:"favorite"`
}

// UpdateRoute renames a saved route or toggles its favorite flag.
func (h *Handler) UpdateRoute(c *gin.Context) {
	var req updateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.AppErrorResponse(c, common.NewBadRequestError("invalid request body: "+err.Error(), err))
		return
	}

	if req.Name == nil && req.Favorite == nil {
		common.AppErrorResponse(c, common.NewBadRequestError("nothing to update", nil))
		return
	}

	if !h.service.UpdateRoute(c.Request.Context(), c.Param("id"), req.Name, req.Favorite) {
		common.AppErrorResponse(c, common.NewNotFoundError("route not found", nil))
		return
	}

	common.SuccessResponse(c, gin.H{"updated": true})
}

// DeleteRoute removes a saved route.
func (h *Handler) DeleteRoute(c *gin.Context) {
	if !h.service.DeleteRoute(c.Request.Context(), c.Param("id")) {
		common.AppErrorResponse(c, common.NewNotFoundError("route not found", nil))
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true})
}

type exportRouteRequest struct {
	Target  string                 `json:"target" binding:"required"`
	RouteID string                 `json:"route_id"`
	Route   *routes.OptimizedRoute `json:"route"`
}

// ExportRoute hands a route to a navigation app, either a saved route by id
// or an inline route from a plan that was never saved.
func (h *Handler) ExportRoute(c *gin.Context) {
	var req exportRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.AppErrorResponse(c, common.NewBadRequestError("invalid request body: "+err.Error(), err))
		return
	}

	route := req.Route
	if req.RouteID != "" {
		saved := h.service.FindSaved(c.Request.Context(), req.RouteID)
		if saved == nil {
			common.AppErrorResponse(c, common.NewNotFoundError("route not found", nil))
			return
		}
		route = &saved.Route
	}
	if route == nil {
		common.AppErrorResponse(c, common.NewBadRequestError("either route_id or route is required", nil))
		return
	}

	// Inline routes come straight from the client; reject garbage
	// coordinates before building URLs from them.
	if req.RouteID == "" {
		if err := validation.ValidateStruct(route); err != nil {
			common.AppErrorResponse(c, common.NewValidationError(err.Error()))
			return
		}
	}

	result := h.service.Export(c.Request.Context(), navexport.TargetKey(req.Target), route)
	common.SuccessResponse(c, result)
}

type targetInfo struct {
	Key           navexport.TargetKey `json:"key"`
	DisplayName   string              `json:"display_name"`
	MultiWaypoint bool                `json:"multi_waypoint"`
}

type listTargetsQuery struct {
	Platform string `form:"platform" validate:"platform"`
}

// ListTargets returns the navigation apps available on this platform, or on
// the platform given in the query.
func (h *Handler) ListTargets(c *gin.Context) {
	var query listTargetsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.AppErrorResponse(c, common.NewBadRequestError("invalid query: "+err.Error(), err))
		return
	}
	if err := validation.ValidateStruct(&query); err != nil {
		common.AppErrorResponse(c, common.NewValidationError(err.Error()))
		return
	}

	targets := h.service.Targets()
	if query.Platform != "" {
		targets = navexport.TargetsFor(navexport.Platform(query.Platform))
	}

	infos := make([]targetInfo, len(targets))
	for i, t := range targets {
		infos[i] = targetInfo{
			Key:           t.Key,
			DisplayName:   t.DisplayName,
			MultiWaypoint: t.MultiWaypoint,
		}
	}
	common.SuccessResponse(c, infos)
}

// respondDirectionsError maps the engine error taxonomy onto HTTP statuses:
// bad input is the caller's problem, connectivity is retryable, engine
// rejections are an upstream failure, and no-route is simply not found.
func respondDirectionsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, directions.ErrValidation):
		common.AppErrorResponse(c, common.NewBadRequestError(err.Error(), err))
	case errors.Is(err, directions.ErrNoData):
		common.AppErrorResponse(c, common.NewNotFoundError("no route found between the given stops", err))
	case errors.Is(err, directions.ErrNetwork):
		common.AppErrorResponse(c, common.NewAppError(http.StatusServiceUnavailable, "directions engine unreachable, try again", err))
	case errors.Is(err, directions.ErrAPI):
		common.AppErrorResponse(c, common.NewAppError(http.StatusBadGateway, err.Error(), err))
	default:
		logger.ErrorContext(c.Request.Context(), "unexpected planning error", zap.Error(err))
		sentryerrors.CaptureError(err)
		common.AppErrorResponse(c, common.NewInternalError("failed to plan route", err))
	}
}
