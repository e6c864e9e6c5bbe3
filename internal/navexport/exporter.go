package navexport

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/routepilot/routepilot/internal/routes"
	"github.com/routepilot/routepilot/pkg/logger"
)

// ExportResult reports the outcome of an export attempt. Message is
// user-facing; it names the app on success and carries install guidance when
// every launch attempt failed.
type ExportResult struct {
	Success bool      `json:"success"`
	Target  TargetKey `json:"target"`
	Message string    `json:"message"`
	// URL is the URL that launched, or the last one attempted on failure.
	URL string `json:"url,omitempty"`
}

// Exporter hands assembled routes to external navigation apps. It resolves
// the target's capability record, builds the URL matching the route's shape,
// and walks the fallback chain until a launch sticks.
type Exporter struct {
	platform Platform
	launcher Launcher
	targets  map[TargetKey]Target
}

// NewExporter creates an exporter for the given host platform. A nil
// launcher gets the system opener.
func NewExporter(platform Platform, launcher Launcher) *Exporter {
	if launcher == nil {
		launcher = SystemLauncher{}
	}

	all := Targets()
	byKey := make(map[TargetKey]Target, len(all))
	for _, t := range all {
		byKey[t.Key] = t
	}

	return &Exporter{
		platform: platform,
		launcher: launcher,
		targets:  byKey,
	}
}

// AvailableTargets returns the targets usable on the exporter's platform, in
// stable presentation order.
func (e *Exporter) AvailableTargets() []Target {
	return TargetsFor(e.platform)
}

// IsAppAvailable reports whether the target exists and is offered on the
// exporter's platform.
func (e *Exporter) IsAppAvailable(key TargetKey) bool {
	t, ok := e.targets[key]
	return ok && t.AvailableOn(e.platform)
}

// Export builds the target's URL for the route and attempts to launch it,
// falling back through the target's chain. It never returns an error: every
// outcome is an ExportResult the caller can surface directly.
func (e *Exporter) Export(ctx context.Context, key TargetKey, route *routes.OptimizedRoute) ExportResult {
	target, ok := e.targets[key]
	if !ok {
		return ExportResult{
			Target:  key,
			Message: fmt.Sprintf("Unknown navigation app %q", key),
		}
	}

	if !target.AvailableOn(e.platform) {
		return ExportResult{
			Target:  key,
			Message: fmt.Sprintf("%s is not available on this device. %s", target.DisplayName, target.InstallHint),
		}
	}

	urls := []string{target.PrimaryURL(route)}
	for _, build := range target.FallbackURLs {
		urls = append(urls, build(route))
	}

	var lastURL string
	for _, rawURL := range urls {
		lastURL = rawURL
		if err := e.launcher.Launch(ctx, rawURL); err != nil {
			logger.WarnContext(ctx, "navigation launch failed",
				zap.String("target", string(key)),
				zap.String("url", rawURL),
				zap.Error(err),
			)
			continue
		}

		logger.InfoContext(ctx, "route exported",
			zap.String("target", string(key)),
			zap.Int("stops", len(route.Stops)),
		)
		return ExportResult{
			Success: true,
			Target:  key,
			Message: fmt.Sprintf("Route opened in %s", target.DisplayName),
			URL:     rawURL,
		}
	}

	return ExportResult{
		Target:  key,
		Message: fmt.Sprintf("Could not open %s. %s", target.DisplayName, target.InstallHint),
		URL:     lastURL,
	}
}
