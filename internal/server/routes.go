package server

import (
	"github.com/coinrelay/coinrelay/internal/routes"
	"github.com/coinrelay/coinrelay/internal/server/handlers"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes() {
	// Service status (quota-exempt)
	s.router.Get("/", handlers.HomeHandler(s.gateway))
	s.router.Get("/quota", handlers.QuotaHandler(s.gateway))

	// Documentation generated from the route table
	s.router.Get("/docs", handlers.DocsHandler(routes.Table))
	s.router.Get("/openapi.json", handlers.OpenAPIJSONHandler(routes.Table))
	s.router.Get("/openapi.yaml", handlers.OpenAPIYAMLHandler(routes.Table))

	// Standard health endpoints
	s.router.Get("/health", handlers.HealthHandler)
	s.router.Get("/health/live", handlers.LivenessHandler)
	s.router.Get("/health/ready", handlers.ReadinessHandler)
	s.router.Get("/health/startup", handlers.StartupHandler)

	s.router.Get("/version", handlers.VersionHandler)

	// Metrics endpoint (in server package to access HandleError)
	s.router.Get("/metrics", MetricsHandler)

	// Forwarded upstream routes
	for _, route := range routes.Table {
		s.router.Method(route.Method, route.Path, handlers.ForwardHandler(s.gateway, route))
	}
}
