package api

import (
	"time"

	"github.com/rpupo63/realestate-site/config"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, cfg map[string]string, startupTime time.Time) *routeHandlers {
	fragments := newHomeFragments(deps.Content, deps.Sam)

	return &routeHandlers{
		homeHandler:     newHomeHandler(deps, fragments),
		projectHandler:  newProjectHandler(deps),
		newsHandler:     newNewsHandler(deps),
		samHandler:      newSamHandler(deps),
		contactHandler:  newContactHandler(deps, config.GetInt(cfg, "CONTACT_RATE_PER_MINUTE", 5)),
		adminHandler:    newAdminHandler(deps),
		seoHandler:      newSEOHandler(deps.Site.URL),
		fragmentHandler: newFragmentHandler(deps, fragments),
		healthHandler:   newHealthHandler(startupTime),
	}
}
