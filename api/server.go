package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpupo63/realestate-site/config"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(cfg map[string]string, deps Dependencies) (Server, error) {
	if deps.Renderer == nil || deps.Sessions == nil || deps.Content == nil || deps.Sam == nil || deps.Auth == nil {
		return Server{}, fmt.Errorf("api: renderer, sessions, content, auth and sam source are required")
	}

	port := config.GetString(cfg, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	router := newRouter(deps, withConfig(cfg), withStartupTime(startupTime))

	server := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadTimeout:       config.GetSeconds(cfg, "READ_TIMEOUT_SECONDS", 30),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      config.GetSeconds(cfg, "WRITE_TIMEOUT_SECONDS", 60),
		IdleTimeout:       config.GetSeconds(cfg, "IDLE_TIMEOUT_SECONDS", 120),
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(deps Dependencies, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	logger := log.With().Str("handlerName", "router").Logger()
	pages := newPageResponder(deps.Renderer, deps.Site, logger)

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(ColoredHTTPLoggingMiddleware)
	chiRouter.Use(errorBoundary(pages))
	chiRouter.NotFound(pages.renderNotFound)

	handlers := initializeHandlers(deps, router.config, router.startupTime)
	authMiddleware := newAuthMiddleware(deps.Sessions)

	setupStaticRoutes(chiRouter, handlers)
	setupPublicRoutes(chiRouter, handlers)
	setupAdminRoutes(chiRouter, handlers, authMiddleware, pages.renderNotFound)
	setupAPIRoutes(chiRouter, handlers, config.GetStrings(router.config, "ACCEPTED_ORIGINS"))

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
