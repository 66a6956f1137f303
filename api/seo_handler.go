package api

import (
	"net/http"
	"time"

	"github.com/rpupo63/realestate-site/sitemap"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type seoHandler struct {
	responder Responder
	logger    zerolog.Logger
	siteURL   string
}

func newSEOHandler(siteURL string) seoHandler {
	logger := log.With().Str("handlerName", "seoHandler").Logger()
	return seoHandler{responder: NewResponder(logger), logger: logger, siteURL: siteURL}
}

func (h seoHandler) getSitemap() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := sitemap.Generate(h.siteURL, sitemap.Routes)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Write(body)
	}
}

func (h seoHandler) getRobots() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(sitemap.Robots(h.siteURL)))
	}
}

type healthHandler struct {
	responder   Responder
	startupTime time.Time
}

func newHealthHandler(startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()
	return healthHandler{responder: NewResponder(logger), startupTime: startupTime}
}

func (h healthHandler) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]any{
			"status":    "ok",
			"startedAt": h.startupTime.UTC().Format(time.RFC3339),
			"uptime":    time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}
