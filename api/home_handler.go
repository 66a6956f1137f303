package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/realestate-site/catalog"
	"github.com/rpupo63/realestate-site/lazy"
	"github.com/rpupo63/realestate-site/models"
	"github.com/rpupo63/realestate-site/web"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const featuredProjectCount = 6

type homeHandler struct {
	pages     pageResponder
	logger    zerolog.Logger
	content   ContentSource
	fragments homeFragments
}

func newHomeHandler(deps Dependencies, fragments homeFragments) homeHandler {
	logger := log.With().Str("handlerName", "homeHandler").Logger()

	return homeHandler{
		pages:     newPageResponder(deps.Renderer, deps.Site, logger),
		logger:    logger,
		content:   deps.Content,
		fragments: fragments,
	}
}

type homeView struct {
	Hero     *models.Project
	Projects web.Section[models.Project]
	Fields   web.Section[models.BusinessField]
	News     web.Section[models.NewsArticle]
	Sam      web.Section[models.SamProduct]
}

// getHome fetches every section concurrently. Each section keeps its own error, so one
// failing source only turns its own block into an error banner.
func (h homeHandler) getHome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		observer := lazy.ObserverFor(r)

		var view homeView
		var g errgroup.Group

		g.Go(func() error {
			projects, err := h.content.ListProjects(ctx)
			featured := catalog.FeaturedProjects(projects, featuredProjectCount)
			view.Projects = web.NewSection(featured, err)
			if len(featured) > 0 {
				view.Hero = &featured[0]
			}
			return nil
		})
		g.Go(func() error {
			view.Fields = h.fragments.fields.section(ctx, observer)
			return nil
		})
		g.Go(func() error {
			view.News = h.fragments.news.section(ctx, observer)
			return nil
		})
		g.Go(func() error {
			view.Sam = h.fragments.sam.section(ctx, observer)
			return nil
		})
		_ = g.Wait()

		for name, err := range map[string]error{"projects": view.Projects.Err, "news": view.News.Err, "sam": view.Sam.Err, "fields": view.Fields.Err} {
			if err != nil {
				h.logger.Warn().Err(err).Str("section", name).Msg("home section failed")
			}
		}

		page := h.pages.page(r, "", "Residential projects, market news and Korean ginseng from a trusted developer.", view)
		h.pages.render(w, r, http.StatusOK, "home", page)
	}
}

func (h homeHandler) getAbout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := struct {
			Fields web.Section[models.BusinessField]
		}{
			Fields: h.fragments.fields.section(r.Context(), nil),
		}
		page := h.pages.page(r, "About us", "Who we are and what we build.", view)
		h.pages.render(w, r, http.StatusOK, "about", page)
	}
}

type fragmentHandler struct {
	pages     pageResponder
	renderers map[string]func(ctx context.Context) any
}

func newFragmentHandler(deps Dependencies, fragments homeFragments) fragmentHandler {
	logger := log.With().Str("handlerName", "fragmentHandler").Logger()
	return fragmentHandler{
		pages:     newPageResponder(deps.Renderer, deps.Site, logger),
		renderers: fragments.byName(),
	}
}

// getFragment serves a lazy section once the browser reports it visible.
func (h fragmentHandler) getFragment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		render, ok := h.renderers[name]
		if !ok || !h.pages.renderer.HasFragment(name) {
			http.NotFound(w, r)
			return
		}
		if err := h.pages.renderer.RenderFragment(w, name, render(r.Context())); err != nil {
			h.pages.logger.Error().Err(err).Str("fragment", name).Msg("failed to render fragment")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}
