package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/realestate-site/catalog"
	"github.com/rpupo63/realestate-site/models"
	"github.com/rpupo63/realestate-site/web"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	relatedProjectCount = 3
	geocodeTimeout      = 3 * time.Second
)

var projectStatuses = []string{models.ProjectStatusSelling, models.ProjectStatusUpcoming, models.ProjectStatusHandover}

type projectHandler struct {
	responder Responder
	pages     pageResponder
	logger    zerolog.Logger
	content   ContentSource
	geocoder  Geocoder
}

func newProjectHandler(deps Dependencies) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		pages:     newPageResponder(deps.Renderer, deps.Site, logger),
		logger:    logger,
		content:   deps.Content,
		geocoder:  deps.Geocoder,
	}
}

type projectsView struct {
	Section  web.Section[models.Project]
	Page     catalog.Page[models.Project]
	Filter   catalog.ProjectFilter
	Query    url.Values
	Statuses []string
	Cities   []string
}

type locationView struct {
	Lat  float64
	Lng  float64
	BBox string
}

type projectDetailView struct {
	Project  models.Project
	Location *locationView
	Related  []models.Project
}

func projectFilterFrom(r *http.Request) catalog.ProjectFilter {
	return catalog.ProjectFilter{
		Status: queryString(r, "status"),
		City:   queryString(r, "city"),
		Query:  queryString(r, "q"),
	}
}

func cities(projects []models.Project) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range projects {
		if p.Address.City != "" && !seen[p.Address.City] {
			seen[p.Address.City] = true
			out = append(out, p.Address.City)
		}
	}
	sort.Strings(out)
	return out
}

// getProjects renders the filtered, paginated project list
func (h projectHandler) getProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := projectFilterFrom(r)

		projects, err := h.content.ListProjects(r.Context())
		if err != nil {
			h.logger.Warn().Err(err).Msg("failed to list projects")
		}

		page := catalog.Paginate(catalog.FilterProjects(projects, filter), pageNumber(r), perPage(r))
		view := projectsView{
			Section:  web.NewSection(page.Items, err),
			Page:     page,
			Filter:   filter,
			Query:    filterQuery(r),
			Statuses: projectStatuses,
			Cities:   cities(projects),
		}

		h.pages.render(w, r, http.StatusOK, "projects", h.pages.page(r, "Projects", "Residential projects currently selling and delivered.", view))
	}
}

// getProject renders one project with its location and related projects
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			h.pages.renderNotFound(w, r)
			return
		}

		project, err := h.content.GetProject(r.Context(), slug)
		if err != nil {
			h.pages.renderError(w, r, err)
			return
		}

		view := projectDetailView{Project: project}
		view.Location = h.locate(r.Context(), project)

		if all, err := h.content.ListProjects(r.Context()); err != nil {
			h.logger.Warn().Err(err).Msg("failed to load related projects")
		} else {
			others := catalog.FilterProjects(all, catalog.ProjectFilter{})
			others = removeProject(others, project.Slug)
			view.Related = catalog.FeaturedProjects(others, relatedProjectCount)
		}

		var residence any
		if view.Location != nil {
			residence = h.pages.site.Residence(project, view.Location.Lat, view.Location.Lng, true)
		} else {
			residence = h.pages.site.Residence(project, 0, 0, false)
		}

		page := h.pages.page(r, project.Name, project.Address.String(), view, residence)
		h.pages.render(w, r, http.StatusOK, "project_detail", page)
	}
}

// locate geocodes the project address. Failures only hide the map.
func (h projectHandler) locate(ctx context.Context, project models.Project) *locationView {
	if h.geocoder == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, geocodeTimeout)
	defer cancel()

	point, err := h.geocoder.Lookup(ctx, project.Address.String())
	if err != nil {
		h.logger.Debug().Err(err).Str("slug", project.Slug).Msg("no map for project")
		return nil
	}
	return &locationView{
		Lat:  point.Lat,
		Lng:  point.Lng,
		BBox: fmt.Sprintf("%.5f,%.5f,%.5f,%.5f", point.Lng-0.008, point.Lat-0.005, point.Lng+0.008, point.Lat+0.005),
	}
}

func removeProject(projects []models.Project, slug string) []models.Project {
	out := projects[:0:0]
	for _, p := range projects {
		if p.Slug != slug {
			out = append(out, p)
		}
	}
	return out
}

// listProjects returns the filtered project page as JSON
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.content.ListProjects(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		page := catalog.Paginate(catalog.FilterProjects(projects, projectFilterFrom(r)), pageNumber(r), perPage(r))
		h.responder.WriteJSON(w, newListResponse(page))
	}
}
