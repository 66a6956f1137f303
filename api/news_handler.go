package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/realestate-site/catalog"
	"github.com/rpupo63/realestate-site/models"
	"github.com/rpupo63/realestate-site/web"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	featuredNewsCount = 3
	relatedNewsCount  = 3
)

type newsHandler struct {
	responder Responder
	pages     pageResponder
	logger    zerolog.Logger
	content   ContentSource
}

func newNewsHandler(deps Dependencies) newsHandler {
	logger := log.With().Str("handlerName", "newsHandler").Logger()

	return newsHandler{
		responder: NewResponder(logger),
		pages:     newPageResponder(deps.Renderer, deps.Site, logger),
		logger:    logger,
		content:   deps.Content,
	}
}

type newsView struct {
	Section    web.Section[models.NewsArticle]
	Page       catalog.Page[models.NewsArticle]
	Filter     catalog.NewsFilter
	Query      url.Values
	Categories []models.NewsCategory
	Featured   []models.NewsArticle
}

type newsDetailView struct {
	Article models.NewsArticle
	Related []models.NewsArticle
}

func newsFilterFrom(r *http.Request) catalog.NewsFilter {
	return catalog.NewsFilter{
		CategoryID:   queryString(r, "category"),
		Query:        queryString(r, "q"),
		FeaturedOnly: queryString(r, "featured") == "1",
	}
}

// getNews renders the news list. Articles and categories load concurrently.
func (h newsHandler) getNews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		filter := newsFilterFrom(r)

		var (
			articles   []models.NewsArticle
			articleErr error
			categories []models.NewsCategory
		)
		var g errgroup.Group
		g.Go(func() error {
			articles, articleErr = h.content.ListNews(ctx)
			return nil
		})
		g.Go(func() error {
			var err error
			if categories, err = h.content.ListNewsCategories(ctx); err != nil {
				h.logger.Warn().Err(err).Msg("failed to list news categories")
			}
			return nil
		})
		_ = g.Wait()

		if articleErr != nil {
			h.logger.Warn().Err(articleErr).Msg("failed to list news")
		}

		page := catalog.Paginate(catalog.FilterNews(articles, filter), pageNumber(r), perPage(r))
		view := newsView{
			Section:    web.NewSection(page.Items, articleErr),
			Page:       page,
			Filter:     filter,
			Query:      filterQuery(r),
			Categories: categories,
		}
		if page.Number == 1 && filter == (catalog.NewsFilter{}) {
			view.Featured = catalog.Featured(articles, featuredNewsCount)
		}

		h.pages.render(w, r, http.StatusOK, "news", h.pages.page(r, "News", "Company announcements and real-estate market news.", view))
	}
}

// getArticle renders one article with related reading
func (h newsHandler) getArticle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		article, err := h.content.GetNews(r.Context(), slug)
		if err != nil {
			h.pages.renderError(w, r, err)
			return
		}

		view := newsDetailView{Article: article}
		if all, err := h.content.ListNews(r.Context()); err != nil {
			h.logger.Warn().Err(err).Msg("failed to load related news")
		} else {
			view.Related = catalog.RelatedNews(article, all, relatedNewsCount)
		}

		page := h.pages.page(r, article.Title, article.Excerpt, view, h.pages.site.NewsArticle(article))
		h.pages.render(w, r, http.StatusOK, "news_detail", page)
	}
}

// listNews returns the filtered news page as JSON
func (h newsHandler) listNews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		articles, err := h.content.ListNews(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		page := catalog.Paginate(catalog.FilterNews(articles, newsFilterFrom(r)), pageNumber(r), perPage(r))
		h.responder.WriteJSON(w, newListResponse(page))
	}
}
