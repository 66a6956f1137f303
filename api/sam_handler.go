package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/realestate-site/catalog"
	"github.com/rpupo63/realestate-site/errs"
	"github.com/rpupo63/realestate-site/models"
	"github.com/rpupo63/realestate-site/web"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	samPerPage      = 8
	relatedSamCount = 4
)

type samHandler struct {
	responder Responder
	pages     pageResponder
	logger    zerolog.Logger
	source    catalog.SamSource
}

func newSamHandler(deps Dependencies) samHandler {
	logger := log.With().Str("handlerName", "samHandler").Logger()

	return samHandler{
		responder: NewResponder(logger),
		pages:     newPageResponder(deps.Renderer, deps.Site, logger),
		logger:    logger,
		source:    deps.Sam,
	}
}

type samView struct {
	Section web.Section[models.SamProduct]
	Page    catalog.Page[models.SamProduct]
	Filter  catalog.SamFilter
	Query   url.Values
	Origins []string
}

type samDetailView struct {
	Product models.SamProduct
	Related []models.SamProduct
}

func samFilterFrom(r *http.Request) catalog.SamFilter {
	return catalog.SamFilter{
		Origin:    queryString(r, "origin"),
		MinWeight: queryInt(r, "minWeight"),
		MaxWeight: queryInt(r, "maxWeight"),
		Query:     queryString(r, "q"),
	}
}

func samPageSize(r *http.Request) int {
	if n := perPage(r); n > 0 {
		return n
	}
	return samPerPage
}

// getCatalog renders the ginseng catalog with origin, weight and text filters
func (h samHandler) getCatalog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := samFilterFrom(r)

		products, err := h.source.ListSamProducts(r.Context())
		if err != nil {
			h.logger.Warn().Err(err).Msg("failed to list sam products")
		}

		page := catalog.Paginate(catalog.FilterSam(products, filter), pageNumber(r), samPageSize(r))
		view := samView{
			Section: web.NewSection(page.Items, err),
			Page:    page,
			Filter:  filter,
			Query:   filterQuery(r),
			Origins: catalog.Origins(products),
		}

		h.pages.render(w, r, http.StatusOK, "sam", h.pages.page(r, "Korean ginseng", "Red and fresh ginseng from Korea and beyond, by origin and weight.", view))
	}
}

// getProduct renders one product. The product id doubles as its slug.
func (h samHandler) getProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "slug")

		product, err := h.source.GetSamProduct(r.Context(), id)
		if err != nil {
			h.pages.renderError(w, r, err)
			return
		}

		view := samDetailView{Product: product}
		if all, err := h.source.ListSamProducts(r.Context()); err == nil {
			for _, p := range catalog.FilterSam(all, catalog.SamFilter{Origin: product.Origin}) {
				if p.ID != product.ID && len(view.Related) < relatedSamCount {
					view.Related = append(view.Related, p)
				}
			}
		}

		page := h.pages.page(r, product.Name, product.Description, view, h.pages.site.Product(product))
		h.pages.render(w, r, http.StatusOK, "sam_detail", page)
	}
}

// listProducts returns the filtered catalog page as JSON
func (h samHandler) listProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := samFilterFrom(r)
		if filter.MaxWeight > 0 && filter.MinWeight > filter.MaxWeight {
			h.responder.WriteError(w, errs.NewInvalidFieldError("minWeight", "must not exceed maxWeight"))
			return
		}

		products, err := h.source.ListSamProducts(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		page := catalog.Paginate(catalog.FilterSam(products, filter), pageNumber(r), samPageSize(r))
		h.responder.WriteJSON(w, newListResponse(page))
	}
}

// getProductJSON returns a single product as JSON
func (h samHandler) getProductJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("id"))
			return
		}

		product, err := h.source.GetSamProduct(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, product)
	}
}
