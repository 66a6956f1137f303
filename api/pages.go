package api

import (
	"net/http"
	"net/url"

	"github.com/rpupo63/realestate-site/errs"
	"github.com/rpupo63/realestate-site/seo"
	"github.com/rpupo63/realestate-site/web"
	"github.com/rs/zerolog"
)

// pageResponder is the HTML counterpart of Responder.
type pageResponder struct {
	renderer *web.Renderer
	site     seo.Site
	logger   zerolog.Logger
}

func newPageResponder(renderer *web.Renderer, site seo.Site, logger zerolog.Logger) pageResponder {
	return pageResponder{renderer: renderer, site: site, logger: logger}
}

type errorView struct {
	Status   int
	Message  string
	Detail   string
	RetryURL string
}

// page builds the common page fields. The Organization document is on every page;
// docs adds page-specific structured data.
func (p pageResponder) page(r *http.Request, title, description string, data any, docs ...any) web.Page {
	structured, err := seo.Script(append([]any{p.site.Organization()}, docs...)...)
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to build structured data")
	}
	return web.Page{
		Title:          title,
		Description:    description,
		Path:           r.URL.Path,
		StructuredData: structured,
		User:           ctxGetUser(r.Context()),
		Data:           data,
	}
}

func (p pageResponder) render(w http.ResponseWriter, r *http.Request, status int, name string, page web.Page) {
	if err := p.renderer.Render(w, status, name, page); err != nil {
		p.logger.Error().Err(err).Str("page", name).Msg("failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// renderError turns a handler error into a page: 401 goes to the login form, a missing
// record to the 404 page, anything else to the error page.
func (p pageResponder) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errs.IsUnauthorized(err):
		redirectToLogin(w, r)
	case errs.IsNotFound(err):
		p.renderNotFound(w, r)
	default:
		status := errs.StatusOf(err)
		p.logger.Error().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("page failed")
		p.renderErrorPage(w, r, status, err.Error())
	}
}

func (p pageResponder) renderErrorPage(w http.ResponseWriter, r *http.Request, status int, detail string) {
	view := errorView{
		Status:   status,
		Message:  "Something went wrong while loading this page.",
		Detail:   detail,
		RetryURL: r.URL.RequestURI(),
	}
	if status == http.StatusServiceUnavailable || status == http.StatusBadGateway {
		view.Message = "Our content service is temporarily unavailable. Please try again in a moment."
	}
	p.render(w, r, status, "error", p.page(r, "Error", "", view))
}

func (p pageResponder) renderNotFound(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, http.StatusNotFound, "not_found", p.page(r, "Page not found", "", nil))
}

// redirectToLogin sends the browser to the login form, remembering where it was going.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	q := url.Values{}
	q.Set("redirect", r.URL.RequestURI())
	http.Redirect(w, r, "/admin/login?"+q.Encode(), http.StatusFound)
}
