package web

import (
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rpupo63/realestate-site/media"
	"github.com/rpupo63/realestate-site/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T, dev bool) *Renderer {
	t.Helper()
	r, err := NewRenderer(Options{
		Media:        media.NewResolver("https://cdn.example", "", nil),
		SiteURL:      "https://estate.example/",
		FontPreloads: []string{"/static/fonts/be-vietnam-pro.woff2"},
		Development:  dev,
	})
	require.NoError(t, err)
	return r
}

func TestRender_LayoutAndHead(t *testing.T) {
	r := newTestRenderer(t, false)
	rec := httptest.NewRecorder()

	err := r.Render(rec, http.StatusNotFound, "not_found", Page{
		Title:          "Not found",
		Path:           "/missing",
		StructuredData: template.HTML(`<script type="application/ld+json">{"@type":"Organization"}</script>`),
	})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "<title>Not found | "+SiteName+"</title>")
	assert.Contains(t, body, `<link rel="canonical" href="https://estate.example/missing">`)
	assert.Contains(t, body, `href="/static/fonts/be-vietnam-pro.woff2" as="font"`)
	assert.Contains(t, body, "@keyframes pulse", "critical css is inlined")
	assert.Contains(t, body, `{"@type":"Organization"}`)
}

func TestRender_UnknownPage(t *testing.T) {
	err := newTestRenderer(t, false).Render(httptest.NewRecorder(), http.StatusOK, "nope", Page{})
	assert.Error(t, err)
}

func TestRender_ErrorPageDetailOnlyInDevelopment(t *testing.T) {
	data := map[string]any{"Status": 500, "Message": "Something went wrong", "Detail": "panic: nil map", "RetryURL": "/news"}

	rec := httptest.NewRecorder()
	require.NoError(t, newTestRenderer(t, true).Render(rec, 500, "error", Page{Data: data}))
	assert.Contains(t, rec.Body.String(), "panic: nil map")
	assert.Contains(t, rec.Body.String(), `href="/news"`)

	rec = httptest.NewRecorder()
	require.NoError(t, newTestRenderer(t, false).Render(rec, 500, "error", Page{Data: data}))
	assert.NotContains(t, rec.Body.String(), "panic: nil map")
}

func TestRenderFragment_States(t *testing.T) {
	r := newTestRenderer(t, false)
	require.True(t, r.HasFragment("latest-news"))
	assert.False(t, r.HasFragment("unknown"))

	rec := httptest.NewRecorder()
	require.NoError(t, r.RenderFragment(rec, "latest-news", NewSection([]models.NewsArticle{
		{Slug: "q1", Title: "Q1 <report>", FeaturedImage: "news/q1.jpg"},
	}, nil)))
	body := rec.Body.String()
	assert.NotContains(t, body, "<html")
	assert.Contains(t, body, `href="/news/q1"`)
	assert.Contains(t, body, "Q1 &lt;report&gt;")
	assert.Contains(t, body, `src="https://cdn.example/news/q1.jpg"`)
	assert.Contains(t, body, `loading="lazy"`)

	rec = httptest.NewRecorder()
	require.NoError(t, r.RenderFragment(rec, "latest-news", NewSection[models.NewsArticle](nil, errors.New("boom"))))
	assert.Contains(t, rec.Body.String(), "banner-error")
	assert.NotContains(t, rec.Body.String(), "boom")

	rec = httptest.NewRecorder()
	require.NoError(t, r.RenderFragment(rec, "sam-highlights", NewSection[models.SamProduct](nil, nil)))
	assert.Contains(t, rec.Body.String(), "No data yet.")

	rec = httptest.NewRecorder()
	require.NoError(t, r.RenderFragment(rec, "business-fields", Loading[models.BusinessField]("<div class=\"skeleton\"></div>")))
	assert.Equal(t, 1, strings.Count(rec.Body.String(), `class="skeleton"`))
}

func TestStaticHandler(t *testing.T) {
	handler := http.StripPrefix("/static/", StaticHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/js/lazy.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "IntersectionObserver")
	assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Now selling", statusLabel(models.ProjectStatusSelling))
	assert.Equal(t, "custom", statusLabel("custom"))
}
