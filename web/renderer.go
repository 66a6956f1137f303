// Package web renders the site's pages from embedded templates and serves its static
// assets.
package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/rpupo63/realestate-site/media"
	"github.com/rpupo63/realestate-site/models"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const SiteName = "An Phat Land"

// Page is what every page template receives.
type Page struct {
	Title          string
	Description    string
	Path           string
	Canonical      string
	StructuredData template.HTML
	User           *models.User
	Data           any

	SiteName     string
	CriticalCSS  template.CSS
	FontPreloads []string
	Dev          bool
	Year         int
}

type Options struct {
	Media        *media.Resolver
	SiteURL      string
	FontPreloads []string
	Development  bool
}

type Renderer struct {
	base         *template.Template
	pages        map[string]*template.Template
	siteURL      string
	criticalCSS  template.CSS
	fontPreloads []string
	dev          bool
}

func NewRenderer(opts Options) (*Renderer, error) {
	resolver := opts.Media
	if resolver == nil {
		resolver = media.NewResolver("", "", nil)
	}

	critical, err := staticFS.ReadFile("static/css/critical.css")
	if err != nil {
		return nil, fmt.Errorf("read critical css: %w", err)
	}

	base, err := template.New("layout.html").Funcs(funcMap(resolver)).ParseFS(templateFS, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pageFiles, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, file := range pageFiles {
		name := strings.TrimSuffix(path.Base(file), ".html")
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = clone
	}

	return &Renderer{
		base:         base,
		pages:        pages,
		siteURL:      strings.TrimRight(opts.SiteURL, "/"),
		criticalCSS:  template.CSS(critical),
		fontPreloads: opts.FontPreloads,
		dev:          opts.Development,
	}, nil
}

func (r *Renderer) Development() bool { return r.dev }

// Render executes the page into a buffer first so a template failure never leaves a
// half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page template %q", name)
	}

	page.SiteName = SiteName
	page.CriticalCSS = r.criticalCSS
	page.FontPreloads = r.fontPreloads
	page.Dev = r.dev
	page.Year = time.Now().Year()
	if page.Canonical == "" && page.Path != "" {
		page.Canonical = r.siteURL + page.Path
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// HasFragment reports whether a fragment template exists for name.
func (r *Renderer) HasFragment(name string) bool {
	return r.base.Lookup("fragment-"+name) != nil
}

// RenderFragment writes a bare partial, without the layout, for lazy sections.
func (r *Renderer) RenderFragment(w http.ResponseWriter, name string, data any) error {
	var buf bytes.Buffer
	if err := r.base.ExecuteTemplate(&buf, "fragment-"+name, data); err != nil {
		return fmt.Errorf("render fragment %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, err := buf.WriteTo(w)
	return err
}

// StaticHandler serves the embedded assets under the path it is mounted on.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	files := http.FileServer(http.FS(sub))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		files.ServeHTTP(w, r)
	})
}

func funcMap(resolver *media.Resolver) template.FuncMap {
	return template.FuncMap{
		"media": func(src string) string {
			return resolver.URL(context.Background(), src)
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02/01/2006")
		},
		"isoDate": func(t time.Time) string {
			return t.Format(time.RFC3339)
		},
		"add": func(a, b int) int { return a + b },
		"dict": func(pairs ...any) (map[string]any, error) {
			if len(pairs)%2 != 0 {
				return nil, fmt.Errorf("dict needs key/value pairs")
			}
			m := make(map[string]any, len(pairs)/2)
			for i := 0; i < len(pairs); i += 2 {
				key, ok := pairs[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
				}
				m[key] = pairs[i+1]
			}
			return m, nil
		},
		"pageLink": func(query url.Values, n int) string {
			q := url.Values{}
			for k, v := range query {
				q[k] = v
			}
			q.Set("page", strconv.Itoa(n))
			return "?" + q.Encode()
		},
		"truncate": func(s string, n int) string {
			runes := []rune(s)
			if len(runes) <= n {
				return s
			}
			return strings.TrimSpace(string(runes[:n])) + "…"
		},
		// richText marks article bodies authored in the company CMS as safe HTML.
		"richText": func(s string) template.HTML {
			return template.HTML(s)
		},
		"statusLabel": statusLabel,
	}
}

func statusLabel(status string) string {
	switch status {
	case models.ProjectStatusSelling:
		return "Now selling"
	case models.ProjectStatusUpcoming:
		return "Coming soon"
	case models.ProjectStatusHandover:
		return "Handed over"
	default:
		return status
	}
}
