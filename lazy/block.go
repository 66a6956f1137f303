package lazy

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"
)

// ClientObserver stands for the browser-side IntersectionObserver: the server never sees
// an intersection, so sections observed by it render as placeholders and the page
// script fetches the fragment once it becomes visible.
type ClientObserver struct{}

func (ClientObserver) Observe(func(float64)) func() { return func() {} }

var crawlerMarkers = []string{"bot", "crawler", "spider", "slurp", "facebookexternalhit", "lighthouse"}

// ObserverFor returns nil (mount inline) for crawlers and ?nolazy=1 requests, which
// cannot or should not run the lazy-loading script, and ClientObserver otherwise.
func ObserverFor(r *http.Request) Observer {
	if r.URL.Query().Get("nolazy") == "1" {
		return nil
	}
	ua := strings.ToLower(r.UserAgent())
	for _, marker := range crawlerMarkers {
		if strings.Contains(ua, marker) {
			return nil
		}
	}
	return ClientObserver{}
}

// Block describes a lazy section on a page.
type Block struct {
	Name    string
	Src     string // fragment URL fetched by the browser
	Options Options
}

var placeholderTmpl = template.Must(template.New("placeholder").Parse(
	`<section class="lazy-section" id="lazy-{{.Name}}" data-lazy-src="{{.Src}}" data-threshold="{{.Threshold}}" data-delay="{{.DelayMS}}" style="min-height: {{.Height}}px" aria-busy="true">` +
		`<div class="skeleton" style="height: {{.Height}}px"></div>` +
		`<noscript><a href="{{.Src}}">{{.Name}}</a></noscript>` +
		`</section>`))

// Placeholder renders the fixed-height skeleton carrying the observer settings.
func (b Block) Placeholder() (template.HTML, error) {
	opts := b.Options.normalized()

	var buf bytes.Buffer
	err := placeholderTmpl.Execute(&buf, map[string]any{
		"Name":      b.Name,
		"Src":       b.Src,
		"Threshold": opts.Threshold,
		"DelayMS":   opts.Delay.Milliseconds(),
		"Height":    opts.PlaceholderHeight,
	})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
