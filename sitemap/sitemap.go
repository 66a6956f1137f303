// Package sitemap renders sitemap.xml and robots.txt for the public routes.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

type ChangeFreq string

const (
	Daily   ChangeFreq = "daily"
	Weekly  ChangeFreq = "weekly"
	Monthly ChangeFreq = "monthly"
)

// Route is one sitemap entry.
type Route struct {
	Path       string
	ChangeFreq ChangeFreq
	Priority   float64
}

// Routes is the fixed list of public pages advertised to crawlers.
var Routes = []Route{
	{Path: "/", ChangeFreq: Daily, Priority: 1.0},
	{Path: "/about", ChangeFreq: Monthly, Priority: 0.8},
	{Path: "/projects", ChangeFreq: Weekly, Priority: 0.9},
	{Path: "/news", ChangeFreq: Daily, Priority: 0.9},
	{Path: "/sam", ChangeFreq: Weekly, Priority: 0.8},
	{Path: "/contact", ChangeFreq: Monthly, Priority: 0.7},
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Generate renders routes as absolute URLs below siteURL. Repeated paths are emitted once,
// keeping the first occurrence.
func Generate(siteURL string, routes []Route) ([]byte, error) {
	base := strings.TrimSuffix(siteURL, "/")
	if base == "" {
		return nil, fmt.Errorf("sitemap: site URL is required")
	}

	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	seen := make(map[string]bool, len(routes))
	for _, route := range routes {
		path := normalizePath(route.Path)
		if seen[path] {
			continue
		}
		seen[path] = true

		loc := base + path
		if path == "/" {
			loc = base + "/"
		}
		set.URLs = append(set.URLs, urlEntry{
			Loc:        loc,
			ChangeFreq: string(route.ChangeFreq),
			Priority:   fmt.Sprintf("%.1f", route.Priority),
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, fmt.Errorf("sitemap: encode: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Robots allows everything but the admin area and points crawlers at the sitemap.
func Robots(siteURL string) string {
	base := strings.TrimSuffix(siteURL, "/")
	return "User-agent: *\nAllow: /\nDisallow: /admin\n\nSitemap: " + base + "/sitemap.xml\n"
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
