// Package catalog holds the list logic behind the public pages: filters, pagination and
// the bundled ginseng data set.
package catalog

import (
	"sort"
	"strings"

	"github.com/rpupo63/realestate-site/models"
)

// SamFilter narrows the ginseng catalog. Zero values mean "any".
type SamFilter struct {
	Origin    string
	MinWeight int
	MaxWeight int // 0 = unbounded
	Query     string
}

func (f SamFilter) Match(p models.SamProduct) bool {
	if f.Origin != "" && !strings.EqualFold(strings.TrimSpace(p.Origin), strings.TrimSpace(f.Origin)) {
		return false
	}
	if p.WeightGram < f.MinWeight {
		return false
	}
	if f.MaxWeight > 0 && p.WeightGram > f.MaxWeight {
		return false
	}
	return containsFold(f.Query, p.Name, p.Origin)
}

// FilterSam keeps the input order.
func FilterSam(products []models.SamProduct, f SamFilter) []models.SamProduct {
	return filter(products, f.Match)
}

// Origins lists the distinct origins in first-seen order, for the filter dropdown.
func Origins(products []models.SamProduct) []string {
	seen := make(map[string]bool, len(products))
	var origins []string
	for _, p := range products {
		key := strings.ToLower(p.Origin)
		if p.Origin == "" || seen[key] {
			continue
		}
		seen[key] = true
		origins = append(origins, p.Origin)
	}
	return origins
}

type NewsFilter struct {
	CategoryID   string
	Query        string
	FeaturedOnly bool
}

func (f NewsFilter) Match(a models.NewsArticle) bool {
	if f.CategoryID != "" && a.Category.ID != f.CategoryID {
		return false
	}
	if f.FeaturedOnly && !a.IsFeatured {
		return false
	}
	return containsFold(f.Query, a.Title, a.Excerpt)
}

// FilterNews returns matching articles newest first.
func FilterNews(articles []models.NewsArticle, f NewsFilter) []models.NewsArticle {
	out := filter(articles, f.Match)
	sortNewestFirst(out)
	return out
}

// RelatedNews picks up to n other articles of the same category, newest first.
func RelatedNews(article models.NewsArticle, all []models.NewsArticle, n int) []models.NewsArticle {
	related := filter(all, func(a models.NewsArticle) bool {
		return a.ID != article.ID && a.Category.ID != "" && a.Category.ID == article.Category.ID
	})
	sortNewestFirst(related)
	if len(related) > n {
		related = related[:n]
	}
	return related
}

// Featured returns up to n featured articles, falling back to the newest ones.
func Featured(articles []models.NewsArticle, n int) []models.NewsArticle {
	out := FilterNews(articles, NewsFilter{FeaturedOnly: true})
	if len(out) == 0 {
		out = FilterNews(articles, NewsFilter{})
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}

type ProjectFilter struct {
	Status string
	City   string
	Query  string
}

func (f ProjectFilter) Match(p models.Project) bool {
	if f.Status != "" && !strings.EqualFold(p.Status, f.Status) {
		return false
	}
	if f.City != "" && !strings.EqualFold(p.Address.City, f.City) {
		return false
	}
	return containsFold(f.Query, p.Name, p.Description, p.Address.String())
}

func FilterProjects(projects []models.Project, f ProjectFilter) []models.Project {
	return filter(projects, f.Match)
}

// FeaturedProjects returns the featured projects, or the first n when none is flagged.
func FeaturedProjects(projects []models.Project, n int) []models.Project {
	out := filter(projects, func(p models.Project) bool { return p.IsFeatured })
	if len(out) == 0 {
		out = append(out, projects...)
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func sortNewestFirst(articles []models.NewsArticle) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
}

// containsFold reports whether query is empty or a case-insensitive substring of any field.
func containsFold(query string, fields ...string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
