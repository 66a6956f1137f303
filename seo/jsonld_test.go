package seo

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rpupo63/realestate-site/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var site = Site{Name: "An Phat Land", URL: "https://estate.example/", Logo: "/static/img/logo.png"}

func TestOrganization(t *testing.T) {
	org := site.Organization()
	assert.Equal(t, "https://estate.example/static/img/logo.png", org.Logo)
	assert.Equal(t, "RealEstateAgent", org.Type)
}

func TestNewsArticle(t *testing.T) {
	doc := site.NewsArticle(models.NewsArticle{
		Slug:          "q1-report",
		Title:         "Q1 report",
		FeaturedImage: "https://cdn.example/q1.jpg",
		Category:      models.NewsCategory{Name: "Market"},
		PublishedAt:   time.Date(2026, 4, 2, 9, 0, 0, 0, time.FixedZone("ICT", 7*3600)),
	})

	assert.Equal(t, "https://estate.example/news/q1-report", doc.URL)
	assert.Equal(t, "https://cdn.example/q1.jpg", doc.Image)
	assert.Equal(t, "2026-04-02T02:00:00Z", doc.DatePublished)
	assert.Equal(t, "An Phat Land", doc.Author.Name, "falls back to the organisation")
}

func TestProduct(t *testing.T) {
	doc := site.Product(models.SamProduct{Name: "Red Ginseng", Image: "/a.jpg", Gallery: []string{"/b.jpg", ""}, WeightGram: 150})
	assert.Equal(t, []string{"https://estate.example/a.jpg", "https://estate.example/b.jpg"}, doc.Image)
	assert.Equal(t, "150 g", doc.Weight)
}

func TestResidenceGeo(t *testing.T) {
	p := models.Project{Slug: "river-park", Name: "River Park", Address: models.Address{City: "Ho Chi Minh City"}}

	assert.Nil(t, site.Residence(p, 0, 0, false).Geo)

	doc := site.Residence(p, 10.77, 106.7, true)
	require.NotNil(t, doc.Geo)
	assert.Equal(t, 10.77, doc.Geo.Latitude)
}

func TestScript_EscapesClosingTags(t *testing.T) {
	html, err := Script(site.NewsArticle(models.NewsArticle{Title: "</script><script>alert(1)</script>"}))
	require.NoError(t, err)

	out := string(html)
	assert.Equal(t, 1, strings.Count(out, "</script>"))
	assert.True(t, strings.HasPrefix(out, `<script type="application/ld+json">`))

	body := strings.TrimSuffix(strings.TrimPrefix(out, `<script type="application/ld+json">`), "</script>\n")
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	assert.Equal(t, "</script><script>alert(1)</script>", decoded["headline"])
}
