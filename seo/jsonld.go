// Package seo builds schema.org JSON-LD documents for the public pages.
package seo

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/rpupo63/realestate-site/models"
)

const schemaContext = "https://schema.org"

type Organization struct {
	Context string   `json:"@context"`
	Type    string   `json:"@type"`
	Name    string   `json:"name"`
	URL     string   `json:"url"`
	Logo    string   `json:"logo,omitempty"`
	Phone   string   `json:"telephone,omitempty"`
	Email   string   `json:"email,omitempty"`
	SameAs  []string `json:"sameAs,omitempty"`
}

type Site struct {
	Name    string
	URL     string
	Logo    string
	Phone   string
	Email   string
	Socials []string
}

func (s Site) abs(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimSuffix(s.URL, "/") + "/" + strings.TrimPrefix(path, "/")
}

func (s Site) Organization() Organization {
	return Organization{
		Context: schemaContext,
		Type:    "RealEstateAgent",
		Name:    s.Name,
		URL:     s.URL,
		Logo:    s.abs(s.Logo),
		Phone:   s.Phone,
		Email:   s.Email,
		SameAs:  s.Socials,
	}
}

type person struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type NewsArticle struct {
	Context       string `json:"@context"`
	Type          string `json:"@type"`
	Headline      string `json:"headline"`
	Description   string `json:"description,omitempty"`
	Image         string `json:"image,omitempty"`
	DatePublished string `json:"datePublished,omitempty"`
	Author        person `json:"author"`
	Section       string `json:"articleSection,omitempty"`
	URL           string `json:"mainEntityOfPage"`
}

func (s Site) NewsArticle(a models.NewsArticle) NewsArticle {
	author := a.Author
	if author == "" {
		author = s.Name
	}
	doc := NewsArticle{
		Context:     schemaContext,
		Type:        "NewsArticle",
		Headline:    a.Title,
		Description: a.Excerpt,
		Image:       s.abs(a.FeaturedImage),
		Author:      person{Type: "Person", Name: author},
		Section:     a.Category.Name,
		URL:         s.abs("/news/" + a.Slug),
	}
	if !a.PublishedAt.IsZero() {
		doc.DatePublished = a.PublishedAt.UTC().Format(time.RFC3339)
	}
	return doc
}

type offer struct {
	Type          string `json:"@type"`
	Availability  string `json:"availability"`
	PriceSpec     string `json:"description,omitempty"`
	PriceCurrency string `json:"priceCurrency"`
}

type Product struct {
	Context     string   `json:"@context"`
	Type        string   `json:"@type"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Image       []string `json:"image,omitempty"`
	Origin      string   `json:"countryOfOrigin,omitempty"`
	Weight      string   `json:"weight,omitempty"`
	Offers      offer    `json:"offers"`
}

func (s Site) Product(p models.SamProduct) Product {
	images := make([]string, 0, 1+len(p.Gallery))
	for _, img := range append([]string{p.Image}, p.Gallery...) {
		if img != "" {
			images = append(images, s.abs(img))
		}
	}
	doc := Product{
		Context:     schemaContext,
		Type:        "Product",
		Name:        p.Name,
		Description: p.Description,
		Image:       images,
		Origin:      p.Origin,
		Offers: offer{
			Type:          "Offer",
			Availability:  "https://schema.org/InStock",
			PriceSpec:     p.PriceLabel,
			PriceCurrency: "VND",
		},
	}
	if p.WeightGram > 0 {
		doc.Weight = fmt.Sprintf("%d g", p.WeightGram)
	}
	return doc
}

type geoCoordinates struct {
	Type      string  `json:"@type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type postalAddress struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress,omitempty"`
	AddressLocality string `json:"addressLocality,omitempty"`
	AddressRegion   string `json:"addressRegion,omitempty"`
	AddressCountry  string `json:"addressCountry"`
}

type Residence struct {
	Context     string          `json:"@context"`
	Type        string          `json:"@type"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Image       []string        `json:"image,omitempty"`
	URL         string          `json:"url"`
	Address     postalAddress   `json:"address"`
	Geo         *geoCoordinates `json:"geo,omitempty"`
}

// Residence describes a project; lat/lng are included only when hasGeo is true.
func (s Site) Residence(p models.Project, lat, lng float64, hasGeo bool) Residence {
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, s.abs(img))
	}
	doc := Residence{
		Context:     schemaContext,
		Type:        "ApartmentComplex",
		Name:        p.Name,
		Description: p.Description,
		Image:       images,
		URL:         s.abs("/projects/" + p.Slug),
		Address: postalAddress{
			Type:            "PostalAddress",
			StreetAddress:   strings.TrimSpace(strings.Join([]string{p.Address.Street, p.Address.Ward}, " ")),
			AddressLocality: p.Address.District,
			AddressRegion:   p.Address.City,
			AddressCountry:  "VN",
		},
	}
	if hasGeo {
		doc.Geo = &geoCoordinates{Type: "GeoCoordinates", Latitude: lat, Longitude: lng}
	}
	return doc
}

// Script renders docs as a single JSON-LD script element. json.Marshal escapes <, > and &,
// so document text cannot close the script tag.
func Script(docs ...any) (template.HTML, error) {
	var b strings.Builder
	for _, doc := range docs {
		payload, err := json.Marshal(doc)
		if err != nil {
			return "", fmt.Errorf("marshal json-ld: %w", err)
		}
		b.WriteString(`<script type="application/ld+json">`)
		b.Write(payload)
		b.WriteString("</script>\n")
	}
	return template.HTML(b.String()), nil
}
