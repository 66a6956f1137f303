package models

import "strings"

// Project statuses published by the backend.
const (
	ProjectStatusUpcoming = "upcoming"
	ProjectStatusSelling  = "selling"
	ProjectStatusHandover = "handed_over"
)

// Address is the postal location of a project.
type Address struct {
	Street   string `json:"street,omitempty"`
	Ward     string `json:"ward,omitempty"`
	District string `json:"district,omitempty"`
	City     string `json:"city,omitempty"`
}

// String joins the non-empty parts, most specific first.
func (a Address) String() string {
	parts := make([]string, 0, 4)
	for _, part := range []string{a.Street, a.Ward, a.District, a.City} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

// Project is a real-estate development as returned by the backend API.
type Project struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	PriceLabel  string   `json:"priceLabel,omitempty"`
	AreaLabel   string   `json:"areaLabel,omitempty"`
	Status      string   `json:"status"`
	Address     Address  `json:"address"`
	IsFeatured  bool     `json:"isFeatured,omitempty"`
}

// CoverImage returns the first image, or "" when the project has none.
func (p Project) CoverImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
