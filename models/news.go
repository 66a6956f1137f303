package models

import "time"

// NewsCategory groups articles; Color is a CSS color used for the badge.
type NewsCategory struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// NewsArticle is a published news item.
type NewsArticle struct {
	ID            string       `json:"id"`
	Slug          string       `json:"slug"`
	Title         string       `json:"title"`
	Excerpt       string       `json:"excerpt"`
	Content       string       `json:"content,omitempty"`
	FeaturedImage string       `json:"featuredImage,omitempty"`
	Author        string       `json:"author,omitempty"`
	Category      NewsCategory `json:"category"`
	PublishedAt   time.Time    `json:"publishedAt"`
	ReadTime      int          `json:"readTime,omitempty"`
	IsFeatured    bool         `json:"isFeatured,omitempty"`
}
