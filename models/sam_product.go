package models

// SamProduct is a ginseng catalog item.
type SamProduct struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Origin      string   `json:"origin" yaml:"origin"`
	WeightGram  int      `json:"weightGram" yaml:"weightGram"`
	PriceLabel  string   `json:"priceLabel" yaml:"priceLabel"`
	Image       string   `json:"image" yaml:"image"`
	Gallery     []string `json:"gallery,omitempty" yaml:"gallery"`
	Description string   `json:"description,omitempty" yaml:"description"`
}
