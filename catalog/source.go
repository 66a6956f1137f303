package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/rpupo63/realestate-site/errs"
	"github.com/rpupo63/realestate-site/models"
	"gopkg.in/yaml.v3"
)

//go:embed data/sam_products.yaml
var samProductsYAML []byte

// SamSource lists and looks up ginseng products.
type SamSource interface {
	ListSamProducts(ctx context.Context) ([]models.SamProduct, error)
	GetSamProduct(ctx context.Context, id string) (models.SamProduct, error)
}

// MockSamSource serves the bundled data set.
type MockSamSource struct {
	products []models.SamProduct
}

// NewMockSamSource parses the embedded YAML data set.
func NewMockSamSource() (*MockSamSource, error) {
	return ParseSamProducts(samProductsYAML)
}

func ParseSamProducts(raw []byte) (*MockSamSource, error) {
	var doc struct {
		Products []models.SamProduct `yaml:"products"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse sam products: %w", err)
	}

	seen := make(map[string]bool, len(doc.Products))
	for _, p := range doc.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("parse sam products: product %q has no id", p.Name)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("parse sam products: duplicate id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return &MockSamSource{products: doc.Products}, nil
}

// ListSamProducts returns a copy so callers may filter in place.
func (m *MockSamSource) ListSamProducts(ctx context.Context) ([]models.SamProduct, error) {
	out := make([]models.SamProduct, len(m.products))
	copy(out, m.products)
	return out, nil
}

func (m *MockSamSource) GetSamProduct(ctx context.Context, id string) (models.SamProduct, error) {
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.SamProduct{}, errs.NewNotFoundError("sam product " + id)
}
