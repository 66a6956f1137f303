package api

import (
	"context"
	"time"

	"github.com/rpupo63/realestate-site/catalog"
	"github.com/rpupo63/realestate-site/lazy"
	"github.com/rpupo63/realestate-site/models"
	"github.com/rpupo63/realestate-site/web"
)

// fragment is a home-page block that can be mounted lazily.
type fragment[T any] struct {
	block lazy.Block
	load  func(ctx context.Context) ([]T, error)
}

// section mounts the block through observer. Without an observer it mounts at once and
// the content is fetched inline; otherwise the placeholder is returned for the browser
// to fill in.
func (f fragment[T]) section(ctx context.Context, observer lazy.Observer) web.Section[T] {
	s := lazy.New(f.block.Options, observer, nil)
	defer s.Close()

	if !s.Mounted() {
		placeholder, err := f.block.Placeholder()
		if err != nil {
			return web.NewSection[T](nil, err)
		}
		return web.Loading[T](placeholder)
	}

	items, err := f.load(ctx)
	return web.NewSection(items, err)
}

// render fetches the block for GET /fragments/{name}.
func (f fragment[T]) render(ctx context.Context) any {
	return f.section(ctx, nil)
}

type homeFragments struct {
	news   fragment[models.NewsArticle]
	sam    fragment[models.SamProduct]
	fields fragment[models.BusinessField]
}

const (
	latestNewsCount    = 3
	samHighlightsCount = 4
)

func newHomeFragments(content ContentSource, sam catalog.SamSource) homeFragments {
	return homeFragments{
		news: fragment[models.NewsArticle]{
			block: lazy.Block{
				Name:    "latest-news",
				Src:     "/fragments/latest-news",
				Options: lazy.Options{Threshold: 0.1, PlaceholderHeight: 420},
			},
			load: func(ctx context.Context) ([]models.NewsArticle, error) {
				articles, err := content.ListNews(ctx)
				if err != nil {
					return nil, err
				}
				latest := catalog.FilterNews(articles, catalog.NewsFilter{})
				if len(latest) > latestNewsCount {
					latest = latest[:latestNewsCount]
				}
				return latest, nil
			},
		},
		sam: fragment[models.SamProduct]{
			block: lazy.Block{
				Name:    "sam-highlights",
				Src:     "/fragments/sam-highlights",
				Options: lazy.Options{Threshold: 0.25, Delay: 150 * time.Millisecond, PlaceholderHeight: 380},
			},
			load: func(ctx context.Context) ([]models.SamProduct, error) {
				products, err := sam.ListSamProducts(ctx)
				if err != nil {
					return nil, err
				}
				if len(products) > samHighlightsCount {
					products = products[:samHighlightsCount]
				}
				return products, nil
			},
		},
		fields: fragment[models.BusinessField]{
			block: lazy.Block{
				Name:    "business-fields",
				Src:     "/fragments/business-fields",
				Options: lazy.Options{Threshold: 0.1, PlaceholderHeight: 320},
			},
			load: content.ListBusinessFields,
		},
	}
}

// byName maps fragment names to their inline renderers.
func (f homeFragments) byName() map[string]func(ctx context.Context) any {
	return map[string]func(ctx context.Context) any{
		f.news.block.Name:   f.news.render,
		f.sam.block.Name:    f.sam.render,
		f.fields.block.Name: f.fields.render,
	}
}
