package backend

import (
	"context"
	"net/url"

	"github.com/rpupo63/realestate-site/models"
)

func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.get(ctx, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) GetProject(ctx context.Context, slug string) (models.Project, error) {
	var project models.Project
	err := c.get(ctx, "/projects/slug/"+url.PathEscape(slug), nil, &project)
	return project, err
}

func (c *Client) ListNews(ctx context.Context) ([]models.NewsArticle, error) {
	var articles []models.NewsArticle
	if err := c.get(ctx, "/news", nil, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (c *Client) GetNews(ctx context.Context, slug string) (models.NewsArticle, error) {
	var article models.NewsArticle
	err := c.get(ctx, "/news/slug/"+url.PathEscape(slug), nil, &article)
	return article, err
}

func (c *Client) ListNewsCategories(ctx context.Context) ([]models.NewsCategory, error) {
	var categories []models.NewsCategory
	if err := c.get(ctx, "/news/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) ListBusinessFields(ctx context.Context) ([]models.BusinessField, error) {
	var fields []models.BusinessField
	if err := c.get(ctx, "/business-fields", nil, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func (c *Client) ListSamProducts(ctx context.Context) ([]models.SamProduct, error) {
	var products []models.SamProduct
	if err := c.get(ctx, "/sam-products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetSamProduct(ctx context.Context, id string) (models.SamProduct, error) {
	var product models.SamProduct
	err := c.get(ctx, "/sam-products/"+url.PathEscape(id), nil, &product)
	return product, err
}
