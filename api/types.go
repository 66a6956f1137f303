package api

import (
	"context"
	"time"

	"github.com/rpupo63/realestate-site/catalog"
	"github.com/rpupo63/realestate-site/geo"
	"github.com/rpupo63/realestate-site/models"
	"github.com/rpupo63/realestate-site/seo"
	"github.com/rpupo63/realestate-site/session"
	"github.com/rpupo63/realestate-site/web"
)

// ContentSource is the read side of the backend API.
type ContentSource interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, slug string) (models.Project, error)
	ListNews(ctx context.Context) ([]models.NewsArticle, error)
	GetNews(ctx context.Context, slug string) (models.NewsArticle, error)
	ListNewsCategories(ctx context.Context) ([]models.NewsCategory, error)
	ListBusinessFields(ctx context.Context) ([]models.BusinessField, error)
}

// AuthService is the backend's authentication API.
type AuthService interface {
	Login(ctx context.Context, email, password string) (models.LoginResult, error)
	ForgotPassword(ctx context.Context, email string) error
}

type Geocoder interface {
	Lookup(ctx context.Context, address string) (geo.Point, error)
}

type InquiryStore interface {
	Add(ctx context.Context, inquiry *models.ContactInquiry) error
	FindRecent(ctx context.Context, limit int) ([]*models.ContactInquiry, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type InquiryNotifier interface {
	NotifyInquiry(ctx context.Context, inquiry models.ContactInquiry) error
}

// Dependencies are the collaborators the router wires into its handlers. Geocoder,
// Inquiries and Notifier are optional and must be left nil (not typed nil) when absent.
type Dependencies struct {
	Content   ContentSource
	Auth      AuthService
	Sam       catalog.SamSource
	Geocoder  Geocoder
	Inquiries InquiryStore
	Notifier  InquiryNotifier
	Renderer  *web.Renderer
	Sessions  *session.Store
	Site      seo.Site
}

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	homeHandler     homeHandler
	projectHandler  projectHandler
	newsHandler     newsHandler
	samHandler      samHandler
	contactHandler  contactHandler
	adminHandler    adminHandler
	seoHandler      seoHandler
	fragmentHandler fragmentHandler
	healthHandler   healthHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
}

// ListResponse is the JSON shape of paginated list endpoints.
type ListResponse[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func newListResponse[T any](page catalog.Page[T]) ListResponse[T] {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{
		Items:      items,
		Page:       page.Number,
		PerPage:    page.PerPage,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}
}
