package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/realestate-site/web"
)

// setupPublicRoutes sets up the pages, fragments and SEO files
func setupPublicRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/", handlers.homeHandler.getHome())
	r.Get("/about", handlers.homeHandler.getAbout())

	r.Get("/projects", handlers.projectHandler.getProjects())
	r.Get("/projects/{slug}", handlers.projectHandler.getProject())

	r.Get("/news", handlers.newsHandler.getNews())
	r.Get("/news/{slug}", handlers.newsHandler.getArticle())

	r.Get("/sam", handlers.samHandler.getCatalog())
	r.Get("/sam/{slug}", handlers.samHandler.getProduct())

	r.Get("/contact", handlers.contactHandler.getContact())
	r.Post("/contact", handlers.contactHandler.postContact())

	r.Get("/fragments/{name}", handlers.fragmentHandler.getFragment())

	r.Get("/sitemap.xml", handlers.seoHandler.getSitemap())
	r.Get("/robots.txt", handlers.seoHandler.getRobots())
}

// setupAdminRoutes sets up the admin shell. Every route passes the cookie guard; all
// but login and forgot-password also need a valid session.
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, notFound http.HandlerFunc) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authMiddleware.guard)

		r.Get("/login", handlers.adminHandler.getLogin())
		r.Post("/login", handlers.adminHandler.postLogin())
		r.Get("/forgot-password", handlers.adminHandler.getForgotPassword())
		r.Post("/forgot-password", handlers.adminHandler.postForgotPassword())

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Get("/", handlers.adminHandler.getDashboard())
			r.Post("/logout", handlers.adminHandler.postLogout())
			r.NotFound(notFound)
		})
	})
}

// setupAPIRoutes sets up the read-only JSON endpoints
func setupAPIRoutes(r chi.Router, handlers *routeHandlers, acceptedOrigins []string) {
	r.Route("/api", func(r chi.Router) {
		r.Use(CORSCheckMiddleware(acceptedOrigins))
		r.Use(corsMiddleware(acceptedOrigins))

		r.Get("/projects", handlers.projectHandler.listProjects())
		r.Get("/news", handlers.newsHandler.listNews())
		r.Get("/sam-products", handlers.samHandler.listProducts())
		r.Get("/sam-products/{id}", handlers.samHandler.getProductJSON())
	})
}

func setupStaticRoutes(r chi.Router, handlers *routeHandlers) {
	r.Handle("/static/*", http.StripPrefix("/static/", web.StaticHandler()))
	r.Get("/healthz", handlers.healthHandler.getHealth())
}
