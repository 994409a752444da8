package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type crudRoutes interface {
	list() http.HandlerFunc
	create() http.HandlerFunc
	update() http.HandlerFunc
	remove() http.HandlerFunc
}

// setupRoutes mounts every endpoint under /api and the Swagger UI under /docs
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", handlers.authHandler.register())
		r.Post("/login", handlers.authHandler.login())

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)
			r.Get("/check-token", handlers.authHandler.checkToken())
			r.Get("/protected", handlers.authHandler.protected())
			r.Post("/upload-image", handlers.uploadHandler.uploadImage())
			r.Post("/upload-base64", handlers.uploadHandler.uploadBase64())
		})

		r.Route("/projects", func(r chi.Router) {
			mountResource(r, handlers.projectHandler, authMiddleware)
			r.Get("/{id}", handlers.projectHandler.getProject())
		})
		r.Route("/education", func(r chi.Router) {
			mountResource(r, handlers.educationHandler, authMiddleware)
		})
		r.Route("/certifications", func(r chi.Router) {
			mountResource(r, handlers.certificationHandler, authMiddleware)
		})
		r.Route("/blogposts", func(r chi.Router) {
			mountResource(r, handlers.blogPostHandler, authMiddleware)
		})
		r.Route("/work-experiences", func(r chi.Router) {
			mountResource(r, handlers.workExperienceHandler, authMiddleware)
		})
		r.Route("/programming-skills", func(r chi.Router) {
			mountResource(r, handlers.programmingSkillHandler, authMiddleware)
		})
	})
}

// mountResource registers the public list and the authenticated writes of one entity
func mountResource(r chi.Router, h crudRoutes, authMiddleware authMiddleware) {
	r.Get("/", h.list())
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Post("/", h.create())
		r.Put("/{id}", h.update())
		r.Delete("/{id}", h.remove())
	})
}
