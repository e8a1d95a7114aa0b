package router

import (
	"net/http"

	"vinyl-crate/internal/handler"
	"vinyl-crate/internal/middleware"
	"vinyl-crate/internal/model"
	"vinyl-crate/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers wired into the router.
type Handlers struct {
	Vinyl *handler.VinylHandler
	Cart  *handler.CartHandler
	Order *handler.OrderHandler
	Auth  *handler.AuthHandler
}

// New creates the API router with all routes and middleware configured.
func New(h Handlers, auth service.AuthService, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.BearerAuth(auth, logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		// Public catalogue routes
		r.Get("/vinyls", h.Vinyl.GetAll)
		r.Get("/vinyls/featured", h.Vinyl.GetFeatured)
		r.Get("/vinyls/search", h.Vinyl.Search)
		r.Get("/vinyls/slug/{slug}", h.Vinyl.GetBySlug)
		r.Get("/vinyls/{id}", h.Vinyl.GetByID)

		// Account routes
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/verify", h.Auth.VerifyEmail)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser(logger))
			r.Post("/auth/password", h.Auth.ChangePassword)
			r.Get("/auth/me", h.Auth.Me)
		})

		// Cart and checkout routes need an authenticated user
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser(logger))

			r.Get("/cart", h.Cart.Get)
			r.Put("/cart", h.Cart.Replace)
			r.Delete("/cart", h.Cart.Delete)
			r.Post("/cart/merge", h.Cart.Merge)
			r.Put("/cart/items/{productId}", h.Cart.UpsertItem)
			r.Delete("/cart/items/{productId}", h.Cart.RemoveItem)

			r.Post("/checkout", h.Order.Checkout)
			r.Get("/orders", h.Order.ListMine)
			r.Get("/orders/{id}", h.Order.GetByID)
		})

		// Order administration
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleAdmin, logger))
			r.Patch("/orders/{id}", h.Order.Update)
			r.Delete("/orders/{id}", h.Order.Delete)
		})
	})

	return r
}
