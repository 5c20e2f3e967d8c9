package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/giyimsepeti/storefront-system/internal/middleware"
)

func pathParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// SetupRouter wires the API routes with their middleware.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.GzipMiddleware)
	r.Use(middleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)

			r.Group(func(r chi.Router) {
				r.Use(h.auth.RequireUser)
				r.Get("/me", h.Me)
			})
		})

		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)

		r.Route("/orders", func(r chi.Router) {
			r.Use(h.auth.RequireUser)
			r.Post("/", h.CreateOrder)
			r.Get("/my", h.MyOrders)
			r.Get("/track/{orderNo}", h.TrackOrder)
			r.Get("/{orderNo}", h.GetOrder)
			r.Post("/{orderNo}/cancel", h.CancelOrder)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.auth.RequireAdmin)
			r.Get("/orders", h.AdminListOrders)
			r.Put("/orders/{orderNo}/status", h.AdminUpdateOrderStatus)
			r.Post("/orders/{orderNo}/cancel", h.AdminCancelOrder)
			r.Post("/products", h.AdminCreateProduct)
			r.Put("/products/{id}", h.AdminUpdateProduct)
			r.Delete("/products/{id}", h.AdminDeleteProduct)
			r.Post("/users", h.AdminCreateUser)
			r.Get("/users", h.AdminListUsers)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "API endpoint bulunamadi.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "API endpoint bulunamadi.")
	})

	return r
}
