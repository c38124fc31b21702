package products

import "github.com/go-chi/chi/v5"

// RegisterRoutes registra rutas de productos en el router.
// Las rutas estáticas (search, in-stock, ...) tienen prioridad sobre /{id} en chi.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Route("/products", func(route chi.Router) {
		route.Post("/", handler.Create)
		route.Get("/", handler.List)
		route.Get("/search", handler.Search)
		route.Get("/price-range", handler.ListByPriceRange)
		route.Get("/in-stock", handler.ListInStock)
		route.Get("/out-of-stock", handler.ListOutOfStock)
		route.Get("/category/{category}", handler.ListByCategory)
		route.Get("/{id}", handler.GetByID)
		route.Put("/{id}", handler.Update)
		route.Delete("/{id}", handler.Delete)
	})
}
