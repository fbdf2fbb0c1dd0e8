package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/greenbasket-io/greenbasket-backend/api/controllers"
	"github.com/greenbasket-io/greenbasket-backend/api/middleware"
	"github.com/greenbasket-io/greenbasket-backend/internal/cart"
	"github.com/greenbasket-io/greenbasket-backend/internal/catalog"
	"github.com/greenbasket-io/greenbasket-backend/internal/orders"
	"github.com/greenbasket-io/greenbasket-backend/pkg/config"
	"github.com/greenbasket-io/greenbasket-backend/pkg/db"
	"github.com/greenbasket-io/greenbasket-backend/pkg/logger"
	pkgredis "github.com/greenbasket-io/greenbasket-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	carts *cart.Manager,
	catalogSvc catalog.Service,
	ordersSvc orders.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductsList(catalogSvc, logg))
		r.Get("/products/{productID}", controllers.ProductsGet(catalogSvc, logg))
		r.Get("/stores", controllers.StoresList(catalogSvc, logg))
		r.Get("/stores/{storeID}/slots", controllers.StoreSlotsList(catalogSvc, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(redisClient, cfg.Checkout.IdempotencyTTL, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(carts, logg))
				r.Delete("/", controllers.CartClear(carts, logg))
				r.Post("/items", controllers.CartAddItem(carts, catalogSvc, logg))
				r.Put("/items/{productID}", controllers.CartSetQuantity(carts, logg))
				r.Delete("/items/{productID}", controllers.CartRemoveItem(carts, logg))
			})

			r.Post("/checkout", controllers.Checkout(carts, ordersSvc, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(ordersSvc, logg))
				r.Get("/{orderID}", controllers.OrdersGet(ordersSvc, logg))
			})
		})
	})

	return r
}
