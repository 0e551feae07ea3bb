package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/merakimart/storefront-backend/api/controllers"
	"github.com/merakimart/storefront-backend/api/middleware"
	"github.com/merakimart/storefront-backend/internal/cart"
	"github.com/merakimart/storefront-backend/internal/checkout"
	"github.com/merakimart/storefront-backend/internal/coupons"
	"github.com/merakimart/storefront-backend/internal/settings"
	"github.com/merakimart/storefront-backend/internal/wishlist"
	"github.com/merakimart/storefront-backend/pkg/config"
	"github.com/merakimart/storefront-backend/pkg/db"
	"github.com/merakimart/storefront-backend/pkg/logger"
	"github.com/merakimart/storefront-backend/pkg/redis"
)

// Services groups the wired service layer handed to the router.
type Services struct {
	Cart     cart.Service
	Checkout checkout.Service
	Coupons  coupons.Service
	Wishlist wishlist.Service
	Settings settings.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	registry *prometheus.Registry,
	svcs Services,
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(svcs.Cart, svcs.Checkout, logg))
			r.Route("/items", func(r chi.Router) {
				r.Post("/", controllers.CartAddItem(svcs.Cart, logg))
				r.Post("/bulk-remove", controllers.CartBulkRemove(svcs.Cart, logg))
				r.Post("/bulk-move-to-wishlist", controllers.CartBulkMoveToWishlist(svcs.Cart, logg))
				r.Delete("/{itemId}", controllers.CartRemoveItem(svcs.Cart, logg))
				r.Patch("/{itemId}", controllers.CartUpdateQuantity(svcs.Cart, logg))
				r.Post("/{itemId}/move-to-wishlist", controllers.CartMoveToWishlist(svcs.Cart, logg))
			})
			r.Post("/coupon", controllers.CouponApply(svcs.Checkout, logg))
			r.Delete("/coupon", controllers.CouponRemove(svcs.Checkout, logg))
		})

		r.Get("/coupons", controllers.CouponList(svcs.Coupons, logg))

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(svcs.Wishlist, logg))
			r.Post("/", controllers.WishlistAddItem(svcs.Wishlist, logg))
			r.Delete("/{productId}", controllers.WishlistRemoveItem(svcs.Wishlist, logg))
		})

		r.Get("/settings", controllers.SettingsFetch(svcs.Settings, logg))
	})

	return r
}
