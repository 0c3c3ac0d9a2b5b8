package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quickpour/quickpour-backend/api/controllers"
	"github.com/quickpour/quickpour-backend/api/middleware"
	checkoutsvc "github.com/quickpour/quickpour-backend/internal/checkout"
	"github.com/quickpour/quickpour-backend/internal/drivers"
	"github.com/quickpour/quickpour-backend/internal/notifications"
	"github.com/quickpour/quickpour-backend/internal/orders"
	"github.com/quickpour/quickpour-backend/internal/stores"
	"github.com/quickpour/quickpour-backend/pkg/config"
	"github.com/quickpour/quickpour-backend/pkg/db"
	"github.com/quickpour/quickpour-backend/pkg/logger"
	"github.com/quickpour/quickpour-backend/pkg/redis"
)

type Dependencies struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            db.Pinger
	Redis         *redis.Client
	Gatherer      prometheus.Gatherer
	Checkout      checkoutsvc.Service
	Orders        orders.Service
	Stores        stores.Service
	Notifications notifications.Service
	Drivers       *drivers.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	var redisP redis.Pinger
	var idemStore redis.IdempotencyStore
	if deps.Redis != nil {
		redisP = deps.Redis
		idemStore = deps.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisP))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity(logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.Orders, logg))
			r.Get("/{orderId}", controllers.GetOrder(deps.Orders, logg))
			r.Post("/{orderId}/status", controllers.TransitionOrderStatus(deps.Orders, logg))
		})

		r.Route("/stores", func(r chi.Router) {
			r.Get("/{storeId}", controllers.GetStore(deps.Stores, logg))
			r.Get("/{storeId}/locations", controllers.ListStoreLocations(deps.Stores, logg))
			r.Get("/{storeId}/orders", controllers.ListStoreOrders(deps.Orders, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
		})

		r.Get("/drivers/locations", controllers.DriverLocations(deps.Drivers, logg))
	})

	return r
}
