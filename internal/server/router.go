package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"gandalf/internal/category"
	"gandalf/internal/middleware"
	ordercontroller "gandalf/internal/order/controller"
	"gandalf/internal/product"
	"gandalf/internal/user"
)

type Controllers struct {
	Orders     *ordercontroller.Controller
	Products   *product.Controller
	Users      *user.Controller
	Categories *category.Controller
}

func NewRouter(
	controllers Controllers,
	client *mongo.Client,
	metrics *middleware.RequestMetrics,
	errorSink middleware.ErrorRecorder,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(metrics.Middleware)
	r.Use(middleware.Recoverer(logger, errorSink))
	r.Use(middleware.Actor)

	r.Get("/healthz", healthHandler(client, logger))
	r.Method(http.MethodGet, "/metrics", middleware.MetricsHandler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/checkout", controllers.Orders.HandleCheckout)
		r.Post("/checkout/confirm", controllers.Orders.HandleConfirmPayment)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.Orders.HandleListOrders)
			r.Get("/latest", controllers.Orders.HandleLatestOrder)
			r.Get("/{orderId}", controllers.Orders.HandleGetOrder)
			r.Get("/{orderId}/invoice", controllers.Orders.HandleInvoice)
			r.Patch("/{orderId}/status", controllers.Orders.HandleUpdateStatus)
			r.Delete("/{orderId}", controllers.Orders.HandleDeleteOrder)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.Users.HandleList)
			r.Get("/report", controllers.Users.HandleReport)
			r.Get("/{userId}", controllers.Users.HandleGet)
			r.Put("/{userId}", controllers.Users.HandleUpdate)
			r.Delete("/{userId}", controllers.Users.HandleDelete)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.Products.HandleList)
			r.Get("/{productId}", controllers.Products.HandleGet)
			r.Post("/", controllers.Products.HandleCreate)
			r.Put("/{productId}", controllers.Products.HandleUpdate)
			r.Delete("/{productId}", controllers.Products.HandleDelete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.Categories.HandleList)
			r.Post("/", controllers.Categories.HandleCreate)
			r.Put("/{categoryId}", controllers.Categories.HandleUpdate)
			r.Delete("/{categoryId}", controllers.Categories.HandleDelete)
		})
	})

	return r
}

// healthHandler reports store reachability. An unreachable store makes this
// endpoint fail; it never crashes the process.
func healthHandler(client *mongo.Client, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := client.Ping(ctx, nil); err != nil {
			logger.Error("health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
