package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shoplane/shoplane-backend/api/controllers"
	"github.com/shoplane/shoplane-backend/api/middleware"
	"github.com/shoplane/shoplane-backend/api/views"
	authsvc "github.com/shoplane/shoplane-backend/internal/auth"
	ordersvc "github.com/shoplane/shoplane-backend/internal/orders"
	productsvc "github.com/shoplane/shoplane-backend/internal/products"
	pkgauth "github.com/shoplane/shoplane-backend/pkg/auth"
	"github.com/shoplane/shoplane-backend/pkg/config"
	"github.com/shoplane/shoplane-backend/pkg/logger"
	"github.com/shoplane/shoplane-backend/pkg/metrics"
)

// Params collects everything the router needs.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	Renderer *views.Renderer

	DB    controllers.Pinger
	Cache controllers.Pinger

	Auth     authsvc.Service
	Products productsvc.Service
	Orders   ordersvc.Service

	Metrics    *metrics.HTTPMetrics
	Registry   *prometheus.Registry
	MediaRoot  string
	ServeMedia bool
}

// NewRouter builds the HTTP surface: HTML pages mirroring the storefront
// URLs, REST collections under /api, exports, the CSV import, and the feed.
func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(p.Metrics),
	)

	authed := middleware.Auth(cfg.JWT, p.Auth, logg)
	staff := middleware.RequireStaff(logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    p.DB,
			"cache": p.Cache,
		}))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Post("/auth/login", controllers.AuthLogin(p.Auth, logg))

	r.Get("/latest/feed/", controllers.LatestOrdersFeed(p.Orders, logg))

	if p.ServeMedia {
		fileServer := http.StripPrefix("/media/", http.FileServer(http.Dir(p.MediaRoot)))
		r.Get("/media/*", fileServer.ServeHTTP)
	}

	// Storefront pages.
	r.Get("/products/", controllers.ProductListPage(p.Products, p.Renderer, logg))
	r.Get("/products/export/", controllers.ProductExport(p.Products, logg))
	r.Get("/products/{productID}/", controllers.ProductDetailPage(p.Products, p.Renderer, logg))

	r.Group(func(r chi.Router) {
		r.Use(authed)

		r.HandleFunc("/products/create", controllers.ProductCreatePage(p.Products, p.Renderer, logg))
		r.HandleFunc("/products/{productID}/update/", controllers.ProductUpdatePage(p.Products, p.Renderer, logg))
		r.HandleFunc("/products/{productID}/confirm-archive/", controllers.ProductConfirmArchivePage(p.Products, p.Renderer, logg))

		r.Get("/orders/", controllers.OrderListPage(p.Orders, p.Renderer, logg))
		r.HandleFunc("/orders/create", controllers.OrderCreatePage(p.Orders, p.Renderer, logg))
		r.With(middleware.RequirePermission(pkgauth.PermOrderView, logg)).
			Get("/orders/{orderID}/", controllers.OrderDetailPage(p.Orders, p.Renderer, logg))
		r.HandleFunc("/orders/{orderID}/update/", controllers.OrderUpdatePage(p.Orders, p.Renderer, logg))
		r.HandleFunc("/orders/{orderID}/delete/", controllers.OrderConfirmDeletePage(p.Orders, p.Renderer, logg))
		r.With(staff).Get("/orders/export/", controllers.OrderExport(p.Orders, logg))
		r.With(staff).HandleFunc("/orders/import-orders-csv/", controllers.OrderImportCSVPage(p.Orders, p.Renderer, logg))

		r.Get("/users/{userID}/orders/", controllers.UserOrdersPage(p.Orders, p.Renderer, logg))
		r.Get("/users/{userID}/orders/export/", controllers.UserOrdersExport(p.Orders, logg))
	})

	// REST collections.
	r.Route("/api", func(r chi.Router) {
		r.Use(authed)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(p.Products, logg))
			r.Post("/", controllers.ProductCreate(p.Products, logg))
			r.With(staff).Post("/archive", controllers.ProductBulkArchive(p.Products, logg))
			r.With(staff).Post("/unarchive", controllers.ProductBulkUnarchive(p.Products, logg))
			r.Route("/{productID}", func(r chi.Router) {
				r.Get("/", controllers.ProductGet(p.Products, logg))
				r.Put("/", controllers.ProductUpdate(p.Products, logg))
				r.Delete("/", controllers.ProductArchive(p.Products, logg))
				r.Delete("/permanent", controllers.ProductDelete(p.Products, logg))
				r.Post("/preview", controllers.ProductUploadPreview(p.Products, logg))
				r.Post("/images", controllers.ProductUploadImage(p.Products, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(p.Orders, logg))
			r.Post("/", controllers.OrderCreate(p.Orders, logg))
			r.With(staff).Post("/import", controllers.OrderImportCSV(p.Orders, logg))
			r.Route("/{orderID}", func(r chi.Router) {
				r.With(middleware.RequirePermission(pkgauth.PermOrderView, logg)).
					Get("/", controllers.OrderGet(p.Orders, logg))
				r.Put("/", controllers.OrderUpdate(p.Orders, logg))
				r.Delete("/", controllers.OrderDelete(p.Orders, logg))
				r.Post("/receipt", controllers.OrderUploadReceipt(p.Orders, logg))
			})
		})

		r.Get("/users/{userID}/orders", controllers.UserOrders(p.Orders, logg))
	})

	return r
}
