// Package kernel assembles the storefront's HTTP handler from its
// dependencies: global middleware, the API route table, GraphQL, the
// order feed, /metrics and /healthz.
package kernel

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/storefront/app/controllers"
	"github.com/shashiranjanraj/storefront/app/gateway"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/repositories/mongostore"
	"github.com/shashiranjanraj/storefront/app/repositories/sqlstore"
	"github.com/shashiranjanraj/storefront/app/routes"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/graphql"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/rbac"
	"github.com/shashiranjanraj/storefront/pkg/reqid"
	"github.com/shashiranjanraj/storefront/pkg/response"
	"github.com/shashiranjanraj/storefront/pkg/router"
	"github.com/shashiranjanraj/storefront/pkg/ws"
)

// Deps are the kernel's collaborators. Cache, Bus and Feed may be nil.
type Deps struct {
	Store    *repositories.Store
	Gateway  gateway.Gateway
	Cache    *cache.Cache
	Bus      *event.Bus
	Feed     *ws.Hub
	Secret   []byte
	TokenTTL time.Duration

	CORSOrigins        []string
	RateLimitPerMinute int
}

// Kernel is the assembled application.
type Kernel struct {
	router *router.Router
}

// New builds every service and controller and mounts the routes.
func New(d Deps) (*Kernel, error) {
	authSvc := services.NewAuthService(d.Store.Users, d.Secret, d.TokenTTL)
	categorySvc := services.NewCategoryService(d.Store.Categories, d.Store.Products, d.Cache)
	productSvc := services.NewProductService(d.Store.Products, d.Store.Categories, d.Cache)
	orderSvc := services.NewOrderService(d.Store.Orders, d.Store.Users, d.Bus)
	paymentSvc := services.NewPaymentService(d.Store.Products, d.Store.Orders, d.Gateway, d.Bus)

	schema, err := controllers.NewCatalogSchema(productSvc, categorySvc)
	if err != nil {
		return nil, fmt.Errorf("kernel: graphql schema: %w", err)
	}

	if d.Bus != nil && d.Feed != nil {
		publish := func(e event.Event) { d.Feed.Publish(e) }
		d.Bus.Listen(event.OrderCreated, publish)
		d.Bus.Listen(event.OrderStatusUpdated, publish)
	}

	r := router.New()

	// Outermost first: metrics see total latency, recovery guards the rest,
	// the request id exists before anything logs.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(d.CORSOrigins...)))
	if d.RateLimitPerMinute > 0 {
		r.Use(middleware.RateLimit(d.RateLimitPerMinute, time.Minute))
	}

	r.Handle("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, http.StatusOK, response.Map{"status": "ok"})
	})
	r.Post("/graphql", "graphql", graphql.Handler(schema))
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found")
	})

	api := routes.API{
		Auth:       controllers.NewAuthController(authSvc),
		Orders:     controllers.NewOrderController(orderSvc),
		Categories: controllers.NewCategoryController(categorySvc),
		Products:   controllers.NewProductController(productSvc),
		Payments:   controllers.NewPaymentController(paymentSvc),
		SignIn:     middleware.RequireSignIn(d.Secret),
		Admin:      rbac.IsAdmin(authSvc),
	}
	if d.Feed != nil {
		api.OrderFeed = d.Feed.ServeHTTP
	}
	routes.RegisterAPI(r, api)

	return &Kernel{router: r}, nil
}

// Handler is the root http.Handler.
func (k *Kernel) Handler() http.Handler { return k.router.Handler() }

// Routes lists every mounted route.
func (k *Kernel) Routes() []router.Route { return k.router.Routes() }

// OpenStore connects the backend selected by DB_DRIVER.
func OpenStore(ctx context.Context) (*repositories.Store, error) {
	driver := config.DatabaseDriver()
	if driver == "mongo" {
		return mongostore.Open(ctx, config.MongoURI(), config.MongoDatabase())
	}
	return sqlstore.Open(driver, config.DatabaseDSN())
}

// Gateway builds the Braintree client from config.
func Gateway() (*gateway.Braintree, error) {
	return gateway.NewBraintree(gateway.BraintreeConfig{
		Environment: config.BraintreeEnvironment(),
		MerchantID:  config.BraintreeMerchantID(),
		PublicKey:   config.BraintreePublicKey(),
		PrivateKey:  config.BraintreePrivateKey(),
	})
}
