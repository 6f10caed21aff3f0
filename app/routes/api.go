// Package routes declares the storefront's HTTP surface.
package routes

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/controllers"
	appctx "github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

// API is everything the route table mounts.
type API struct {
	Auth       *controllers.AuthController
	Orders     *controllers.OrderController
	Categories *controllers.CategoryController
	Products   *controllers.ProductController
	Payments   *controllers.PaymentController

	// OrderFeed streams order events to admins over WebSocket.
	OrderFeed http.HandlerFunc

	// SignIn verifies the bearer token; Admin re-checks the stored role.
	SignIn router.Middleware
	Admin  router.Middleware
}

var wrap = appctx.Wrap

func RegisterAPI(r *router.Router, api API) {
	signedIn := []router.Middleware{api.SignIn}
	admin := []router.Middleware{api.SignIn, api.Admin}

	v1 := r.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/register", "auth.register", wrap(api.Auth.Register))
	authGroup.Post("/login", "auth.login", wrap(api.Auth.Login))
	authGroup.Post("/forgot-password", "auth.forgot_password", wrap(api.Auth.ForgotPassword))
	authGroup.Get("/test", "auth.test", wrap(api.Auth.Test), admin...)
	authGroup.Get("/user-auth", "auth.user_auth", wrap(api.Auth.Ok), signedIn...)
	authGroup.Get("/admin-auth", "auth.admin_auth", wrap(api.Auth.Ok), admin...)
	authGroup.Put("/profile", "auth.profile", wrap(api.Auth.UpdateProfile), signedIn...)
	authGroup.Get("/orders", "auth.orders", wrap(api.Orders.Orders), signedIn...)
	authGroup.Get("/all-orders", "auth.all_orders", wrap(api.Orders.AllOrders), admin...)
	authGroup.Put("/order-status/{orderId}", "auth.order_status", wrap(api.Orders.UpdateStatus), admin...)
	if api.OrderFeed != nil {
		authGroup.Get("/order-feed", "auth.order_feed", api.OrderFeed, admin...)
	}

	category := v1.Group("/category")
	category.Post("/create-category", "category.create", wrap(api.Categories.Create), admin...)
	category.Put("/update-category/{id}", "category.update", wrap(api.Categories.Update), admin...)
	category.Get("/get-category", "category.list", wrap(api.Categories.List))
	category.Get("/single-category/{slug}", "category.single", wrap(api.Categories.Single))
	category.Delete("/delete-category/{id}", "category.delete", wrap(api.Categories.Delete), admin...)

	product := v1.Group("/product")
	product.Post("/create-product", "product.create", wrap(api.Products.Create), admin...)
	product.Put("/update-product/{pid}", "product.update", wrap(api.Products.Update), admin...)
	product.Get("/get-product", "product.list", wrap(api.Products.List))
	product.Get("/get-product/{slug}", "product.single", wrap(api.Products.Single))
	product.Get("/product-photo/{pid}", "product.photo", wrap(api.Products.Photo))
	product.Delete("/delete-product/{pid}", "product.delete", wrap(api.Products.Delete), admin...)
	product.Post("/product-filters", "product.filters", wrap(api.Products.Filters))
	product.Get("/product-count", "product.count", wrap(api.Products.Count))
	product.Get("/product-list/{page}", "product.page", wrap(api.Products.Page))
	product.Get("/search/{keyword}", "product.search", wrap(api.Products.Search))
	product.Get("/related-product/{pid}/{cid}", "product.related", wrap(api.Products.Related))
	product.Get("/product-category/{slug}", "product.by_category", wrap(api.Products.ByCategory))
	product.Get("/braintree/token", "payment.token", wrap(api.Payments.Token), signedIn...)
	product.Post("/braintree/payment", "payment.checkout", wrap(api.Payments.Checkout), signedIn...)
}
