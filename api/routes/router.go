package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/geolex-tech/storefront-backend/api/controllers"
	"github.com/geolex-tech/storefront-backend/api/middleware"
	authsvc "github.com/geolex-tech/storefront-backend/internal/auth"
	cartsvc "github.com/geolex-tech/storefront-backend/internal/cart"
	checkoutsvc "github.com/geolex-tech/storefront-backend/internal/checkout"
	ordersvc "github.com/geolex-tech/storefront-backend/internal/orders"
	productsvc "github.com/geolex-tech/storefront-backend/internal/products"
	usersvc "github.com/geolex-tech/storefront-backend/internal/users"
	"github.com/geolex-tech/storefront-backend/pkg/auth/session"
	"github.com/geolex-tech/storefront-backend/pkg/config"
	"github.com/geolex-tech/storefront-backend/pkg/logger"
	"github.com/geolex-tech/storefront-backend/pkg/metrics"
	"github.com/geolex-tech/storefront-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	Auth        authsvc.Service
	Products    productsvc.Service
	Carts       *cartsvc.Manager
	Users       usersvc.Service
	Orders      ordersvc.Service
	Checkout    checkoutsvc.Service
	HTTPMetrics *metrics.HTTPMetrics
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(deps.HTTPMetrics),
	)

	signinPolicy := middleware.ThrottlePolicy{
		Surface:  "signin",
		Window:   cfg.AuthRateLimit.SigninWindow,
		PerIP:    cfg.AuthRateLimit.SigninIPLimit,
		PerEmail: cfg.AuthRateLimit.SigninEmailLimit,
	}
	signupPolicy := middleware.ThrottlePolicy{
		Surface:  "signup",
		Window:   cfg.AuthRateLimit.SignupWindow,
		PerIP:    cfg.AuthRateLimit.SignupIPLimit,
		PerEmail: cfg.AuthRateLimit.SignupEmailLimit,
	}
	resetPolicy := middleware.ThrottlePolicy{
		Surface:  "reset",
		Window:   cfg.AuthRateLimit.ResetWindow,
		PerIP:    cfg.AuthRateLimit.ResetIPLimit,
		PerEmail: cfg.AuthRateLimit.ResetEmailLimit,
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(deps.Products, logg))
		r.Get("/featured", controllers.ProductsFeatured(deps.Products, logg))
		r.Get("/search", controllers.ProductsSearch(deps.Products, logg))
		r.Get("/category/{category}", controllers.ProductsByCategory(deps.Products, cfg.Storefront.DefaultPageSize, logg))
		r.Get("/{id}", controllers.ProductGet(deps.Products, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.Throttle(signinPolicy, deps.Redis, logg)).Post("/signin", controllers.AuthSignIn(deps.Auth, logg))
		r.With(middleware.Throttle(signupPolicy, deps.Redis, logg)).Post("/signup", controllers.AuthSignUp(deps.Auth, logg))
		r.With(middleware.Throttle(resetPolicy, deps.Redis, logg)).Post("/password-reset", controllers.AuthPasswordResetRequest(deps.Auth, logg))
		r.Post("/password-reset/confirm", controllers.AuthPasswordReset(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Post("/auth/signout", controllers.AuthSignOut(deps.Auth, logg))
		r.Post("/auth/password", controllers.AuthPasswordUpdate(deps.Auth, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Carts, logg))
			r.Post("/items", controllers.CartAdd(deps.Carts, deps.Products, logg))
			r.Put("/items/{productId}", controllers.CartSetQuantity(deps.Carts, logg))
			r.Delete("/items/{productId}", controllers.CartRemove(deps.Carts, logg))
			r.Post("/items/{productId}/move-to-wishlist", controllers.CartMoveToWishlist(deps.Carts, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistGet(deps.Carts, logg))
			r.Post("/toggle", controllers.WishlistToggle(deps.Carts, deps.Products, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/profile", controllers.CheckoutProfile(deps.Checkout, logg))
			r.Get("/status", controllers.CheckoutStatus(deps.Checkout, logg))
			r.Post("/", controllers.CheckoutSubmit(deps.Checkout, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(deps.Orders, logg))
			r.Get("/{id}", controllers.OrderGet(deps.Orders, logg))
		})

		r.Route("/account", func(r chi.Router) {
			r.Get("/profile", controllers.ProfileGet(deps.Users, logg))
			r.Put("/profile", controllers.ProfileUpdate(deps.Users, deps.Orders, logg))
			r.Get("/editability", controllers.AccountEditability(deps.Orders, logg))
		})
	})

	return r
}
