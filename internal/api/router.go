package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/bookhive/bookstore-api/docs"
	"github.com/bookhive/bookstore-api/internal/api/handler"
	"github.com/bookhive/bookstore-api/internal/api/middleware"
	"github.com/bookhive/bookstore-api/internal/core/ports"
	"github.com/bookhive/bookstore-api/internal/infrastructure/http/handlers"
)

// Deps are the services the HTTP layer needs. main wires the MongoDB and
// Redis backed implementations; tests pass in-memory ones.
type Deps struct {
	Auth      ports.AuthService
	Users     ports.UserService
	Books     ports.BookService
	Purchases ports.PurchaseService

	// UserStore backs the admin gate, which re-reads the admin flag on every
	// privileged request.
	UserStore middleware.UserLookup

	JWTSecret string
	Logger    zerolog.Logger
	Health    []handlers.Dependency

	// DisableMetrics skips echoprometheus registration. Tests building several
	// routers in one process set it to avoid duplicate collectors.
	DisableMetrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, "Idempotency-Key"},
	}))

	if !d.DisableMetrics {
		e.Use(echoprometheus.NewMiddleware("bookstore"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	health := handlers.NewHealthHandler(d.Health...)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authn := middleware.Authenticate(d.JWTSecret)
	adminOnly := middleware.RequireAdmin(d.UserStore, d.Logger)

	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users)
	bookHandler := handler.NewBookHandler(d.Books)
	purchaseHandler := handler.NewPurchaseHandler(d.Purchases)

	users := e.Group("/users")
	users.POST("/signup", authHandler.Signup)
	users.POST("/login", authHandler.Login)
	users.POST("/create-admin-key", authHandler.CreateAdminWithKey)

	admin := e.Group("/admin", authn, adminOnly)
	admin.GET("/users", userHandler.ListUsers)
	admin.POST("/user/create-admin", authHandler.CreateAdmin)
	admin.PUT("/user/:id/admin", userHandler.SetAdmin)

	books := e.Group("/books")
	books.GET("", bookHandler.ListBooks)
	books.GET("/:id", bookHandler.GetBook)
	books.POST("", bookHandler.CreateBook, authn, adminOnly)
	books.PUT("/:id", bookHandler.UpdateBook, authn, adminOnly)
	books.DELETE("/:id", bookHandler.DeleteBook, authn, adminOnly)
	books.POST("/:id/purchase", purchaseHandler.Purchase, authn)

	return e
}
