package handler

import (
	"log/slog"
	"net/http"
	"time"

	"locallibrary/internal/http-api/dto"
	"locallibrary/internal/http-api/middleware"
	"locallibrary/internal/http-api/models"
	"locallibrary/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the router dispatches to.
type Services struct {
	Catalog   service.CatalogService
	Books     service.BookService
	Authors   service.AuthorService
	Genres    service.GenreService
	Instances service.InstanceService
	Loans     service.LoanService
	Auth      service.AuthService
}

type RouterOptions struct {
	RequestTimeout time.Duration
	AuthRateLimit  float64
	AuthRateBurst  int
	Logger         *slog.Logger
}

// NewRouter builds the gin engine with every route of the catalog API.
func NewRouter(svcs Services, opts RouterOptions) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(opts.Logger))
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/auth")
	if opts.AuthRateLimit > 0 {
		authGroup.Use(middleware.NewRateLimiter(opts.AuthRateLimit, opts.AuthRateBurst).Middleware())
	}
	NewAuthHandler(svcs.Auth, opts.Logger).RegisterRoutes(authGroup)

	// services decide what an anonymous actor may do
	api := r.Group("/", middleware.OptionalAuth(svcs.Auth))
	editor := middleware.RequireCapability(models.CanEditCatalog)

	api.GET("", NewIndexHandler(svcs.Catalog).Index)
	NewBookHandler(svcs.Books).RegisterRoutes(api.Group("/books"), editor)
	NewAuthorHandler(svcs.Authors).RegisterRoutes(api.Group("/authors"), editor)
	NewGenreHandler(svcs.Genres).RegisterRoutes(api.Group("/genres"), editor)
	NewInstanceHandler(svcs.Instances).RegisterRoutes(api.Group("/instances"), editor)
	NewLoanHandler(svcs.Loans).RegisterRoutes(api)

	return r
}
