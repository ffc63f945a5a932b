package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/readora/market-service/internal/errs"
	"github.com/readora/market-service/internal/service/access"
	"github.com/readora/market-service/internal/stats"
	"github.com/readora/market-service/pkg/auth"
	md "github.com/readora/market-service/pkg/middleware"
	"github.com/readora/market-service/pkg/validate"
	_ "github.com/readora/market-service/swagger"
)

type Handler struct {
	userSvc    UserService
	catalogSvc CatalogService
	cartSvc    CartService
	orderSvc   OrderService
	collector  *stats.Collector
	log        *zap.Logger
}

func New(userSvc UserService, catalogSvc CatalogService, cartSvc CartService, orderSvc OrderService, collector *stats.Collector, log *zap.Logger) *Handler {
	return &Handler{
		userSvc:    userSvc,
		catalogSvc: catalogSvc,
		cartSvc:    cartSvc,
		orderSvc:   orderSvc,
		collector:  collector,
		log:        log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/manage/stats", h.Stats)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()

	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/register", h.Register)
	api.POST("/login", h.Login)

	api.GET("/categories", h.Categories)
	api.GET("/books", h.GetBooks)
	api.GET("/books/:id", h.GetBook)
	api.GET("/books/:id/reviews", h.GetReviews)

	authAPI := api.Group("", md.JwtAuthentication)

	authAPI.GET("/me", h.Me)
	authAPI.PUT("/me", h.UpdateProfile)

	authAPI.POST("/books", h.CreateBook)
	authAPI.PUT("/books/:id", h.UpdateBook)
	authAPI.DELETE("/books/:id", h.DeleteBook)
	authAPI.GET("/author/books", h.AuthorBooks)
	authAPI.POST("/books/:id/reviews", h.CreateReview)

	authAPI.GET("/cart", h.GetCart)
	authAPI.POST("/cart", h.AddCartItem)
	authAPI.DELETE("/cart/:id", h.RemoveCartItem)
	authAPI.DELETE("/cart", h.ClearCart)

	authAPI.GET("/orders", h.GetOrders)
	authAPI.GET("/orders/:id", h.GetOrder)
	authAPI.POST("/checkout", h.Checkout)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.collector.Snapshot())
}

// actorFromContext reads the authenticated profile placed by the JWT
// middleware.
func actorFromContext(c echo.Context) (access.Actor, error) {
	p, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return access.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, errs.ErrUnauthorized.Error())
	}
	return access.Actor{ID: p.UserID, IsAuthor: p.IsAuthor}, nil
}

// httpError maps the service error taxonomy onto transport status codes.
func httpError(err error) error {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrEmptyCart),
		errors.Is(err, errs.ErrInvalidPurchase),
		errors.Is(err, errs.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
