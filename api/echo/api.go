// Package echo wires the FarmCare services to an Echo HTTP server.
package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/farmcare/farmcare/api"
	"github.com/farmcare/farmcare/domain"
	"github.com/farmcare/farmcare/internal/auth"
	"github.com/farmcare/farmcare/mongodb"
	"github.com/farmcare/farmcare/services"
)

// FarmCareAPI holds the service dependencies of the HTTP surface.
type FarmCareAPI struct {
	auth     *services.AuthService
	tokens   *services.TokenService
	schemes  *services.SchemeService
	prices   *services.PriceService
	articles *services.ArticleService
	news     *services.NewsService
	weather  *services.WeatherService
	uploads  *services.UploadService
}

// NewFarmCareAPI initializes the API.
func NewFarmCareAPI(
	auth *services.AuthService,
	tokens *services.TokenService,
	schemes *services.SchemeService,
	prices *services.PriceService,
	articles *services.ArticleService,
	news *services.NewsService,
	weather *services.WeatherService,
	uploads *services.UploadService,
) *FarmCareAPI {
	return &FarmCareAPI{
		auth:     auth,
		tokens:   tokens,
		schemes:  schemes,
		prices:   prices,
		articles: articles,
		news:     news,
		weather:  weather,
		uploads:  uploads,
	}
}

// RegisterRoutes registers all routes on the Echo instance.
func (fa *FarmCareAPI) RegisterRoutes(e *echo.Echo) {
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.GET("/health", fa.HealthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	g := e.Group("/api")

	g.POST("/register", fa.RegisterHandler)
	g.POST("/login", fa.LoginHandler)
	g.POST("/admin/login", fa.AdminLoginHandler)
	g.GET("/states", fa.StatesHandler)
	g.GET("/regions", fa.RegionsHandler)

	authed := g.Group("", fa.RequireAuth)
	authed.POST("/logout", fa.LogoutHandler)
	authed.GET("/profile", fa.GetProfileHandler)
	authed.PUT("/profile", fa.UpdateProfileHandler)
	authed.POST("/profile/image", fa.ProfileImageHandler)
	authed.GET("/schemes", fa.ListSchemesHandler)
	authed.GET("/prices", fa.ListPricesHandler)
	authed.GET("/articles", fa.ListArticlesHandler)
	authed.GET("/articles/:id", fa.GetArticleHandler)
	authed.GET("/news", fa.ListNewsHandler)
	authed.GET("/news/:id", fa.GetNewsHandler)
	authed.GET("/weather", fa.WeatherHandler)
	authed.POST("/upload", fa.UploadHandler)
	authed.GET("/uploads", fa.UploadHistoryHandler)

	admin := g.Group("/admin", fa.RequireAuth, fa.RequireAdmin)
	admin.POST("/schemes", fa.CreateSchemeHandler)
	admin.PUT("/schemes/:id", fa.UpdateSchemeHandler)
	admin.DELETE("/schemes/:id", fa.DeleteSchemeHandler)
	admin.POST("/prices", fa.CreatePriceHandler)
	admin.PUT("/prices/:id", fa.UpdatePriceHandler)
	admin.DELETE("/prices/:id", fa.DeletePriceHandler)
	admin.POST("/articles", fa.CreateArticleHandler)
	admin.PUT("/articles/:id", fa.UpdateArticleHandler)
	admin.DELETE("/articles/:id", fa.DeleteArticleHandler)
	admin.POST("/news", fa.CreateNewsHandler)
	admin.PUT("/news/:id", fa.UpdateNewsHandler)
	admin.DELETE("/news/:id", fa.DeleteNewsHandler)
}

// HealthHandler reports process and database health.
func (fa *FarmCareAPI) HealthHandler(c echo.Context) error {
	if err := mongodb.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// jsonError writes the uniform error body.
func jsonError(c echo.Context, status int, err error) error {
	return c.JSON(status, api.ErrorResponse{Error: err.Error()})
}

// serviceError maps service and domain errors onto HTTP statuses.
func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return jsonError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrUseAdminLogin):
		return jsonError(c, http.StatusUnauthorized, err)
	case errors.Is(err, services.ErrAdminOnly):
		return jsonError(c, http.StatusForbidden, err)
	case errors.Is(err, domain.ErrDuplicateUser), errors.Is(err, domain.ErrEmailInUse):
		return jsonError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrMobileImmutable),
		errors.Is(err, services.ErrWrongPassword),
		errors.Is(err, services.ErrInvalidAdminKey),
		errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrUnsupportedImage),
		errors.Is(err, services.ErrImageTooLarge):
		return jsonError(c, http.StatusBadRequest, err)
	default:
		var vErr auth.ValidationError
		if errors.As(err, &vErr) {
			return jsonError(c, http.StatusBadRequest, err)
		}
		return jsonError(c, http.StatusInternalServerError, errors.New("internal server error"))
	}
}
