package router

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"pollbox/internal/auth"
	"pollbox/internal/config"
	"pollbox/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	pollHandler *handler.PollHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)
	api.POST("/session", authHandler.Session)

	// Routes where a session is optional: claims are attached when a valid
	// bearer token is present, and the request proceeds anonymously
	// otherwise. Poll reads and votes shape their behavior to the caller.
	optional := api.Group("", OptionalAuth(jwtService))
	optional.GET("/me", authHandler.Me)
	optional.GET("/polls", pollHandler.ListPublic)
	optional.GET("/polls/:id", pollHandler.Get)
	optional.GET("/polls/:id/results", pollHandler.Results)
	optional.POST("/polls/:id/vote", pollHandler.Vote)
	optional.GET("/dashboard/polls", pollHandler.Dashboard)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}))

	secured.POST("/polls", pollHandler.Create)
	secured.PUT("/polls/:id", pollHandler.Update)
	secured.DELETE("/polls/:id", pollHandler.Delete)
	secured.GET("/admin/polls", pollHandler.AdminList)
}

// OptionalAuth parses a bearer token when one is present and stores the
// claims under the "user" context key. Missing or invalid tokens leave the
// request anonymous instead of rejecting it.
func OptionalAuth(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if ok {
				if claims, err := jwtService.ValidateToken(token); err == nil {
					c.Set("user", claims)
				}
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
