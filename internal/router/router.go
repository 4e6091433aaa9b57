package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"cardvault/internal/auth"
	"cardvault/internal/config"
	"cardvault/internal/handler"
	"cardvault/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	tokenStore auth.TokenStoreInterface,
	authHandler *handler.AuthHandler,
	userCardHandler *handler.UserCardHandler,
	adminCardHandler *handler.AdminCardHandler,
	adminUserHandler *handler.AdminUserHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

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

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}), RejectBlacklisted(tokenStore))

	// Self-service card routes
	userCards := secured.Group("/user/cards")
	userCards.GET("", userCardHandler.ListCards)
	userCards.POST("/transfer", userCardHandler.Transfer)
	userCards.POST("/:id/block", userCardHandler.RequestBlock)
	userCards.GET("/:id/balance", userCardHandler.GetBalance)
	userCards.GET("/:id/transactions", userCardHandler.ListTransactions)

	// Administrative routes
	admin := secured.Group("/admin", RequireRole(model.RoleAdmin))

	adminCards := admin.Group("/cards")
	adminCards.GET("", adminCardHandler.ListCards)
	adminCards.POST("", adminCardHandler.CreateCard)
	adminCards.GET("/:id", adminCardHandler.GetCard)
	adminCards.PATCH("/:id", adminCardHandler.UpdateCard)
	adminCards.DELETE("/:id", adminCardHandler.DeleteCard)
	adminCards.PATCH("/:id/block", adminCardHandler.BlockCard)
	adminCards.PATCH("/:id/activate", adminCardHandler.ActivateCard)

	adminUsers := admin.Group("/users")
	adminUsers.GET("", adminUserHandler.ListUsers)
	adminUsers.POST("", adminUserHandler.CreateUser)
	adminUsers.GET("/:id", adminUserHandler.GetUser)
	adminUsers.PATCH("/:id", adminUserHandler.UpdateUser)
	adminUsers.DELETE("/:id", adminUserHandler.DeleteUser)
}

// RejectBlacklisted rejects access tokens that logout has revoked. Runs
// after the JWT middleware, so the token in the context is already verified.
func RejectBlacklisted(store auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok || claims.ID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}
			blacklisted, err := store.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
			if err == nil && blacklisted {
				return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
			}
			return next(c)
		}
	}
}

// RequireRole rejects requests whose verified JWT does not carry the role.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok || claims.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
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
