package main

import (
	"log"
	"net/http"

	_ "cardvault/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"cardvault/internal/auth"
	"cardvault/internal/cache"
	"cardvault/internal/config"
	"cardvault/internal/crypto"
	"cardvault/internal/db"
	"cardvault/internal/handler"
	"cardvault/internal/model"
	"cardvault/internal/repository"
	"cardvault/internal/router"
	"cardvault/internal/service"
)

// @title Card Vault API
// @version 1.0
// @description Bank card management API with encrypted card numbers, block requests, and transfers between own cards.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Card{},
		&model.Transaction{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cipherKey, err := cfg.CipherKey()
	if err != nil {
		log.Fatalf("cipher key: %v", err)
	}
	cardCipher, err := crypto.NewCardCipher(cipherKey)
	if err != nil {
		log.Fatalf("card cipher init: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	cardRepo := repository.NewCardRepository(gormDB, cardCipher)
	txnRepo := repository.NewTransactionRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)
	txm := repository.NewTxManager(gormDB, cardCipher)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	cardService := service.NewCardService(cardRepo, userRepo, cacheClient)
	transferService := service.NewTransferService(cardRepo, txnRepo, txm, cacheClient)
	userService := service.NewUserService(userRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userCardHandler := handler.NewUserCardHandler(cardService, transferService)
	adminCardHandler := handler.NewAdminCardHandler(cardService)
	adminUserHandler := handler.NewAdminUserHandler(userService)

	// Register routes
	router.Register(
		e,
		cfg,
		tokenStore,
		authHandler,
		userCardHandler,
		adminCardHandler,
		adminUserHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
