package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	api_middleware "github.com/SlawCzech/dev-me-up/api/middleware"
	v1 "github.com/SlawCzech/dev-me-up/api/v1"
	"github.com/SlawCzech/dev-me-up/internal/apperrors"
	"github.com/SlawCzech/dev-me-up/internal/user"
	"github.com/SlawCzech/dev-me-up/pkg/db"
	"github.com/SlawCzech/dev-me-up/websocket"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️File .env not found, using system values")
	}

	db.Init()
	if err := db.DB.AutoMigrate(&user.User{}, &user.UserProfile{}, &user.AnonymousUser{}); err != nil {
		log.Fatalf("error migrating database: %v", err)
	}

	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	repo := user.NewGormUserRepository(db.DB)
	tokens := user.NewRedisTokenService(db.Rdb)
	mailer := user.NewSMTPMailerFromEnv()
	accounts := user.NewAccountService(repo, tokens, mailer, baseURL)

	e := echo.New()
	e.HTTPErrorHandler = apperrors.HTTPErrorHandler

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api := e.Group("/api/v1")

	userHandler := v1.NewUserHandler(accounts)
	userHandler.RegisterPublicRoutes(api)

	authHandler := v1.NewAuthHandler(accounts)
	authHandler.RegisterAuthRoutes(api)

	protected := e.Group("/api/v1")
	protected.Use(api_middleware.SetupJWTMiddleware())
	userHandler.RegisterProtectedRoutes(protected)

	adminHandler := v1.NewAdminHandler(accounts)
	adminHandler.RegisterAdminRoutes(protected)

	presence := websocket.NewPresenceHandler(accounts, db.Rdb)
	e.GET("/presence", presence.Handle)

	addr := os.Getenv("SERVER_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	e.Logger.Fatal(e.Start(addr))
}
