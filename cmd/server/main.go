package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"github.com/relaychat-io/relaychat-backend/internal/cache"
	"github.com/relaychat-io/relaychat-backend/internal/handlers"
	"github.com/relaychat-io/relaychat-backend/internal/repository"
	"github.com/relaychat-io/relaychat-backend/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Relay Chat Backend",
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, OPTIONS",
	}))

	// Initialize database connection
	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if err := repository.CloseDB(db); err != nil {
			log.Printf("Failed to close database pool: %v", err)
		}
	}()

	// Initialize Redis cache
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}

	redisCache := cache.NewRedisCache(redisAddr, redisPassword, redisDB)
	if err := redisCache.Ping(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v. Running without cache.", err)
		redisCache = nil
	} else {
		log.Println("Redis cache connected successfully")
	}

	historyCache := cache.NewHistoryCache(redisCache)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	receiptRepo := repository.NewReadReceiptRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	groupMessageRepo := repository.NewGroupMessageRepository(db)

	// Initialize services
	userService := service.NewUserService(userRepo)
	messageService := service.NewMessageService(messageRepo, receiptRepo, userRepo, historyCache)
	groupService := service.NewGroupService(groupRepo, groupMessageRepo, userRepo, historyCache)

	// Initialize handlers
	wsHandler := handlers.NewWebSocketHandler(userService, messageService, groupService)

	// WebSocket route (websocket upgrade needs special handling). The
	// limiter bounds how fast one address can open fresh connections.
	app.Use(
		"/ws",
		limiter.New(limiter.Config{
			Max:        60,
			Expiration: time.Minute,
		}),
		func(c *fiber.Ctx) error {
			// Upgrade to WebSocket
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		},
	)
	app.Get("/ws", websocket.New(wsHandler.HandleConnection))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "ok",
			"message":     "Relay Chat is running",
			"connections": wsHandler.GetHub().Count(),
		})
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
