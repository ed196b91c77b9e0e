package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/peanutradio/shopmall-api/internal/config"
	"github.com/peanutradio/shopmall-api/internal/handlers"
	"github.com/peanutradio/shopmall-api/internal/middleware"
	"github.com/peanutradio/shopmall-api/internal/payment"
	"github.com/peanutradio/shopmall-api/internal/repository"
	"github.com/peanutradio/shopmall-api/internal/service"
)

func main() {
	log.Println("Shopping Mall API starting...")

	cfg := config.Load()

	ctx := context.Background()

	client, err := repository.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("Database disconnect error: %v", err)
		}
	}()

	db := client.Database(cfg.Database)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Index creation error: %v", err)
	}
	log.Printf("Database connected: %s", cfg.Database)

	// Dependencies injection
	userRepo := repository.NewUser(db)
	productRepo := repository.NewProduct(db)
	cartRepo := repository.NewCart(db)
	orderRepo := repository.NewOrder(db)

	verifier := payment.NewClient(cfg.PaymentAPIURL, cfg.PaymentKey, cfg.PaymentSecret)

	userService := service.NewUserService(userRepo, []byte(cfg.JWTSecret))
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo, userRepo, verifier)

	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)

	app := setupFiberApp()

	authenticate := middleware.Authenticate(userRepo, []byte(cfg.JWTSecret))
	setupRoutes(app, authenticate, userHandler, productHandler, cartHandler, orderHandler)

	// Graceful shutdown setup
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shopping Mall API closing...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("Shopping Mall API listening: http://localhost:%s", cfg.Port)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server start error: %v", err)
	}
}

func setupFiberApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Shopping Mall API v1.0",
		ErrorHandler: errorHandler,
	})

	// Middlewares
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} - ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Request-ID",
	}))

	return app
}

func setupRoutes(
	app *fiber.App,
	authenticate fiber.Handler,
	userHandler *handlers.UserHandler,
	productHandler *handlers.ProductHandler,
	cartHandler *handlers.CartHandler,
	orderHandler *handlers.OrderHandler,
) {
	api := app.Group("/api")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	requireAdmin := middleware.RequireAdmin()

	// User routes (registration and login are public)
	users := api.Group("/users")
	users.Post("/", userHandler.Register)
	users.Post("/login", userHandler.Login)
	users.Get("/me", authenticate, userHandler.GetMe)
	users.Get("/", authenticate, requireAdmin, userHandler.List)
	users.Get("/:id", authenticate, requireAdmin, userHandler.GetByID)
	users.Put("/:id", authenticate, requireAdmin, userHandler.Update)
	users.Delete("/:id", authenticate, requireAdmin, userHandler.Delete)

	// Product routes (catalog is public, management is admin-only)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", authenticate, requireAdmin, productHandler.Create)
	products.Put("/:id", authenticate, requireAdmin, productHandler.Update)
	products.Delete("/:id", authenticate, requireAdmin, productHandler.Delete)

	// Cart routes
	carts := api.Group("/carts", authenticate)
	carts.Get("/", cartHandler.GetCart)
	carts.Post("/items", cartHandler.AddItem)
	carts.Put("/items/:productId", cartHandler.UpdateItem)
	carts.Delete("/items/:productId", cartHandler.RemoveItem)
	carts.Delete("/", cartHandler.Clear)

	// Order routes
	orders := api.Group("/orders", authenticate)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/number/:orderNumber", orderHandler.GetByOrderNumber)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id", requireAdmin, orderHandler.Update)
	orders.Delete("/:id", requireAdmin, orderHandler.Delete)

	// Route not found
	app.Use("*", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Route not found",
		})
	})
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	log.Printf("Error: %v", err)

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
