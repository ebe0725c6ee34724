package main

import (
	"log"

	"flexreviews/config"
	googleController "flexreviews/controllers/google"
	managerController "flexreviews/controllers/manager"
	reviewController "flexreviews/controllers/reviews"
	"flexreviews/database"
	googleRoutes "flexreviews/routers/googleRoutes"
	managerRoutes "flexreviews/routers/managerRoutes"
	reviewRoutes "flexreviews/routers/reviewRoutes"
	"flexreviews/services/ingestion"
	"flexreviews/services/moderation"
	"flexreviews/services/normalizer"
	"flexreviews/services/query"
	"flexreviews/services/store"
	"flexreviews/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to set up database: %v", err)
	}

	// Wire services once at startup and inject them into the controllers
	opts := normalizer.Options{DeriveRatingFromCategories: cfg.DeriveRatingFromCategories}
	reviewStore := store.NewReviewStore(db)
	moderationSvc := moderation.New(db, reviewStore, cfg.AllowModerationReversal)
	querySvc := query.New(reviewStore)
	hostawayClient := utils.NewHostawayClient(cfg)
	googleClient := utils.NewGooglePlacesClient(cfg)
	ingestionSvc := ingestion.New(reviewStore, hostawayClient, opts)

	app := fiber.New()

	// CORS also answers public preflight requests generically
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	reviewRoutes.SetupReviewRoutes(app,
		reviewController.NewReviewController(ingestionSvc, querySvc, reviewStore),
		reviewController.NewModerationController(moderationSvc),
	)
	managerRoutes.SetupManagerRoutes(app, managerController.NewManagerController(db))
	googleRoutes.SetupGoogleRoutes(app, googleController.NewGoogleController(googleClient, opts))

	utils.InitializeSyncScheduler(ingestionSvc, cfg.SyncCron, cfg.DigestRecipient)

	log.Printf("Server is running on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
