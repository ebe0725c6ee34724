package reviewRoutes

import (
	"time"

	"flexreviews/config"
	reviewController "flexreviews/controllers/reviews"
	"flexreviews/middleware"
	reviewValidator "flexreviews/validators/reviews"

	"github.com/gofiber/fiber/v2"
)

// SetupReviewRoutes sets up ingestion, dashboard and moderation routes plus
// the guarded public read path.
func SetupReviewRoutes(app *fiber.App, rc *reviewController.ReviewController, mc *reviewController.ModerationController) {
	api := app.Group("/api/reviews")

	// Ingestion (manager-triggered)
	api.Get("/hostaway", middleware.JWTMiddleware, rc.IngestHostaway)

	// Public read path - the only route outside the trust boundary, so it
	// carries the rate-limit + cache guard
	cfg := config.AppConfig
	guard := middleware.Guard(middleware.GuardConfig{
		MaxRequests: cfg.PublicRateLimit,
		Window:      time.Duration(cfg.PublicRateWindow) * time.Second,
		CacheTTL:    time.Duration(cfg.PublicCacheTTL) * time.Second,
	})
	api.Get("/public/:listingId", append(guard, rc.GetPublicReviews)...)

	// Manager dashboard view
	api.Get("/listing/:listingId", reviewValidator.ListReviews(), middleware.JWTMiddleware, rc.GetListingReviews)

	// Moderation (specific routes MUST come before /:id patterns)
	api.Post("/bulk", reviewValidator.BulkModerate(), middleware.JWTMiddleware, mc.Bulk)
	api.Post("/:id/approve", middleware.JWTMiddleware, mc.Approve)
	api.Post("/:id/reject", reviewValidator.RejectReview(), middleware.JWTMiddleware, mc.Reject)
	api.Post("/:id/public", reviewValidator.SetPublic(), middleware.JWTMiddleware, mc.SetPublic)
	api.Post("/:id/revoke", middleware.JWTMiddleware, mc.Revoke)
	api.Post("/:id/reopen", middleware.JWTMiddleware, mc.Reopen)
}
