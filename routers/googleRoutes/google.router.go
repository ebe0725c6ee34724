package googleRoutes

import (
	googleController "flexreviews/controllers/google"

	"github.com/gofiber/fiber/v2"
)

// SetupGoogleRoutes sets up the exploratory Google Places routes
func SetupGoogleRoutes(app *fiber.App, gc *googleController.GoogleController) {
	googleGroup := app.Group("/api/google-reviews")

	googleGroup.Get("/test", gc.Test)
}
