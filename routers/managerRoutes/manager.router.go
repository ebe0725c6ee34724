package managerRoutes

import (
	managerController "flexreviews/controllers/manager"
	"flexreviews/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupManagerRoutes sets up manager authentication routes
func SetupManagerRoutes(app *fiber.App, mc *managerController.ManagerController) {
	managerGroup := app.Group("/api/manager")

	managerGroup.Post("/login", mc.Login)
	managerGroup.Get("/", middleware.JWTMiddleware, mc.Profile)
}
