package routes

import (
	"github.com/gofiber/fiber/v2"

	"KaamSetu/internal/handlers"
	"KaamSetu/internal/middleware"
)

func SetupApplicationRoutes(app *fiber.App) {
	handlers.InitApplicationServices()

	applications := app.Group("/api/applications", middleware.Protected())

	// Accepting an application creates the payment obligation
	applications.Put("/:id/status", middleware.EmployerOnly(), handlers.UpdateApplicationStatus)
}
