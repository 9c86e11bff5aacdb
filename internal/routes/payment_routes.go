package routes

import (
	"github.com/gofiber/fiber/v2"

	"KaamSetu/internal/handlers"
	"KaamSetu/internal/middleware"
)

func SetupPaymentRoutes(app *fiber.App) {
	handlers.InitPaymentServices()

	payments := app.Group("/api/payments", middleware.Protected())

	// Worker-side reads
	payments.Get("/history", middleware.WorkerOnly(), handlers.GetPaymentHistory)
	payments.Get("/earnings/summary", middleware.WorkerOnly(), handlers.GetEarningsSummary)
	payments.Get("/earnings/monthly", middleware.WorkerOnly(), handlers.GetMonthlyEarnings)

	// Employer-side reads
	payments.Get("/employer", middleware.EmployerOnly(), handlers.GetEmployerPayments)
	payments.Get("/:id/worker-bank-account", middleware.EmployerOnly(), handlers.GetWorkerBankAccount)

	// Settlement (employer)
	payments.Post("/:id/complete-bank-transfer", middleware.EmployerOnly(), handlers.CompleteBankTransfer)
	payments.Post("/:id/complete", middleware.EmployerOnly(), handlers.CompletePayment)

	// Either party
	payments.Get("/:id", handlers.GetPaymentByID)
}
