package routes

import (
	"github.com/gofiber/fiber/v2"

	"KaamSetu/internal/handlers"
	"KaamSetu/internal/middleware"
)

func SetupBankAccountRoutes(app *fiber.App) {
	handlers.InitBankAccountService()

	bank := app.Group("/api/bank-accounts", middleware.Protected(), middleware.WorkerOnly())

	// Add a bank account
	bank.Post("/", handlers.AddBankAccount)

	// List my accounts
	bank.Get("/", handlers.GetBankAccounts)

	// The account payments would target
	bank.Get("/primary", handlers.GetPrimaryBankAccount)

	// IFSC format check + bank name lookup
	bank.Post("/validate-ifsc", handlers.ValidateIFSC)

	// Verify an account
	bank.Post("/:id/verify", handlers.VerifyBankAccount)

	// Choose the primary account (verified only)
	bank.Put("/:id/set-primary", handlers.SetPrimaryBankAccount)

	// Soft delete
	bank.Delete("/:id", handlers.DeleteBankAccount)
}
