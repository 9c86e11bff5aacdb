package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"KaamSetu/internal/database"
	"KaamSetu/internal/models"
	"KaamSetu/internal/services"
	"KaamSetu/internal/utils"
)

var (
	paymentService    *services.PaymentService
	earningsService   *services.EarningsService
	settlementService *services.SettlementService
)

func InitPaymentServices() {
	paymentService = services.NewPaymentService(database.DB)
	earningsService = services.NewEarningsService(database.DB)
	settlementService = services.NewSettlementService(database.DB)
}

type CompleteBankTransferRequest struct {
	BankAccountID     uint   `json:"bank_account_id" validate:"required"`
	TransferReference string `json:"transfer_reference"`
}

type CompletePaymentRequest struct {
	Method        string `json:"method" validate:"required,oneof=cash upi"`
	TransactionID string `json:"transaction_id"`
}

// GetPaymentHistory lists the worker's payments, newest first
func GetPaymentHistory(c *fiber.Ctx) error {
	workerID := c.Locals("user_id").(uint)

	status := models.PaymentStatus(c.Query("status"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	payments, total, err := paymentService.ListByWorker(workerID, status, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve payments",
		})
	}

	return c.JSON(fiber.Map{
		"payments": payments,
		"count":    len(payments),
		"total":    total,
	})
}

// GetEmployerPayments lists the payments an employer owes or has settled
func GetEmployerPayments(c *fiber.Ctx) error {
	employerID := c.Locals("user_id").(uint)

	status := models.PaymentStatus(c.Query("status"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	payments, total, err := paymentService.ListByEmployer(employerID, status, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve payments",
		})
	}

	return c.JSON(fiber.Map{
		"payments": payments,
		"count":    len(payments),
		"total":    total,
	})
}

// GetPaymentByID returns one payment; only its worker or employer may see it
func GetPaymentByID(c *fiber.Ctx) error {
	paymentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment id",
		})
	}

	userID := c.Locals("user_id").(uint)

	payment, err := paymentService.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Payment not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Database error",
		})
	}

	if payment.WorkerID != userID && payment.EmployerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have access to this payment",
		})
	}

	return c.JSON(fiber.Map{
		"payment": payment,
	})
}

// GetEarningsSummary aggregates the worker's payments by status
func GetEarningsSummary(c *fiber.Ctx) error {
	workerID := c.Locals("user_id").(uint)

	summary, err := earningsService.Summary(workerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute earnings summary",
		})
	}

	return c.JSON(fiber.Map{
		"summary": summary,
	})
}

// GetMonthlyEarnings returns 12 month buckets of completed payments for a year
func GetMonthlyEarnings(c *fiber.Ctx) error {
	workerID := c.Locals("user_id").(uint)

	year, err := strconv.Atoi(c.Query("year", strconv.Itoa(time.Now().Year())))
	if err != nil || year < 2000 || year > 2100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid year",
		})
	}

	months, err := earningsService.Monthly(workerID, year)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute monthly earnings",
		})
	}

	return c.JSON(fiber.Map{
		"year":   year,
		"months": months,
	})
}

// GetWorkerBankAccount lets the paying employer see the worker's primary
// account and whether it is verified before attempting a transfer
func GetWorkerBankAccount(c *fiber.Ctx) error {
	paymentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment id",
		})
	}

	employerID := c.Locals("user_id").(uint)

	payment, view, err := settlementService.GetWorkerBankAccountForPayment(paymentID, employerID)
	if err != nil {
		return settlementErrorResponse(c, err)
	}
	if view == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":      "Worker has not added a bank account yet",
			"payment_id": payment.ID,
		})
	}

	return c.JSON(fiber.Map{
		"payment_id":   payment.ID,
		"bank_account": view,
	})
}

// CompleteBankTransfer settles a payment against a verified bank account
func CompleteBankTransfer(c *fiber.Ctx) error {
	paymentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment id",
		})
	}

	req := new(CompleteBankTransferRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	employerID := c.Locals("user_id").(uint)

	result, err := settlementService.CompleteWithBankTransfer(paymentID, employerID, req.BankAccountID, req.TransferReference)
	if err != nil {
		return settlementErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Payment completed via bank transfer",
		"payment": result.Payment,
	})
}

// CompletePayment settles a payment by cash or UPI self-attestation
func CompletePayment(c *fiber.Ctx) error {
	paymentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment id",
		})
	}

	req := new(CompletePaymentRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	employerID := c.Locals("user_id").(uint)

	result, err := settlementService.CompleteWithCashOrUPI(paymentID, employerID, models.PaymentMethod(req.Method), req.TransactionID)
	if err != nil {
		return settlementErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Payment marked as completed",
		"payment": result.Payment,
	})
}

func settlementErrorResponse(c *fiber.Ctx, err error) error {
	var notVerified *services.NotVerifiedError
	switch {
	case errors.Is(err, services.ErrPaymentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment not found",
		})
	case errors.Is(err, services.ErrNotPaymentEmployer):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the employer for this payment can perform this action",
		})
	case errors.Is(err, services.ErrAccountNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Bank account not found",
		})
	case errors.As(err, &notVerified):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Bank account is not verified. Please ask the worker to verify it first.",
			"account": fiber.Map{
				"masked_account_number": notVerified.MaskedAccountNumber,
				"bank_name":             notVerified.BankName,
			},
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process payment",
		})
	}
}
