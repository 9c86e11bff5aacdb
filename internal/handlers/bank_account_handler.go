package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"KaamSetu/internal/database"
	"KaamSetu/internal/models"
	"KaamSetu/internal/services"
	"KaamSetu/internal/utils"
)

var bankAccountService *services.BankAccountService

func InitBankAccountService() {
	bankAccountService = services.NewBankAccountService(database.DB)
}

type AddBankAccountRequest struct {
	AccountHolderName string `json:"account_holder_name" validate:"required"`
	AccountNumber     string `json:"account_number" validate:"required,min=9,max=18"`
	IFSCCode          string `json:"ifsc_code" validate:"required,len=11"`
	BankName          string `json:"bank_name"`
	Branch            string `json:"branch"`
	AccountType       string `json:"account_type" validate:"omitempty,oneof=savings current"`
	UPIID             string `json:"upi_id"`
}

type VerifyBankAccountRequest struct {
	Method string `json:"method" validate:"required"`
}

type ValidateIFSCRequest struct {
	IFSCCode string `json:"ifsc_code" validate:"required"`
}

// AddBankAccount registers a bank account for the authenticated worker
func AddBankAccount(c *fiber.Ctx) error {
	req := new(AddBankAccountRequest)
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

	if !utils.IsValidIFSC(req.IFSCCode) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid IFSC code format",
		})
	}

	if req.BankName == "" {
		req.BankName = utils.BankNameFromIFSC(req.IFSCCode)
	}

	workerID := c.Locals("user_id").(uint)

	account, err := bankAccountService.AddAccount(workerID, services.AddAccountInput{
		AccountHolderName: req.AccountHolderName,
		AccountNumber:     req.AccountNumber,
		IFSCCode:          req.IFSCCode,
		BankName:          req.BankName,
		Branch:            req.Branch,
		AccountType:       models.AccountType(req.AccountType),
		UPIID:             req.UPIID,
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateAccount) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "This bank account has already been added",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add bank account",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Bank account added successfully. Please verify it to receive bank transfers.",
		"bank_account": bankAccountResponse(account),
	})
}

// GetBankAccounts lists the worker's active bank accounts
func GetBankAccounts(c *fiber.Ctx) error {
	workerID := c.Locals("user_id").(uint)

	accounts, err := bankAccountService.ListAccounts(workerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve bank accounts",
		})
	}

	responses := make([]fiber.Map, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, bankAccountResponse(&accounts[i]))
	}

	return c.JSON(fiber.Map{
		"bank_accounts": responses,
		"count":         len(responses),
	})
}

// GetPrimaryBankAccount returns the account payments would target
func GetPrimaryBankAccount(c *fiber.Ctx) error {
	workerID := c.Locals("user_id").(uint)

	account, err := bankAccountService.GetPrimaryAccount(workerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve primary account",
		})
	}
	if account == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No bank account found. Please add one.",
		})
	}

	return c.JSON(fiber.Map{
		"bank_account": bankAccountResponse(account),
	})
}

// VerifyBankAccount marks an account as verified
func VerifyBankAccount(c *fiber.Ctx) error {
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid account id",
		})
	}

	req := new(VerifyBankAccountRequest)
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

	workerID := c.Locals("user_id").(uint)

	account, err := bankAccountService.VerifyAccount(accountID, workerID, req.Method)
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Bank account not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to verify bank account",
		})
	}

	return c.JSON(fiber.Map{
		"message":      "Bank account verified successfully",
		"bank_account": bankAccountResponse(account),
	})
}

// SetPrimaryBankAccount makes a verified account the primary one
func SetPrimaryBankAccount(c *fiber.Ctx) error {
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid account id",
		})
	}

	workerID := c.Locals("user_id").(uint)

	account, err := bankAccountService.SetPrimary(accountID, workerID)
	if err != nil {
		var notVerified *services.NotVerifiedError
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Bank account not found",
			})
		case errors.As(err, &notVerified):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Only verified accounts can be set as primary. Please verify this account first.",
				"account": fiber.Map{
					"masked_account_number": notVerified.MaskedAccountNumber,
					"bank_name":             notVerified.BankName,
				},
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to set primary account",
			})
		}
	}

	return c.JSON(fiber.Map{
		"message":      "Primary bank account updated",
		"bank_account": bankAccountResponse(account),
	})
}

// DeleteBankAccount deactivates an account
func DeleteBankAccount(c *fiber.Ctx) error {
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid account id",
		})
	}

	workerID := c.Locals("user_id").(uint)

	if err := bankAccountService.DeleteAccount(accountID, workerID); err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Bank account not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete bank account",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Bank account removed successfully",
	})
}

// ValidateIFSC checks an IFSC code and resolves the bank name when known
func ValidateIFSC(c *fiber.Ctx) error {
	req := new(ValidateIFSCRequest)
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

	valid := utils.IsValidIFSC(req.IFSCCode)
	resp := fiber.Map{"valid": valid}
	if valid {
		if name := utils.BankNameFromIFSC(req.IFSCCode); name != "" {
			resp["bank_name"] = name
		}
	}

	return c.JSON(resp)
}

func bankAccountResponse(account *models.BankAccount) fiber.Map {
	return fiber.Map{
		"id":                      account.ID,
		"account_holder_name":     account.AccountHolderName,
		"masked_account_number":   account.MaskedAccountNumber(),
		"ifsc_code":               account.IFSCCode,
		"bank_name":               account.BankName,
		"branch":                  account.Branch,
		"account_type":            account.AccountType,
		"upi_id":                  account.UPIID,
		"is_verified":             account.IsVerified,
		"verification_status":     account.VerificationStatus,
		"verified_at":             account.VerifiedAt,
		"is_primary":              account.IsPrimary,
		"total_payments_received": account.TotalPaymentsReceived,
		"total_amount_received":   account.TotalAmountReceived,
		"last_payment_date":       account.LastPaymentDate,
		"created_at":              account.CreatedAt,
	}
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
