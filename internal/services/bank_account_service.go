package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"KaamSetu/internal/models"
)

// BankAccountService owns the worker bank account records and the
// one-primary-per-worker invariant. All primary-flag changes happen inside a
// transaction holding the worker's account rows.
type BankAccountService struct {
	db *gorm.DB
}

func NewBankAccountService(db *gorm.DB) *BankAccountService {
	return &BankAccountService{db: db}
}

type AddAccountInput struct {
	AccountHolderName string
	AccountNumber     string
	IFSCCode          string
	BankName          string
	Branch            string
	AccountType       models.AccountType
	UPIID             string
}

// AddAccount registers a bank account for a worker. The worker's first
// account becomes primary automatically; verification starts as pending.
func (s *BankAccountService) AddAccount(workerID uint, in AddAccountInput) (*models.BankAccount, error) {
	account := models.BankAccount{
		WorkerID:           workerID,
		AccountHolderName:  in.AccountHolderName,
		AccountNumber:      in.AccountNumber,
		IFSCCode:           in.IFSCCode,
		BankName:           in.BankName,
		Branch:             in.Branch,
		AccountType:        in.AccountType,
		UPIID:              in.UPIID,
		VerificationStatus: models.VerificationPending,
		IsActive:           true,
	}
	if account.AccountType == "" {
		account.AccountType = models.AccountSavings
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.BankAccount
		err := tx.Where("worker_id = ? AND account_number = ? AND ifsc_code = ? AND is_active = ?",
			workerID, in.AccountNumber, in.IFSCCode, true).First(&existing).Error
		if err == nil {
			return ErrDuplicateAccount
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var count int64
		if err := tx.Model(&models.BankAccount{}).
			Where("worker_id = ? AND is_active = ?", workerID, true).
			Count(&count).Error; err != nil {
			return err
		}
		account.IsPrimary = count == 0

		return tx.Create(&account).Error
	})
	if err != nil {
		return nil, err
	}

	return &account, nil
}

// VerifyAccount marks an account verified. Verifying an already verified
// account is a no-op returning the current state. The first account a worker
// gets verified becomes primary; later verifications leave the primary alone.
func (s *BankAccountService) VerifyAccount(accountID, workerID uint, method string) (*models.BankAccount, error) {
	var account models.BankAccount

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND worker_id = ? AND is_active = ?", accountID, workerID, true).
			First(&account).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		if err != nil {
			return err
		}

		if account.IsVerified {
			return nil
		}

		var verifiedCount int64
		if err := tx.Model(&models.BankAccount{}).
			Where("worker_id = ? AND is_active = ? AND is_verified = ? AND id <> ?", workerID, true, true, account.ID).
			Count(&verifiedCount).Error; err != nil {
			return err
		}

		now := time.Now()
		account.IsVerified = true
		account.VerificationStatus = models.VerificationVerified
		account.VerificationMethod = method
		account.VerifiedAt = &now

		// First verified account wins the primary slot.
		if verifiedCount == 0 {
			if err := tx.Model(&models.BankAccount{}).
				Where("worker_id = ? AND id <> ?", workerID, account.ID).
				Update("is_primary", false).Error; err != nil {
				return err
			}
			account.IsPrimary = true
		}

		return tx.Save(&account).Error
	})
	if err != nil {
		return nil, err
	}

	return &account, nil
}

// SetPrimary makes a verified account the worker's primary one.
func (s *BankAccountService) SetPrimary(accountID, workerID uint) (*models.BankAccount, error) {
	var account models.BankAccount

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND worker_id = ? AND is_active = ?", accountID, workerID, true).
			First(&account).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		if err != nil {
			return err
		}

		if !account.IsVerified {
			return &NotVerifiedError{
				MaskedAccountNumber: account.MaskedAccountNumber(),
				BankName:            account.BankName,
			}
		}

		if err := tx.Model(&models.BankAccount{}).
			Where("worker_id = ?", workerID).
			Update("is_primary", false).Error; err != nil {
			return err
		}

		account.IsPrimary = true
		return tx.Save(&account).Error
	})
	if err != nil {
		return nil, err
	}

	return &account, nil
}

// GetPrimaryAccount returns the account payments should target, falling back
// from verified-and-primary to any-primary to the most recently added active
// account, so the settlement flow always has a candidate to point at. Returns
// nil when the worker has no active accounts.
func (s *BankAccountService) GetPrimaryAccount(workerID uint) (*models.BankAccount, error) {
	var account models.BankAccount

	err := s.db.Where("worker_id = ? AND is_active = ? AND is_primary = ? AND is_verified = ?",
		workerID, true, true, true).First(&account).Error
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = s.db.Where("worker_id = ? AND is_active = ? AND is_primary = ?", workerID, true, true).
		First(&account).Error
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = s.db.Where("worker_id = ? AND is_active = ?", workerID, true).
		Order("created_at DESC").First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &account, nil
}

// GetAccount loads one of the worker's active accounts by id.
func (s *BankAccountService) GetAccount(accountID, workerID uint) (*models.BankAccount, error) {
	var account models.BankAccount
	err := s.db.Where("id = ? AND worker_id = ? AND is_active = ?", accountID, workerID, true).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ListAccounts returns the worker's active accounts, primary first.
func (s *BankAccountService) ListAccounts(workerID uint) ([]models.BankAccount, error) {
	var accounts []models.BankAccount
	err := s.db.Where("worker_id = ? AND is_active = ?", workerID, true).
		Order("is_primary DESC, created_at DESC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// DeleteAccount deactivates an account. Historical payments keep referencing
// it, so rows are never removed. Deleting the primary account promotes the
// worker's next most recent verified active account, if one exists.
func (s *BankAccountService) DeleteAccount(accountID, workerID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var account models.BankAccount
		err := tx.Where("id = ? AND worker_id = ? AND is_active = ?", accountID, workerID, true).
			First(&account).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		if err != nil {
			return err
		}

		wasPrimary := account.IsPrimary
		account.IsActive = false
		account.IsPrimary = false
		if err := tx.Save(&account).Error; err != nil {
			return err
		}

		if !wasPrimary {
			return nil
		}

		var next models.BankAccount
		err = tx.Where("worker_id = ? AND is_active = ? AND is_verified = ?", workerID, true, true).
			Order("created_at DESC").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No verified account left; the worker has no primary now.
			return nil
		}
		if err != nil {
			return err
		}

		return tx.Model(&next).Update("is_primary", true).Error
	})
}

// RecordPayment bumps the received counters after a completed bank transfer.
// Only the settlement service calls this.
func (s *BankAccountService) RecordPayment(accountID uint, amount int64) error {
	result := s.db.Model(&models.BankAccount{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"total_payments_received": gorm.Expr("total_payments_received + 1"),
			"total_amount_received":   gorm.Expr("total_amount_received + ?", amount),
			"last_payment_date":       time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("record payment: %w", ErrAccountNotFound)
	}
	return nil
}
