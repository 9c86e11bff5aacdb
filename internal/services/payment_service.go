package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"KaamSetu/internal/models"
)

// PaymentService owns the payment obligation records. A payment is created
// once per application and reaches completed through exactly one code path,
// a conditional update on the pending status.
type PaymentService struct {
	db *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

// CreateForApplication records the payment obligation for an accepted
// application. Calling it again for the same application returns the existing
// record unchanged with created=false, so retried acceptances apply their
// side effects at most once. The unique index on application_id closes the
// check-then-write race between concurrent acceptances.
func (s *PaymentService) CreateForApplication(application *models.Application, job *models.Job) (*models.Payment, bool, error) {
	var existing models.Payment
	err := s.db.Where("application_id = ?", application.ID).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	payment := models.Payment{
		WorkerID:      application.ApplicantID,
		EmployerID:    job.PostedBy,
		JobID:         job.ID,
		ApplicationID: application.ID,
		Amount:        ParseSalaryAmount(job.Salary),
		Currency:      "INR",
		Status:        models.PaymentPending,
		JobTitle:      job.Title,
		JobCategory:   job.Category,
		JobDuration:   job.Duration,
	}

	if err := s.db.Create(&payment).Error; err != nil {
		// A concurrent acceptance won the insert; hand back its record.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if lookupErr := s.db.Where("application_id = ?", application.ID).First(&existing).Error; lookupErr == nil {
				return &existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("failed to create payment: %w", err)
	}

	return &payment, true, nil
}

// GetByID loads a payment record.
func (s *PaymentService) GetByID(paymentID uint) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.First(&payment, paymentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Complete settles a payment. Bank transfers must carry the account snapshot
// taken at settlement time. The returned bool reports whether this call
// performed the transition; a repeat call on a completed payment returns the
// terminal record with false, so callers never double-apply side effects.
func (s *PaymentService) Complete(paymentID uint, method models.PaymentMethod, transactionID string, details *models.BankTransferDetails) (*models.Payment, bool, error) {
	if method == models.MethodBankTransfer && details == nil {
		return nil, false, ErrBankDetailsRequired
	}

	payment, err := s.GetByID(paymentID)
	if err != nil {
		return nil, false, err
	}
	if payment.Status == models.PaymentCompleted {
		return payment, false, nil
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":         models.PaymentCompleted,
		"method":         method,
		"transaction_id": transactionID,
		"paid_at":        now,
	}
	if details != nil {
		updates["bank_account_id"] = details.AccountID
		updates["bank_account_holder_name"] = details.AccountHolderName
		updates["bank_account_number"] = details.AccountNumber
		updates["bank_ifsc_code"] = details.IFSCCode
		updates["bank_bank_name"] = details.BankName
		updates["bank_transfer_reference"] = details.TransferReference
		updates["bank_verification_status"] = details.VerificationStatus
	}

	return s.applyCompletion(paymentID, updates)
}

// MarkPaidDirect settles a payment the employer attests to directly (cash or
// UPI hand-off), without touching any bank account state.
func (s *PaymentService) MarkPaidDirect(paymentID uint, method models.PaymentMethod, transactionID string, paidAt time.Time) (*models.Payment, bool, error) {
	payment, err := s.GetByID(paymentID)
	if err != nil {
		return nil, false, err
	}
	if payment.Status == models.PaymentCompleted {
		return payment, false, nil
	}

	return s.applyCompletion(paymentID, map[string]interface{}{
		"status":         models.PaymentCompleted,
		"method":         method,
		"transaction_id": transactionID,
		"paid_at":        paidAt,
	})
}

// applyCompletion is the single pending→completed transition. The status
// predicate makes it a compare-and-swap: of two concurrent completions only
// one sees RowsAffected > 0.
func (s *PaymentService) applyCompletion(paymentID uint, updates map[string]interface{}) (*models.Payment, bool, error) {
	result := s.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", paymentID, models.PaymentPending).
		Updates(updates)
	if result.Error != nil {
		return nil, false, result.Error
	}

	payment, err := s.GetByID(paymentID)
	if err != nil {
		return nil, false, err
	}

	if result.RowsAffected == 0 {
		if payment.Status == models.PaymentCompleted {
			// Lost the race to another completion; idempotent success.
			return payment, false, nil
		}
		return nil, false, fmt.Errorf("cannot complete payment with status: %s", payment.Status)
	}

	return payment, true, nil
}

// ListByWorker returns the worker's payment history, newest first.
func (s *PaymentService) ListByWorker(workerID uint, status models.PaymentStatus, limit, offset int) ([]models.Payment, int64, error) {
	return s.list("worker_id = ?", workerID, status, limit, offset)
}

// ListByEmployer returns the payments an employer owes or has settled.
func (s *PaymentService) ListByEmployer(employerID uint, status models.PaymentStatus, limit, offset int) ([]models.Payment, int64, error) {
	return s.list("employer_id = ?", employerID, status, limit, offset)
}

func (s *PaymentService) list(cond string, id uint, status models.PaymentStatus, limit, offset int) ([]models.Payment, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := s.db.Model(&models.Payment{}).Where(cond, id)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []models.Payment
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}
