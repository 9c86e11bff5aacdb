package services

import (
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"KaamSetu/internal/models"
)

// SettlementService coordinates the stores: it turns accepted applications
// into payment obligations and discharges those obligations via cash, UPI or
// bank transfer. It is the only caller of BankAccountService.RecordPayment.
type SettlementService struct {
	payments      *PaymentService
	accounts      *BankAccountService
	notifications *NotificationService
}

func NewSettlementService(db *gorm.DB) *SettlementService {
	return &SettlementService{
		payments:      NewPaymentService(db),
		accounts:      NewBankAccountService(db),
		notifications: NewNotificationService(db),
	}
}

// SettlementResult reports a completion outcome. Applied is false when the
// payment was already completed before the call. NotificationSent is separate
// from the core outcome: the settlement stands even if the notification
// write failed.
type SettlementResult struct {
	Payment          *models.Payment
	Applied          bool
	NotificationSent bool
}

// OnApplicationAccepted records the payment obligation for a freshly accepted
// application. The acceptance itself is the authoritative write: any failure
// here is logged and swallowed so the status change never rolls back over
// bookkeeping. A missed payment is backfilled out-of-band.
func (s *SettlementService) OnApplicationAccepted(application *models.Application, job *models.Job) {
	payment, created, err := s.payments.CreateForApplication(application, job)
	if err != nil {
		log.Printf("settlement: failed to create payment for application %d: %v", application.ID, err)
		return
	}
	if !created {
		// Retried acceptance; the worker was already notified.
		return
	}

	if err := s.notifications.NotifyPaymentCreated(payment.WorkerID, payment.JobTitle, payment.Amount, payment.ID); err != nil {
		log.Printf("settlement: failed to notify worker %d about payment %d: %v", payment.WorkerID, payment.ID, err)
	}
}

// CompleteWithBankTransfer settles a payment against one of the worker's
// verified bank accounts. Completion against an unverified account is
// impossible; the error carries the masked account identity so the employer
// can ask the worker to verify.
func (s *SettlementService) CompleteWithBankTransfer(paymentID, employerID, bankAccountID uint, transferReference string) (*SettlementResult, error) {
	payment, err := s.payments.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment.EmployerID != employerID {
		return nil, ErrNotPaymentEmployer
	}
	if payment.Status == models.PaymentCompleted {
		return &SettlementResult{Payment: payment}, nil
	}

	account, err := s.accounts.GetAccount(bankAccountID, payment.WorkerID)
	if err != nil {
		return nil, err
	}
	if !account.IsVerified {
		masked := account.MaskedAccountNumber()
		// Nudge the worker to verify; the transfer attempt fails either way.
		if err := s.notifications.NotifyVerificationNeeded(payment.WorkerID, masked, account.BankName, payment.ID); err != nil {
			log.Printf("settlement: failed to notify worker %d to verify account %d: %v", payment.WorkerID, account.ID, err)
		}
		return nil, &NotVerifiedError{
			MaskedAccountNumber: masked,
			BankName:            account.BankName,
		}
	}

	if transferReference == "" {
		transferReference = newTransferReference()
	}

	details := &models.BankTransferDetails{
		AccountID:          account.ID,
		AccountHolderName:  account.AccountHolderName,
		AccountNumber:      account.AccountNumber,
		IFSCCode:           account.IFSCCode,
		BankName:           account.BankName,
		TransferReference:  transferReference,
		VerificationStatus: account.VerificationStatus,
	}

	payment, applied, err := s.payments.Complete(paymentID, models.MethodBankTransfer, transferReference, details)
	if err != nil {
		return nil, err
	}

	result := &SettlementResult{Payment: payment, Applied: applied}
	if !applied {
		return result, nil
	}

	if err := s.accounts.RecordPayment(account.ID, payment.Amount); err != nil {
		log.Printf("settlement: failed to record payment %d on account %d: %v", payment.ID, account.ID, err)
	}

	result.NotificationSent = s.notifyReceived(payment)
	return result, nil
}

// CompleteWithCashOrUPI settles a payment the employer attests to directly.
func (s *SettlementService) CompleteWithCashOrUPI(paymentID, employerID uint, method models.PaymentMethod, transactionID string) (*SettlementResult, error) {
	payment, err := s.payments.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment.EmployerID != employerID {
		return nil, ErrNotPaymentEmployer
	}
	if payment.Status == models.PaymentCompleted {
		return &SettlementResult{Payment: payment}, nil
	}

	payment, applied, err := s.payments.MarkPaidDirect(paymentID, method, transactionID, time.Now())
	if err != nil {
		return nil, err
	}

	result := &SettlementResult{Payment: payment, Applied: applied}
	if applied {
		result.NotificationSent = s.notifyReceived(payment)
	}
	return result, nil
}

// WorkerAccountView is what an employer may see of the worker's payout
// account before attempting a transfer.
type WorkerAccountView struct {
	AccountID           uint                      `json:"account_id"`
	AccountHolderName   string                    `json:"account_holder_name"`
	MaskedAccountNumber string                    `json:"masked_account_number"`
	IFSCCode            string                    `json:"ifsc_code"`
	BankName            string                    `json:"bank_name"`
	UPIID               string                    `json:"upi_id,omitempty"`
	IsVerified          bool                      `json:"is_verified"`
	VerificationStatus  models.VerificationStatus `json:"verification_status"`
}

// GetWorkerBankAccountForPayment lets the employer who owes a payment look up
// the worker's primary account and its verification state. Returns a nil view
// when the worker has no active account.
func (s *SettlementService) GetWorkerBankAccountForPayment(paymentID, employerID uint) (*models.Payment, *WorkerAccountView, error) {
	payment, err := s.payments.GetByID(paymentID)
	if err != nil {
		return nil, nil, err
	}
	if payment.EmployerID != employerID {
		return nil, nil, ErrNotPaymentEmployer
	}

	account, err := s.accounts.GetPrimaryAccount(payment.WorkerID)
	if err != nil {
		return nil, nil, err
	}
	if account == nil {
		return payment, nil, nil
	}

	return payment, &WorkerAccountView{
		AccountID:           account.ID,
		AccountHolderName:   account.AccountHolderName,
		MaskedAccountNumber: account.MaskedAccountNumber(),
		IFSCCode:            account.IFSCCode,
		BankName:            account.BankName,
		UPIID:               account.UPIID,
		IsVerified:          account.IsVerified,
		VerificationStatus:  account.VerificationStatus,
	}, nil
}

func (s *SettlementService) notifyReceived(payment *models.Payment) bool {
	err := s.notifications.NotifyPaymentReceived(payment.WorkerID, payment.JobTitle, payment.Amount, payment.Method, payment.ID)
	if err != nil {
		log.Printf("settlement: failed to notify worker %d about payment %d: %v", payment.WorkerID, payment.ID, err)
		return false
	}
	return true
}

func newTransferReference() string {
	return "TRF-" + strings.ToUpper(uuid.NewString()[:8])
}
