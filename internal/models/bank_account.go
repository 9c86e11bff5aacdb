package models

import (
	"time"
)

type VerificationStatus string

const (
	VerificationPending     VerificationStatus = "pending"
	VerificationVerified    VerificationStatus = "verified"
	VerificationFailed      VerificationStatus = "failed"
	VerificationUnderReview VerificationStatus = "under_review"
)

type AccountType string

const (
	AccountSavings AccountType = "savings"
	AccountCurrent AccountType = "current"
)

type BankAccount struct {
	ID                uint        `gorm:"primarykey" json:"id"`
	WorkerID          uint        `gorm:"not null;index" json:"worker_id"`
	AccountHolderName string      `gorm:"not null" json:"account_holder_name"`
	AccountNumber     string      `gorm:"not null" json:"-"`
	IFSCCode          string      `gorm:"column:ifsc_code;type:varchar(11);not null" json:"ifsc_code"`
	BankName          string      `gorm:"not null" json:"bank_name"`
	Branch            string      `json:"branch,omitempty"`
	AccountType       AccountType `gorm:"type:varchar(20);default:'savings'" json:"account_type"`
	UPIID             string      `gorm:"column:upi_id;type:varchar(100)" json:"upi_id,omitempty"`

	IsVerified         bool               `gorm:"default:false" json:"is_verified"`
	VerificationStatus VerificationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"verification_status"`
	VerificationMethod string             `gorm:"type:varchar(50)" json:"verification_method,omitempty"`
	VerifiedAt         *time.Time         `json:"verified_at,omitempty"`

	// At most one primary account per worker, maintained by the bank
	// account service inside a per-worker transaction.
	IsPrimary bool `gorm:"default:false;index" json:"is_primary"`

	TotalPaymentsReceived int64      `gorm:"default:0" json:"total_payments_received"`
	TotalAmountReceived   int64      `gorm:"default:0" json:"total_amount_received"`
	LastPaymentDate       *time.Time `json:"last_payment_date,omitempty"`

	// Deletion is logical so completed payments keep a valid reference.
	IsActive bool `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Worker User `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
}

func (BankAccount) TableName() string {
	return "bank_accounts"
}

// MaskedAccountNumber hides all but the last four digits. Computed, never stored.
func (b *BankAccount) MaskedAccountNumber() string {
	n := len(b.AccountNumber)
	if n <= 4 {
		return b.AccountNumber
	}
	masked := make([]byte, n-4)
	for i := range masked {
		masked[i] = 'X'
	}
	return string(masked) + b.AccountNumber[n-4:]
}
