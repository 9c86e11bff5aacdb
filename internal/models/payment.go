package models

import (
	"time"

	"gorm.io/gorm"
)

type PaymentStatus string
type PaymentMethod string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
)

const (
	MethodCash         PaymentMethod = "cash"
	MethodUPI          PaymentMethod = "upi"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCard         PaymentMethod = "card"
	MethodOther        PaymentMethod = "other"
)

// BankTransferDetails is a point-in-time copy of the bank account a transfer
// was settled against. It never changes after completion, regardless of later
// edits to the live BankAccount record.
type BankTransferDetails struct {
	AccountID          uint               `json:"bank_account_id,omitempty"`
	AccountHolderName  string             `json:"account_holder_name,omitempty"`
	AccountNumber      string             `json:"account_number,omitempty"`
	IFSCCode           string             `gorm:"column:ifsc_code" json:"ifsc_code,omitempty"`
	BankName           string             `json:"bank_name,omitempty"`
	TransferReference  string             `json:"transfer_reference,omitempty"`
	VerificationStatus VerificationStatus `gorm:"type:varchar(20)" json:"verification_status,omitempty"`
}

type Payment struct {
	ID            uint `gorm:"primarykey" json:"id"`
	WorkerID      uint `gorm:"not null;index" json:"worker_id"`
	EmployerID    uint `gorm:"not null;index" json:"employer_id"`
	JobID         uint `gorm:"not null;index" json:"job_id"`
	// One payment per application, enforced at the database level.
	ApplicationID uint `gorm:"not null;uniqueIndex" json:"application_id"`

	Amount   int64  `gorm:"not null" json:"amount"`
	Currency string `gorm:"type:varchar(3);not null;default:'INR'" json:"currency"`

	Status PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Method PaymentMethod `gorm:"type:varchar(20)" json:"method,omitempty"`

	TransactionID string     `gorm:"type:varchar(100)" json:"transaction_id,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	Notes         string     `gorm:"type:text" json:"notes,omitempty"`

	BankTransfer BankTransferDetails `gorm:"embedded;embeddedPrefix:bank_" json:"bank_transfer,omitempty"`

	// Job snapshot captured at creation so payment history survives job
	// edits and deletion.
	JobTitle    string `gorm:"not null" json:"job_title"`
	JobCategory string `gorm:"type:varchar(100)" json:"job_category"`
	JobDuration string `gorm:"type:varchar(100)" json:"job_duration"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Worker   User `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
	Employer User `gorm:"foreignKey:EmployerID" json:"employer,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}
