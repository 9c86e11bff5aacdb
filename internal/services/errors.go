package services

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateAccount    = errors.New("bank account already exists")
	ErrAccountNotFound     = errors.New("bank account not found")
	ErrAccountNotVerified  = errors.New("bank account is not verified")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrBankDetailsRequired = errors.New("bank details are required for bank transfers")
	ErrNotPaymentEmployer  = errors.New("only the employer for this payment can perform this action")
)

// NotVerifiedError carries the masked identity of the unverified account so
// the caller can tell the worker which account needs verification.
type NotVerifiedError struct {
	MaskedAccountNumber string
	BankName            string
}

func (e *NotVerifiedError) Error() string {
	return fmt.Sprintf("bank account %s (%s) is not verified, please ask worker to verify", e.MaskedAccountNumber, e.BankName)
}

func (e *NotVerifiedError) Unwrap() error {
	return ErrAccountNotVerified
}
