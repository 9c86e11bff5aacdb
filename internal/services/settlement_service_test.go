package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"KaamSetu/internal/models"
)

type settlementFixture struct {
	db          *gorm.DB
	settlement  *SettlementService
	payments    *PaymentService
	accounts    *BankAccountService
	worker      *models.User
	employer    *models.User
	payment     *models.Payment
	application *models.Application
}

func newSettlementFixture(t *testing.T, salary string) *settlementFixture {
	t.Helper()
	db := newTestDB(t)
	worker := seedWorker(t, db)
	employer := seedEmployer(t, db)
	job := seedJob(t, db, employer.ID, salary)
	application := seedApplication(t, db, job.ID, worker.ID)

	payments := NewPaymentService(db)
	payment, _, err := payments.CreateForApplication(application, job)
	require.NoError(t, err)

	return &settlementFixture{
		db:          db,
		settlement:  NewSettlementService(db),
		payments:    payments,
		accounts:    NewBankAccountService(db),
		worker:      worker,
		employer:    employer,
		payment:     payment,
		application: application,
	}
}

func (f *settlementFixture) addAccount(t *testing.T, number string, verify bool) *models.BankAccount {
	t.Helper()
	account, err := f.accounts.AddAccount(f.worker.ID, testAccountInput(number))
	require.NoError(t, err)
	if verify {
		account, err = f.accounts.VerifyAccount(account.ID, f.worker.ID, "penny_drop")
		require.NoError(t, err)
	}
	return account
}

func (f *settlementFixture) notificationCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&models.Notification{}).
		Where("user_id = ?", f.worker.ID).Count(&count).Error)
	return count
}

func TestCompleteWithBankTransferRejectsUnverifiedAccount(t *testing.T) {
	f := newSettlementFixture(t, "₹600/day")
	account := f.addAccount(t, "123456789012", false)

	_, err := f.settlement.CompleteWithBankTransfer(f.payment.ID, f.employer.ID, account.ID, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAccountNotVerified)

	var notVerified *NotVerifiedError
	require.ErrorAs(t, err, &notVerified)
	assert.Equal(t, "XXXXXXXX9012", notVerified.MaskedAccountNumber)
	assert.Equal(t, "State Bank of India", notVerified.BankName)

	// The payment is untouched by the failed attempt.
	reloaded, err := f.payments.GetByID(f.payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, reloaded.Status)

	// The worker is asked to verify the account.
	var verifyCount int64
	require.NoError(t, f.db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", f.worker.ID, models.NotificationVerifyAccount).
		Count(&verifyCount).Error)
	assert.EqualValues(t, 1, verifyCount)
}

func TestCompleteWithBankTransfer(t *testing.T) {
	f := newSettlementFixture(t, "₹600/day")
	account := f.addAccount(t, "123456789012", true)

	result, err := f.settlement.CompleteWithBankTransfer(f.payment.ID, f.employer.ID, account.ID, "TRF-ABC123")
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.True(t, result.NotificationSent)

	payment := result.Payment
	assert.Equal(t, models.PaymentCompleted, payment.Status)
	assert.Equal(t, models.MethodBankTransfer, payment.Method)
	require.NotNil(t, payment.PaidAt)
	assert.Equal(t, account.ID, payment.BankTransfer.AccountID)
	assert.Equal(t, "123456789012", payment.BankTransfer.AccountNumber)
	assert.Equal(t, "TRF-ABC123", payment.BankTransfer.TransferReference)
	assert.Equal(t, models.VerificationVerified, payment.BankTransfer.VerificationStatus)

	var reloaded models.BankAccount
	require.NoError(t, f.db.First(&reloaded, account.ID).Error)
	assert.EqualValues(t, 1, reloaded.TotalPaymentsReceived)
	assert.EqualValues(t, 600, reloaded.TotalAmountReceived)

	assert.EqualValues(t, 1, f.notificationCount(t))
}

func TestCompleteWithBankTransferGeneratesReference(t *testing.T) {
	f := newSettlementFixture(t, "₹600/day")
	account := f.addAccount(t, "123456789012", true)

	result, err := f.settlement.CompleteWithBankTransfer(f.payment.ID, f.employer.ID, account.ID, "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Payment.BankTransfer.TransferReference)
}

func TestCompleteWithBankTransferIdempotent(t *testing.T) {
	f := newSettlementFixture(t, "₹600/day")
	account := f.addAccount(t, "123456789012", true)

	first, err := f.settlement.CompleteWithBankTransfer(f.payment.ID, f.employer.ID, account.ID, "TRF-1")
	require.NoError(t, err)
	assert.True(t, first.Applied)

	second, err := f.settlement.CompleteWithBankTransfer(f.payment.ID, f.employer.ID, account.ID, "TRF-2")
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.Equal(t, "TRF-1", second.Payment.BankTransfer.TransferReference)

	// Counters and notifications are applied once.
	var reloaded models.BankAccount
	require.NoError(t, f.db.First(&reloaded, account.ID).Error)
	assert.EqualValues(t, 1, reloaded.TotalPaymentsReceived)
	assert.EqualValues(t, 600, reloaded.TotalAmountReceived)
	assert.EqualValues(t, 1, f.notificationCount(t))
}

func TestCompleteWithBankTransferWrongEmployer(t *testing.T) {
	f := newSettlementFixture(t, "₹600/day")
	account := f.addAccount(t, "123456789012", true)

	_, err := f.settlement.CompleteWithBankTransfer(f.payment.ID, f.employer.ID+1000, account.ID, "")
	assert.ErrorIs(t, err, ErrNotPaymentEmployer)
}

func TestCompleteWithBankTransferUnknownAccount(t *testing.T) {
	f := newSettlementFixture(t, "₹600/day")

	_, err := f.settlement.CompleteWithBankTransfer(f.payment.ID, f.employer.ID, 999, "")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestCompleteWithBankTransferDeletedAccount(t *testing.T) {
	f := newSettlementFixture(t, "₹600/day")
	account := f.addAccount(t, "123456789012", true)
	require.NoError(t, f.accounts.DeleteAccount(account.ID, f.worker.ID))

	_, err := f.settlement.CompleteWithBankTransfer(f.payment.ID, f.employer.ID, account.ID, "")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSnapshotSurvivesAccountEdits(t *testing.T) {
	f := newSettlementFixture(t, "₹600/day")
	account := f.addAccount(t, "123456789012", true)

	result, err := f.settlement.CompleteWithBankTransfer(f.payment.ID, f.employer.ID, account.ID, "TRF-1")
	require.NoError(t, err)

	// Later edits to the live account leave the settled snapshot alone.
	require.NoError(t, f.db.Model(&models.BankAccount{}).Where("id = ?", account.ID).
		Updates(map[string]interface{}{"bank_name": "Renamed Bank", "account_number": "000011112222"}).Error)

	reloaded, err := f.payments.GetByID(result.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, "State Bank of India", reloaded.BankTransfer.BankName)
	assert.Equal(t, "123456789012", reloaded.BankTransfer.AccountNumber)
}

func TestCompleteWithCashOrUPI(t *testing.T) {
	f := newSettlementFixture(t, "₹600/day")

	result, err := f.settlement.CompleteWithCashOrUPI(f.payment.ID, f.employer.ID, models.MethodUPI, "UPI-TXN-1")
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, models.PaymentCompleted, result.Payment.Status)
	assert.Equal(t, models.MethodUPI, result.Payment.Method)
	assert.Equal(t, "UPI-TXN-1", result.Payment.TransactionID)
	assert.EqualValues(t, 1, f.notificationCount(t))

	// No bank account state involved.
	assert.Empty(t, result.Payment.BankTransfer.AccountNumber)

	again, err := f.settlement.CompleteWithCashOrUPI(f.payment.ID, f.employer.ID, models.MethodCash, "")
	require.NoError(t, err)
	assert.False(t, again.Applied)
	assert.Equal(t, models.MethodUPI, again.Payment.Method)
	assert.EqualValues(t, 1, f.notificationCount(t))
}

func TestOnApplicationAcceptedCreatesPayment(t *testing.T) {
	db := newTestDB(t)
	worker := seedWorker(t, db)
	employer := seedEmployer(t, db)
	job := seedJob(t, db, employer.ID, "₹650/day")
	application := seedApplication(t, db, job.ID, worker.ID)
	settlement := NewSettlementService(db)

	settlement.OnApplicationAccepted(application, job)
	// A retried acceptance does not create a second payment.
	settlement.OnApplicationAccepted(application, job)

	var payments []models.Payment
	require.NoError(t, db.Where("application_id = ?", application.ID).Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.EqualValues(t, 650, payments[0].Amount)

	var notifCount int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", worker.ID, models.NotificationPaymentCreated).
		Count(&notifCount).Error)
	assert.EqualValues(t, 1, notifCount)
}

func TestGetWorkerBankAccountForPayment(t *testing.T) {
	f := newSettlementFixture(t, "₹600/day")
	account := f.addAccount(t, "123456789012", true)

	payment, view, err := f.settlement.GetWorkerBankAccountForPayment(f.payment.ID, f.employer.ID)
	require.NoError(t, err)
	assert.Equal(t, f.payment.ID, payment.ID)
	require.NotNil(t, view)
	assert.Equal(t, account.ID, view.AccountID)
	assert.Equal(t, "XXXXXXXX9012", view.MaskedAccountNumber)
	assert.True(t, view.IsVerified)

	_, _, err = f.settlement.GetWorkerBankAccountForPayment(f.payment.ID, f.employer.ID+1000)
	assert.ErrorIs(t, err, ErrNotPaymentEmployer)
}

func TestGetWorkerBankAccountForPaymentNoAccount(t *testing.T) {
	f := newSettlementFixture(t, "₹600/day")

	payment, view, err := f.settlement.GetWorkerBankAccountForPayment(f.payment.ID, f.employer.ID)
	require.NoError(t, err)
	assert.NotNil(t, payment)
	assert.Nil(t, view)
}
