package services

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"KaamSetu/internal/models"
)

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// CreateNotification creates a new notification
func (s *NotificationService) CreateNotification(userID uint, notifType models.NotificationType, title, message string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		jsonBytes, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal notification data: %w", err)
		}
		dataJSON = string(jsonBytes)
	}

	notification := models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    dataJSON,
		IsRead:  false,
	}

	if err := s.db.Create(&notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// NotifyPaymentCreated tells the worker a payment obligation now exists for
// an accepted application.
func (s *NotificationService) NotifyPaymentCreated(workerID uint, jobTitle string, amount int64, paymentID uint) error {
	return s.CreateNotification(
		workerID,
		models.NotificationPaymentCreated,
		"Payment Pending",
		fmt.Sprintf("A payment of ₹%d for \"%s\" will be made after the job is done", amount, jobTitle),
		map[string]interface{}{
			"payment_id": paymentID,
			"job_title":  jobTitle,
			"amount":     amount,
		},
	)
}

// NotifyVerificationNeeded tells the worker an employer tried to pay into an
// account that is still unverified.
func (s *NotificationService) NotifyVerificationNeeded(workerID uint, maskedAccountNumber, bankName string, paymentID uint) error {
	return s.CreateNotification(
		workerID,
		models.NotificationVerifyAccount,
		"Verify Your Bank Account",
		fmt.Sprintf("A payment is waiting but your account %s (%s) is not verified yet. Please verify it to receive bank transfers", maskedAccountNumber, bankName),
		map[string]interface{}{
			"payment_id":     paymentID,
			"account_number": maskedAccountNumber,
			"bank_name":      bankName,
		},
	)
}

// NotifyPaymentReceived tells the worker an employer settled a payment.
func (s *NotificationService) NotifyPaymentReceived(workerID uint, jobTitle string, amount int64, method models.PaymentMethod, paymentID uint) error {
	return s.CreateNotification(
		workerID,
		models.NotificationPaymentReceived,
		"Payment Received",
		fmt.Sprintf("You have received ₹%d for \"%s\" via %s", amount, jobTitle, method),
		map[string]interface{}{
			"payment_id": paymentID,
			"job_title":  jobTitle,
			"amount":     amount,
			"method":     method,
		},
	)
}
