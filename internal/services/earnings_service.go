package services

import (
	"time"

	"gorm.io/gorm"

	"KaamSetu/internal/models"
)

// EarningsService is a read model over the payment records. It never writes.
type EarningsService struct {
	db *gorm.DB
}

func NewEarningsService(db *gorm.DB) *EarningsService {
	return &EarningsService{db: db}
}

type EarningsSummary struct {
	TotalEarned   int64 `json:"total_earned"`
	CompletedJobs int64 `json:"completed_jobs"`
	PendingAmount int64 `json:"pending_amount"`
	PendingJobs   int64 `json:"pending_jobs"`
}

type MonthlyEarnings struct {
	Month    int    `json:"month"`
	Name     string `json:"name"`
	Earnings int64  `json:"earnings"`
	Jobs     int64  `json:"jobs"`
}

// Summary aggregates the worker's payments by status.
func (s *EarningsService) Summary(workerID uint) (*EarningsSummary, error) {
	type statusRow struct {
		Status models.PaymentStatus
		Total  int64
		Count  int64
	}

	var rows []statusRow
	err := s.db.Model(&models.Payment{}).
		Select("status, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("worker_id = ?", workerID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &EarningsSummary{}
	for _, row := range rows {
		switch row.Status {
		case models.PaymentCompleted:
			summary.TotalEarned = row.Total
			summary.CompletedJobs = row.Count
		case models.PaymentPending, models.PaymentProcessing:
			summary.PendingAmount += row.Total
			summary.PendingJobs += row.Count
		}
	}

	return summary, nil
}

// Monthly buckets the worker's completed payments of one year by completion
// month. Always returns 12 entries; months without payments carry zeros.
func (s *EarningsService) Monthly(workerID uint, year int) ([]MonthlyEarnings, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var payments []models.Payment
	err := s.db.Where("worker_id = ? AND status = ? AND paid_at >= ? AND paid_at < ?",
		workerID, models.PaymentCompleted, start, end).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	months := make([]MonthlyEarnings, 12)
	for i := range months {
		months[i] = MonthlyEarnings{
			Month: i + 1,
			Name:  time.Month(i + 1).String(),
		}
	}

	for _, p := range payments {
		if p.PaidAt == nil {
			continue
		}
		i := int(p.PaidAt.Month()) - 1
		months[i].Earnings += p.Amount
		months[i].Jobs++
	}

	return months, nil
}
