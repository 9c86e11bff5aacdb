package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"KaamSetu/internal/models"
)

// newTestDB opens a private in-memory database per test and migrates the
// settlement schema into it.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Job{},
		&models.Application{},
		&models.BankAccount{},
		&models.Payment{},
		&models.Notification{},
	))

	return db
}

func seedWorker(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	worker := models.User{FullName: "Ravi Kumar", Email: fmt.Sprintf("ravi+%s@example.com", t.Name()), Role: "worker"}
	require.NoError(t, db.Create(&worker).Error)
	return &worker
}

func seedEmployer(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	employer := models.User{FullName: "Asha Traders", Email: fmt.Sprintf("asha+%s@example.com", t.Name()), Role: "employer"}
	require.NoError(t, db.Create(&employer).Error)
	return &employer
}

func seedJob(t *testing.T, db *gorm.DB, employerID uint, salary string) *models.Job {
	t.Helper()
	job := models.Job{
		PostedBy: employerID,
		Title:    "Warehouse Helper",
		Category: "Logistics",
		Duration: "1 week",
		Salary:   salary,
	}
	require.NoError(t, db.Create(&job).Error)
	return &job
}

func seedApplication(t *testing.T, db *gorm.DB, jobID, workerID uint) *models.Application {
	t.Helper()
	application := models.Application{
		JobID:       jobID,
		ApplicantID: workerID,
		Status:      models.ApplicationAccepted,
	}
	require.NoError(t, db.Create(&application).Error)
	return &application
}

// activePrimaryCount asserts the invariant the bank account service protects.
func activePrimaryCount(t *testing.T, db *gorm.DB, workerID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.BankAccount{}).
		Where("worker_id = ? AND is_active = ? AND is_primary = ?", workerID, true, true).
		Count(&count).Error)
	return count
}
