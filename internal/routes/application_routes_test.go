package routes

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"KaamSetu/internal/database"
	"KaamSetu/internal/models"
)

func setupTestDB(t *testing.T) {
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

	database.DB = db
}

func employerToken(t *testing.T, employerID uint) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": float64(employerID),
		"role":    "employer",
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// Accepting an application must work when only the application routes are
// registered on the app.
func TestAcceptApplicationWithOnlyApplicationRoutes(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	setupTestDB(t)

	worker := models.User{FullName: "Ravi Kumar", Email: "ravi@example.com", Role: "worker"}
	require.NoError(t, database.DB.Create(&worker).Error)
	employer := models.User{FullName: "Asha Traders", Email: "asha@example.com", Role: "employer"}
	require.NoError(t, database.DB.Create(&employer).Error)
	job := models.Job{PostedBy: employer.ID, Title: "Warehouse Helper", Category: "Logistics", Duration: "1 week", Salary: "₹650/day"}
	require.NoError(t, database.DB.Create(&job).Error)
	application := models.Application{JobID: job.ID, ApplicantID: worker.ID, Status: models.ApplicationPending}
	require.NoError(t, database.DB.Create(&application).Error)

	app := fiber.New()
	SetupApplicationRoutes(app)

	url := fmt.Sprintf("/api/applications/%d/status", application.ID)
	req := httptest.NewRequest(http.MethodPut, url, strings.NewReader(`{"status":"accepted"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+employerToken(t, employer.ID))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded models.Application
	require.NoError(t, database.DB.First(&reloaded, application.ID).Error)
	assert.Equal(t, models.ApplicationAccepted, reloaded.Status)

	var payment models.Payment
	require.NoError(t, database.DB.Where("application_id = ?", application.ID).First(&payment).Error)
	assert.EqualValues(t, 650, payment.Amount)
	assert.Equal(t, models.PaymentPending, payment.Status)
}
