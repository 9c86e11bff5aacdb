package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"KaamSetu/internal/database"
	"KaamSetu/internal/models"
	"KaamSetu/internal/services"
	"KaamSetu/internal/utils"
)

// InitApplicationServices wires the settlement service these handlers need,
// so the application routes work even when the payment routes are not
// registered.
func InitApplicationServices() {
	settlementService = services.NewSettlementService(database.DB)
}

type UpdateApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

// UpdateApplicationStatus lets the employer who posted a job accept or reject
// an application. Accepting one records the payment obligation; the status
// change succeeds even if that bookkeeping fails.
func UpdateApplicationStatus(c *fiber.Ctx) error {
	applicationID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid application id",
		})
	}

	req := new(UpdateApplicationStatusRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	employerID := c.Locals("user_id").(uint)

	var application models.Application
	if err := database.DB.First(&application, applicationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Application not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Database error",
		})
	}

	var job models.Job
	if err := database.DB.First(&job, application.JobID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve job",
		})
	}

	if job.PostedBy != employerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the employer who posted this job can update applications",
		})
	}

	if application.Status != models.ApplicationPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Cannot update application with status: %s", application.Status),
		})
	}

	application.Status = models.ApplicationStatus(req.Status)
	if err := database.DB.Save(&application).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update application",
		})
	}

	// Payment creation is best-effort: errors are logged inside the
	// settlement service and never surfaced here.
	if application.Status == models.ApplicationAccepted {
		settlementService.OnApplicationAccepted(&application, &job)
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Application %s", application.Status),
		"application": fiber.Map{
			"id":     application.ID,
			"job_id": application.JobID,
			"status": application.Status,
		},
	})
}
