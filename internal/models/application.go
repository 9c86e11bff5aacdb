package models

import (
	"time"

	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Application records are owned by the jobs service. Accepting one is the
// event that creates a payment obligation.
type Application struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	JobID       uint              `gorm:"not null;index" json:"job_id"`
	ApplicantID uint              `gorm:"not null;index" json:"applicant_id"`
	Status      ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`

	Job       Job  `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Applicant User `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}
