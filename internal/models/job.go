package models

import (
	"time"

	"gorm.io/gorm"
)

// Job postings are owned by the jobs service. Settlement reads them for the
// employer id and the free-text salary the payment amount is parsed from.
type Job struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	PostedBy  uint           `gorm:"not null;index" json:"posted_by"`
	Title     string         `gorm:"not null" json:"title"`
	Category  string         `gorm:"type:varchar(100)" json:"category"`
	Duration  string         `gorm:"type:varchar(100)" json:"duration"`
	Salary    string         `gorm:"type:varchar(100)" json:"salary"` // free text, e.g. "₹600/day"
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Employer User `gorm:"foreignKey:PostedBy" json:"employer,omitempty"`
}

func (Job) TableName() string {
	return "jobs"
}
