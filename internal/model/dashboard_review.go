package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// MinRating is the lowest accepted review rating.
	MinRating = 1
	// MaxRating is the highest accepted review rating.
	MaxRating = 5
)

// DashboardReview is a comment, optionally rated, left on a project dashboard.
type DashboardReview struct {
	ID        string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	ProjectID string    `json:"projectId" gorm:"type:varchar(64);not null;index"`
	AuthorID  string    `json:"authorId" gorm:"type:varchar(64);not null;index"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	Rating    *int      `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (r *DashboardReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
