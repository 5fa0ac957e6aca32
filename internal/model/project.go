package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project groups diagrams, reviews and cached AI responses for one owner.
type Project struct {
	ID          string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	UserID      string    `json:"userId" gorm:"type:varchar(64);not null;index"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description *string   `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record. Client supplied ids
// (ensure-project) are kept as is.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// OwnedBy reports whether userID owns the project.
func (p *Project) OwnedBy(userID string) bool {
	return p.UserID == userID
}
