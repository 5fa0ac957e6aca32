package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback is a free-form message left from the UI feedback widget.
type Feedback struct {
	ID        string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	Persona   *string   `json:"persona" gorm:"size:100"`
	TabType   *string   `json:"tabType" gorm:"size:100"`
	ProjectID *string   `json:"projectId" gorm:"type:varchar(64);index"`
	UserID    *string   `json:"userId" gorm:"type:varchar(64);index"`
	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
