package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedDiagram is a diagram source saved against a project.
type SavedDiagram struct {
	ID          string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	ProjectID   string    `json:"projectId" gorm:"type:varchar(64);not null;index"`
	UserID      string    `json:"userId" gorm:"type:varchar(64);not null;index"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description *string   `json:"description" gorm:"type:text"`
	DiagramCode string    `json:"diagramCode" gorm:"type:text;not null"`
	DiagramType string    `json:"diagramType" gorm:"size:64;not null"`
	Context     *string   `json:"context" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (d *SavedDiagram) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
