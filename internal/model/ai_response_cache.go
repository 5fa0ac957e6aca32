package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AiResponseCache stores a generated AI response for a user and project so
// the UI does not regenerate it on every visit.
type AiResponseCache struct {
	ID        string     `json:"id" gorm:"type:varchar(64);primaryKey"`
	UserID    string     `json:"userId" gorm:"type:varchar(64);not null;uniqueIndex:idx_ai_cache_scope"`
	ProjectID string     `json:"projectId" gorm:"type:varchar(64);not null;uniqueIndex:idx_ai_cache_scope;index"`
	CacheKey  string     `json:"cacheKey" gorm:"size:255;not null;uniqueIndex:idx_ai_cache_scope"`
	TabType   *string    `json:"tabType" gorm:"size:100"`
	Persona   *string    `json:"persona" gorm:"size:100"`
	Response  string     `json:"response" gorm:"type:text;not null"`
	ExpiresAt *time.Time `json:"expiresAt"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// TableName keeps the table name readable.
func (AiResponseCache) TableName() string { return "ai_response_caches" }

// BeforeCreate sets UUID before creating the record.
func (a *AiResponseCache) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Expired reports whether the entry is past its expiry at now.
func (a *AiResponseCache) Expired(now time.Time) bool {
	return a.ExpiresAt != nil && !now.Before(*a.ExpiresAt)
}
