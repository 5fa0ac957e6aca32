package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"clinops/internal/model"
)

// AiCacheRepository defines AI response cache persistence operations.
type AiCacheRepository interface {
	Find(ctx context.Context, userID, projectID, cacheKey string) (*model.AiResponseCache, error)
	Upsert(ctx context.Context, entry *model.AiResponseCache) error
	DeleteByProject(ctx context.Context, userID, projectID string) (int64, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

type aiCacheRepository struct {
	db *gorm.DB
}

// NewAiCacheRepository creates a new AI cache repository.
func NewAiCacheRepository(db *gorm.DB) AiCacheRepository {
	return &aiCacheRepository{db: db}
}

func (r *aiCacheRepository) Find(ctx context.Context, userID, projectID, cacheKey string) (*model.AiResponseCache, error) {
	var entry model.AiResponseCache
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ? AND cache_key = ?", userID, projectID, cacheKey).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Upsert creates the entry or overwrites the one with the same user, project
// and key. On return entry holds the stored row.
func (r *aiCacheRepository) Upsert(ctx context.Context, entry *model.AiResponseCache) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.AiResponseCache
		err := tx.Where("user_id = ? AND project_id = ? AND cache_key = ?",
			entry.UserID, entry.ProjectID, entry.CacheKey).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(entry).Error
		}
		if err != nil {
			return err
		}

		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
		return tx.Save(entry).Error
	})
}

func (r *aiCacheRepository) DeleteByProject(ctx context.Context, userID, projectID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Delete(&model.AiResponseCache{})
	return res.RowsAffected, res.Error
}

func (r *aiCacheRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.AiResponseCache{})
	return res.RowsAffected, res.Error
}
