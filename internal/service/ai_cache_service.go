package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"clinops/internal/cache"
	apperrors "clinops/internal/errors"
	"clinops/internal/model"
	"clinops/internal/repository"
)

const aiCacheTTL = 10 * time.Minute

// MaxAiCacheTTLSeconds is the longest accepted entry lifetime, one year.
const MaxAiCacheTTLSeconds = 365 * 24 * 60 * 60

// ErrAiCacheMiss is returned when no live cached response exists.
var ErrAiCacheMiss = apperrors.NotFound("No cached response")

// PutAiCacheInput carries a response to cache.
type PutAiCacheInput struct {
	ProjectID  string
	CacheKey   string
	Response   string
	TabType    *string
	Persona    *string
	TTLSeconds int
}

// AiCacheService stores generated AI responses per user and project. Reads go
// through Redis before the database.
type AiCacheService interface {
	Get(ctx context.Context, userID, projectID, cacheKey string) (*model.AiResponseCache, error)
	Put(ctx context.Context, userID string, in PutAiCacheInput) (*model.AiResponseCache, error)
	// Clear deletes the caller's entries for projectID, or all of them when
	// projectID is empty, and returns how many rows went away.
	Clear(ctx context.Context, userID, projectID string) (int64, error)
}

type aiCacheService struct {
	repo  repository.AiCacheRepository
	cache *cache.Client
}

// NewAiCacheService creates a new AI cache service.
func NewAiCacheService(repo repository.AiCacheRepository, cache *cache.Client) AiCacheService {
	return &aiCacheService{repo: repo, cache: cache}
}

// Redis keys are ai_cache:<project>:<user>:<key> so a project's entries can
// be dropped for every user at once.
func aiCacheProjectPrefix(projectID string) string {
	return "ai_cache:" + projectID + ":"
}

func aiCacheScopePrefix(projectID, userID string) string {
	return aiCacheProjectPrefix(projectID) + userID + ":"
}

func aiCacheRedisKey(projectID, userID, key string) string {
	return aiCacheScopePrefix(projectID, userID) + key
}

// aiCacheUserPattern matches every entry of userID across projects.
func aiCacheUserPattern(userID string) string {
	return "ai_cache:*:" + cache.EscapePattern(userID) + ":*"
}

// forgetProjectAiCache drops the cached responses of every user for projectID.
func forgetProjectAiCache(ctx context.Context, c *cache.Client, projectID string) {
	_ = c.DeletePrefix(ctx, aiCacheProjectPrefix(projectID))
}

func (s *aiCacheService) Get(ctx context.Context, userID, projectID, cacheKey string) (*model.AiResponseCache, error) {
	if strings.TrimSpace(projectID) == "" || strings.TrimSpace(cacheKey) == "" {
		return nil, apperrors.Validation("projectId and cacheKey are required")
	}

	redisKey := aiCacheRedisKey(projectID, userID, cacheKey)

	// Try cache first
	if data, _ := s.cache.Get(ctx, redisKey); data != nil {
		var cached model.AiResponseCache
		if err := json.Unmarshal(data, &cached); err == nil && !cached.Expired(now()) {
			return &cached, nil
		}
	}

	entry, err := s.repo.Find(ctx, userID, projectID, cacheKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAiCacheMiss
		}
		return nil, fmt.Errorf("find ai cache: %w", err)
	}
	if entry.Expired(now()) {
		return nil, ErrAiCacheMiss
	}

	s.remember(ctx, redisKey, entry)
	return entry, nil
}

func (s *aiCacheService) Put(ctx context.Context, userID string, in PutAiCacheInput) (*model.AiResponseCache, error) {
	if strings.TrimSpace(in.ProjectID) == "" || strings.TrimSpace(in.CacheKey) == "" {
		return nil, apperrors.Validation("projectId and cacheKey are required")
	}
	if in.Response == "" {
		return nil, apperrors.Validation("response is required")
	}
	if in.TTLSeconds < 0 || in.TTLSeconds > MaxAiCacheTTLSeconds {
		return nil, apperrors.Validation(fmt.Sprintf("ttlSeconds must be between 0 and %d", MaxAiCacheTTLSeconds))
	}

	entry := &model.AiResponseCache{
		UserID:    userID,
		ProjectID: in.ProjectID,
		CacheKey:  in.CacheKey,
		TabType:   trimmedOrNil(in.TabType),
		Persona:   trimmedOrNil(in.Persona),
		Response:  in.Response,
	}
	if in.TTLSeconds > 0 {
		expires := now().Add(time.Duration(in.TTLSeconds) * time.Second)
		entry.ExpiresAt = &expires
	}

	if err := s.repo.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("upsert ai cache: %w", err)
	}

	_ = s.cache.Delete(ctx, aiCacheRedisKey(in.ProjectID, userID, in.CacheKey))
	return entry, nil
}

func (s *aiCacheService) Clear(ctx context.Context, userID, projectID string) (int64, error) {
	projectID = strings.TrimSpace(projectID)

	var (
		deleted int64
		err     error
	)
	if projectID == "" {
		deleted, err = s.repo.DeleteByUser(ctx, userID)
		_ = s.cache.DeleteMatch(ctx, aiCacheUserPattern(userID))
	} else {
		deleted, err = s.repo.DeleteByProject(ctx, userID, projectID)
		_ = s.cache.DeletePrefix(ctx, aiCacheScopePrefix(projectID, userID))
	}
	if err != nil {
		return 0, fmt.Errorf("clear ai cache: %w", err)
	}
	return deleted, nil
}

// remember caches entry in Redis, never past its own expiry.
func (s *aiCacheService) remember(ctx context.Context, key string, entry *model.AiResponseCache) {
	ttl := aiCacheTTL
	if entry.ExpiresAt != nil {
		if left := timeUntil(*entry.ExpiresAt); left < ttl {
			ttl = left
		}
	}
	if ttl <= 0 {
		return
	}
	if payload, err := json.Marshal(entry); err == nil {
		_ = s.cache.Set(ctx, key, payload, ttl)
	}
}
