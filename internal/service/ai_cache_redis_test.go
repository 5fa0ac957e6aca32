package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"clinops/internal/cache"
	"clinops/internal/db"
	"clinops/internal/model"
	"clinops/internal/repository"
)

type redisFixture struct {
	db    *gorm.DB
	mr    *miniredis.Miniredis
	cache *cache.Client
	svc   AiCacheService
}

func newRedisFixture(t *testing.T) *redisFixture {
	t.Helper()

	gormDB, err := db.NewSQLiteMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	client := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })

	return &redisFixture{
		db:    gormDB,
		mr:    mr,
		cache: client,
		svc:   NewAiCacheService(repository.NewAiCacheRepository(gormDB), client),
	}
}

func (f *redisFixture) warm(t *testing.T, userID, projectID, key, response string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.Put(ctx, userID, PutAiCacheInput{ProjectID: projectID, CacheKey: key, Response: response})
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, userID, projectID, key)
	require.NoError(t, err)
	require.True(t, f.mr.Exists(aiCacheRedisKey(projectID, userID, key)))
}

func TestAiCacheService_ReadThrough(t *testing.T) {
	ctx := context.Background()
	f := newRedisFixture(t)

	f.warm(t, "u1", "p1", "summary", "from db")

	redisKey := aiCacheRedisKey("p1", "u1", "summary")
	assert.Equal(t, "ai_cache:p1:u1:summary", redisKey)
	ttl := f.mr.TTL(redisKey)
	assert.True(t, ttl > 0 && ttl <= aiCacheTTL, "ttl %s", ttl)

	// with the row gone the warm redis entry still answers
	require.NoError(t, f.db.Where("user_id = ?", "u1").Delete(&model.AiResponseCache{}).Error)
	entry, err := f.svc.Get(ctx, "u1", "p1", "summary")
	require.NoError(t, err)
	assert.Equal(t, "from db", entry.Response)
}

func TestAiCacheService_ReadThroughRespectsRowExpiry(t *testing.T) {
	ctx := context.Background()
	f := newRedisFixture(t)

	_, err := f.svc.Put(ctx, "u1", PutAiCacheInput{ProjectID: "p1", CacheKey: "k", Response: "r", TTLSeconds: 30})
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, "u1", "p1", "k")
	require.NoError(t, err)

	ttl := f.mr.TTL(aiCacheRedisKey("p1", "u1", "k"))
	assert.True(t, ttl > 0 && ttl <= 30*time.Second, "ttl %s", ttl)
}

func TestAiCacheService_PutInvalidates(t *testing.T) {
	ctx := context.Background()
	f := newRedisFixture(t)

	f.warm(t, "u1", "p1", "summary", "first")

	_, err := f.svc.Put(ctx, "u1", PutAiCacheInput{ProjectID: "p1", CacheKey: "summary", Response: "second"})
	require.NoError(t, err)
	assert.False(t, f.mr.Exists(aiCacheRedisKey("p1", "u1", "summary")))

	entry, err := f.svc.Get(ctx, "u1", "p1", "summary")
	require.NoError(t, err)
	assert.Equal(t, "second", entry.Response)
}

func TestAiCacheService_ClearDropsRedisEntries(t *testing.T) {
	ctx := context.Background()
	f := newRedisFixture(t)

	f.warm(t, "u1", "p1", "a", "r")
	f.warm(t, "u1", "p2", "a", "r")
	f.warm(t, "u2", "p1", "a", "r")

	_, err := f.svc.Clear(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.False(t, f.mr.Exists(aiCacheRedisKey("p1", "u1", "a")))
	assert.True(t, f.mr.Exists(aiCacheRedisKey("p2", "u1", "a")))
	assert.True(t, f.mr.Exists(aiCacheRedisKey("p1", "u2", "a")))

	_, err = f.svc.Clear(ctx, "u1", "")
	require.NoError(t, err)
	assert.False(t, f.mr.Exists(aiCacheRedisKey("p2", "u1", "a")))
	assert.True(t, f.mr.Exists(aiCacheRedisKey("p1", "u2", "a")))

	_, err = f.svc.Get(ctx, "u1", "p2", "a")
	assert.Equal(t, ErrAiCacheMiss, err)
}

func TestProjectService_DeleteForgetsAiCache(t *testing.T) {
	ctx := context.Background()
	f := newRedisFixture(t)

	projectRepo := repository.NewProjectRepository(f.db)
	require.NoError(t, projectRepo.Create(ctx, &model.Project{ID: "p1", UserID: "owner", Name: "doomed"}))

	f.warm(t, "owner", "p1", "summary", "stale")
	f.warm(t, "collaborator", "p1", "summary", "stale")
	f.warm(t, "owner", "p2", "summary", "kept")

	require.NoError(t, NewProjectService(projectRepo, f.cache).Delete(ctx, "owner", "p1"))

	for _, key := range f.mr.Keys() {
		assert.False(t, strings.HasPrefix(key, "ai_cache:p1:"), key)
	}
	assert.True(t, f.mr.Exists(aiCacheRedisKey("p2", "owner", "summary")))

	_, err := f.svc.Get(ctx, "owner", "p1", "summary")
	assert.Equal(t, ErrAiCacheMiss, err)
}
