package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/flexoffhq/flexoff/cache"
	"github.com/flexoffhq/flexoff/config"
	"github.com/flexoffhq/flexoff/db"
	"github.com/flexoffhq/flexoff/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *db.GormDB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		sqlDB, dErr := gdb.DB()
		if dErr == nil {
			sqlDB.Close()
		}
	})
	return &db.GormDB{DB: gdb}
}

func createTestUser(t *testing.T, gdb *db.GormDB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Fullname: "Test " + username,
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
	}
	require.NoError(t, gdb.DB.Create(user).Error)
	return user
}

// fakeCache is an in-process Cache that records deletions so tests
// can assert invalidation behavior.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.entries[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = value
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var removed int64
	for _, key := range keys {
		if _, ok := f.entries[key]; ok {
			removed++
		}
		delete(f.entries, key)
		f.deleted = append(f.deleted, key)
	}
	return removed, nil
}

func (f *fakeCache) Ping(context.Context) error { return nil }
func (f *fakeCache) Close() error               { return nil }

func (f *fakeCache) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entries[key]
	return ok
}

// stubMediaService satisfies MediaService without touching S3.
type stubMediaService struct {
	deletedKeys []string
}

func (s *stubMediaService) UploadAvatar(*multipart.FileHeader, uint) (string, string, error) {
	return "", "", nil
}

func (s *stubMediaService) UploadPostImage(*multipart.FileHeader, uint) (string, error) {
	return "", nil
}

func (s *stubMediaService) DeleteObject(key string) error {
	s.deletedKeys = append(s.deletedKeys, key)
	return nil
}

func (s *stubMediaService) EnsureBucket() error { return nil }

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret"}
}
