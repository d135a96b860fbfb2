package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CustomFoodsKey is the fixed key the custom food table is persisted under.
const CustomFoodsKey = "customFoods"

// SnapshotBackend loads and saves one whole JSON document. Load returns nil
// data when nothing has been saved yet.
type SnapshotBackend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// MemorySnapshot keeps the document in process memory.
type MemorySnapshot struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemorySnapshot creates an empty in-memory snapshot.
func NewMemorySnapshot() *MemorySnapshot {
	return &MemorySnapshot{}
}

func (m *MemorySnapshot) Load(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil {
		return nil, nil
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *MemorySnapshot) Save(_ context.Context, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	m.mu.Lock()
	m.data = buf
	m.mu.Unlock()
	return nil
}

// RedisSnapshot stores the document as a plain Redis string.
type RedisSnapshot struct {
	client *redis.Client
	key    string
}

// NewRedisSnapshot creates a snapshot stored under key.
func NewRedisSnapshot(client *redis.Client, key string) *RedisSnapshot {
	return &RedisSnapshot{client: client, key: key}
}

func (r *RedisSnapshot) Load(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from redis: %w", r.key, err)
	}
	return data, nil
}

func (r *RedisSnapshot) Save(ctx context.Context, data []byte) error {
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s to redis: %w", r.key, err)
	}
	return nil
}

// SQLSnapshot stores the document in one kv_snapshots row.
type SQLSnapshot struct {
	db  *gorm.DB
	key string
}

// NewSQLSnapshot creates a snapshot stored in the row with the given key.
// RunMigrations must have been applied.
func NewSQLSnapshot(db *gorm.DB, key string) *SQLSnapshot {
	return &SQLSnapshot{db: db, key: key}
}

func (s *SQLSnapshot) Load(ctx context.Context) ([]byte, error) {
	var row KVSnapshot
	err := s.db.WithContext(ctx).Where("name = ?", s.key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", s.key, err)
	}
	return []byte(row.Value), nil
}

func (s *SQLSnapshot) Save(ctx context.Context, data []byte) error {
	row := KVSnapshot{Name: s.key, Value: string(data)}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", s.key, err)
	}
	return nil
}
