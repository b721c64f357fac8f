package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ikkim/dealer-admin-backend/internal/app/model"
	"github.com/ikkim/dealer-admin-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SlotBackend stores opaque payloads under named keys.
// Read reports ok=false when the key has never been written.
type SlotBackend interface {
	Read(ctx context.Context, key string) ([]byte, bool, error)
	Write(ctx context.Context, key string, payload []byte) error
}

// ==================== memory ====================

type memorySlots struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemorySlots() SlotBackend {
	return &memorySlots{slots: make(map[string][]byte)}
}

func (m *memorySlots) Read(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	payload, ok := m.slots[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), payload...), true, nil
}

func (m *memorySlots) Write(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	m.slots[key] = append([]byte(nil), payload...)
	m.mu.Unlock()
	return nil
}

// ==================== redis ====================

type redisSlots struct {
	client *redis.Client
}

func NewRedisSlots(client *redis.Client) SlotBackend {
	return &redisSlots{client: client}
}

func (r *redisSlots) Read(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		logger.Debug("Redis slot is empty", map[string]interface{}{"key": key})
		return nil, false, nil
	}
	if err != nil {
		logger.Error("Failed to read redis slot", err, map[string]interface{}{"key": key})
		return nil, false, err
	}
	return payload, true, nil
}

func (r *redisSlots) Write(ctx context.Context, key string, payload []byte) error {
	if err := r.client.Set(ctx, key, payload, 0).Err(); err != nil {
		logger.Error("Failed to write redis slot", err, map[string]interface{}{
			"key":   key,
			"bytes": len(payload),
		})
		return err
	}
	return nil
}

// ==================== gorm (postgres / sqlite) ====================

type gormSlots struct {
	db *gorm.DB
}

func NewGormSlots(db *gorm.DB) SlotBackend {
	return &gormSlots{db: db}
}

func (g *gormSlots) Read(ctx context.Context, key string) ([]byte, bool, error) {
	var slot model.KVSlot
	err := g.db.WithContext(ctx).Where(&model.KVSlot{Key: key}).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Debug("Slot row not found", map[string]interface{}{"key": key})
		return nil, false, nil
	}
	if err != nil {
		logger.Error("Failed to read slot row", err, map[string]interface{}{"key": key})
		return nil, false, err
	}
	return []byte(slot.Value), true, nil
}

func (g *gormSlots) Write(ctx context.Context, key string, payload []byte) error {
	slot := model.KVSlot{
		Key:       key,
		Value:     string(payload),
		UpdatedAt: time.Now(),
	}

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&slot).Error
	})
	if err != nil {
		logger.Error("Failed to upsert slot row", err, map[string]interface{}{
			"key":   key,
			"bytes": len(payload),
		})
		return err
	}
	return nil
}
