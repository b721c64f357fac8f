package repository

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ikkim/dealer-admin-backend/internal/app/model"
	"github.com/ikkim/dealer-admin-backend/pkg/logger"
)

const DefaultSlotKey = "dealers_data"

var ErrDealerNotFound = errors.New("dealer not found")

//go:embed seed/dealers.json
var seedDealers []byte

// StorageError reports a backend failure or an unreadable payload.
type StorageError struct {
	Op  string // load, replace, seed
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("dealer storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type DealerRepository interface {
	Load(ctx context.Context) ([]model.Dealer, error)
	ReplaceAll(ctx context.Context, dealers []model.Dealer) error
	FindByID(ctx context.Context, id int64) (*model.Dealer, error)
}

type dealerRepository struct {
	slots SlotBackend
	key   string
}

func NewDealerRepository(slots SlotBackend, key string) DealerRepository {
	if key == "" {
		key = DefaultSlotKey
	}
	return &dealerRepository{slots: slots, key: key}
}

// Load returns the persisted collection, or the bundled seed set when the
// slot has never been written. The seed is not persisted here.
func (r *dealerRepository) Load(ctx context.Context) ([]model.Dealer, error) {
	payload, ok, err := r.slots.Read(ctx, r.key)
	if err != nil {
		return nil, &StorageError{Op: "load", Key: r.key, Err: err}
	}

	if !ok {
		logger.Debug("Dealer slot absent, using seed data", map[string]interface{}{
			"key": r.key,
		})
		dealers, err := SeedDealers()
		if err != nil {
			return nil, &StorageError{Op: "seed", Key: r.key, Err: err}
		}
		return dealers, nil
	}

	var dealers []model.Dealer
	if err := json.Unmarshal(payload, &dealers); err != nil {
		logger.Error("Dealer slot payload is corrupt", err, map[string]interface{}{
			"key":   r.key,
			"bytes": len(payload),
		})
		return nil, &StorageError{Op: "load", Key: r.key, Err: err}
	}
	if dealers == nil {
		dealers = []model.Dealer{}
	}

	logger.Debug("Dealers loaded", map[string]interface{}{
		"key":   r.key,
		"count": len(dealers),
	})
	return dealers, nil
}

// ReplaceAll overwrites the slot with the whole list in a single write.
func (r *dealerRepository) ReplaceAll(ctx context.Context, dealers []model.Dealer) error {
	if dealers == nil {
		dealers = []model.Dealer{}
	}

	payload, err := json.Marshal(dealers)
	if err != nil {
		return &StorageError{Op: "replace", Key: r.key, Err: err}
	}

	if err := r.slots.Write(ctx, r.key, payload); err != nil {
		return &StorageError{Op: "replace", Key: r.key, Err: err}
	}

	logger.Debug("Dealers replaced", map[string]interface{}{
		"key":   r.key,
		"count": len(dealers),
	})
	return nil
}

func (r *dealerRepository) FindByID(ctx context.Context, id int64) (*model.Dealer, error) {
	dealers, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range dealers {
		if dealers[i].ID == id {
			found := dealers[i]
			return &found, nil
		}
	}
	return nil, ErrDealerNotFound
}

// SeedDealers decodes the bundled default collection.
func SeedDealers() ([]model.Dealer, error) {
	var dealers []model.Dealer
	if err := json.Unmarshal(seedDealers, &dealers); err != nil {
		return nil, fmt.Errorf("decode seed dealers: %w", err)
	}
	return dealers, nil
}
