package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ikkim/dealer-admin-backend/config"
	"github.com/ikkim/dealer-admin-backend/internal/app/model"
	"github.com/ikkim/dealer-admin-backend/internal/db"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type anyArg struct{}

func (anyArg) Match(driver.Value) bool { return true }

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

func sampleDealers() []model.Dealer {
	return []model.Dealer{
		model.NewDealer(100, model.DealerFormValues{
			DealerName: "Acme Cars", Address: "1 Main St", Email: "a@acme.com", Phone: "111",
			StartTime: "09:00", StartPeriod: model.PeriodAM, EndTime: "06:00", EndPeriod: model.PeriodPM,
		}),
		model.NewDealer(200, model.DealerFormValues{
			DealerName: "Beta Motors", Address: "2 Side Rd", Email: "b@beta.com", Phone: "222",
			StartTime: "10:00", StartPeriod: model.PeriodAM, EndTime: "07:00", EndPeriod: model.PeriodPM,
		}),
	}
}

func TestDealerRepository_LoadReturnsSeedWhenAbsent(t *testing.T) {
	ctx := context.Background()
	slots := NewMemorySlots()
	repo := NewDealerRepository(slots, "")

	dealers, err := repo.Load(ctx)
	require.NoError(t, err)

	seed, err := SeedDealers()
	require.NoError(t, err)
	assert.Equal(t, seed, dealers)
	assert.NotEmpty(t, dealers)

	// seed is not persisted by a read
	_, ok, err := slots.Read(ctx, DefaultSlotKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDealerRepository_SeedHoursAreDerived(t *testing.T) {
	seed, err := SeedDealers()
	require.NoError(t, err)

	ids := map[int64]bool{}
	for _, d := range seed {
		assert.Equal(t, model.FormatHours(d.StartTime, d.StartPeriod, d.EndTime, d.EndPeriod), d.Hours)
		assert.False(t, ids[d.ID], "duplicate seed id %d", d.ID)
		ids[d.ID] = true
	}
}

func TestDealerRepository_ReplaceAllRoundTrip(t *testing.T) {
	ctx := context.Background()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	backends := map[string]SlotBackend{
		"memory": NewMemorySlots(),
		"sqlite": NewGormSlots(testDB),
	}

	for name, slots := range backends {
		t.Run(name, func(t *testing.T) {
			repo := NewDealerRepository(slots, "dealers_test")

			require.NoError(t, repo.ReplaceAll(ctx, sampleDealers()))
			loaded, err := repo.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, sampleDealers(), loaded)

			// second write overwrites rather than appends
			require.NoError(t, repo.ReplaceAll(ctx, sampleDealers()[:1]))
			loaded, err = repo.Load(ctx)
			require.NoError(t, err)
			assert.Len(t, loaded, 1)

			require.NoError(t, repo.ReplaceAll(ctx, nil))
			loaded, err = repo.Load(ctx)
			require.NoError(t, err)
			assert.NotNil(t, loaded)
			assert.Empty(t, loaded)
		})
	}
}

func TestDealerRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	repo := NewDealerRepository(NewMemorySlots(), "")
	require.NoError(t, repo.ReplaceAll(ctx, sampleDealers()))

	found, err := repo.FindByID(ctx, 200)
	require.NoError(t, err)
	assert.Equal(t, "Beta Motors", found.DealerName)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, ErrDealerNotFound)
}

func TestDealerRepository_CorruptPayload(t *testing.T) {
	ctx := context.Background()
	slots := NewMemorySlots()
	require.NoError(t, slots.Write(ctx, DefaultSlotKey, []byte("{not json")))

	repo := NewDealerRepository(slots, DefaultSlotKey)
	_, err := repo.Load(ctx)

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "load", storageErr.Op)
	assert.Equal(t, DefaultSlotKey, storageErr.Key)

	_, err = repo.FindByID(ctx, 1)
	assert.ErrorAs(t, err, &storageErr)
	assert.NotErrorIs(t, err, ErrDealerNotFound)
}

func TestGormSlots_UpsertSQL(t *testing.T) {
	gormDB, mock := newMockDB(t)
	slots := NewGormSlots(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "kv_slots" .* ON CONFLICT \("key"\) DO UPDATE SET "value"="excluded"."value","updated_at"="excluded"."updated_at"`).
		WithArgs("dealers_data", `[]`, anyArg{}).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := slots.Write(context.Background(), "dealers_data", []byte(`[]`))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSlots_ReadMissingRow(t *testing.T) {
	gormDB, mock := newMockDB(t)
	slots := NewGormSlots(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "kv_slots"`)).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}))

	payload, ok, err := slots.Read(context.Background(), "dealers_data")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, payload)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSlots_WriteFailureBecomesStorageError(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewDealerRepository(NewGormSlots(gormDB), DefaultSlotKey)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "kv_slots"`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.ReplaceAll(context.Background(), sampleDealers())

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "replace", storageErr.Op)
	assert.Contains(t, err.Error(), "disk full")
}

func TestRedisSlots_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	repo := NewDealerRepository(NewRedisSlots(client), DefaultSlotKey)

	_, err := repo.Load(context.Background())
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "load", storageErr.Op)

	err = repo.ReplaceAll(context.Background(), sampleDealers())
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "replace", storageErr.Op)
}

func TestOpenSlots(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		cfg := config.Default()
		slots, closeFn, err := OpenSlots(cfg)
		require.NoError(t, err)
		defer closeFn()

		require.NoError(t, slots.Write(context.Background(), "k", []byte("v")))
		payload, ok, err := slots.Read(context.Background(), "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("v"), payload)
	})

	t.Run("sqlite file", func(t *testing.T) {
		cfg := config.Default()
		cfg.Storage.Backend = config.BackendSQLite
		cfg.SQLite.Path = filepath.Join(t.TempDir(), "dealers.db")

		slots, closeFn, err := OpenSlots(cfg)
		require.NoError(t, err)
		defer closeFn()

		repo := NewDealerRepository(slots, cfg.Storage.SlotKey)
		require.NoError(t, repo.ReplaceAll(context.Background(), sampleDealers()))
		loaded, err := repo.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, sampleDealers(), loaded)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := config.Default()
		cfg.Storage.Backend = "etcd"
		_, _, err := OpenSlots(cfg)
		assert.Error(t, err)
	})
}
