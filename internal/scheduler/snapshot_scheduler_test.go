package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/ikkim/dealer-admin-backend/internal/app/model"
	"github.com/ikkim/dealer-admin-backend/internal/app/repository"
	"github.com/ikkim/dealer-admin-backend/internal/app/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	keys   []string
	bodies [][]byte
	err    error
}

func (f *fakeObjects) PutObject(_ context.Context, key, contentType string, body []byte) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.bodies = append(f.bodies, body)
	return nil
}

func TestSnapshotScheduler_RunOnce(t *testing.T) {
	repo := repository.NewDealerRepository(repository.NewMemorySlots(), "")
	svc := service.NewDealerService(repo, nil, nil, nil)
	objects := &fakeObjects{}

	s := NewSnapshotScheduler("0 3 * * *", "", svc, objects)
	s.now = func() time.Time { return time.Date(2026, 10, 18, 3, 0, 0, 0, time.UTC) }

	key, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^snapshots/2026-10-18/[0-9a-f-]{36}\.json$`), key)

	require.Len(t, objects.bodies, 1)
	var dealers []model.Dealer
	require.NoError(t, json.Unmarshal(objects.bodies[0], &dealers))

	seed, err := repository.SeedDealers()
	require.NoError(t, err)
	assert.Equal(t, seed, dealers)
}

func TestSnapshotScheduler_UploadFailure(t *testing.T) {
	repo := repository.NewDealerRepository(repository.NewMemorySlots(), "")
	svc := service.NewDealerService(repo, nil, nil, nil)

	s := NewSnapshotScheduler("@daily", "backups", svc, &fakeObjects{err: errors.New("access denied")})
	_, err := s.RunOnce(context.Background())
	assert.ErrorContains(t, err, "access denied")
}

func TestSnapshotScheduler_InvalidSchedule(t *testing.T) {
	repo := repository.NewDealerRepository(repository.NewMemorySlots(), "")
	s := NewSnapshotScheduler("not a cron", "", service.NewDealerService(repo, nil, nil, nil), &fakeObjects{})
	assert.Error(t, s.Start())
}
