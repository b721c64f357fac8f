package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/dealer-admin-backend/internal/app/service"
	"github.com/ikkim/dealer-admin-backend/internal/storage"
	"github.com/ikkim/dealer-admin-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const snapshotTimeout = time.Minute

// SnapshotScheduler 딜러 컬렉션 스냅샷을 주기적으로 S3에 업로드
type SnapshotScheduler struct {
	cron     *cron.Cron
	schedule string
	prefix   string
	dealers  service.DealerService
	objects  storage.ObjectPutter
	now      func() time.Time
}

// NewSnapshotScheduler 스냅샷 스케줄러 생성
func NewSnapshotScheduler(schedule, prefix string, dealers service.DealerService, objects storage.ObjectPutter) *SnapshotScheduler {
	if prefix == "" {
		prefix = "snapshots"
	}
	return &SnapshotScheduler{
		cron:     cron.New(),
		schedule: schedule,
		prefix:   prefix,
		dealers:  dealers,
		objects:  objects,
		now:      time.Now,
	}
}

// Start 스케줄러 시작
func (s *SnapshotScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
		defer cancel()

		if _, err := s.RunOnce(ctx); err != nil {
			logger.Error("Failed to upload dealer snapshot", err)
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for dealer snapshot", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Snapshot scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// RunOnce 현재 컬렉션을 읽어 한 번 업로드하고 object key를 반환
func (s *SnapshotScheduler) RunOnce(ctx context.Context) (string, error) {
	dealers, err := s.dealers.LoadDealers(ctx)
	if err != nil {
		return "", fmt.Errorf("load dealers: %w", err)
	}

	body, err := json.Marshal(dealers)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	key := fmt.Sprintf("%s/%s/%s.json", s.prefix, s.now().UTC().Format("2006-01-02"), uuid.NewString())
	if err := s.objects.PutObject(ctx, key, "application/json", body); err != nil {
		return "", err
	}

	logger.Info("Dealer snapshot uploaded", map[string]interface{}{
		"key":   key,
		"count": len(dealers),
		"bytes": len(body),
	})
	return key, nil
}

// Stop 스케줄러 중지
func (s *SnapshotScheduler) Stop() {
	logger.Info("Stopping snapshot scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Snapshot scheduler stopped", nil)
}
