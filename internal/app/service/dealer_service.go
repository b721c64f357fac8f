package service

import (
	"context"
	"errors"
	"sync"

	"github.com/ikkim/dealer-admin-backend/internal/app/model"
	"github.com/ikkim/dealer-admin-backend/internal/app/repository"
	"github.com/ikkim/dealer-admin-backend/pkg/logger"
)

var ErrDealerNotFound = repository.ErrDealerNotFound

// MutationResult is the outcome of a create, update or delete: the affected
// record (nil when a delete found nothing) and the fresh full collection.
type MutationResult struct {
	Dealer  *model.Dealer
	Dealers []model.Dealer
}

type ImportRejection struct {
	Row    int               `json:"row"`
	Fields map[string]string `json:"fields"`
}

type ImportResult struct {
	Created  []model.Dealer
	Rejected []ImportRejection
	Dealers  []model.Dealer
}

type DealerService interface {
	ListDealers(ctx context.Context, state ListState) (*DealerView, error)
	LoadDealers(ctx context.Context) ([]model.Dealer, error)
	GetDealer(ctx context.Context, id int64) (*model.Dealer, error)
	CreateDealer(ctx context.Context, input model.DealerFormValues) (*MutationResult, error)
	UpdateDealer(ctx context.Context, id int64, input model.DealerFormValues) (*MutationResult, error)
	DeleteDealer(ctx context.Context, id int64) (*MutationResult, error)
	ImportDealers(ctx context.Context, rows []model.DealerImportRow) (*ImportResult, error)
}

type dealerService struct {
	mu      sync.Mutex
	repo    repository.DealerRepository
	ids     IDGenerator
	notices *NoticeBoard
	events  EventPublisher
}

func NewDealerService(repo repository.DealerRepository, ids IDGenerator, notices *NoticeBoard, events EventPublisher) DealerService {
	if ids == nil {
		ids = NewClockIDGenerator(nil)
	}
	if notices == nil {
		notices = NewNoticeBoard(DefaultNoticeDuration)
	}
	if events == nil {
		events = noopPublisher{}
	}
	return &dealerService{
		repo:    repo,
		ids:     ids,
		notices: notices,
		events:  events,
	}
}

func (s *dealerService) ListDealers(ctx context.Context, state ListState) (*DealerView, error) {
	logger.Debug("Listing dealers", map[string]interface{}{
		"search":    state.Search,
		"page":      state.Page,
		"page_size": state.PageSize,
	})

	dealers, err := s.repo.Load(ctx)
	if err != nil {
		return nil, s.loadFailed("list", err)
	}

	view := BuildView(dealers, state)
	logger.Debug("Dealers fetched", map[string]interface{}{
		"rows":        len(view.Rows),
		"total_count": view.TotalCount,
	})
	return view, nil
}

func (s *dealerService) LoadDealers(ctx context.Context) ([]model.Dealer, error) {
	dealers, err := s.repo.Load(ctx)
	if err != nil {
		return nil, s.loadFailed("load", err)
	}
	return dealers, nil
}

func (s *dealerService) GetDealer(ctx context.Context, id int64) (*model.Dealer, error) {
	dealer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrDealerNotFound) {
			logger.Warn("Dealer not found", map[string]interface{}{
				"dealer_id": id,
			})
			return nil, err
		}
		return nil, s.loadFailed("get", err)
	}
	return dealer, nil
}

func (s *dealerService) CreateDealer(ctx context.Context, input model.DealerFormValues) (*MutationResult, error) {
	form, err := ValidateDealerForm(input)
	if err != nil {
		logger.Warn("Dealer form rejected", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dealers, err := s.repo.Load(ctx)
	if err != nil {
		return nil, s.storageFailed("create", err)
	}

	dealer := model.NewDealer(s.ids.Next(takenIn(dealers)), form)
	next := make([]model.Dealer, 0, len(dealers)+1)
	next = append(next, dealers...)
	next = append(next, dealer)

	if err := s.repo.ReplaceAll(ctx, next); err != nil {
		return nil, s.storageFailed("create", err)
	}

	logger.Info("Dealer created", map[string]interface{}{
		"dealer_id":   dealer.ID,
		"dealer_name": dealer.DealerName,
		"total":       len(next),
	})
	s.announce(EventDealerCreated, dealer.ID, MsgDealerCreated)

	return &MutationResult{Dealer: &dealer, Dealers: next}, nil
}

func (s *dealerService) UpdateDealer(ctx context.Context, id int64, input model.DealerFormValues) (*MutationResult, error) {
	form, err := ValidateDealerForm(input)
	if err != nil {
		logger.Warn("Dealer form rejected", map[string]interface{}{
			"dealer_id": id,
			"error":     err.Error(),
		})
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dealers, err := s.repo.Load(ctx)
	if err != nil {
		return nil, s.storageFailed("update", err)
	}

	idx := indexOf(dealers, id)
	if idx < 0 {
		logger.Warn("Dealer not found for update", map[string]interface{}{
			"dealer_id": id,
		})
		return nil, ErrDealerNotFound
	}

	next := append([]model.Dealer(nil), dealers...)
	next[idx].Apply(form)
	updated := next[idx]

	if err := s.repo.ReplaceAll(ctx, next); err != nil {
		return nil, s.storageFailed("update", err)
	}

	logger.Info("Dealer updated", map[string]interface{}{
		"dealer_id": id,
		"position":  idx,
	})
	s.announce(EventDealerUpdated, id, MsgDealerUpdated)

	return &MutationResult{Dealer: &updated, Dealers: next}, nil
}

// DeleteDealer removes the dealer with id. A missing id leaves the
// collection untouched and does not write.
func (s *dealerService) DeleteDealer(ctx context.Context, id int64) (*MutationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dealers, err := s.repo.Load(ctx)
	if err != nil {
		return nil, s.storageFailed("delete", err)
	}

	idx := indexOf(dealers, id)
	if idx < 0 {
		logger.Debug("Delete of absent dealer ignored", map[string]interface{}{
			"dealer_id": id,
		})
		return &MutationResult{Dealers: dealers}, nil
	}

	removed := dealers[idx]
	next := make([]model.Dealer, 0, len(dealers)-1)
	next = append(next, dealers[:idx]...)
	next = append(next, dealers[idx+1:]...)

	if err := s.repo.ReplaceAll(ctx, next); err != nil {
		return nil, s.storageFailed("delete", err)
	}

	logger.Info("Dealer deleted", map[string]interface{}{
		"dealer_id": id,
		"total":     len(next),
	})
	s.announce(EventDealerDeleted, id, MsgDealerDeleted)

	return &MutationResult{Dealer: &removed, Dealers: next}, nil
}

// ImportDealers creates every valid form in one write and reports the
// rejected ones by row number. Rows without a number are counted from 1.
func (s *dealerService) ImportDealers(ctx context.Context, rows []model.DealerImportRow) (*ImportResult, error) {
	result := &ImportResult{
		Created:  []model.Dealer{},
		Rejected: []ImportRejection{},
	}

	valid := make([]model.DealerFormValues, 0, len(rows))
	for i, row := range rows {
		form, err := ValidateDealerForm(row.Form)
		if err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				return nil, err
			}
			line := row.Row
			if line <= 0 {
				line = i + 1
			}
			result.Rejected = append(result.Rejected, ImportRejection{Row: line, Fields: verr.Fields})
			continue
		}
		valid = append(valid, form)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dealers, err := s.repo.Load(ctx)
	if err != nil {
		return nil, s.storageFailed("import", err)
	}
	result.Dealers = dealers

	if len(valid) == 0 {
		logger.Warn("Dealer import had no valid rows", map[string]interface{}{
			"rejected": len(result.Rejected),
		})
		return result, nil
	}

	next := append([]model.Dealer(nil), dealers...)
	for _, form := range valid {
		dealer := model.NewDealer(s.ids.Next(takenIn(next)), form)
		next = append(next, dealer)
		result.Created = append(result.Created, dealer)
	}

	if err := s.repo.ReplaceAll(ctx, next); err != nil {
		return nil, s.storageFailed("import", err)
	}
	result.Dealers = next

	logger.Info("Dealers imported", map[string]interface{}{
		"created":  len(result.Created),
		"rejected": len(result.Rejected),
		"total":    len(next),
	})
	s.announce(EventDealerImported, 0, ImportedMessage(len(result.Created)))

	return result, nil
}

func (s *dealerService) storageFailed(op string, err error) error {
	logger.Error("Dealer storage failed", err, map[string]interface{}{
		"operation": op,
	})
	s.postError(MsgStorageFailed)
	return err
}

// loadFailed reports a read that could not reach the collection.
func (s *dealerService) loadFailed(op string, err error) error {
	logger.Error("Dealer load failed", err, map[string]interface{}{
		"operation": op,
	})
	s.postError(MsgLoadFailed)
	return err
}

func (s *dealerService) postError(message string) {
	n := s.notices.Post(NoticeError, message)
	s.events.Publish(DealerEvent{Type: EventNotice, Notice: &n})
}

func (s *dealerService) announce(eventType DealerEventType, id int64, message string) {
	n := s.notices.Post(NoticeSuccess, message)
	s.events.Publish(DealerEvent{Type: eventType, DealerID: id, Notice: &n})
}

func indexOf(dealers []model.Dealer, id int64) int {
	for i := range dealers {
		if dealers[i].ID == id {
			return i
		}
	}
	return -1
}

func takenIn(dealers []model.Dealer) func(int64) bool {
	ids := make(map[int64]struct{}, len(dealers))
	for _, d := range dealers {
		ids[d.ID] = struct{}{}
	}
	return func(id int64) bool {
		_, ok := ids[id]
		return ok
	}
}
