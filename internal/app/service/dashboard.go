package service

import (
	"context"
	"sync"

	"github.com/ikkim/dealer-admin-backend/internal/app/model"
)

// Dashboard is one viewer's table session. It keeps the ListState and turns
// user intents into fresh views. Safe for concurrent use.
type Dashboard struct {
	mu      sync.Mutex
	service DealerService
	state   ListState
}

func NewDashboard(service DealerService, pageSize int) *Dashboard {
	state := DefaultListState()
	if pageSize > 0 {
		state.PageSize = pageSize
	}
	return &Dashboard{service: service, state: state}
}

func (d *Dashboard) State() ListState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// OnRefresh reloads the collection and settles the page, used when another
// session changed the data.
func (d *Dashboard) OnRefresh(ctx context.Context) (*DealerView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	dealers, err := d.service.LoadDealers(ctx)
	if err != nil {
		return nil, err
	}
	return d.render(dealers), nil
}

func (d *Dashboard) OnSearch(ctx context.Context, term string) (*DealerView, error) {
	return d.navigate(ctx, func(s ListState) ListState { return s.WithSearch(term) })
}

func (d *Dashboard) OnPageChange(ctx context.Context, page int) (*DealerView, error) {
	return d.navigate(ctx, func(s ListState) ListState { return s.WithPage(page) })
}

func (d *Dashboard) OnPageSizeChange(ctx context.Context, pageSize int) (*DealerView, error) {
	return d.navigate(ctx, func(s ListState) ListState { return s.WithPageSize(pageSize) })
}

func (d *Dashboard) OnView(ctx context.Context, id int64) (*model.Dealer, error) {
	return d.service.GetDealer(ctx, id)
}

// OnEdit returns the form values to prefill the edit form.
func (d *Dashboard) OnEdit(ctx context.Context, id int64) (model.DealerFormValues, error) {
	dealer, err := d.service.GetDealer(ctx, id)
	if err != nil {
		return model.DealerFormValues{}, err
	}
	return dealer.FormValues(), nil
}

func (d *Dashboard) OnDelete(ctx context.Context, id int64) (*DealerView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	result, err := d.service.DeleteDealer(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.render(result.Dealers), nil
}

func (d *Dashboard) OnCreate(ctx context.Context, form model.DealerFormValues) (*model.Dealer, *DealerView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	result, err := d.service.CreateDealer(ctx, form)
	if err != nil {
		return nil, nil, err
	}
	return result.Dealer, d.render(result.Dealers), nil
}

func (d *Dashboard) OnUpdate(ctx context.Context, id int64, form model.DealerFormValues) (*model.Dealer, *DealerView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	result, err := d.service.UpdateDealer(ctx, id, form)
	if err != nil {
		return nil, nil, err
	}
	return result.Dealer, d.render(result.Dealers), nil
}

// navigate applies a state transition and renders without settling, so a
// page past the end stays empty until the next mutation or refresh.
func (d *Dashboard) navigate(ctx context.Context, next func(ListState) ListState) (*DealerView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	dealers, err := d.service.LoadDealers(ctx)
	if err != nil {
		return nil, err
	}
	d.state = next(d.state)
	return BuildView(dealers, d.state), nil
}

func (d *Dashboard) render(dealers []model.Dealer) *DealerView {
	view, state := RefreshView(dealers, d.state)
	d.state = state
	return view
}
