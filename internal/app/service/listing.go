package service

import (
	"github.com/ikkim/dealer-admin-backend/internal/app/model"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageSizeOptions are the page sizes offered by the dashboard table.
var PageSizeOptions = []int{5, 10, 25, 50}

// ListState is the search and pagination state of one dealer table.
type ListState struct {
	Search   string `json:"search"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

func DefaultListState() ListState {
	return ListState{Page: 1, PageSize: DefaultPageSize}
}

// WithSearch changes the search term and goes back to the first page.
func (s ListState) WithSearch(term string) ListState {
	s.Search = term
	s.Page = 1
	return s
}

// WithPage moves to page n. Pages past the end are allowed and render empty.
func (s ListState) WithPage(n int) ListState {
	if n < 1 {
		n = 1
	}
	s.Page = n
	return s
}

// WithPageSize changes the page size and always resets to the first page.
func (s ListState) WithPageSize(n int) ListState {
	if n < 1 {
		n = DefaultPageSize
	}
	s.PageSize = n
	s.Page = 1
	return s
}

// Settle moves the page back to the last page that has rows, or to page 1
// when totalCount is zero.
func (s ListState) Settle(totalCount int) ListState {
	if s.Page < 1 {
		s.Page = 1
	}
	if s.PageSize < 1 {
		s.PageSize = DefaultPageSize
	}
	last := max(1, pageCount(totalCount, s.PageSize))
	if s.Page > last {
		s.Page = last
	}
	return s
}

type DealerRow struct {
	Serial int          `json:"serial"`
	Dealer model.Dealer `json:"dealer"`
}

// DealerView is what the table renders for one ListState.
type DealerView struct {
	Rows       []DealerRow `json:"rows"`
	Search     string      `json:"search"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	PageCount  int         `json:"page_count"`
	From       int         `json:"from"`
	To         int         `json:"to"`
	HasPrev    bool        `json:"has_prev"`
	HasNext    bool        `json:"has_next"`
}

// BuildView runs the query for state and numbers the rows.
func BuildView(all []model.Dealer, state ListState) *DealerView {
	if state.Page < 1 {
		state.Page = 1
	}
	if state.PageSize < 1 {
		state.PageSize = DefaultPageSize
	}

	page := QueryDealers(all, state.Search, state.Page, state.PageSize)
	pages := pageCount(page.TotalCount, state.PageSize)

	view := &DealerView{
		Rows:       make([]DealerRow, 0, len(page.Rows)),
		Search:     state.Search,
		TotalCount: page.TotalCount,
		Page:       state.Page,
		PageSize:   state.PageSize,
		PageCount:  pages,
		HasPrev:    state.Page > 1,
		HasNext:    state.Page < pages,
	}
	if len(page.Rows) == 0 {
		return view
	}

	// rows exist only when page <= pages, so the offset is below TotalCount
	offset := (state.Page - 1) * state.PageSize
	for i, d := range page.Rows {
		view.Rows = append(view.Rows, DealerRow{Serial: offset + i + 1, Dealer: d})
	}
	view.From = offset + 1
	view.To = offset + len(view.Rows)
	return view
}

// RefreshView settles state against the filtered total of all and builds
// the view. Every mutation path renders through here.
func RefreshView(all []model.Dealer, state ListState) (*DealerView, ListState) {
	total := len(FilterDealers(all, state.Search))
	state = state.Settle(total)
	return BuildView(all, state), state
}
