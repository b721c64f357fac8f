package service

import (
	"strings"

	"github.com/ikkim/dealer-admin-backend/internal/app/model"
)

// DealerPage is one page of the filtered collection.
type DealerPage struct {
	Rows       []model.Dealer
	TotalCount int
}

// QueryDealers filters all by a case-insensitive substring of search against
// dealer name or address, keeping insertion order, then cuts the page
// window. Out-of-range pages yield no rows with the full TotalCount.
func QueryDealers(all []model.Dealer, search string, page, pageSize int) DealerPage {
	filtered := FilterDealers(all, search)

	result := DealerPage{Rows: []model.Dealer{}, TotalCount: len(filtered)}
	if pageSize < 1 {
		return result
	}
	if page < 1 {
		page = 1
	}

	// compare page counts before multiplying so huge pages cannot overflow
	if page-1 >= pageCount(len(filtered), pageSize) {
		return result
	}
	start := (page - 1) * pageSize
	end := start + min(pageSize, len(filtered)-start)

	result.Rows = append(result.Rows, filtered[start:end]...)
	return result
}

// pageCount is the number of pages needed for total rows, without overflow.
func pageCount(total, pageSize int) int {
	if total <= 0 || pageSize < 1 {
		return 0
	}
	return (total-1)/pageSize + 1
}

// FilterDealers returns a copy of the dealers matching search.
func FilterDealers(all []model.Dealer, search string) []model.Dealer {
	term := strings.ToLower(search)
	filtered := make([]model.Dealer, 0, len(all))
	for _, d := range all {
		if term == "" ||
			strings.Contains(strings.ToLower(d.DealerName), term) ||
			strings.Contains(strings.ToLower(d.Address), term) {
			filtered = append(filtered, d)
		}
	}
	return filtered
}
