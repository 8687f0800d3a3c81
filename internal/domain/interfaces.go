package domain

import "context"

// ResultCounts lists the result counts a user may request from the backend.
var ResultCounts = []int{5, 10, 15, 20, 25}

// QueryParameters is everything the user supplies for one search.
type QueryParameters struct {
	Text        string
	ResultCount int
	ExactMatch  bool
}

// Validate reports whether the parameters may be submitted.
func (p QueryParameters) Validate() error {
	if p.Text == "" {
		return ErrEmptyQuery
	}
	if !ValidResultCount(p.ResultCount) {
		return ErrInvalidResultCount
	}
	return nil
}

// ResultRecord is one matched record as returned by the backend.
type ResultRecord struct {
	Title string `json:"Study Title"`
	URL   string `json:"Study URL"`
}

// Searcher runs a single search against a backend. Records come back in
// backend order.
type Searcher interface {
	Search(ctx context.Context, params QueryParameters) ([]ResultRecord, error)
}

// ValidResultCount reports whether n is one of ResultCounts.
func ValidResultCount(n int) bool {
	for _, c := range ResultCounts {
		if c == n {
			return true
		}
	}
	return false
}

// NextResultCount returns the count after n in ResultCounts, wrapping around.
// Unknown values map to the first count.
func NextResultCount(n int, step int) int {
	for i, c := range ResultCounts {
		if c == n {
			j := (i + step) % len(ResultCounts)
			if j < 0 {
				j += len(ResultCounts)
			}
			return ResultCounts[j]
		}
	}
	return ResultCounts[0]
}
