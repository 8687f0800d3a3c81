// Package memory is an offline searcher over records held in memory.
package memory

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"trialsearch/internal/backend/trials"
	"trialsearch/internal/domain"
)

// Storage filters a fixed record list by title. It keeps the list order and
// does no scoring.
type Storage struct {
	mu      sync.RWMutex
	records []domain.ResultRecord
}

func NewStorage(records []domain.ResultRecord) *Storage {
	return &Storage{records: append([]domain.ResultRecord(nil), records...)}
}

// Load reads a JSON array of records using the backend field names.
func Load(path string) (*Storage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}
	records, err := trials.ParseRecords(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewStorage(records), nil
}

// Search returns up to params.ResultCount records matching every
// "AND"-separated clause of the query.
func (s *Storage) Search(ctx context.Context, params domain.QueryParameters) ([]domain.ResultRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var matchers []func(string) bool
	for _, clause := range strings.Split(params.Text, "AND") {
		clause = normalize(clause)
		if clause == "" {
			continue
		}
		if params.ExactMatch {
			matchers = append(matchers, phraseMatcher(clause))
		} else {
			matchers = append(matchers, termsMatcher(clause))
		}
	}
	if len(matchers) == 0 {
		return []domain.ResultRecord{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ResultRecord, 0, params.ResultCount)
	for _, r := range s.records {
		if params.ResultCount > 0 && len(out) == params.ResultCount {
			break
		}
		title := normalize(r.Title)
		if matchAll(matchers, title) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Add appends records to the end of the list.
func (s *Storage) Add(records ...domain.ResultRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
}

// Len returns the number of stored records.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

var nonAlnumRe = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(nonAlnumRe.ReplaceAllString(s, " "))), " ")
}

func matchAll(matchers []func(string) bool, title string) bool {
	for _, m := range matchers {
		if !m(title) {
			return false
		}
	}
	return true
}

// termsMatcher matches when every word of clause occurs somewhere in the title.
func termsMatcher(clause string) func(string) bool {
	terms := strings.Fields(clause)
	return func(title string) bool {
		for _, t := range terms {
			if !strings.Contains(title, t) {
				return false
			}
		}
		return true
	}
}

// phraseMatcher matches the clause as a phrase; adjacent words may be joined
// directly or by a single space, so "small cell" also matches "smallcell".
func phraseMatcher(clause string) func(string) bool {
	words := strings.Fields(clause)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	re := regexp.MustCompile(`\b` + strings.Join(words, ` ?`) + `\b`)
	return re.MatchString
}
