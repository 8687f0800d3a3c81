// Package paginate windows an ordered record set into fixed-size display pages.
package paginate

// VisiblePage returns records[page*pageSize : (page+1)*pageSize], clipped to
// the slice length. A non-positive pageSize puts everything on one page.
func VisiblePage[T any](records []T, pageSize, page int) []T {
	if len(records) == 0 || page < 0 {
		return nil
	}
	if pageSize <= 0 {
		if page == 0 {
			return records
		}
		return nil
	}
	start := page * pageSize
	if start >= len(records) {
		return nil
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// TotalPages is the number of pages needed for n records, rounded up so a
// short final page counts as a page.
func TotalPages(n, pageSize int) int {
	if n <= 0 {
		return 0
	}
	if pageSize <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// Next returns the page after current, never reaching totalPages.
func Next(current, totalPages int) int {
	return clamp(current+1, totalPages)
}

// Prev returns the page before current, never below zero.
func Prev(current int) int {
	if current-1 < 0 {
		return 0
	}
	return current - 1
}

// ShowControls reports whether prev/next controls apply to n records.
func ShowControls(n, pageSize int) bool {
	return pageSize > 0 && n > pageSize
}

func clamp(page, totalPages int) int {
	last := totalPages - 1
	if last < 0 {
		last = 0
	}
	if page > last {
		page = last
	}
	if page < 0 {
		page = 0
	}
	return page
}

// State is the display window over the current result set.
type State struct {
	PageSize    int
	CurrentPage int
}

// Reset returns to the first page.
func (s *State) Reset() { s.CurrentPage = 0 }

// Clamp pulls CurrentPage back into range for n records.
func (s *State) Clamp(n int) {
	s.CurrentPage = clamp(s.CurrentPage, TotalPages(n, s.PageSize))
}

// Next advances one page over n records.
func (s *State) Next(n int) {
	s.CurrentPage = Next(s.CurrentPage, TotalPages(n, s.PageSize))
}

// Prev moves back one page.
func (s *State) Prev() {
	s.CurrentPage = Prev(s.CurrentPage)
}

// HasPrev reports whether Prev would move.
func (s State) HasPrev() bool { return s.CurrentPage > 0 }

// HasNext reports whether Next would move for n records.
func (s State) HasNext(n int) bool {
	return s.CurrentPage < TotalPages(n, s.PageSize)-1
}
