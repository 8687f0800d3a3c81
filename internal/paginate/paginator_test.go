package paginate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestVisiblePage_Empty(t *testing.T) {
	assert.Empty(t, VisiblePage([]int{}, 5, 0))
	assert.Empty(t, VisiblePage[int](nil, 5, 3))
	assert.Equal(t, 0, TotalPages(0, 5))
	assert.False(t, ShowControls(0, 5))
}

func TestVisiblePage_TwelveByFive(t *testing.T) {
	records := seq(12)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, VisiblePage(records, 5, 0))
	assert.Equal(t, []int{5, 6, 7, 8, 9}, VisiblePage(records, 5, 1))
	assert.Equal(t, []int{10, 11}, VisiblePage(records, 5, 2))
	assert.Empty(t, VisiblePage(records, 5, 3))

	total := TotalPages(len(records), 5)
	require.Equal(t, 3, total)
	assert.Equal(t, 2, Next(1, total))
	assert.Equal(t, 2, Next(2, total))
	assert.True(t, ShowControls(len(records), 5))
}

func TestVisiblePage_AtMostPageSize(t *testing.T) {
	assert.Equal(t, seq(5), VisiblePage(seq(5), 5, 0))
	assert.False(t, ShowControls(5, 5))
	assert.Equal(t, 1, TotalPages(5, 5))
}

func TestPagesReconstructRecords(t *testing.T) {
	for n := 0; n <= 31; n++ {
		for size := 1; size <= 7; size++ {
			records := seq(n)
			var joined []int
			total := TotalPages(n, size)
			for p := 0; p < total; p++ {
				page := VisiblePage(records, size, p)
				assert.LessOrEqual(t, len(page), size)
				assert.NotEmpty(t, page)
				joined = append(joined, page...)
			}
			if n == 0 {
				assert.Empty(t, joined)
				continue
			}
			assert.Equal(t, records, joined, "n=%d size=%d", n, size)
		}
	}
}

func TestNextPrevBounds(t *testing.T) {
	for total := 0; total <= 5; total++ {
		for cur := 0; cur <= 6; cur++ {
			next := Next(cur, total)
			assert.GreaterOrEqual(t, next, 0)
			if total > 0 {
				assert.Less(t, next, total)
			}
			assert.GreaterOrEqual(t, Prev(cur), 0)
		}
	}
	assert.Equal(t, 0, Prev(0))
	assert.Equal(t, 2, Prev(3))
}

func TestNonPositivePageSize(t *testing.T) {
	assert.Equal(t, seq(3), VisiblePage(seq(3), 0, 0))
	assert.Empty(t, VisiblePage(seq(3), 0, 1))
	assert.Equal(t, 1, TotalPages(3, 0))
	assert.False(t, ShowControls(3, 0))
}

func TestState(t *testing.T) {
	s := State{PageSize: 5}
	assert.False(t, s.HasPrev())
	assert.True(t, s.HasNext(12))

	s.Next(12)
	s.Next(12)
	s.Next(12)
	assert.Equal(t, 2, s.CurrentPage)
	assert.False(t, s.HasNext(12))

	s.Clamp(6)
	assert.Equal(t, 1, s.CurrentPage)

	s.Clamp(0)
	assert.Equal(t, 0, s.CurrentPage)

	s.CurrentPage = 1
	s.Prev()
	s.Prev()
	assert.Equal(t, 0, s.CurrentPage)

	s.CurrentPage = 2
	s.Reset()
	assert.Equal(t, 0, s.CurrentPage)
}
