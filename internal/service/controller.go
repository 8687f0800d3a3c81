// Package service owns the search session: query submission, the request
// lifecycle, the current result set and its pagination.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"trialsearch/internal/domain"
	"trialsearch/internal/lifecycle"
	"trialsearch/internal/paginate"
)

// Ticket identifies one submission. Seq increases with every accepted Submit.
type Ticket struct {
	Seq    uint64
	Params domain.QueryParameters
}

// Outcome is the result of executing a Ticket.
type Outcome struct {
	Seq     uint64
	Records []domain.ResultRecord
	Err     error
}

// Controller is a single search session. It is not safe for concurrent use;
// only Execute may run off the owning goroutine.
type Controller struct {
	searcher domain.Searcher
	logger   *slog.Logger
	notify   func(message string)

	lifecycle lifecycle.Lifecycle
	results   []domain.ResultRecord
	page      paginate.State
	seq       uint64
	lastQuery string
	errMsg    string
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithNotifier registers fn to receive user-facing failure messages.
func WithNotifier(fn func(message string)) Option {
	return func(c *Controller) { c.notify = fn }
}

// NewController creates a session over searcher showing pageSize records per page.
func NewController(searcher domain.Searcher, pageSize int, opts ...Option) (*Controller, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("invalid page size %d", pageSize)
	}
	c := &Controller{
		searcher: searcher,
		logger:   slog.Default(),
		page:     paginate.State{PageSize: pageSize},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Submit starts a new search. Invalid parameters leave the session
// untouched. Otherwise the result set is cleared, the lifecycle moves to
// Loading and any earlier in-flight submission is superseded.
func (c *Controller) Submit(params domain.QueryParameters) (Ticket, error) {
	if err := params.Validate(); err != nil {
		return Ticket{}, err
	}
	c.seq++
	c.results = nil
	c.errMsg = ""
	c.lastQuery = params.Text
	c.page.Reset()
	c.lifecycle.Submit()
	c.logger.Info("search submitted", "seq", c.seq, "num", params.ResultCount, "exact", params.ExactMatch)
	return Ticket{Seq: c.seq, Params: params}, nil
}

// Execute runs the search for t. It does not touch session state and may be
// called from any goroutine.
func (c *Controller) Execute(ctx context.Context, t Ticket) Outcome {
	records, err := c.searcher.Search(ctx, t.Params)
	return Outcome{Seq: t.Seq, Records: records, Err: err}
}

// Resolve applies o to the session if it answers the latest submission.
// Outcomes for older submissions are dropped with ErrStaleOutcome.
func (c *Controller) Resolve(o Outcome) error {
	if o.Seq != c.seq || !c.lifecycle.Loading() {
		c.logger.Debug("discarding stale outcome", "seq", o.Seq, "latest", c.seq)
		return ErrStaleOutcome
	}
	if o.Err != nil {
		if err := c.lifecycle.Fail(); err != nil {
			return err
		}
		c.results = nil
		c.errMsg = UserMessage(o.Err)
		c.logger.Warn("search failed", "seq", o.Seq, "error", o.Err)
		if c.notify != nil {
			c.notify(c.errMsg)
		}
		return nil
	}
	if err := c.lifecycle.Succeed(); err != nil {
		return err
	}
	c.results = o.Records
	c.page.Reset()
	c.logger.Info("search completed", "seq", o.Seq, "records", len(o.Records))
	return nil
}

// Search submits params and resolves the outcome before returning. The
// returned error is the search failure, if any.
func (c *Controller) Search(ctx context.Context, params domain.QueryParameters) error {
	t, err := c.Submit(params)
	if err != nil {
		return err
	}
	o := c.Execute(ctx, t)
	if err := c.Resolve(o); err != nil {
		return err
	}
	return o.Err
}

// UserMessage converts a search failure into text suitable for display.
func UserMessage(err error) string {
	var be *domain.BackendError
	var ne net.Error
	switch {
	case errors.As(err, &be):
		return be.Error()
	case errors.Is(err, domain.ErrMalformedResponse):
		return "The search service returned an unexpected response."
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &ne) && ne.Timeout():
		return "The search timed out."
	default:
		return "The search failed. Please try again."
	}
}

// State returns the lifecycle state.
func (c *Controller) State() lifecycle.State { return c.lifecycle.State() }

// Loading reports whether a search is in flight.
func (c *Controller) Loading() bool { return c.lifecycle.Loading() }

// CanSubmit reports whether a submit control for text should be enabled.
func (c *Controller) CanSubmit(text string) bool {
	return text != "" && !c.lifecycle.Loading()
}

// Results returns the current result set in backend order.
func (c *Controller) Results() []domain.ResultRecord { return c.results }

// LastQuery returns the text of the latest submission.
func (c *Controller) LastQuery() string { return c.lastQuery }

// ErrorMessage returns the message for the last failure, or "".
func (c *Controller) ErrorMessage() string { return c.errMsg }

// Page returns the pagination state.
func (c *Controller) Page() paginate.State { return c.page }

// VisiblePage returns the records on the current page.
func (c *Controller) VisiblePage() []domain.ResultRecord {
	return paginate.VisiblePage(c.results, c.page.PageSize, c.page.CurrentPage)
}

// TotalPages returns the page count for the current result set.
func (c *Controller) TotalPages() int {
	return paginate.TotalPages(len(c.results), c.page.PageSize)
}

// ShowControls reports whether prev/next controls apply.
func (c *Controller) ShowControls() bool {
	return paginate.ShowControls(len(c.results), c.page.PageSize)
}

// NoResults reports whether the "no results" indicator should show.
func (c *Controller) NoResults() bool {
	return len(c.VisiblePage()) == 0 && !c.lifecycle.Loading()
}

// NextPage advances one page, clamped to the last page.
func (c *Controller) NextPage() { c.page.Next(len(c.results)) }

// PrevPage moves back one page, clamped to the first page.
func (c *Controller) PrevPage() { c.page.Prev() }

// SetPage jumps to page p, clamped into range.
func (c *Controller) SetPage(p int) {
	c.page.CurrentPage = p
	c.page.Clamp(len(c.results))
}
