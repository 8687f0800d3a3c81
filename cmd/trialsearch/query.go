package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"trialsearch/internal/domain"
	"trialsearch/internal/service"
)

var (
	queryNum   int
	queryExact bool
	queryPage  int
	queryJSON  bool
)

var queryCmd = &cobra.Command{
	Use:   "query <text...>",
	Short: "Run one search and print a page of results",
	Long: `Run one search without the interactive screen.

Examples:
  trialsearch query lung cancer                   # First page of results
  trialsearch query --exact "small cell"          # Exact match
  trialsearch query -n 25 --page 2 melanoma       # Second page of 25 requested results
  trialsearch query --json "lung cancer AND immunotherapy"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryNum, "num", "n", 0, "number of results to request: 5, 10, 15, 20 or 25 (default from config)")
	queryCmd.Flags().BoolVar(&queryExact, "exact", false, "only return exact matches")
	queryCmd.Flags().IntVar(&queryPage, "page", 1, "page of results to print, starting at 1")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
}

// errReported marks a failure that was already shown to the user.
var errReported = errors.New("search failed")

type queryOutput struct {
	Query      string                `json:"query"`
	Page       int                   `json:"page"`
	TotalPages int                   `json:"total_pages"`
	Total      int                   `json:"total"`
	Results    []domain.ResultRecord `json:"results"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, session, closer, err := newSession(service.WithNotifier(func(msg string) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", msg)
	}))
	if err != nil {
		return err
	}
	defer closer.Close()

	num := queryNum
	if num == 0 {
		num = cfg.Search.DefaultResultCount
	}
	exact := queryExact || cfg.Search.ExactMatch
	params := domain.QueryParameters{Text: strings.TrimSpace(strings.Join(args, " ")), ResultCount: num, ExactMatch: exact}

	switch err := session.Search(context.Background(), params); {
	case err == nil:
	case errors.Is(err, domain.ErrEmptyQuery), errors.Is(err, domain.ErrInvalidResultCount):
		return err
	default:
		// The notifier has already printed the message.
		return errReported
	}
	session.SetPage(queryPage - 1)

	if queryJSON {
		return writeQueryJSON(cmd.OutOrStdout(), session)
	}
	return writeQueryText(cmd.OutOrStdout(), session)
}

func writeQueryJSON(w io.Writer, session *service.Controller) error {
	out := queryOutput{
		Query:      session.LastQuery(),
		Page:       session.Page().CurrentPage + 1,
		TotalPages: session.TotalPages(),
		Total:      len(session.Results()),
		Results:    session.VisiblePage(),
	}
	if out.Results == nil {
		out.Results = []domain.ResultRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeQueryText(w io.Writer, session *service.Controller) error {
	if session.NoResults() {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	page := session.Page()
	offset := page.CurrentPage * page.PageSize
	for i, r := range session.VisiblePage() {
		if _, err := fmt.Fprintf(w, "%3d. %s\n     %s\n", offset+i+1, r.Title, r.URL); err != nil {
			return err
		}
	}
	if session.ShowControls() {
		_, err := fmt.Fprintf(w, "\nPage %d of %d (%d results)\n", page.CurrentPage+1, session.TotalPages(), len(session.Results()))
		return err
	}
	return nil
}
