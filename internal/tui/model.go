package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"trialsearch/internal/domain"
	"trialsearch/internal/service"
)

const helpText = `Check "exact match" for trials that contain your query exactly (watch out for typos). ` +
	`Separate multiple search terms with "AND", e.g. lung cancer AND immunotherapy.`

// searchDoneMsg carries a finished search back into Update.
type searchDoneMsg struct {
	outcome service.Outcome
}

// Options are the initial control values.
type Options struct {
	ResultCount int
	ExactMatch  bool
}

// Model is the Bubble Tea model for the search screen. Session state lives in
// the controller; the model only holds the input controls.
type Model struct {
	session     *service.Controller
	input       textinput.Model
	spinner     spinner.Model
	pager       paginator.Model
	help        help.Model
	keys        keyMap
	resultCount int
	exact       bool
	width       int
	ready       bool
}

// New creates a new TUI model over session.
func New(session *service.Controller, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Enter your topic"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	pg := paginator.New()
	pg.Type = paginator.Dots
	pg.ActiveDot = accentStyle.Render("•")
	pg.InactiveDot = dimStyle.Render("•")

	count := opts.ResultCount
	if !domain.ValidResultCount(count) {
		count = domain.ResultCounts[0]
	}
	return Model{
		session:     session,
		input:       ti,
		spinner:     sp,
		pager:       pg,
		help:        help.New(),
		keys:        defaultKeyMap(),
		resultCount: count,
		exact:       opts.ExactMatch,
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and search events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.input.Width = max(20, msg.Width-6)
		m.help.Width = msg.Width
		return m, nil
	case searchDoneMsg:
		// Outcomes for superseded submissions are dropped by the session.
		_ = m.session.Resolve(msg.outcome)
		return m, nil
	case spinner.TickMsg:
		if !m.session.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		case key.Matches(msg, m.keys.MoreCount):
			m.resultCount = domain.NextResultCount(m.resultCount, 1)
			return m, nil
		case key.Matches(msg, m.keys.LessCount):
			m.resultCount = domain.NextResultCount(m.resultCount, -1)
			return m, nil
		case key.Matches(msg, m.keys.Exact):
			m.exact = !m.exact
			return m, nil
		case key.Matches(msg, m.keys.NextPage):
			if m.session.ShowControls() {
				m.session.NextPage()
			}
			return m, nil
		case key.Matches(msg, m.keys.PrevPage):
			if m.session.ShowControls() {
				m.session.PrevPage()
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts a search when the submit control is enabled. The input is
// cleared as soon as the request is issued.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if !m.session.CanSubmit(text) {
		return m, nil
	}
	ticket, err := m.session.Submit(domain.QueryParameters{Text: text, ResultCount: m.resultCount, ExactMatch: m.exact})
	if err != nil {
		return m, nil
	}
	m.input.SetValue("")
	session := m.session
	search := func() tea.Msg {
		return searchDoneMsg{outcome: session.Execute(context.Background(), ticket)}
	}
	return m, tea.Batch(m.spinner.Tick, search)
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	var b strings.Builder
	b.WriteString(brandStyle.Render("Argon AI"))
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Find Clinical Trials"))
	b.WriteString("\n")
	b.WriteString(queryBoxStyle.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.renderControls())
	b.WriteString("\n")
	b.WriteString(dimStyle.Width(max(20, m.width)).Render(helpText))
	b.WriteString("\n\n")
	b.WriteString(m.renderResults())
	if m.session.ShowControls() {
		b.WriteString("\n")
		b.WriteString(m.renderPager())
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.shortHelp()))
	return b.String()
}

func (m Model) renderControls() string {
	exact := "[ ]"
	if m.exact {
		exact = "[x]"
	}
	submit := buttonStyle.Render(" Submit ")
	if !m.session.CanSubmit(strings.TrimSpace(m.input.Value())) {
		submit = disabledStyle.Render(" Submit ")
	}
	return fmt.Sprintf("Results: %s   Exact match? %s   %s",
		accentStyle.Render(fmt.Sprintf("%d", m.resultCount)), exact, submit)
}

func (m Model) renderResults() string {
	if m.session.Loading() {
		return m.spinner.View() + " Searching..."
	}
	if m.session.NoResults() {
		return resultStyle.Render(dimStyle.Render("No results found."))
	}
	width := max(20, m.width-4)
	var rows []string
	for _, r := range m.session.VisiblePage() {
		title := runewidth.Truncate(r.Title, width, "…")
		url := runewidth.Truncate(r.URL, width, "…")
		rows = append(rows, resultStyle.Render(linkStyle.Render(title)+"\n"+dimStyle.Render(url)))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderPager() string {
	page := m.session.Page()
	n := len(m.session.Results())
	m.pager.TotalPages = m.session.TotalPages()
	m.pager.Page = page.CurrentPage

	prev := buttonStyle.Render(" Previous ")
	if !page.HasPrev() {
		prev = disabledStyle.Render(" Previous ")
	}
	next := buttonStyle.Render(" Next ")
	if !page.HasNext(n) {
		next = disabledStyle.Render(" Next ")
	}
	return prev + "  " + m.pager.View() + "  " + next
}

func (m Model) renderStatus() string {
	if msg := m.session.ErrorMessage(); msg != "" {
		return errorStyle.Render("Error: " + msg)
	}
	if m.session.Loading() || m.session.LastQuery() == "" {
		return ""
	}
	return statusStyle.Render(fmt.Sprintf("%d results for %q", len(m.session.Results()), m.session.LastQuery()))
}

var (
	brandStyle    = lipgloss.NewStyle().Bold(true).Italic(true).Foreground(lipgloss.Color("99"))
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).MarginBottom(1)
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	queryBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("99")).Padding(0, 1)
	resultStyle   = lipgloss.NewStyle().Padding(0, 1).MarginBottom(1)
	linkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true)
	buttonStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("99"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("237"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
