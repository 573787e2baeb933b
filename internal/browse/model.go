// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package browse

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/staranto/gifctl/internal/giphy"
)

// Pager returns one page of results. An empty page ends the list.
type Pager func(ctx context.Context, page int) ([]giphy.Item, error)

// SinglePage adapts a call that has no paging, such as the trending list.
func SinglePage(fetch func(ctx context.Context) ([]giphy.Item, error)) Pager {
	return func(ctx context.Context, page int) ([]giphy.Item, error) {
		if page > 0 {
			return nil, nil
		}
		return fetch(ctx)
	}
}

type pageMsg struct {
	page  int
	items []giphy.Item
	err   error
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f6be00"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00c8f0"))
	urlStyle      = lipgloss.NewStyle().Faint(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
	defaultHeight = 20
)

// Model is the bubbletea model behind gifctl browse.
type Model struct {
	ctx     context.Context
	title   string
	pager   Pager
	keys    keyMap
	spinner spinner.Model

	items    []giphy.Item
	cursor   int
	next     int
	loading  bool
	done     bool
	err      error
	height   int
	selected *giphy.Item
}

// New returns a model that shows title above the results of pager.
func New(ctx context.Context, title string, pager Pager) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		ctx:     ctx,
		title:   title,
		pager:   pager,
		keys:    defaultKeys(),
		spinner: sp,
		height:  defaultHeight,
		loading: true,
	}
}

// Selected is the item chosen with enter, if any.
func (m Model) Selected() (giphy.Item, bool) {
	if m.selected == nil {
		return giphy.Item{}, false
	}
	return *m.selected, true
}

// Items is everything loaded so far.
func (m Model) Items() []giphy.Item { return m.items }

// Err is the error from the most recent page load.
func (m Model) Err() error { return m.err }

// Init starts the spinner and the load of the first page, which New already
// marked as in flight.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(0))
}

// loadNext marks the model busy and returns the command fetching the next
// page. It is a no-op while a page is in flight or after the last page.
func (m Model) loadNext() (Model, tea.Cmd) {
	if m.loading || m.done {
		return m, nil
	}
	m.loading = true
	m.err = nil
	return m, m.fetch(m.next)
}

func (m Model) fetch(page int) tea.Cmd {
	ctx, pager := m.ctx, m.pager
	return func() tea.Msg {
		items, err := pager(ctx, page)
		return pageMsg{page: page, items: items, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pageMsg:
		m.loading = false
		if msg.err != nil {
			log.WithError(msg.err).Errorf("failed to load page %d", msg.page)
			m.err = msg.err
			return m, nil
		}
		if len(msg.items) == 0 {
			m.done = true
			return m, nil
		}
		m.items = append(m.items, msg.items...)
		m.next = msg.page + 1
		return m, nil

	case tea.WindowSizeMsg:
		// title, blank, footer and help
		m.height = max(msg.Height-4, 1)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
			return m, nil
		}
		return m.loadNext()

	case key.Matches(msg, m.keys.More):
		return m.loadNext()

	case key.Matches(msg, m.keys.Select):
		if len(m.items) == 0 {
			return m, nil
		}
		item := m.items[m.cursor]
		m.selected = &item
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	first, last := m.window()
	for i := first; i < last; i++ {
		item := m.items[i]
		line := fmt.Sprintf("  %s  %s", displayTitle(item), urlStyle.Render(item.ImageURL))
		if i == m.cursor {
			line = cursorStyle.Render("> " + displayTitle(item) + "  " + item.ImageURL)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " loading page " + fmt.Sprint(m.next+1))
	case m.err != nil:
		b.WriteString(errStyle.Render("error: " + m.err.Error()))
	case m.done && len(m.items) == 0:
		b.WriteString("no results")
	case m.done:
		b.WriteString(fmt.Sprintf("%d items, end of list", len(m.items)))
	default:
		b.WriteString(fmt.Sprintf("%d items", len(m.items)))
	}
	b.WriteString("\n")

	var help []string
	for _, k := range m.keys.help() {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString(helpStyle.Render(strings.Join(help, " • ")))

	return b.String()
}

// window is the range of rows that fits the screen, scrolled to keep the
// cursor visible.
func (m Model) window() (int, int) {
	n := len(m.items)
	if n <= m.height {
		return 0, n
	}
	first := m.cursor - m.height + 1
	if first < 0 {
		first = 0
	}
	last := first + m.height
	if last > n {
		last = n
		first = n - m.height
	}
	return first, last
}

func displayTitle(item giphy.Item) string {
	if strings.TrimSpace(item.Title) == "" {
		return item.ID
	}
	return item.Title
}

// Run drives the model until the user quits and returns the final model.
func Run(ctx context.Context, m Model, in io.Reader, out io.Writer) (Model, error) {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	final, err := p.Run()
	if err != nil {
		return m, fmt.Errorf("browse: %w", err)
	}
	fm, ok := final.(Model)
	if !ok {
		return m, fmt.Errorf("browse: unexpected model %T", final)
	}
	return fm, nil
}
