// Package tui provides an interactive preview of a curated product sheet.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmcdonald/giftkit/internal/catalog"
)

// View represents the current view state
type View int

const (
	ListView View = iota
	DetailView
)

// Source curates a product sheet into memory.
type Source interface {
	Collect(csvPath, label string) (*catalog.Collection, error)
}

// Model is the main TUI model
type Model struct {
	source   Source
	csvPath  string
	label    string
	view     View
	width    int
	height   int
	quitting bool

	collection *catalog.Collection
	cursor     int

	// Status message
	statusMsg string
	statusErr bool
}

// Key bindings
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Back   key.Binding
	Reload key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "details"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("esc", "back"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// NewModel curates the sheet at csvPath and returns a model showing it.
func NewModel(source Source, csvPath, label string) (*Model, error) {
	col, err := source.Collect(csvPath, label)
	if err != nil {
		return nil, err
	}
	return NewModelWithCollection(source, col), nil
}

// NewModelWithCollection creates a model for an already curated sheet.
func NewModelWithCollection(source Source, col *catalog.Collection) *Model {
	return &Model{
		source:     source,
		csvPath:    col.Source,
		label:      col.Label,
		view:       ListView,
		collection: col,
	}
}

type loadedMsg struct {
	collection *catalog.Collection
	err        error
}

func (m *Model) reload() tea.Cmd {
	return func() tea.Msg {
		col, err := m.source.Collect(m.csvPath, m.label)
		return loadedMsg{collection: col, err: err}
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Reload failed: %v", msg.err)
			m.statusErr = true
			return m, nil
		}
		m.collection = msg.collection
		m.moveCursor(0)
		if len(m.collection.Products) == 0 {
			m.view = ListView
		}
		m.statusMsg = fmt.Sprintf("✓ Reloaded %d products", len(m.collection.Products))
		m.statusErr = false
		return m, nil

	case tea.KeyMsg:
		// Clear status on any key
		m.statusMsg = ""
		m.statusErr = false

		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			m.moveCursor(-1)

		case key.Matches(msg, keys.Down):
			m.moveCursor(1)

		case key.Matches(msg, keys.Enter):
			if m.view == DetailView {
				m.view = ListView
			} else if len(m.collection.Products) > 0 {
				m.view = DetailView
			}

		case key.Matches(msg, keys.Back):
			m.view = ListView

		case key.Matches(msg, keys.Reload):
			return m, m.reload()
		}
	}

	return m, nil
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.collection.Products) {
		m.cursor = len(m.collection.Products) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Selected returns the product under the cursor.
func (m *Model) Selected() (catalog.Product, bool) {
	if len(m.collection.Products) == 0 {
		return catalog.Product{}, false
	}
	return m.collection.Products[m.cursor], true
}

// View renders the UI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(" 🎁 curate "))
	b.WriteString(" ")
	b.WriteString(dimStyle.Render(m.csvPath))
	b.WriteString("\n\n")

	b.WriteString(m.renderList())
	if m.view == DetailView {
		b.WriteString("\n")
		b.WriteString(m.renderDetail())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	help := "[↑/↓] navigate  [enter] details  [r] reload  [q] quit"
	if m.view == DetailView {
		help = "[↑/↓] navigate  [enter/esc] close  [r] reload  [q] quit"
	}
	b.WriteString(helpStyle.Render(help))

	return appStyle.Render(b.String())
}

func (m *Model) renderList() string {
	var b strings.Builder

	header := fmt.Sprintf("  %-32s %10s  %s", "TITLE", "PRICE", "TIER")
	b.WriteString(dimStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Repeat("─", 60)))
	b.WriteString("\n")

	products := m.collection.Products
	if len(products) == 0 {
		b.WriteString(dimStyle.Render("  No products in this sheet"))
		b.WriteString("\n")
		return b.String()
	}

	visibleHeight := m.height - 12
	if m.view == DetailView {
		visibleHeight -= 10
	}
	if visibleHeight < 5 {
		visibleHeight = 5
	}

	start := 0
	if m.cursor >= visibleHeight {
		start = m.cursor - visibleHeight + 1
	}

	for i := start; i < len(products) && i < start+visibleHeight; i++ {
		p := products[i]
		cursor := "  "
		style := normalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = selectedStyle
		}

		line := fmt.Sprintf("%s%-32s %10s  ", cursor, truncate(p.Title, 32), "€"+p.PriceText)
		b.WriteString(style.Render(line))
		b.WriteString(tierStyle(p.Tier).Render(p.Tier.String()))
		b.WriteString("\n")
	}

	return b.String()
}

func (m *Model) renderDetail() string {
	p, ok := m.Selected()
	if !ok {
		return ""
	}

	rows := []struct{ label, value string }{
		{"title", p.Title},
		{"price", catalog.FormatPrice(p.Price) + " " + p.Currency},
		{"tier", p.Tier.String()},
		{"image", p.Image},
		{"link", p.AffiliateLink},
		{"merchant", p.Merchant},
		{"reason", p.Reason},
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-9s", r.label)))
		b.WriteString(" ")
		b.WriteString(r.value)
		b.WriteString("\n")
	}
	return detailStyle.Render(strings.TrimSuffix(b.String(), "\n"))
}

func (m *Model) renderStatus() string {
	if m.statusMsg != "" {
		if m.statusErr {
			return errorBadge.Render(m.statusMsg)
		}
		return successBadge.Render(m.statusMsg)
	}

	col := m.collection
	summary := fmt.Sprintf("%d products from %d rows", len(col.Products), col.Rows)
	if len(col.Skipped) == 0 {
		return dimStyle.Render(summary)
	}

	var missing, noASIN []string
	for _, s := range col.Skipped {
		if errors.Is(s.Err, catalog.ErrNoASIN) {
			noASIN = append(noASIN, fmt.Sprint(s.Row))
		} else {
			missing = append(missing, fmt.Sprint(s.Row))
		}
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "incomplete rows "+strings.Join(missing, ","))
	}
	if len(noASIN) > 0 {
		parts = append(parts, "no ASIN in rows "+strings.Join(noASIN, ","))
	}
	return dimStyle.Render(summary+", ") +
		warnBadge.Render(fmt.Sprintf("%d skipped", len(col.Skipped))) +
		dimStyle.Render(" ("+strings.Join(parts, "; ")+")")
}

// Run starts the TUI
func Run(source Source, csvPath, label string) error {
	m, err := NewModel(source, csvPath, label)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// Helper functions
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
