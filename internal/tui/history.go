package tui

import (
	"fmt"
	"strings"
	"time"

	"codeberg.org/whbprompts/server/internal/history"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
)

const previewWidth = 60

// archive of past generations
type HistoryModel struct {
	deps         *Deps
	entries      []history.Entry
	cursor       int
	detail       bool
	confirmClear bool
	viewport     viewport.Model
	renderer     *glamour.TermRenderer
	rendererDark bool
	width        int
	height       int
}

func NewHistoryModel(deps *Deps) *HistoryModel {
	return &HistoryModel{
		deps:     deps,
		viewport: viewport.New(80, 20),
	}
}

// reloads the archive whenever the view is shown
func (m *HistoryModel) Enter() tea.Cmd {
	m.entries = m.deps.Ledger.List()
	m.detail = false
	m.confirmClear = false
	m.clampCursor()

	return nil
}

// picks up entries added while the view is open
func (m *HistoryModel) Reload() {
	m.entries = m.deps.Ledger.List()
	m.clampCursor()
}

func (m *HistoryModel) Update(msg tea.Msg) (*HistoryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(20, msg.Width-4)
		m.viewport.Height = max(5, msg.Height-10)
		m.renderer = nil
		if m.detail {
			m.renderDetail()
		}
		return m, nil

	case tea.KeyMsg:
		if m.confirmClear {
			return m, m.handleConfirm(msg.String())
		}

		if m.detail {
			return m.handleDetailKey(msg)
		}

		return m, m.handleListKey(msg.String())
	}

	return m, nil
}

func (m *HistoryModel) handleConfirm(key string) tea.Cmd {
	m.confirmClear = false

	if key != "y" {
		return nil
	}

	if err := m.deps.Ledger.Clear(contextBackground()); err != nil {
		return showError(err)
	}

	m.entries = nil
	m.cursor = 0

	return toast("Archive Cleared")
}

func (m *HistoryModel) handleListKey(key string) tea.Cmd {
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}

	case "enter":
		if _, ok := m.selected(); ok {
			m.detail = true
			m.renderDetail()
		}

	case "d":
		return m.remove()

	case "c":
		if e, ok := m.selected(); ok {
			return copyPrompt(m.deps, e.Prompt)
		}

	case "e":
		if e, ok := m.selected(); ok {
			return exportPrompt(m.deps, e.ID, e.Prompt)
		}

	case "X":
		if len(m.entries) > 0 {
			m.confirmClear = true
		}
	}

	return nil
}

func (m *HistoryModel) handleDetailKey(msg tea.KeyMsg) (*HistoryModel, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace", "q":
		m.detail = false
		return m, nil

	case "c":
		if e, ok := m.selected(); ok {
			return m, copyPrompt(m.deps, e.Prompt)
		}
		return m, nil

	case "e":
		if e, ok := m.selected(); ok {
			return m, exportPrompt(m.deps, e.ID, e.Prompt)
		}
		return m, nil

	case "d":
		m.detail = false
		return m, m.remove()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

func (m *HistoryModel) remove() tea.Cmd {
	e, ok := m.selected()
	if !ok {
		return nil
	}

	if err := m.deps.Ledger.Remove(contextBackground(), e.ID); err != nil {
		return showError(err)
	}

	m.entries = m.deps.Ledger.List()
	m.clampCursor()

	return toast("Entry Deleted")
}

func (m *HistoryModel) selected() (history.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return history.Entry{}, false
	}

	return m.entries[m.cursor], true
}

func (m *HistoryModel) clampCursor() {
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *HistoryModel) renderDetail() {
	e, ok := m.selected()
	if !ok {
		return
	}

	md := detailMarkdown(e)

	r, err := m.markdownRenderer()
	if err != nil {
		m.viewport.SetContent(md)
		return
	}

	out, err := r.Render(md)
	if err != nil {
		m.viewport.SetContent(md)
		return
	}

	m.viewport.SetContent(out)
	m.viewport.GotoTop()
}

// lazily builds the markdown renderer for the current width and theme
func (m *HistoryModel) markdownRenderer() (*glamour.TermRenderer, error) {
	dark := m.deps.Config.Settings.DarkMode
	if m.renderer != nil && m.rendererDark == dark {
		return m.renderer, nil
	}

	style := "light"
	if dark {
		style = "dark"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(20, m.viewport.Width-2)),
	)
	if err != nil {
		return nil, err
	}

	m.renderer = r
	m.rendererDark = dark

	return r, nil
}

func detailMarkdown(e history.Entry) string {
	ts := time.UnixMilli(e.Timestamp)

	var b strings.Builder

	fmt.Fprintf(&b, "## %s\n\n", ts.Format("Jan 2, 2006 15:04"))
	b.WriteString("```\n")
	b.WriteString(e.Prompt)
	b.WriteString("\n```\n\n")
	fmt.Fprintf(&b, "*reference: %s*\n", imageSummary(e.ImageURL))

	return b.String()
}

// describes a stored data URL without printing it
func imageSummary(url string) string {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		if url == "" {
			return "none"
		}
		return url
	}

	mime, payload, _ := strings.Cut(rest, ",")
	mime = strings.TrimSuffix(mime, ";base64")

	return fmt.Sprintf("%s, %s", mime, humanize.Bytes(uint64(len(payload)*3/4)))
}

func (m *HistoryModel) View() string {
	if m.detail {
		return m.viewport.View() + "\n" +
			helpStyle.Render("↑/↓: scroll • c: copy • e: export • d: delete • esc: back")
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n\n",
		labelStyle.Render("archive"),
		valueStyle.Render(fmt.Sprintf("%d entries", len(m.entries))),
	)

	if len(m.entries) == 0 {
		b.WriteString(infoStyle.Render("no generations yet"))
		b.WriteString("\n\n")
	}

	for i, e := range m.entries {
		line := fmt.Sprintf("%-14s %s",
			humanize.Time(time.UnixMilli(e.Timestamp)),
			preview(e.Prompt, previewWidth),
		)

		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")

	if m.confirmClear {
		b.WriteString(errorStyle.Render("delete the whole archive? y/n"))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/↓: select • enter: open • c: copy • e: export • d: delete • X: clear all • tab: next view"))

	return b.String()
}

func preview(text string, width int) string {
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) <= width {
		return text
	}

	return string(runes[:width-1]) + "…"
}
