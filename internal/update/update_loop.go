package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/weekgrid/internal/logger"
	"github.com/sandeepkv93/weekgrid/internal/views"
	"github.com/sandeepkv93/weekgrid/internal/window"
)

func (m Model) Init() tea.Cmd {
	return m.waitForMidnight()
}

type dayChangedMsg struct{}

// waitForMidnight fires once the date changes so the today marker moves.
func (m Model) waitForMidnight() tea.Cmd {
	next := m.planner.Today().AddDate(0, 0, 1)
	return tea.Tick(time.Until(next), func(time.Time) tea.Msg { return dayChangedMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(typed, m.Keys.ForceEnd) {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed), nil
		}
		if m.Importing {
			return m.handleImportKey(typed), nil
		}
		return m.handleBoardKey(typed)
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.fail(typed.Err)
		}
		return m, nil
	case ReloadMsg:
		m.refresh()
		return m, nil
	case dayChangedMsg:
		m.refresh()
		return m, m.waitForMidnight()
	}
	return m, nil
}

func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Palette):
		m.Palette = PaletteState{Active: true}
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
	case key.Matches(msg, m.Keys.Import):
		m.Importing = true
		m.importArea.Reset()
		m.importArea.Focus()
		m.Status = StatusBar{Text: "paste a schedule and press ctrl+s"}
	case key.Matches(msg, m.Keys.Help):
		m.HelpVisible = !m.HelpVisible
	case key.Matches(msg, m.Keys.Prev):
		m.shiftWindow(-1)
	case key.Matches(msg, m.Keys.Next):
		m.shiftWindow(1)
	case key.Matches(msg, m.Keys.PrevDay):
		m.moveFocus(-1)
	case key.Matches(msg, m.Keys.NextDay):
		m.moveFocus(1)
	case key.Matches(msg, m.Keys.Today):
		m.jumpToday()
	case key.Matches(msg, m.Keys.Week):
		m.setMode(ModeWeek)
	case key.Matches(msg, m.Keys.Month):
		m.setMode(ModeMonth)
	case key.Matches(msg, m.Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
		m.clampCursor()
	case key.Matches(msg, m.Keys.Down):
		m.Cursor++
		m.clampCursor()
	case key.Matches(msg, m.Keys.Delete):
		m.deleteSelected()
	}
	return m, nil
}

func (m *Model) deleteSelected() {
	slot, ok := m.selectedSlot()
	if !ok {
		m.Status = StatusBar{Text: "nothing selected", IsError: true}
		return
	}
	if err := m.planner.Delete(m.ctx, slot.Occurrence.ActivityID); err != nil {
		m.fail(err)
		return
	}
	m.Status = StatusBar{Text: fmt.Sprintf("deleted %q", slot.Occurrence.Title)}
	m.refresh()
}

func (m Model) handleImportKey(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.Keys.Close):
		m.Importing = false
		m.importArea.Blur()
		m.Status = StatusBar{Text: "import closed"}
	case key.Matches(msg, m.Keys.Submit):
		m.importText([]byte(m.importArea.Value()))
		if !m.Status.IsError {
			m.Importing = false
			m.importArea.Reset()
			m.importArea.Blur()
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.importArea.InsertString(string(msg.Runes))
			return m
		}
		m.importArea, _ = m.importArea.Update(msg)
	}
	return m
}

// importText runs raw through the normalizer against the focused week.
func (m *Model) importText(raw []byte) {
	res, err := m.planner.Import(m.ctx, raw, window.Week(m.Focus))
	if err != nil {
		m.fail(err)
		return
	}
	text := fmt.Sprintf("imported %d activities", res.Added())
	if res.Skipped > 0 {
		text += fmt.Sprintf(" (%d skipped)", res.Skipped)
	}
	m.Status = StatusBar{Text: text}
	m.log.Info("schedule imported from tui", logger.Int("added", res.Added()))
	m.refresh()
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = "error: " + m.Status.Text
		} else {
			status = m.Status.Text
		}
	}

	body := m.renderWeek()
	if m.Mode == ModeMonth {
		body = m.renderMonth()
	}

	var overlays []string
	if m.Palette.Active {
		overlays = append(overlays, views.RenderCommandPalette(true, m.commandInput.View()))
	}
	if m.Importing {
		overlays = append(overlays, views.RenderImportPane(true, m.promptView, m.importArea.View()))
	}
	if m.HelpVisible {
		full := m.helpModel
		full.ShowAll = true
		overlays = append(overlays, views.RenderHelpPanel(full.View(m.Keys), paletteHelp))
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("weekgrid | %s | %s", m.Board.Title, m.Mode),
		Body:       body,
		Side:       m.renderDetail(),
		StatusLine: status,
		StatusErr:  m.Status.IsError,
		Overlay:    strings.Join(overlays, "\n\n"),
		Footer:     m.helpModel.View(m.Keys),
	})
}

const paletteHelp = `commands:
  add <title> <HH:MM[-HH:MM]> [days] [date:YYYY-MM-DD] [color:name]
  delete <id> | clear | preview <id> [n]
  import <file> | export <file.ics>
  week next|prev|today | month next|prev|today`
