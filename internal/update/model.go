// Package update is the bubbletea front end: a week or month board with a
// command palette and a paste-to-import pane.
package update

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/weekgrid/internal/ingest"
	"github.com/sandeepkv93/weekgrid/internal/layout"
	"github.com/sandeepkv93/weekgrid/internal/logger"
	"github.com/sandeepkv93/weekgrid/internal/model"
	"github.com/sandeepkv93/weekgrid/internal/planner"
	"github.com/sandeepkv93/weekgrid/internal/views"
	"github.com/sandeepkv93/weekgrid/internal/window"
)

type Mode string

const (
	ModeWeek  Mode = "week"
	ModeMonth Mode = "month"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type PaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	Mode Mode
	// Focus is the highlighted date; the board always contains it.
	Focus       time.Time
	Board       planner.Board
	Cursor      int
	SelectedID  string
	Palette     PaletteState
	Importing   bool
	HelpVisible bool
	Status      StatusBar
	Keys        KeyMap
	Quitting    bool
	LastError   error

	planner   *planner.Planner
	ctx       context.Context
	log       logger.Logger
	readFile  func(string) ([]byte, error)
	writeFile func(string, []byte) error

	commandInput textinput.Model
	importArea   textarea.Model
	helpModel    help.Model
	promptView   string
}

type Options struct {
	Context context.Context
	Log     logger.Logger
	Mode    Mode
	// ReadFile and WriteFile back the import and export commands.
	ReadFile  func(string) ([]byte, error)
	WriteFile func(string, []byte) error
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// ReloadMsg rebuilds the board, e.g. after another process wrote the store.
type ReloadMsg struct{}

func NewModel(p *planner.Planner, opts Options) Model {
	m := Model{
		Mode:      opts.Mode,
		Focus:     p.Today(),
		Keys:      DefaultKeyMap(),
		planner:   p,
		ctx:       opts.Context,
		log:       opts.Log,
		readFile:  opts.ReadFile,
		writeFile: opts.WriteFile,
	}
	if m.Mode == "" {
		m.Mode = ModeWeek
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.log == nil {
		m.log = logger.Nop()
	}
	if m.readFile == nil {
		m.readFile = os.ReadFile
	}
	if m.writeFile == nil {
		m.writeFile = func(path string, data []byte) error { return os.WriteFile(path, data, 0o644) }
	}
	m.initBubbleComponents()
	m.refresh()
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 64
	m.commandInput.Placeholder = "add Gym 07:00-08:00 lun,mie"

	m.importArea = textarea.New()
	m.importArea.SetWidth(72)
	m.importArea.SetHeight(10)
	m.importArea.ShowLineNumbers = false
	m.importArea.CharLimit = 0
	m.importArea.Placeholder = "Pega aquí el JSON de tu horario"

	m.helpModel = help.New()
	m.promptView = views.RenderMarkdown("```\n" + ingest.PromptTemplate + "\n```")
}

// refresh rebuilds the board around Focus and re-clamps the selection.
func (m *Model) refresh() {
	var (
		board planner.Board
		err   error
	)
	switch m.Mode {
	case ModeMonth:
		year, idx := window.MonthOf(m.Focus)
		board, err = m.planner.Month(year, idx)
	default:
		board, err = m.planner.Week(m.Focus)
	}
	if err != nil {
		m.fail(err)
		return
	}
	m.Board = board
	m.clampCursor()
}

func (m *Model) fail(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.log.Warn("tui action failed", logger.Error(err))
}

func (m *Model) focusedDay() (planner.BoardDay, bool) {
	for _, d := range m.Board.Days {
		if model.SameDate(d.Date, m.Focus) {
			return d, true
		}
	}
	return planner.BoardDay{}, false
}

func (m *Model) clampCursor() {
	day, ok := m.focusedDay()
	if !ok || len(day.Slots) == 0 {
		m.Cursor = 0
		m.SelectedID = ""
		return
	}
	if m.Cursor >= len(day.Slots) {
		m.Cursor = len(day.Slots) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.SelectedID = day.Slots[m.Cursor].Occurrence.ActivityID
}

func (m Model) selectedSlot() (layout.Slot, bool) {
	day, ok := m.focusedDay()
	if !ok || m.Cursor < 0 || m.Cursor >= len(day.Slots) {
		return layout.Slot{}, false
	}
	return day.Slots[m.Cursor], true
}

// moveFocus shifts the focused date by days, reloading when it leaves the
// current board.
func (m *Model) moveFocus(days int) {
	m.Focus = m.Focus.AddDate(0, 0, days)
	m.Cursor = 0
	if !m.Board.Window.Contains(m.Focus) || m.Mode == ModeMonth {
		m.refresh()
		return
	}
	m.clampCursor()
}

// shiftWindow moves to the previous or next week or month.
func (m *Model) shiftWindow(delta int) {
	switch m.Mode {
	case ModeMonth:
		year, idx := window.MonthOf(m.Focus)
		year, idx = window.ShiftMonth(year, idx, delta)
		m.Focus = time.Date(year, time.Month(idx+1), 1, 0, 0, 0, 0, m.planner.Location())
	default:
		if delta < 0 {
			m.Focus = window.PrevWeek(m.Focus)
		} else {
			m.Focus = window.NextWeek(m.Focus)
		}
	}
	m.Cursor = 0
	m.refresh()
}

func (m *Model) jumpToday() {
	m.Focus = m.planner.Today()
	m.Cursor = 0
	m.refresh()
}

func (m *Model) setMode(mode Mode) {
	m.Mode = mode
	m.Cursor = 0
	m.refresh()
}
