package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/weekgrid/internal/commands"
	"github.com/sandeepkv93/weekgrid/internal/model"
	"github.com/sandeepkv93/weekgrid/internal/planner"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette = PaletteState{}
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		m.commandInput, _ = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette = PaletteState{}
	m.commandInput.SetValue("")
	m.commandInput.Blur()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			date := m.Focus
			if a.Date != "" {
				d, err := time.ParseInLocation(time.DateOnly, a.Date, m.planner.Location())
				if err != nil {
					return commands.Result{}, err
				}
				date = d
			}
			created, err := m.planner.Create(m.ctx, planner.Draft{
				Title:    a.Title,
				Date:     date,
				From:     a.From,
				To:       a.To,
				Color:    model.Color(a.Color),
				Weekdays: a.Weekdays,
			})
			if err != nil {
				return commands.Result{}, err
			}
			m.Focus = date
			return commands.Result{Message: fmt.Sprintf("added %q (%s)", created.Title, created.ID)}, nil
		},
		Delete: func(a commands.DeleteArgs) (commands.Result, error) {
			if err := m.planner.Delete(m.ctx, a.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "deleted " + a.ID}, nil
		},
		Clear: func() (commands.Result, error) {
			if err := m.planner.Clear(m.ctx); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "all activities removed"}, nil
		},
		Import: func(a commands.PathArgs) (commands.Result, error) {
			raw, err := m.readFile(a.Path)
			if err != nil {
				return commands.Result{}, err
			}
			m.importText(raw)
			if m.Status.IsError {
				return commands.Result{}, m.LastError
			}
			return commands.Result{Message: m.Status.Text}, nil
		},
		Export: func(a commands.PathArgs) (commands.Result, error) {
			data, err := m.planner.ExportICS()
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.writeFile(a.Path, data); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("exported %d activities to %s", len(m.planner.Activities()), a.Path)}, nil
		},
		Week: func(a commands.NavArgs) (commands.Result, error) {
			m.Mode = ModeWeek
			m.navigate(a.Direction)
			return commands.Result{Message: m.Board.Title}, nil
		},
		Month: func(a commands.NavArgs) (commands.Result, error) {
			m.Mode = ModeMonth
			m.navigate(a.Direction)
			return commands.Result{Message: m.Board.Title}, nil
		},
		Preview: func(a commands.PreviewArgs) (commands.Result, error) {
			next, err := m.planner.Preview(a.ID, a.Count)
			if err != nil {
				return commands.Result{}, err
			}
			if len(next) == 0 {
				return commands.Result{Message: "no upcoming occurrences"}, nil
			}
			parts := make([]string, 0, len(next))
			for _, t := range next {
				parts = append(parts, t.Format("2006-01-02 15:04"))
			}
			return commands.Result{Message: "next: " + strings.Join(parts, ", ")}, nil
		},
	})
	if err != nil {
		m.fail(err)
		return m
	}
	m.Status = StatusBar{Text: res.Message}
	m.refresh()
	return m
}

func (m *Model) navigate(dir commands.Direction) {
	switch dir {
	case commands.Next:
		m.shiftWindow(1)
	case commands.Prev:
		m.shiftWindow(-1)
	default:
		m.jumpToday()
	}
}
