package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type SlotData struct {
	Title     string
	TimeRange string
	Color     string
	// Offset and Duration are minutes relative to the first visible hour,
	// already clipped to the view.
	Offset   int
	Duration int
	Column   int
	Columns  int
	Selected bool
	// Above and Below mark slots that lie entirely outside the visible
	// hours. They are pinned to the first or last row with an arrow.
	Above bool
	Below bool
}

type DayColumnData struct {
	Label string
	Today bool
	Slots []SlotData
}

type WeekGridData struct {
	Title       string
	StartHour   int
	EndHour     int
	ColumnWidth int
	Days        []DayColumnData
}

// RenderWeekGrid draws one row per visible hour and one column per day.
// A slot prints its label in the row where it starts and a bar in the rows
// it continues through; overlapping slots in one cell show a +N marker.
func RenderWeekGrid(data WeekGridData) string {
	width := data.ColumnWidth
	if width <= 0 {
		width = 14
	}
	var b strings.Builder
	b.WriteString(fit("", 6))
	for _, day := range data.Days {
		label := fit(day.Label, width)
		if day.Today {
			label = todayStyle.Render(label)
		}
		b.WriteString(" " + label)
	}
	b.WriteString("\n")

	columns := make([][]SlotData, len(data.Days))
	for i, day := range data.Days {
		columns[i] = pinOffBand(day.Slots, (data.EndHour-data.StartHour)*60)
	}
	for hour := data.StartHour; hour < data.EndHour; hour++ {
		row := (hour - data.StartHour) * 60
		b.WriteString(dimStyle.Render(fmt.Sprintf("%02d:00 ", hour%24)))
		for _, slots := range columns {
			b.WriteString(" " + renderCell(slots, row, width))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// pinOffBand returns slots with the off-band ones moved into the first or
// last minute of the grid.
func pinOffBand(slots []SlotData, minutes int) []SlotData {
	out := make([]SlotData, len(slots))
	copy(out, slots)
	for i := range out {
		s := &out[i]
		switch {
		case s.Above:
			s.Offset, s.Duration = 0, 1
			s.TimeRange = "↑" + s.TimeRange
		case s.Below:
			s.Offset, s.Duration = minutes-1, 1
			s.TimeRange = "↓" + s.TimeRange
		}
	}
	return out
}

func renderCell(slots []SlotData, row, width int) string {
	var (
		first *SlotData
		count int
	)
	for i := range slots {
		s := &slots[i]
		if s.Duration <= 0 || s.Offset >= row+60 || s.Offset+s.Duration <= row {
			continue
		}
		count++
		if first == nil || s.Column < first.Column {
			first = s
		}
	}
	if first == nil {
		return fit("", width)
	}

	text := "│"
	if first.Offset >= row {
		text = first.TimeRange + " " + first.Title
	}
	if first.Selected {
		text = ">" + text
	}
	if count > 1 {
		marker := fmt.Sprintf(" +%d", count-1)
		text = fit(text, width-len(marker)) + marker
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(ColorFor(first.Color))
	if first.Selected {
		style = style.Bold(true).Underline(true)
	}
	return style.Render(fit(text, width))
}

type MonthCellData struct {
	Day     int
	InMonth bool
	Today   bool
	Focused bool
	Items   []SlotData
}

type MonthGridData struct {
	Title     string
	Weekdays  []string
	CellWidth int
	// MaxItems caps the lines listed per cell; the rest collapse into "+N".
	MaxItems int
	Weeks    [][]MonthCellData
}

func RenderMonthGrid(data MonthGridData) string {
	width := data.CellWidth
	if width <= 0 {
		width = 14
	}
	maxItems := data.MaxItems
	if maxItems <= 0 {
		maxItems = 3
	}

	var b strings.Builder
	for i, name := range data.Weekdays {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(headerStyle.Render(fit(name, width)))
	}
	b.WriteString("\n")

	for _, week := range data.Weeks {
		cells := make([]string, 0, len(week))
		for _, cell := range week {
			cells = append(cells, renderMonthCell(cell, width, maxItems))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, joinWithGap(cells)...))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func joinWithGap(cells []string) []string {
	out := make([]string, 0, 2*len(cells))
	for i, c := range cells {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, c)
	}
	return out
}

func renderMonthCell(cell MonthCellData, width, maxItems int) string {
	head := fmt.Sprintf("%2d", cell.Day)
	if cell.Focused {
		head = "[" + strings.TrimSpace(head) + "]"
	}
	switch {
	case cell.Today:
		head = todayStyle.Render(fit(head, width))
	case !cell.InMonth:
		head = dimStyle.Render(fit(head, width))
	default:
		head = fit(head, width)
	}

	lines := []string{head}
	for i, item := range cell.Items {
		if i == maxItems {
			lines = append(lines, dimStyle.Render(fit(fmt.Sprintf("+%d más", len(cell.Items)-maxItems), width)))
			break
		}
		text := fit(item.TimeRange+" "+item.Title, width)
		style := lipgloss.NewStyle().Foreground(ColorFor(item.Color))
		if !cell.InMonth {
			style = dimStyle
		}
		if item.Selected {
			style = style.Bold(true).Underline(true)
		}
		lines = append(lines, style.Render(text))
	}
	for len(lines) < maxItems+2 {
		lines = append(lines, fit("", width))
	}
	return strings.Join(lines, "\n")
}

type DetailData struct {
	ID          string
	Title       string
	Date        string
	TimeRange   string
	Repeats     string
	Description string
	Color       string
	Upcoming    []string
}

func RenderDetail(data DetailData) string {
	if strings.TrimSpace(data.ID) == "" {
		return "detalle:\n(sin selección)"
	}
	var b strings.Builder
	b.WriteString("detalle:\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(ColorFor(data.Color)).Render(data.Title) + "\n")
	b.WriteString(fmt.Sprintf("id: %s\n", data.ID))
	b.WriteString(fmt.Sprintf("fecha: %s\n", data.Date))
	b.WriteString(fmt.Sprintf("hora: %s\n", data.TimeRange))
	if data.Repeats != "" {
		b.WriteString(fmt.Sprintf("repite: %s\n", data.Repeats))
	}
	if data.Description != "" {
		b.WriteString("\n" + data.Description + "\n")
	}
	if len(data.Upcoming) > 0 {
		b.WriteString("\npróximas:\n")
		for _, u := range data.Upcoming {
			b.WriteString("- " + u + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return "command:\n" + input
}

// RenderImportPane shows the paste area under the assistant prompt.
func RenderImportPane(active bool, prompt, editor string) string {
	if !active {
		return ""
	}
	var b strings.Builder
	b.WriteString("importar horario: [ctrl+s] importar [esc] cerrar\n")
	if prompt != "" {
		b.WriteString(prompt + "\n\n")
	}
	b.WriteString(editor)
	return b.String()
}

func RenderHelpPanel(helpView, extra string) string {
	out := "help:\n" + helpView
	if extra != "" {
		out += "\n\n" + extra
	}
	return out
}
