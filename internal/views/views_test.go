package views

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderWeekGridPlacesSlots(t *testing.T) {
	out := RenderWeekGrid(WeekGridData{
		StartHour:   8,
		EndHour:     11,
		ColumnWidth: 16,
		Days: []DayColumnData{
			{Label: "Lun 9", Slots: []SlotData{
				{Title: "Gym", TimeRange: "08:00-09:30", Color: "green", Offset: 0, Duration: 90, Columns: 1},
			}},
			{Label: "Mar 10", Today: true},
		},
	})

	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus three hour rows, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "Lun 9") || !strings.Contains(lines[0], "Mar 10") {
		t.Fatalf("missing day labels: %q", lines[0])
	}
	if !strings.Contains(lines[1], "08:00") || !strings.Contains(lines[1], "Gym") {
		t.Fatalf("expected slot label in first row: %q", lines[1])
	}
	if !strings.Contains(lines[2], "│") {
		t.Fatalf("expected continuation bar in second row: %q", lines[2])
	}
	if strings.Contains(lines[3], "Gym") || strings.Contains(lines[3], "│") {
		t.Fatalf("slot leaked past its end: %q", lines[3])
	}
}

func TestRenderWeekGridOverlapMarker(t *testing.T) {
	out := RenderWeekGrid(WeekGridData{
		StartHour:   9,
		EndHour:     10,
		ColumnWidth: 20,
		Days: []DayColumnData{{Label: "Lun", Slots: []SlotData{
			{Title: "A", TimeRange: "09:00-10:00", Color: "blue", Offset: 0, Duration: 60, Column: 0, Columns: 2},
			{Title: "B", TimeRange: "09:30-10:00", Color: "red", Offset: 30, Duration: 30, Column: 1, Columns: 2},
		}}},
	})
	if !strings.Contains(out, "+1") {
		t.Fatalf("expected overlap marker:\n%s", out)
	}
}

func TestRenderWeekGridPinsOffBandSlots(t *testing.T) {
	out := RenderWeekGrid(WeekGridData{
		StartHour:   8,
		EndHour:     10,
		ColumnWidth: 18,
		Days: []DayColumnData{{Label: "Lun", Slots: []SlotData{
			{Title: "Early", TimeRange: "06:00-07:00", Color: "blue", Columns: 1, Above: true},
			{Title: "Late", TimeRange: "22:00-23:00", Color: "red", Columns: 1, Below: true},
		}}},
	})
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two hour rows, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "↑06:00-07:00") || strings.Contains(lines[1], "Late") {
		t.Fatalf("expected early slot pinned to the first row: %q", lines[1])
	}
	if !strings.Contains(lines[2], "↓22:00-23:00") || strings.Contains(lines[2], "Early") {
		t.Fatalf("expected late slot pinned to the last row: %q", lines[2])
	}
}

func TestRenderWeekGridKeepsColumnWidth(t *testing.T) {
	out := RenderWeekGrid(WeekGridData{
		StartHour:   9,
		EndHour:     10,
		ColumnWidth: 10,
		Days: []DayColumnData{{Label: "Lun", Slots: []SlotData{
			{Title: "A very long activity title", TimeRange: "09:00-10:00", Color: "#ff8800", Duration: 60, Columns: 1},
		}}},
	})
	lines := strings.Split(out, "\n")
	if lipgloss.Width(lines[0]) != lipgloss.Width(lines[1]) {
		t.Fatalf("row widths differ: %d vs %d\n%s", lipgloss.Width(lines[0]), lipgloss.Width(lines[1]), out)
	}
}

func TestRenderMonthGrid(t *testing.T) {
	week := make([]MonthCellData, 7)
	for i := range week {
		week[i] = MonthCellData{Day: 26 + i, InMonth: false}
	}
	week[6] = MonthCellData{Day: 1, InMonth: true, Today: true, Items: []SlotData{
		{Title: "Uno", TimeRange: "08:00"},
		{Title: "Dos", TimeRange: "09:00"},
		{Title: "Tres", TimeRange: "10:00"},
	}}

	out := RenderMonthGrid(MonthGridData{
		Weekdays:  []string{"Lun", "Mar", "Mié", "Jue", "Vie", "Sáb", "Dom"},
		CellWidth: 12,
		MaxItems:  2,
		Weeks:     [][]MonthCellData{week},
	})
	if !strings.Contains(out, "Mié") || !strings.Contains(out, "Dom") {
		t.Fatalf("missing weekday header:\n%s", out)
	}
	if !strings.Contains(out, "Uno") || !strings.Contains(out, "Dos") {
		t.Fatalf("missing items:\n%s", out)
	}
	if strings.Contains(out, "Tres") || !strings.Contains(out, "+1 más") {
		t.Fatalf("expected overflow marker instead of third item:\n%s", out)
	}
}

func TestColorFor(t *testing.T) {
	if ColorFor("Blue") != lipgloss.Color("12") {
		t.Fatalf("palette lookup failed")
	}
	if ColorFor("#336699") != lipgloss.Color("#336699") {
		t.Fatalf("raw color should pass through")
	}
}

func TestRenderDetail(t *testing.T) {
	if out := RenderDetail(DetailData{}); !strings.Contains(out, "sin selección") {
		t.Fatalf("expected empty detail, got %q", out)
	}
	out := RenderDetail(DetailData{
		ID:        "abc",
		Title:     "Física",
		Date:      "2026-02-09",
		TimeRange: "10:00-11:30",
		Repeats:   "Lun, Mié",
		Upcoming:  []string{"2026-02-11 10:00"},
	})
	for _, want := range []string{"Física", "abc", "Lun, Mié", "2026-02-11 10:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("detail missing %q:\n%s", want, out)
		}
	}
}

func TestRenderAppShowsOverlayAndStatus(t *testing.T) {
	out := RenderApp(AppData{
		Header:     "Febrero 2026",
		Body:       "grid",
		StatusLine: "error: storage unavailable",
		StatusErr:  true,
		Overlay:    RenderCommandPalette(true, "/add"),
	})
	for _, want := range []string{"Febrero 2026", "grid", "storage unavailable", "/add"} {
		if !strings.Contains(out, want) {
			t.Fatalf("app view missing %q:\n%s", want, out)
		}
	}
	if RenderCommandPalette(false, "x") != "" || RenderImportPane(false, "p", "e") != "" {
		t.Fatalf("inactive overlays should render empty")
	}
}
