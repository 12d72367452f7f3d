package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

type AppData struct {
	Header     string
	Body       string
	Side       string
	StatusLine string
	StatusErr  bool
	Overlay    string
	Footer     string
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	todayStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

func RenderApp(data AppData) string {
	body := panelStyle.Render(data.Body)
	if data.Side != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, panelStyle.Width(36).Render(data.Side))
	}

	status := statusStyle.Render(data.StatusLine)
	if data.StatusErr {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{
		headerStyle.Render(data.Header),
		body,
		status,
	}
	if data.Overlay != "" {
		lines = append(lines, panelStyle.Render(data.Overlay))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

var paletteColors = map[string]lipgloss.Color{
	"blue":   lipgloss.Color("12"),
	"green":  lipgloss.Color("10"),
	"purple": lipgloss.Color("13"),
	"red":    lipgloss.Color("9"),
	"yellow": lipgloss.Color("11"),
}

// ColorFor maps palette names to terminal colors; anything else (a hex
// value, an ANSI index) is handed to lipgloss as given.
func ColorFor(name string) lipgloss.Color {
	if c, ok := paletteColors[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return lipgloss.Color(name)
}

func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Width(width).Render(ansi.Truncate(s, width, "…"))
}
