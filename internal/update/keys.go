package update

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Prev     key.Binding
	Next     key.Binding
	PrevDay  key.Binding
	NextDay  key.Binding
	Up       key.Binding
	Down     key.Binding
	Today    key.Binding
	Week     key.Binding
	Month    key.Binding
	Delete   key.Binding
	Palette  key.Binding
	Import   key.Binding
	Help     key.Binding
	Quit     key.Binding
	Submit   key.Binding
	Close    key.Binding
	ForceEnd key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Prev:     key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "previous week/month")),
		Next:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "next week/month")),
		PrevDay:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous day")),
		NextDay:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next day")),
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "previous activity")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next activity")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Week:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "week view")),
		Month:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "month view")),
		Delete:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete activity")),
		Palette:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command palette")),
		Import:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import schedule")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Submit:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "import pasted text")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		ForceEnd: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Today, k.Palette, k.Import, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.PrevDay, k.NextDay, k.Today},
		{k.Up, k.Down, k.Delete, k.Week, k.Month},
		{k.Palette, k.Import, k.Submit, k.Close, k.Help, k.Quit},
	}
}
