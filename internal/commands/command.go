package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/weekgrid/internal/ingest"
	"github.com/sandeepkv93/weekgrid/internal/model"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeDelete  Type = "delete"
	TypeClear   Type = "clear"
	TypeImport  Type = "import"
	TypeWeek    Type = "week"
	TypeMonth   Type = "month"
	TypePreview Type = "preview"
	TypeExport  Type = "export"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// AddArgs describes "add <title> <HH:MM[-HH:MM]> [days...] [date:YYYY-MM-DD] [color:name]".
// An empty Weekdays makes a one-off activity on Date, or on the focused day
// when Date is empty.
type AddArgs struct {
	Title    string
	From     string
	To       string
	Weekdays []int
	Date     string
	Color    string
}

type DeleteArgs struct {
	ID string
}

type PathArgs struct {
	Path string
}

type Direction string

const (
	Next  Direction = "next"
	Prev  Direction = "prev"
	Today Direction = "today"
)

type NavArgs struct {
	Direction Direction
}

type PreviewArgs struct {
	ID    string
	Count int
}

const DefaultPreviewCount = 5

type Command struct {
	Type    Type
	Raw     string
	Add     *AddArgs
	Delete  *DeleteArgs
	Path    *PathArgs
	Nav     *NavArgs
	Preview *PreviewArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDelete:
		if len(args) != 1 {
			return Command{}, invalid("delete requires exactly one id")
		}
		return Command{Type: TypeDelete, Raw: input, Delete: &DeleteArgs{ID: args[0]}}, nil
	case TypeClear:
		if len(args) != 0 {
			return Command{}, invalid("clear takes no arguments")
		}
		return Command{Type: TypeClear, Raw: input}, nil
	case TypeImport, TypeExport:
		if len(args) == 0 {
			return Command{}, invalid("%s requires a file path", head)
		}
		return Command{Type: Type(head), Raw: input, Path: &PathArgs{Path: strings.Join(args, " ")}}, nil
	case TypeWeek, TypeMonth:
		return parseNav(input, Type(head), args)
	case TypePreview:
		return parsePreview(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	at := -1
	for i, arg := range args {
		if looksLikeTimeRange(arg) {
			at = i
			break
		}
	}
	if at < 0 {
		return Command{}, invalid("add requires a time such as 09:00-10:30")
	}
	title := strings.TrimSpace(strings.Join(args[:at], " "))
	if title == "" {
		return Command{}, invalid("add requires a title")
	}

	out := AddArgs{Title: title}
	from, to, _ := strings.Cut(args[at], "-")
	if _, err := model.ParseTimeOfDay(from); err != nil {
		return Command{}, invalid("bad start time %q", from)
	}
	out.From = from
	if to != "" {
		if _, err := model.ParseTimeOfDay(to); err != nil {
			return Command{}, invalid("bad end time %q", to)
		}
		out.To = to
	}

	seen := map[int]bool{}
	for _, arg := range args[at+1:] {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "date:"):
			date := strings.TrimSpace(arg[len("date:"):])
			if _, err := time.Parse(time.DateOnly, date); err != nil {
				return Command{}, invalid("bad date %q", date)
			}
			out.Date = date
		case strings.HasPrefix(lower, "color:"):
			out.Color = strings.TrimSpace(arg[len("color:"):])
		default:
			for _, tok := range strings.Split(arg, ",") {
				if tok == "" {
					continue
				}
				d, ok := parseDay(tok)
				if !ok {
					return Command{}, invalid("unknown weekday %q", tok)
				}
				if !seen[d] {
					seen[d] = true
					out.Weekdays = append(out.Weekdays, d)
				}
			}
		}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func looksLikeTimeRange(s string) bool {
	from, _, _ := strings.Cut(s, "-")
	_, err := model.ParseTimeOfDay(from)
	if err == nil {
		return true
	}
	// Malformed clock values still mark the boundary so the error names them.
	return len(from) > 0 && len(from) <= 5 && strings.Contains(from, ":") && from[0] >= '0' && from[0] <= '9'
}

var shortWeekdays = map[string]int{
	"lun": 1, "mar": 2, "mie": 3, "mié": 3, "jue": 4, "vie": 5, "sab": 6, "sáb": 6, "dom": 0,
}

// parseDay accepts 0-6 (Sunday first), Spanish names and their three letter
// abbreviations.
func parseDay(tok string) (int, bool) {
	if n, err := strconv.Atoi(tok); err == nil {
		return n, n >= 0 && n <= 6
	}
	if d, ok := ingest.ParseWeekday(tok); ok {
		return int(d), true
	}
	d, ok := shortWeekdays[strings.ToLower(tok)]
	return d, ok
}

func parseNav(raw string, kind Type, args []string) (Command, error) {
	dir := Today
	if len(args) > 1 {
		return Command{}, invalid("%s takes next, prev or today", kind)
	}
	if len(args) == 1 {
		dir = Direction(strings.ToLower(args[0]))
	}
	switch dir {
	case Next, Prev, Today:
	default:
		return Command{}, invalid("%s takes next, prev or today, got %q", kind, args[0])
	}
	return Command{Type: kind, Raw: raw, Nav: &NavArgs{Direction: dir}}, nil
}

func parsePreview(raw string, args []string) (Command, error) {
	if len(args) == 0 || len(args) > 2 {
		return Command{}, invalid("preview requires an id and an optional count")
	}
	out := PreviewArgs{ID: args[0], Count: DefaultPreviewCount}
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return Command{}, invalid("preview count must be a positive number")
		}
		out.Count = n
	}
	return Command{Type: TypePreview, Raw: raw, Preview: &out}, nil
}
