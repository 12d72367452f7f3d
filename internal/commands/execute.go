package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add     func(AddArgs) (Result, error)
	Delete  func(DeleteArgs) (Result, error)
	Clear   func() (Result, error)
	Import  func(PathArgs) (Result, error)
	Export  func(PathArgs) (Result, error)
	Week    func(NavArgs) (Result, error)
	Month   func(NavArgs) (Result, error)
	Preview func(PreviewArgs) (Result, error)
}

func missing(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, missing("delete")
		}
		return handlers.Delete(*cmd.Delete)
	case TypeClear:
		if handlers.Clear == nil {
			return Result{}, missing("clear")
		}
		return handlers.Clear()
	case TypeImport:
		if handlers.Import == nil {
			return Result{}, missing("import")
		}
		return handlers.Import(*cmd.Path)
	case TypeExport:
		if handlers.Export == nil {
			return Result{}, missing("export")
		}
		return handlers.Export(*cmd.Path)
	case TypeWeek:
		if handlers.Week == nil {
			return Result{}, missing("week")
		}
		return handlers.Week(*cmd.Nav)
	case TypeMonth:
		if handlers.Month == nil {
			return Result{}, missing("month")
		}
		return handlers.Month(*cmd.Nav)
	case TypePreview:
		if handlers.Preview == nil {
			return Result{}, missing("preview")
		}
		return handlers.Preview(*cmd.Preview)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
