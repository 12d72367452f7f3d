package deps

import (
	"time"

	"github.com/sandeepkv93/weekgrid/internal/logger"
	"github.com/sandeepkv93/weekgrid/internal/planner"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	TimeNow   func() time.Time // for testing, defaults to time.Now
	Planner   *planner.Planner
	// MaxImportBytes caps the body of POST /api/import.
	MaxImportBytes int64
}
