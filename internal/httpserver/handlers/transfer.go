package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sandeepkv93/weekgrid/internal/httpserver/deps"
	"github.com/sandeepkv93/weekgrid/internal/ingest"
	"github.com/sandeepkv93/weekgrid/internal/window"
)

const defaultMaxImportBytes = 1 << 20

type importResponse struct {
	EventsAdded int    `json:"eventsAdded"`
	Skipped     int    `json:"skipped"`
	Shape       string `json:"shape"`
}

// Import normalizes the raw body against the week containing ?date=.
func Import(d deps.Deps) http.HandlerFunc {
	limit := d.MaxImportBytes
	if limit <= 0 {
		limit = defaultMaxImportBytes
	}
	return func(w http.ResponseWriter, r *http.Request) {
		anchor, ok := dateParam(r, "date", d.Planner)
		if !ok {
			badRequest(w, "date must be YYYY-MM-DD")
			return
		}
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: fmt.Sprintf("payload exceeds %d bytes", limit)})
				return
			}
			badRequest(w, "could not read body")
			return
		}

		res, err := d.Planner.Import(r.Context(), raw, window.Week(anchor))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, importResponse{
			EventsAdded: res.Added(),
			Skipped:     res.Skipped,
			Shape:       res.Shape.String(),
		})
	}
}

func ExportICS(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := d.Planner.ExportICS()
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="weekgrid.ics"`)
		_, _ = w.Write(data)
	}
}

// Prompt serves the instructions users paste into an AI assistant to get a
// schedule back in the list format.
func Prompt(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, ingest.PromptTemplate)
	}
}
