package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sandeepkv93/weekgrid/internal/httpserver/deps"
	"github.com/sandeepkv93/weekgrid/internal/logger"
	"github.com/sandeepkv93/weekgrid/internal/model"
	"github.com/sandeepkv93/weekgrid/internal/planner"
)

// activityRequest accepts either a stored activity (start and end in epoch
// milliseconds) or, when From is set, an editor style draft of a date plus
// HH:MM clock times.
type activityRequest struct {
	model.Activity
	Date string `json:"date,omitempty"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

func (req activityRequest) isDraft() bool {
	return strings.TrimSpace(req.From) != ""
}

func (req activityRequest) draft(p *planner.Planner) (planner.Draft, error) {
	date := p.Today()
	if req.Date != "" {
		d, err := time.ParseInLocation(time.DateOnly, req.Date, p.Location())
		if err != nil {
			return planner.Draft{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", model.ErrValidation, req.Date)
		}
		date = d
	}
	return planner.Draft{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		From:        req.From,
		To:          req.To,
		Color:       req.Color,
		Weekdays:    req.Recurrence,
	}, nil
}

func decodeActivity(r *http.Request) (activityRequest, error) {
	var req activityRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return activityRequest{}, fmt.Errorf("%w: %v", model.ErrFormat, err)
	}
	return req, nil
}

func ListActivities(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Planner.Activities())
	}
}

func GetActivity(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := d.Planner.Activity(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func CreateActivity(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeActivity(r)
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		var created model.Activity
		if req.isDraft() {
			draft, derr := req.draft(d.Planner)
			if derr != nil {
				writeError(w, r, d, derr)
				return
			}
			created, err = d.Planner.Create(r.Context(), draft)
		} else {
			created, err = d.Planner.Add(r.Context(), req.Activity)
		}
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		d.Logger.Info("activity created", logger.String("id", created.ID))
		w.Header().Set("Location", "/api/activities/"+created.ID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func UpdateActivity(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		req, err := decodeActivity(r)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		if req.ID != "" && req.ID != id {
			badRequest(w, "body id does not match path")
			return
		}

		if req.isDraft() {
			draft, derr := req.draft(d.Planner)
			if derr != nil {
				writeError(w, r, d, derr)
				return
			}
			_, err = d.Planner.Edit(r.Context(), id, draft)
		} else {
			a := req.Activity
			a.ID = id
			err = d.Planner.Replace(r.Context(), a)
		}
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		// Answer with what the store kept, which normalizes recurrence and color.
		updated, err := d.Planner.Activity(id)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// DeleteActivity answers 204 for unknown ids too; removal is idempotent.
func DeleteActivity(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Planner.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func ClearActivities(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Planner.Clear(r.Context()); err != nil {
			writeError(w, r, d, err)
			return
		}
		d.Logger.Warn("all activities cleared")
		w.WriteHeader(http.StatusNoContent)
	}
}

type previewResponse struct {
	ID   string      `json:"id"`
	Next []time.Time `json:"next"`
}

func PreviewActivity(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := 5
		if raw := r.URL.Query().Get("count"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 || n > 100 {
				badRequest(w, "count must be between 1 and 100")
				return
			}
			count = n
		}
		id := chi.URLParam(r, "id")
		next, err := d.Planner.Preview(id, count)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		if next == nil {
			next = []time.Time{}
		}
		writeJSON(w, http.StatusOK, previewResponse{ID: id, Next: next})
	}
}
