package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/voiestad/f1-backend/internal/cutoff"
	"github.com/voiestad/f1-backend/internal/f1"
	"github.com/voiestad/f1-backend/internal/leaderboard"
	"github.com/voiestad/f1-backend/internal/persistence"
)

// Handlers serves the read-only endpoints.
type Handlers struct {
	board   *leaderboard.Aggregator
	gate    *cutoff.Gate
	cutoffs persistence.CutoffRepo
	seasons persistence.SeasonRepo
}

func NewHandlers(
	board *leaderboard.Aggregator,
	gate *cutoff.Gate,
	cutoffs persistence.CutoffRepo,
	seasons persistence.SeasonRepo,
) *Handlers {
	return &Handlers{board: board, gate: gate, cutoffs: cutoffs, seasons: seasons}
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"json_encoding_failed"}`, http.StatusInternalServerError)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		RequestID: requestID(r.Context()),
		Timestamp: time.Now().UTC(),
	})
}

// writeDomainError maps domain sentinels to HTTP statuses.
func (h *Handlers) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, f1.ErrNotFound):
		h.writeError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, f1.ErrNotConfigured):
		h.writeError(w, r, http.StatusNotFound, "not configured")
	default:
		h.writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// NotFound handles unknown routes.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	h.writeError(w, r, http.StatusNotFound, "the requested endpoint does not exist")
}

// Seasons lists the known seasons.
func (h *Handlers) Seasons(w http.ResponseWriter, r *http.Request) {
	years, err := h.seasons.Years(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"years": years})
}

// Leaderboard serves the season standings.
func (h *Handlers) Leaderboard(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearVar(w, r)
	if !ok {
		return
	}
	totals, err := h.board.Leaderboard(r.Context(), year)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"year":    year,
		"entries": totals,
	})
}

// CutoffRaces serves the season's races with their guessing deadlines.
func (h *Handlers) CutoffRaces(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearVar(w, r)
	if !ok {
		return
	}
	races, err := h.cutoffs.CutoffRaces(r.Context(), year)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"year":  year,
		"races": races,
	})
}

// YearTimeLeft serves the remaining season guessing time in seconds.
func (h *Handlers) YearTimeLeft(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearVar(w, r)
	if !ok {
		return
	}
	left, err := h.gate.TimeLeftYear(r.Context(), year)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"year":        year,
		"secondsLeft": int64(left.Seconds()),
		"open":        left > 0,
	})
}

// RaceTimeLeft serves the remaining race guessing time in seconds.
func (h *Handlers) RaceTimeLeft(w http.ResponseWriter, r *http.Request) {
	raceID, ok := h.raceVar(w, r)
	if !ok {
		return
	}
	left, err := h.gate.TimeLeftRace(r.Context(), raceID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"race":        raceID,
		"secondsLeft": int64(left.Seconds()),
		"open":        left > 0,
	})
}

// RaceStandings serves every guesser's total placement at a race.
func (h *Handlers) RaceStandings(w http.ResponseWriter, r *http.Request) {
	raceID, ok := h.raceVar(w, r)
	if !ok {
		return
	}
	totals, err := h.board.RaceStandings(r.Context(), raceID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"race":    raceID,
		"entries": totals,
	})
}

// RaceSummary serves one guesser's per-category snapshot at a race.
func (h *Handlers) RaceSummary(w http.ResponseWriter, r *http.Request) {
	raceID, ok := h.raceVar(w, r)
	if !ok {
		return
	}
	guesser, ok := h.guesserVar(w, r)
	if !ok {
		return
	}
	summary, err := h.board.Summary(r.Context(), raceID, guesser)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

// YearStartSummary serves one guesser's season-start snapshot.
func (h *Handlers) YearStartSummary(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearVar(w, r)
	if !ok {
		return
	}
	guesser, ok := h.guesserVar(w, r)
	if !ok {
		return
	}
	summary, err := h.board.YearStartSummary(r.Context(), year, guesser)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

// PointsSeries serves the guesser's total after each finished race.
func (h *Handlers) PointsSeries(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearVar(w, r)
	if !ok {
		return
	}
	guesser, ok := h.guesserVar(w, r)
	if !ok {
		return
	}
	series, err := h.board.PointsSeries(r.Context(), year, guesser)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"year":   year,
		"series": series,
	})
}

// Medals serves a guesser's medal tally.
func (h *Handlers) Medals(w http.ResponseWriter, r *http.Request) {
	guesser, ok := h.guesserVar(w, r)
	if !ok {
		return
	}
	medals, err := h.board.Medals(r.Context(), guesser)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, medals)
}

// PreviousPlacements serves a guesser's final season placements.
func (h *Handlers) PreviousPlacements(w http.ResponseWriter, r *http.Request) {
	guesser, ok := h.guesserVar(w, r)
	if !ok {
		return
	}
	placements, err := h.board.PreviousPlacements(r.Context(), guesser)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"placements": placements})
}

func (h *Handlers) yearVar(w http.ResponseWriter, r *http.Request) (f1.Year, bool) {
	raw := mux.Vars(r)["year"]
	year, err := strconv.Atoi(raw)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid year")
		return 0, false
	}
	return f1.Year(year), true
}

func (h *Handlers) raceVar(w http.ResponseWriter, r *http.Request) (f1.RaceID, bool) {
	raw := mux.Vars(r)["race"]
	id, err := strconv.Atoi(raw)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid race id")
		return 0, false
	}
	return f1.RaceID(id), true
}

func (h *Handlers) guesserVar(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := mux.Vars(r)["guesser"]
	id, err := uuid.Parse(raw)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid guesser id")
		return uuid.Nil, false
	}
	return id, true
}
