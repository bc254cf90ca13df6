package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"matchday/internal/api/live"
	"matchday/internal/api/respond"
	"matchday/internal/match"
)

const maxTickDelay = 10 * time.Second

// createMatchRequest is the POST /api/v1/matches body. All fields are
// optional; omitted fields fall back to the built-in squads and rules.
type createMatchRequest struct {
	HomeTeam    *match.Team `json:"home_team,omitempty"`
	AwayTeam    *match.Team `json:"away_team,omitempty"`
	Seed        *uint64     `json:"seed,omitempty"`
	TieBreaker  string      `json:"tie_breaker,omitempty"`
	TickDelayMS int         `json:"tick_delay_ms,omitempty"`
}

// matchSummary is the list-view shape for both live and archived matches.
type matchSummary struct {
	ID        uuid.UUID `json:"id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	HomeScore int       `json:"home_score"`
	AwayScore int       `json:"away_score"`
	Time      string    `json:"time,omitempty"`
	Finished  bool      `json:"finished"`
	Live      bool      `json:"live"`
}

// actionView is one timeline entry in the actions endpoint.
type actionView struct {
	Time      string   `json:"time"`
	Team      string   `json:"team"`
	Outcome   string   `json:"outcome"`
	UseVAR    bool     `json:"use_var"`
	Scorer    string   `json:"scorer,omitempty"`
	Assist    string   `json:"assist,omitempty"`
	Narration []string `json:"narration"`
}

// CreateMatch starts a new simulation.
// @Summary Start a match simulation
// @Description Starts a simulation with optional custom squads, seed, tie breaker, and tick delay.
// @Tags matches
// @Accept json
// @Produce json
// @Success 202 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/matches [post]
func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
			return
		}
	}

	tickDelay := time.Duration(req.TickDelayMS) * time.Millisecond
	if tickDelay < 0 || tickDelay > maxTickDelay {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "tick_delay_ms out of range")
		return
	}

	run, err := h.manager.Start(live.StartOptions{
		HomeTeam:   req.HomeTeam,
		AwayTeam:   req.AwayTeam,
		Seed:       req.Seed,
		TieBreaker: req.TieBreaker,
		TickDelay:  tickDelay,
	})
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "BAD_REQUEST", "Could not start match", err.Error())
		return
	}

	respond.WriteJSONObject(w, http.StatusAccepted, map[string]interface{}{
		"id":     run.ID,
		"stream": "/api/v1/matches/" + run.ID.String() + "/stream",
	})
}

// ListMatches returns live matches plus recently archived ones.
// @Summary List matches
// @Description Returns in-memory live matches and, when a database is configured, recently archived ones.
// @Tags matches
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/matches [get]
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	lives := h.manager.List()
	out := make([]matchSummary, 0, len(lives))
	seen := make(map[uuid.UUID]bool, len(lives))
	for _, run := range lives {
		m := run.Snapshot()
		home, away := m.Score()
		out = append(out, matchSummary{
			ID:        m.ID,
			HomeTeam:  m.Home().FullName,
			AwayTeam:  m.Away().FullName,
			HomeScore: home,
			AwayScore: away,
			Time:      m.Time.String(),
			Finished:  m.Finished,
			Live:      true,
		})
		seen[m.ID] = true
	}

	if h.archive != nil {
		archived, err := h.archive.List(r.Context(), 50)
		if err != nil {
			respond.WriteErrorDetail(w, http.StatusInternalServerError, "INTERNAL", "Could not list archive", err.Error())
			return
		}
		for _, s := range archived {
			if seen[s.ID] {
				continue
			}
			out = append(out, matchSummary{
				ID:        s.ID,
				HomeTeam:  s.HomeTeam,
				AwayTeam:  s.AwayTeam,
				HomeScore: s.HomeScore,
				AwayScore: s.AwayScore,
				Finished:  true,
			})
		}
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"matches": out,
		"count":   len(out),
	})
}

// GetMatch returns the full state of one match.
// @Summary Match state
// @Description Returns the full state of a live or archived match.
// @Tags matches
// @Produce json
// @Success 200 {object} match.Match
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/matches/{id} [get]
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	m, ok := h.lookup(w, r)
	if !ok {
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, m)
}

// GetMatchActions returns the narrated timeline of a match.
// @Summary Match actions
// @Description Returns each action with its resolved narration phrases.
// @Tags matches
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/matches/{id}/actions [get]
func (h *Handler) GetMatchActions(w http.ResponseWriter, r *http.Request) {
	m, ok := h.lookup(w, r)
	if !ok {
		return
	}

	views := make([]actionView, 0, len(m.Actions))
	for i := range m.Actions {
		a := &m.Actions[i]
		v := actionView{
			Time:      a.Time.String(),
			Team:      m.Teams[a.TeamAtk].ShortName,
			Outcome:   string(a.Outcome),
			UseVAR:    a.UseVAR,
			Narration: a.Narration(),
		}
		if a.Scorer != nil {
			v.Scorer = a.PlayerName(*a.Scorer)
		}
		if a.Assist != nil {
			v.Assist = a.PlayerName(*a.Assist)
		}
		views = append(views, v)
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"match_id": m.ID,
		"actions":  views,
		"count":    len(views),
	})
}

// GetMatchStats returns the per-team statistics projection.
// @Summary Match statistics
// @Description Returns score, attempts, goals, possession, and player evaluations per team.
// @Tags matches
// @Produce json
// @Success 200 {object} match.Stats
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/matches/{id}/stats [get]
func (h *Handler) GetMatchStats(w http.ResponseWriter, r *http.Request) {
	m, ok := h.lookup(w, r)
	if !ok {
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, match.ComputeStats(m))
}

// StreamMatch upgrades to a websocket and streams live match events.
// @Summary Live match stream
// @Description Websocket stream of minute and action events, with replay of earlier events.
// @Tags matches
// @Success 101
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/matches/{id}/stream [get]
func (h *Handler) StreamMatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid match ID")
		return
	}
	run, ok := h.manager.Get(id)
	if !ok {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "No live match with this ID")
		return
	}
	run.Hub().ServeWS(w, r)
}

// lookup resolves the {id} parameter against live matches first, then the
// archive. Writes the error response itself when nothing is found.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*match.Match, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid match ID")
		return nil, false
	}

	if run, ok := h.manager.Get(id); ok {
		return run.Snapshot(), true
	}

	if h.archive != nil {
		m, err := h.archive.Load(r.Context(), id)
		switch {
		case err == nil:
			return m, true
		case errors.Is(err, pgx.ErrNoRows):
			// Fall through to 404.
		default:
			respond.WriteErrorDetail(w, http.StatusInternalServerError, "INTERNAL", "Could not load match", err.Error())
			return nil, false
		}
	}

	respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Match not found")
	return nil, false
}
