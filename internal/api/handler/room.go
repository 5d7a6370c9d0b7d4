package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/mcoot/roomwarden/internal/api/response"
	"github.com/mcoot/roomwarden/internal/dependencies/clock"
	"github.com/mcoot/roomwarden/internal/services/match"
	"github.com/mcoot/roomwarden/internal/session"
)

// Looper runs a function on the session loop
type Looper interface {
	Do(ctx context.Context, fn func(*session.State)) error
}

// RoomHandler serves read-only views of the moderator state
type RoomHandler struct {
	loop      Looper
	clock     clock.Clock
	startedAt time.Time
	version   string
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(loop Looper, clk clock.Clock, startedAt time.Time, version string) *RoomHandler {
	return &RoomHandler{
		loop:      loop,
		clock:     clk,
		startedAt: startedAt,
		version:   version,
	}
}

// Root handles GET /
func (h *RoomHandler) Root(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	response.JSON(w, http.StatusOK, response.Root{
		Status:    "online",
		Message:   "Room moderator is running",
		Uptime:    now.Sub(h.startedAt).Truncate(time.Second).String(),
		Timestamp: now.UTC(),
		Version:   h.version,
	})
}

// Health handles GET /api/v1/health
func (h *RoomHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}

// Status handles GET /api/v1/status
func (h *RoomHandler) Status(w http.ResponseWriter, r *http.Request) {
	var resp response.Status
	err := h.loop.Do(r.Context(), func(st *session.State) {
		sessions := st.Room.Sessions()
		resp.Room = st.Info.RoomName
		resp.Host = st.Info.HostName
		resp.Public = st.Info.Public
		resp.Geo = response.Geo{
			Code: st.Info.Geo.Code,
			Lat:  st.Info.Geo.Lat,
			Lon:  st.Info.Geo.Lon,
		}
		resp.Players = len(sessions)
		resp.MaxPlayers = st.Room.MaxPlayers()
		resp.PlayerList = make([]response.Player, 0, len(sessions))
		for _, s := range sessions {
			p := response.PlayerFromModel(s)
			p.Admin = st.Authority.IsAdmin(s)
			resp.PlayerList = append(resp.PlayerList, p)
		}
		resp.Match = response.MatchState{
			State:  string(st.Match.State()),
			Paused: st.Match.Paused(),
		}
		if scores, ok := st.Room.Scores(); ok {
			resp.Match.Score = &response.Score{
				Red:        scores.Red,
				Blue:       scores.Blue,
				ScoreLimit: scores.ScoreLimit,
				TimeLimit:  scores.TimeLimit,
			}
		}
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// Stats handles GET /api/v1/stats
func (h *RoomHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var resp response.Stats
	err := h.loop.Do(r.Context(), func(st *session.State) {
		clubs := st.Clubs.Clubs()
		resp.Clubs = make([]response.Club, 0, len(clubs))
		for _, c := range clubs {
			resp.Clubs = append(resp.Clubs, response.ClubFromModel(c))
		}

		players := st.Stats.All()
		resp.Players = make([]response.PlayerStats, 0, len(players))
		for _, p := range players {
			resp.Players = append(resp.Players, response.PlayerStatsFromModel(p))
		}

		if st.Match.State() == match.StateInProgress {
			m := response.MatchFromModel(st.Match.Current())
			resp.CurrentMatch = &m
		}

		snap := st.Authority.Snapshot()
		resp.SavedAdmins = len(snap.SavedAdmins)
		resp.Owner = snap.OwnerName
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}
