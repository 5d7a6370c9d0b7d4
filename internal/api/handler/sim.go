package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mcoot/roomwarden/internal/api/request"
	"github.com/mcoot/roomwarden/internal/api/response"
	"github.com/mcoot/roomwarden/internal/model"
	"github.com/mcoot/roomwarden/internal/room/simroom"
)

// SimHandler drives the simulated room. Everything it does reaches the
// moderator as platform events, exactly as a real client would.
type SimHandler struct {
	room *simroom.Room
}

// NewSimHandler creates a new simulation handler
func NewSimHandler(room *simroom.Room) *SimHandler {
	return &SimHandler{room: room}
}

// Join handles POST /api/v1/sim/join
func (h *SimHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req request.JoinRequest
	if !decode(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}
	if req.Fingerprint == "" {
		req.Fingerprint = "sim-" + req.Name
	}

	s, err := h.room.Connect(req.Name, req.Fingerprint)
	if err != nil {
		WriteError(w, err)
		return
	}

	p := response.PlayerFromModel(s)
	p.Fingerprint = s.Fingerprint
	response.JSON(w, http.StatusCreated, p)
}

// Leave handles POST /api/v1/sim/leave
func (h *SimHandler) Leave(w http.ResponseWriter, r *http.Request) {
	var req request.SessionRequest
	if !decode(w, r, &req) {
		return
	}
	if _, err := h.room.Disconnect(model.SessionID(req.ID)); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Chat handles POST /api/v1/sim/chat
func (h *SimHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req request.ChatRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Message == "" {
		WriteError(w, NewInvalidRequestError("message is required"))
		return
	}
	if err := h.room.Say(model.SessionID(req.ID), req.Message); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Touch handles POST /api/v1/sim/touch
func (h *SimHandler) Touch(w http.ResponseWriter, r *http.Request) {
	var req request.SessionRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.room.Touch(model.SessionID(req.ID)); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Goal handles POST /api/v1/sim/goal
func (h *SimHandler) Goal(w http.ResponseWriter, r *http.Request) {
	var req request.GoalRequest
	if !decode(w, r, &req) {
		return
	}
	team, ok := model.ParseTeam(strings.ToLower(req.Team))
	if !ok || !team.Playing() {
		WriteError(w, NewInvalidRequestError("team must be red or blue"))
		return
	}
	if err := h.room.Goal(team); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Team handles POST /api/v1/sim/team
func (h *SimHandler) Team(w http.ResponseWriter, r *http.Request) {
	var req request.TeamRequest
	if !decode(w, r, &req) {
		return
	}
	team, ok := model.ParseTeam(strings.ToLower(req.Team))
	if !ok {
		WriteError(w, NewInvalidRequestError("team must be red, blue or spec"))
		return
	}
	by := model.SessionID(req.By)
	if by == 0 {
		by = model.SessionID(req.ID)
	}
	if err := h.room.MoveBy(model.SessionID(req.ID), team, by); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Start handles POST /api/v1/sim/start
func (h *SimHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.room.StartGame()
	response.NoContent(w)
}

// Stop handles POST /api/v1/sim/stop
func (h *SimHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if !h.room.Running() {
		WriteError(w, simroom.ErrNoGame)
		return
	}
	h.room.StopGame()
	response.NoContent(w)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return false
	}
	return true
}
