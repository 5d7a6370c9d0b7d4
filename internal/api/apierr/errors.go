package apierr

import (
	"errors"
	"net/http"

	"github.com/mcoot/roomwarden/internal/api/response"
	"github.com/mcoot/roomwarden/internal/model"
	"github.com/mcoot/roomwarden/internal/room/simroom"
	"github.com/mcoot/roomwarden/internal/session"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeRoomFull           = "ROOM_FULL"
	CodeBanned             = "BANNED"
	CodeNoGame             = "NO_GAME"
	CodeRoomClosed         = "ROOM_CLOSED"
	CodeSimulationDisabled = "SIMULATION_DISABLED"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	response.JSON(w, he.status, ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrInvalidArguments):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}
	case errors.Is(err, simroom.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room is full"}}
	case errors.Is(err, simroom.ErrBanned):
		return &httpError{http.StatusForbidden, APIError{CodeBanned, "Connection is banned"}}
	case errors.Is(err, simroom.ErrNoGame):
		return &httpError{http.StatusConflict, APIError{CodeNoGame, "No game in progress"}}
	case errors.Is(err, simroom.ErrClosed):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeRoomClosed, "Room is closed"}}
	case errors.Is(err, session.ErrStopped):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeServiceUnavailable, "Moderator is not running"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewSimulationDisabledError is returned by the simulation routes when they are switched off
func NewSimulationDisabledError() error {
	return &httpError{http.StatusNotFound, APIError{CodeSimulationDisabled, "Simulation API is disabled"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
