package model

import "time"

// EventType identifies the type of inbound platform event
type EventType string

const (
	// Session events
	EventPlayerJoined EventType = "player_joined"
	EventPlayerLeft   EventType = "player_left"
	EventPlayerChat   EventType = "player_chat"
	EventTeamChanged  EventType = "team_changed"
	EventAdminChanged EventType = "admin_changed"
	EventBallTouched  EventType = "ball_touched"

	// Match events
	EventTeamGoal     EventType = "team_goal"
	EventGameStarted  EventType = "game_started"
	EventGameStopped  EventType = "game_stopped"
	EventGamePaused   EventType = "game_paused"
	EventGameUnpaused EventType = "game_unpaused"

	// Internal events, produced by the runtime itself
	EventTaskDue  EventType = "task_due"
	EventDeferred EventType = "deferred"
)

// Event is a single inbound occurrence processed by the session loop
type Event struct {
	Type    EventType
	At      time.Time
	Payload any // Type-specific data
}

// PlayerJoinedPayload contains data for player joined events
type PlayerJoinedPayload struct {
	Session Session
}

// PlayerLeftPayload contains data for player left events
type PlayerLeftPayload struct {
	Session Session
}

// PlayerChatPayload contains data for chat events
type PlayerChatPayload struct {
	Session Session
	Message string
}

// TeamChangedPayload contains data for team changed events.
// By is nil when the host moved the player.
type TeamChangedPayload struct {
	Session Session
	By      *Session
}

// AdminChangedPayload contains data for platform admin flag changes
type AdminChangedPayload struct {
	Session Session
	By      *Session
}

// BallTouchedPayload contains data for ball touch events
type BallTouchedPayload struct {
	Session Session
}

// TeamGoalPayload contains data for goal events
type TeamGoalPayload struct {
	Team Team
}

// GameLifecyclePayload contains data for start/stop/pause/unpause events
type GameLifecyclePayload struct {
	By *Session
}

// TaskDuePayload names a periodic task whose interval elapsed
type TaskDuePayload struct {
	Task string
}

// DeferredPayload carries a delayed action to run on the loop
type DeferredPayload struct {
	Name string
	Run  func()
}
