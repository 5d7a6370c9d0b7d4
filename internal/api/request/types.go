package request

// JoinRequest is the request body for connecting a simulated participant
type JoinRequest struct {
	Name        string `json:"name"`
	Fingerprint string `json:"fingerprint"`
}

// SessionRequest names a connected participant (leave, touch)
type SessionRequest struct {
	ID int `json:"id"`
}

// ChatRequest is a chat line typed by a participant
type ChatRequest struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}

// GoalRequest credits a goal to a team ("red" or "blue")
type GoalRequest struct {
	Team string `json:"team"`
}

// TeamRequest moves a participant. By is the participant who moved them;
// zero means they moved themselves.
type TeamRequest struct {
	ID   int    `json:"id"`
	Team string `json:"team"`
	By   int    `json:"by,omitempty"`
}
