package response

import (
	"time"

	"github.com/mcoot/roomwarden/internal/model"
)

// Root is the liveness banner served at /
type Root struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// Health is the response for the health check
type Health struct {
	Status string `json:"status"`
}

// Player represents a connected participant in API responses
type Player struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Team        string `json:"team"`
	Admin       bool   `json:"admin"`
}

// PlayerFromModel converts a model.Session to a response Player
func PlayerFromModel(s model.Session) Player {
	return Player{
		ID:   int(s.ID),
		Name: s.Name,
		Team: s.Team.String(),
	}
}

// Score is the platform scoreboard of the live or last game
type Score struct {
	Red        int     `json:"red"`
	Blue       int     `json:"blue"`
	ScoreLimit int     `json:"score_limit"`
	TimeLimit  float64 `json:"time_limit"`
}

// MatchState describes the match lifecycle
type MatchState struct {
	State  string `json:"state"`
	Paused bool   `json:"paused"`
	Score  *Score `json:"score,omitempty"`
}

// Geo is the room's public listing location
type Geo struct {
	Code string  `json:"code"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Status is the response for the room status endpoint
type Status struct {
	Room       string     `json:"room"`
	Host       string     `json:"host"`
	Public     bool       `json:"public"`
	Geo        Geo        `json:"geo"`
	Players    int        `json:"players"`
	MaxPlayers int        `json:"max_players"`
	PlayerList []Player   `json:"player_list"`
	Match      MatchState `json:"match"`
}

// Club represents a club in API responses
type Club struct {
	Name    string   `json:"name"`
	Captain string   `json:"captain"`
	Members []string `json:"members"`
}

// ClubFromModel converts a model.Club to a response Club
func ClubFromModel(c model.Club) Club {
	return Club{
		Name:    c.Name,
		Captain: c.Captain,
		Members: c.Members,
	}
}

// PlayerStats represents lifetime counters in API responses
type PlayerStats struct {
	Name        string `json:"name"`
	Goals       int    `json:"goals"`
	Assists     int    `json:"assists"`
	OwnGoals    int    `json:"own_goals"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	MVPs        int    `json:"mvps"`
	GamesPlayed int    `json:"games_played"`
	WinRate     int    `json:"win_rate"`
}

// PlayerStatsFromModel converts a model.PlayerStats to a response PlayerStats
func PlayerStatsFromModel(p model.PlayerStats) PlayerStats {
	return PlayerStats{
		Name:        p.Name,
		Goals:       p.Goals,
		Assists:     p.Assists,
		OwnGoals:    p.OwnGoals,
		Wins:        p.Wins,
		Losses:      p.Losses,
		MVPs:        p.MVPs,
		GamesPlayed: p.GamesPlayed,
		WinRate:     p.WinRate(),
	}
}

// Match represents the running match in API responses
type Match struct {
	RedGoals    int      `json:"red_goals"`
	BlueGoals   int      `json:"blue_goals"`
	GoalScorers []string `json:"goal_scorers"`
	Assists     []string `json:"assists"`
	MVP         string   `json:"mvp,omitempty"`
}

// MatchFromModel converts a model.MatchStats to a response Match
func MatchFromModel(m model.MatchStats) Match {
	return Match{
		RedGoals:    m.RedGoals,
		BlueGoals:   m.BlueGoals,
		GoalScorers: m.GoalScorers,
		Assists:     m.Assists,
		MVP:         m.MVP,
	}
}

// Stats is the response for the stats endpoint
type Stats struct {
	Clubs        []Club        `json:"clubs"`
	Players      []PlayerStats `json:"players"`
	CurrentMatch *Match        `json:"current_match,omitempty"`
	SavedAdmins  int           `json:"saved_admins"`
	Owner        string        `json:"owner,omitempty"`
}
