package model

// PlayerStats holds lifetime counters for a display name. Never reset.
type PlayerStats struct {
	Name        string
	Goals       int
	Assists     int
	OwnGoals    int
	Wins        int
	Losses      int
	MVPs        int
	GamesPlayed int
}

// WinRate returns wins as a whole percentage of games played
func (p PlayerStats) WinRate() int {
	if p.GamesPlayed == 0 {
		return 0
	}
	return p.Wins * 100 / p.GamesPlayed
}

// MatchStats tracks the match currently in progress
type MatchStats struct {
	RedGoals    int
	BlueGoals   int
	GoalScorers []string // one entry per goal, duplicates allowed
	Assists     []string
	MVP         string // empty when none
}

// GoalsBy counts the goals credited to name in this match
func (m MatchStats) GoalsBy(name string) int {
	return count(m.GoalScorers, name)
}

// AssistsBy counts the assists credited to name in this match
func (m MatchStats) AssistsBy(name string) int {
	return count(m.Assists, name)
}

// Score returns the goal counter for a playing team
func (m MatchStats) Score(team Team) int {
	switch team {
	case TeamRed:
		return m.RedGoals
	case TeamBlue:
		return m.BlueGoals
	}
	return 0
}

func count(names []string, name string) int {
	n := 0
	for _, s := range names {
		if s == name {
			n++
		}
	}
	return n
}
