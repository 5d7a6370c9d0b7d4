// Package match attributes goals, assists and MVPs during live play.
package match

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/mcoot/roomwarden/internal/model"
	"github.com/mcoot/roomwarden/internal/notify"
	"github.com/mcoot/roomwarden/internal/room"
	"github.com/mcoot/roomwarden/internal/services/stats"
	"github.com/mcoot/roomwarden/internal/services/touches"
)

// State is the match lifecycle state
type State string

const (
	StateIdle       State = "idle"
	StateInProgress State = "in_progress"
)

// Platform is the part of the room the engine reads and announces to
type Platform interface {
	room.SessionLister
	room.Announcer
	Scores() (room.Scores, bool)
}

// Config holds engine settings
type Config struct {
	// ResetTouchesOnGameStart clears the touch history when a match begins
	ResetTouchesOnGameStart bool
}

// GoalResult describes how a goal was attributed
type GoalResult struct {
	Team     model.Team
	Scorer   string // empty when no touch was attributable
	Assister string
	OwnGoal  bool
	Red      int
	Blue     int
}

// StopResult describes a finished match
type StopResult struct {
	Scored bool // platform scores were available
	Scores room.Scores
	Winner model.Team // TeamSpectator on a tie
	MVP    string
	Match  model.MatchStats
}

// Engine turns platform match events into stats. It is owned by the session
// loop and is not safe for concurrent use.
type Engine struct {
	cfg       Config
	platform  Platform
	touches   *touches.Tracker
	book      *stats.Book
	publisher notify.Publisher
	logger    *slog.Logger

	state   State
	paused  bool
	current model.MatchStats
	last    *model.MatchStats
}

// New creates an idle Engine
func New(
	cfg Config,
	platform Platform,
	tracker *touches.Tracker,
	book *stats.Book,
	publisher notify.Publisher,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		cfg:       cfg,
		platform:  platform,
		touches:   tracker,
		book:      book,
		publisher: publisher,
		logger:    logger.With(slog.String("component", "match")),
		state:     StateIdle,
	}
}

// State returns the lifecycle state
func (e *Engine) State() State {
	return e.state
}

// Paused reports whether the running match is paused
func (e *Engine) Paused() bool {
	return e.paused
}

// Current returns a copy of the running match stats
func (e *Engine) Current() model.MatchStats {
	return cloneMatch(e.current)
}

// LastMatch returns the stats of the most recently finished match
func (e *Engine) LastMatch() (model.MatchStats, bool) {
	if e.last == nil {
		return model.MatchStats{}, false
	}
	return cloneMatch(*e.last), true
}

// RecordTouch forwards a ball touch to the tracker
func (e *Engine) RecordTouch(s model.Session) {
	e.touches.Record(s)
}

// OnGameStart resets the running match
func (e *Engine) OnGameStart(by *model.Session) {
	e.current = model.MatchStats{}
	e.state = StateInProgress
	e.paused = false
	if e.cfg.ResetTouchesOnGameStart {
		e.touches.Reset()
	}

	red := room.OnTeam(e.platform, model.TeamRed)
	blue := room.OnTeam(e.platform, model.TeamBlue)

	e.logger.Info("match started",
		slog.Int("red_players", len(red)),
		slog.Int("blue_players", len(blue)))
	e.platform.Announce(model.Broadcast("🎮 Game started! Good luck and have fun!", model.ColorSuccess, model.StyleBold))
	e.publisher.Publish(model.Notification{
		Kind:        model.KindMatch,
		Title:       "🎮 Game Started",
		Description: startedBy(by),
		Color:       model.ColorSuccess,
		Fields: []model.NotificationField{
			{Name: "🔴 Red", Value: orNone(room.Names(red)), Inline: true},
			{Name: "🔵 Blue", Value: orNone(room.Names(blue)), Inline: true},
		},
	})
}

// OnGoal attributes a goal for team from the recent touch history.
// The team's counter always increments, even when nobody can be credited.
func (e *Engine) OnGoal(team model.Team) GoalResult {
	result := GoalResult{Team: team}
	recent := e.touches.Recent()

	scorer, idx, found := e.firstOnTeam(recent)
	if found {
		result.Scorer = scorer.Name
		if scorer.Team == team {
			e.current.GoalScorers = append(e.current.GoalScorers, scorer.Name)
			e.book.Update(scorer.Name, func(p *model.PlayerStats) { p.Goals++ })

			if assister, ok := e.assistFor(scorer, recent[idx+1:]); ok {
				result.Assister = assister.Name
				e.current.Assists = append(e.current.Assists, assister.Name)
				e.book.Update(assister.Name, func(p *model.PlayerStats) { p.Assists++ })
			}
		} else {
			result.OwnGoal = true
			e.book.Update(scorer.Name, func(p *model.PlayerStats) { p.OwnGoals++ })
		}
	}

	switch team {
	case model.TeamRed:
		e.current.RedGoals++
	case model.TeamBlue:
		e.current.BlueGoals++
	}
	result.Red, result.Blue = e.current.RedGoals, e.current.BlueGoals

	e.logger.Info("goal",
		slog.String("team", team.String()),
		slog.String("scorer", result.Scorer),
		slog.String("assist", result.Assister),
		slog.Bool("own_goal", result.OwnGoal),
		slog.Int("red", result.Red),
		slog.Int("blue", result.Blue))
	e.announceGoal(result)
	e.publishGoal(result)
	return result
}

// OnGameStop settles wins, losses and the MVP, then clears the running match
func (e *Engine) OnGameStop(by *model.Session) StopResult {
	result := StopResult{Winner: model.TeamSpectator}
	participants := room.Participants(e.platform)

	if scores, ok := e.platform.Scores(); ok {
		result.Scored = true
		result.Scores = scores
		switch {
		case scores.Red > scores.Blue:
			result.Winner = model.TeamRed
		case scores.Blue > scores.Red:
			result.Winner = model.TeamBlue
		}
		for _, p := range participants {
			e.book.Update(p.Name, func(st *model.PlayerStats) {
				st.GamesPlayed++
				if result.Winner == model.TeamSpectator {
					return
				}
				if p.Team == result.Winner {
					st.Wins++
				} else {
					st.Losses++
				}
			})
		}
	}

	if mvp, ok := e.DetermineMVP(participants); ok {
		result.MVP = mvp
		e.current.MVP = mvp
		e.book.Update(mvp, func(p *model.PlayerStats) { p.MVPs++ })
		goals, assists := e.current.GoalsBy(mvp), e.current.AssistsBy(mvp)
		e.platform.Announce(model.Broadcast(
			fmt.Sprintf("🏆 MVP: %s (%s, %s)", mvp, plural(goals, "goal"), plural(assists, "assist")),
			model.ColorGold, model.StyleBold))
	}

	result.Match = cloneMatch(e.current)
	e.logger.Info("match stopped",
		slog.Bool("scored", result.Scored),
		slog.String("winner", result.Winner.String()),
		slog.String("mvp", result.MVP),
		slog.Int("participants", len(participants)))
	e.announceStop(result)
	e.publishStop(result, by)

	last := result.Match
	e.last = &last
	e.current = model.MatchStats{}
	e.state = StateIdle
	e.paused = false
	return result
}

// OnPause marks the running match paused
func (e *Engine) OnPause(by *model.Session) {
	e.paused = true
	e.platform.Announce(model.Broadcast("⏸️ Game paused"+byName(by), model.ColorWarning, model.StyleNormal))
}

// OnUnpause marks the running match resumed
func (e *Engine) OnUnpause(by *model.Session) {
	e.paused = false
	e.platform.Announce(model.Broadcast("▶️ Game resumed"+byName(by), model.ColorSuccess, model.StyleNormal))
}

// DetermineMVP picks the participant with the highest 2*goals+assists in the
// running match. The first participant wins ties; nobody wins with zero.
func (e *Engine) DetermineMVP(participants []model.Session) (string, bool) {
	best, bestScore := "", 0
	for _, p := range participants {
		score := 2*e.current.GoalsBy(p.Name) + e.current.AssistsBy(p.Name)
		if score > bestScore {
			best, bestScore = p.Name, score
		}
	}
	return best, bestScore > 0
}

// firstOnTeam finds the most recent toucher who is still connected and playing
func (e *Engine) firstOnTeam(recent []model.Touch) (model.Session, int, bool) {
	for i, t := range recent {
		s, ok := e.platform.Session(t.Session.ID)
		if ok && s.Team.Playing() {
			return s, i, true
		}
	}
	return model.Session{}, -1, false
}

// assistFor finds the next toucher after the scorer who played for the same team
func (e *Engine) assistFor(scorer model.Session, rest []model.Touch) (model.Session, bool) {
	for _, t := range rest {
		if t.Session.ID == scorer.ID {
			continue
		}
		s, ok := e.platform.Session(t.Session.ID)
		if ok && s.Team == scorer.Team {
			return s, true
		}
	}
	return model.Session{}, false
}

func (e *Engine) announceGoal(r GoalResult) {
	teamName := strings.ToUpper(r.Team.String())
	switch {
	case r.Scorer == "":
		e.platform.Announce(model.Broadcast(fmt.Sprintf("⚽ GOAL for %s!", teamName), teamColor(r.Team), model.StyleBold))
	case r.OwnGoal:
		e.platform.Announce(model.Broadcast(fmt.Sprintf("😬 OWN GOAL by %s!", r.Scorer), model.ColorOrange, model.StyleBold))
	default:
		e.platform.Announce(model.Broadcast(fmt.Sprintf("⚽ GOAL! %s scores for %s!", r.Scorer, teamName), teamColor(r.Team), model.StyleBold))
		if r.Assister != "" {
			e.platform.Announce(model.Broadcast(fmt.Sprintf("🅰️ Assist: %s", r.Assister), model.ColorInfo, model.StyleNormal))
		}
	}
	e.platform.Announce(model.Broadcast(fmt.Sprintf("🔴 %d - %d 🔵", r.Red, r.Blue), model.ColorMuted, model.StyleSmall))
}

func (e *Engine) publishGoal(r GoalResult) {
	title := "⚽ Goal!"
	desc := fmt.Sprintf("Goal for %s", strings.ToUpper(r.Team.String()))
	switch {
	case r.OwnGoal:
		title = "😬 Own Goal"
		desc = fmt.Sprintf("%s put it into their own net", r.Scorer)
	case r.Scorer != "":
		desc = fmt.Sprintf("%s scored for %s", r.Scorer, strings.ToUpper(r.Team.String()))
	}
	fields := []model.NotificationField{
		{Name: "Score", Value: fmt.Sprintf("🔴 %d - %d 🔵", r.Red, r.Blue), Inline: true},
	}
	if r.Assister != "" {
		fields = append(fields, model.NotificationField{Name: "Assist", Value: r.Assister, Inline: true})
	}
	e.publisher.Publish(model.Notification{
		Kind:        model.KindMatch,
		Title:       title,
		Description: desc,
		Color:       teamColor(r.Team),
		Fields:      fields,
	})
}

func (e *Engine) announceStop(r StopResult) {
	if !r.Scored {
		e.platform.Announce(model.Broadcast("🏁 Game stopped", model.ColorMuted, model.StyleNormal))
		return
	}
	var text string
	switch r.Winner {
	case model.TeamRed:
		text = fmt.Sprintf("🏁 RED wins %d - %d!", r.Scores.Red, r.Scores.Blue)
	case model.TeamBlue:
		text = fmt.Sprintf("🏁 BLUE wins %d - %d!", r.Scores.Blue, r.Scores.Red)
	default:
		text = fmt.Sprintf("🏁 Draw %d - %d", r.Scores.Red, r.Scores.Blue)
	}
	e.platform.Announce(model.Broadcast(text, teamColor(r.Winner), model.StyleBold))
}

func (e *Engine) publishStop(r StopResult, by *model.Session) {
	fields := []model.NotificationField{
		{Name: "Final Score", Value: fmt.Sprintf("🔴 %d - %d 🔵", r.Match.RedGoals, r.Match.BlueGoals), Inline: true},
	}
	if r.Scored {
		winner := "Draw"
		if r.Winner.Playing() {
			winner = strings.ToUpper(r.Winner.String())
		}
		fields = append(fields, model.NotificationField{Name: "Winner", Value: winner, Inline: true})
	}
	if r.MVP != "" {
		fields = append(fields, model.NotificationField{Name: "🏆 MVP", Value: r.MVP, Inline: true})
	}
	if len(r.Match.GoalScorers) > 0 {
		fields = append(fields, model.NotificationField{Name: "Scorers", Value: strings.Join(r.Match.GoalScorers, ", ")})
	}
	e.publisher.Publish(model.Notification{
		Kind:        model.KindMatch,
		Title:       "🏁 Game Ended",
		Description: "Match finished" + byName(by),
		Color:       teamColor(r.Winner),
		Fields:      fields,
	})
}

func cloneMatch(m model.MatchStats) model.MatchStats {
	m.GoalScorers = slices.Clone(m.GoalScorers)
	m.Assists = slices.Clone(m.Assists)
	return m
}

func teamColor(t model.Team) int {
	switch t {
	case model.TeamRed:
		return model.ColorError
	case model.TeamBlue:
		return model.ColorInfo
	default:
		return model.ColorMuted
	}
}

func startedBy(by *model.Session) string {
	return "A new match kicked off" + byName(by)
}

func byName(by *model.Session) string {
	if by == nil {
		return ""
	}
	return " by " + by.Name
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
