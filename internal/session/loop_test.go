package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/roomwarden/internal/dependencies/mocks"
	"github.com/mcoot/roomwarden/internal/model"
	"github.com/mcoot/roomwarden/internal/room/simroom"
	"github.com/mcoot/roomwarden/internal/services/authority"
	"github.com/mcoot/roomwarden/internal/services/clubs"
	"github.com/mcoot/roomwarden/internal/services/commands"
	"github.com/mcoot/roomwarden/internal/services/lineup"
	"github.com/mcoot/roomwarden/internal/services/match"
	"github.com/mcoot/roomwarden/internal/services/roles"
	"github.com/mcoot/roomwarden/internal/services/scheduler"
	"github.com/mcoot/roomwarden/internal/services/stats"
	"github.com/mcoot/roomwarden/internal/services/touches"
	"github.com/mcoot/roomwarden/internal/testutil"
)

const waitFor = 2 * time.Second

type LoopSuite struct {
	suite.Suite
	clock    *mocks.MockClock
	room     *simroom.Room
	recorder *testutil.Recorder
	state    *State
	loop     *Loop
	cancel   context.CancelFunc
	stopped  chan struct{}
}

func TestLoopSuite(t *testing.T) {
	suite.Run(t, new(LoopSuite))
}

func (s *LoopSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.room = simroom.New(simroom.DefaultConfig(), s.clock, logger)
	s.recorder = testutil.NewRecorder()

	hash, err := authority.HashPassword("secret", bcrypt.MinCost)
	s.Require().NoError(err)

	auth := authority.New(authority.Config{OwnerPasswordHash: hash}, s.room, s.recorder, logger)
	registry := clubs.New(auth, s.room, s.recorder, logger)
	tracker := touches.New(touches.DefaultConfig(), s.clock)
	book := stats.New()
	engine := match.New(match.Config{}, s.room, tracker, book, s.recorder, logger)
	moves := lineup.New()
	labeler := roles.New(auth, registry)
	info := commands.Info{
		RoomName:      "RHL TOURNAMENT",
		DiscordInvite: "https://discord.gg/rhl",
		Version:       "1.0.0",
		ReadyDelay:    commands.DefaultReadyDelay,
	}
	env := &commands.Env{
		Room:      s.room,
		Authority: auth,
		Clubs:     registry,
		Stats:     book,
		Match:     engine,
		Lineup:    moves,
		Roles:     labeler,
		Random:    mocks.NewMockRandom(),
		Publisher: s.recorder,
		Info:      info,
	}

	s.state = &State{
		Room:       s.room,
		Authority:  auth,
		Clubs:      registry,
		Touches:    tracker,
		Stats:      book,
		Match:      engine,
		Lineup:     moves,
		Roles:      labeler,
		Dispatcher: commands.NewDispatcher(commands.NewDefaultRegistry(), env, commands.DefaultPrefix, logger),
		Scheduler:  scheduler.New(s.clock, logger),
		Publisher:  s.recorder,
		Info:       info,
		LogChat:    true,
	}
	s.loop = NewLoop(s.state, s.clock, 0, logger)
	env.Deferrer = s.loop

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.stopped = make(chan struct{})
	go func() {
		_ = s.loop.Run(ctx)
		close(s.stopped)
	}()
	go func() {
		_ = s.room.ForwardEvents(ctx, s.loop.Submit)
	}()
}

func (s *LoopSuite) TearDownTest() {
	s.cancel()
	<-s.stopped
}

// eventually polls cond on the loop goroutine
func (s *LoopSuite) eventually(cond func(st *State) bool) {
	s.Eventually(func() bool {
		ok := false
		err := s.loop.Do(context.Background(), func(st *State) { ok = cond(st) })
		return err == nil && ok
	}, waitFor, time.Millisecond)
}

func (s *LoopSuite) connect(name, fingerprint string) model.Session {
	sess, err := s.room.Connect(name, fingerprint)
	s.Require().NoError(err)
	return sess
}

func (s *LoopSuite) say(sess model.Session, text string) {
	s.Require().NoError(s.room.Say(sess.ID, text))
}

func (s *LoopSuite) teamOf(id model.SessionID) model.Team {
	sess, _ := s.room.Session(id)
	return sess.Team
}

func (s *LoopSuite) hasTitle(title string) bool {
	for _, t := range s.recorder.Titles() {
		if t == title {
			return true
		}
	}
	return false
}

func (s *LoopSuite) TestJoinWelcomesAndNotifies() {
	alice := s.connect("Alice", "fp-a")

	s.eventually(func(st *State) bool {
		_, ok := st.Stats.Get("Alice")
		return ok
	})
	s.Eventually(func() bool { return s.hasTitle("➕ Player Joined") }, waitFor, time.Millisecond)

	got := s.room.Announcements()
	s.Require().NotEmpty(got)
	s.Equal(alice.ID, got[0].Target)
	s.Contains(got[0].Text, "Welcome to RHL TOURNAMENT, Alice!")
}

func (s *LoopSuite) TestOwnerRestoredOnReconnect() {
	first := s.connect("Olivia", "fp-o")
	s.say(first, "!owner secret")
	s.eventually(func(st *State) bool { return st.Authority.IsOwner(first) })

	_, err := s.room.Disconnect(first.ID)
	s.Require().NoError(err)
	s.eventually(func(st *State) bool { return st.Authority.Snapshot().OwnerID == 0 })
	s.Contains(s.room.Announcements(), model.Broadcast("👋 👑 OWNER Olivia left the room", model.ColorSilver, model.StyleNormal))

	again := s.connect("Olivia", "fp-o")
	s.eventually(func(st *State) bool { return st.Authority.IsOwner(again) })
	s.Eventually(func() bool { return s.hasTitle("🔄 Owner Auto-Login") }, waitFor, time.Millisecond)
}

func (s *LoopSuite) TestMatchFlowCreditsGoalsAndResult() {
	owner := s.connect("Olivia", "fp-o")
	alice := s.connect("Alice", "fp-a")
	bob := s.connect("Bob", "fp-b")
	cleo := s.connect("Cleo", "fp-c")

	s.say(owner, "!owner secret")
	s.say(owner, "!red Alice")
	s.say(owner, "!red Bob")
	s.say(owner, "!blue Cleo")
	s.Eventually(func() bool { return s.teamOf(cleo.ID) == model.TeamBlue }, waitFor, time.Millisecond)

	s.say(owner, "!start")
	s.Eventually(s.room.Running, waitFor, time.Millisecond)
	s.eventually(func(st *State) bool { return st.Match.State() == match.StateInProgress })

	s.Require().NoError(s.room.Touch(alice.ID))
	s.Require().NoError(s.room.Touch(bob.ID))
	s.Require().NoError(s.room.Goal(model.TeamRed))
	s.eventually(func(st *State) bool { return st.Match.Current().RedGoals == 1 })

	s.say(owner, "!stop")
	s.eventually(func(st *State) bool { return st.Match.State() == match.StateIdle })

	s.Require().NoError(s.loop.Do(context.Background(), func(st *State) {
		b, _ := st.Stats.Get("Bob")
		s.Equal(1, b.Goals)
		s.Equal(1, b.Wins)
		s.Equal(1, b.MVPs)

		a, _ := st.Stats.Get("Alice")
		s.Equal(1, a.Assists)

		c, _ := st.Stats.Get("Cleo")
		s.Equal(1, c.Losses)

		last, ok := st.Match.LastMatch()
		s.True(ok)
		s.Equal("Bob", last.MVP)
	}))
}

func (s *LoopSuite) TestReadyCountdownStartsGame() {
	owner := s.connect("Olivia", "fp-o")
	alice := s.connect("Alice", "fp-a")
	bob := s.connect("Bob", "fp-b")
	s.say(owner, "!owner secret")
	s.say(owner, "!red Alice")
	s.say(owner, "!blue Bob")
	s.Eventually(func() bool { return s.teamOf(bob.ID) == model.TeamBlue }, waitFor, time.Millisecond)

	s.say(alice, "!ready")
	s.say(bob, "!ready")
	s.Eventually(func() bool { return s.clock.PendingTimers() == 1 }, waitFor, time.Millisecond)
	s.False(s.room.Running())

	s.clock.Advance(commands.DefaultReadyDelay)
	s.Eventually(s.room.Running, waitFor, time.Millisecond)
}

func (s *LoopSuite) TestAdminDragMarksPlayerAsPlaced() {
	owner := s.connect("Olivia", "fp-o")
	alice := s.connect("Alice", "fp-a")
	s.say(owner, "!owner secret")
	s.eventually(func(st *State) bool { return st.Authority.IsOwner(owner) })

	s.Require().NoError(s.room.MoveBy(alice.ID, model.TeamRed, owner.ID))
	s.eventually(func(st *State) bool { return st.Lineup.WasMoved(alice.ID) })
}

func (s *LoopSuite) TestSelfMoveIsNotMarked() {
	alice := s.connect("Alice", "fp-a")
	s.Require().NoError(s.room.MoveBy(alice.ID, model.TeamRed, alice.ID))
	s.Eventually(func() bool { return s.teamOf(alice.ID) == model.TeamRed }, waitFor, time.Millisecond)

	s.Require().NoError(s.loop.Do(context.Background(), func(st *State) {
		s.False(st.Lineup.WasMoved(alice.ID))
	}))
}

func (s *LoopSuite) TestChatIsForwardedWhenLogged() {
	alice := s.connect("Alice", "fp-a")
	s.say(alice, "good game")
	s.Eventually(func() bool { return len(s.recorder.OfKind(model.KindChat)) == 1 }, waitFor, time.Millisecond)
	s.Equal("good game", s.recorder.OfKind(model.KindChat)[0].Description)
}

func (s *LoopSuite) TestPanicInCallKeepsLoopRunning() {
	err := s.loop.Do(context.Background(), func(*State) { panic("boom") })
	s.NoError(err)

	ran := false
	s.Require().NoError(s.loop.Do(context.Background(), func(*State) { ran = true }))
	s.True(ran)
}

func (s *LoopSuite) TestTaskDueRunsTaskOnLoop() {
	s.Require().NoError(s.loop.Do(context.Background(), func(st *State) {
		st.Scheduler.Add(scheduler.NewReminder(st.Room, st.Info.DiscordInvite, time.Minute))
	}))

	err := s.loop.Submit(context.Background(), model.Event{
		Type:    model.EventTaskDue,
		At:      s.clock.Now(),
		Payload: model.TaskDuePayload{Task: scheduler.TaskDiscordReminder},
	})
	s.Require().NoError(err)

	s.Eventually(func() bool {
		for _, a := range s.room.Announcements() {
			if a.Text == "💬 Join our Discord server: https://discord.gg/rhl" {
				return true
			}
		}
		return false
	}, waitFor, time.Millisecond)
}

func (s *LoopSuite) TestSubmitAfterStop() {
	s.cancel()
	<-s.stopped
	err := s.loop.Submit(context.Background(), model.Event{Type: model.EventTaskDue})
	s.ErrorIs(err, ErrStopped)
}
