package commands

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/roomwarden/internal/dependencies/mocks"
	"github.com/mcoot/roomwarden/internal/model"
	"github.com/mcoot/roomwarden/internal/room/simroom"
	"github.com/mcoot/roomwarden/internal/services/authority"
	"github.com/mcoot/roomwarden/internal/services/clubs"
	"github.com/mcoot/roomwarden/internal/services/lineup"
	"github.com/mcoot/roomwarden/internal/services/match"
	"github.com/mcoot/roomwarden/internal/services/roles"
	"github.com/mcoot/roomwarden/internal/services/stats"
	"github.com/mcoot/roomwarden/internal/services/touches"
	"github.com/mcoot/roomwarden/internal/testutil"
)

type deferred struct {
	delay time.Duration
	name  string
	fn    func()
}

type recordingDeferrer struct {
	calls []deferred
}

func (r *recordingDeferrer) After(d time.Duration, name string, fn func()) {
	r.calls = append(r.calls, deferred{delay: d, name: name, fn: fn})
}

type CommandsSuite struct {
	suite.Suite
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	room       *simroom.Room
	recorder   *testutil.Recorder
	deferrer   *recordingDeferrer
	env        *Env
	dispatcher *Dispatcher
}

func TestCommandsSuite(t *testing.T) {
	suite.Run(t, new(CommandsSuite))
}

func (s *CommandsSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.room = simroom.New(simroom.DefaultConfig(), s.clock, testutil.NopLogger())
	s.recorder = testutil.NewRecorder()
	s.deferrer = &recordingDeferrer{}

	hash, err := authority.HashPassword("secret", bcrypt.MinCost)
	s.Require().NoError(err)

	logger := testutil.NopLogger()
	auth := authority.New(authority.Config{OwnerPasswordHash: hash}, s.room, s.recorder, logger)
	registry := clubs.New(auth, s.room, s.recorder, logger)
	book := stats.New()
	tracker := touches.New(touches.DefaultConfig(), s.clock)

	s.env = &Env{
		Room:      s.room,
		Authority: auth,
		Clubs:     registry,
		Stats:     book,
		Match:     match.New(match.Config{}, s.room, tracker, book, s.recorder, logger),
		Lineup:    lineup.New(),
		Roles:     roles.New(auth, registry),
		Random:    s.random,
		Publisher: s.recorder,
		Deferrer:  s.deferrer,
		Info: Info{
			RoomName:      "RHL TOURNAMENT",
			HostName:      "RHL Bot",
			Public:        true,
			Geo:           Geo{Code: "eg", Lat: 30.0444, Lon: 31.2357},
			DiscordInvite: "https://discord.gg/rhl",
			Version:       "1.0.0",
			ReadyDelay:    DefaultReadyDelay,
		},
	}
	s.dispatcher = NewDispatcher(NewDefaultRegistry(), s.env, DefaultPrefix, logger)
}

func (s *CommandsSuite) connect(name string) model.Session {
	sess, err := s.room.Connect(name, "fp-"+strings.ToLower(name))
	s.Require().NoError(err)
	return sess
}

// fresh re-reads a session so handlers see the current team
func (s *CommandsSuite) fresh(sess model.Session) model.Session {
	cur, ok := s.room.Session(sess.ID)
	s.Require().True(ok)
	return cur
}

func (s *CommandsSuite) say(actor model.Session, text string) {
	s.True(s.dispatcher.Dispatch(s.fresh(actor), text))
}

func (s *CommandsSuite) owner() model.Session {
	o := s.connect("Olivia")
	s.say(o, "!owner secret")
	return o
}

// lastTo returns the most recent announcement visible to target
func (s *CommandsSuite) lastTo(target model.Session) string {
	all := s.room.Announcements()
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Target == 0 || all[i].Target == target.ID {
			return all[i].Text
		}
	}
	return ""
}

func (s *CommandsSuite) lastPrivate(target model.Session) string {
	all := s.room.Announcements()
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Target == target.ID {
			return all[i].Text
		}
	}
	return ""
}

// Dispatch tests

func (s *CommandsSuite) TestOrdinaryChatIsNotACommand() {
	alice := s.connect("Alice")
	s.False(s.dispatcher.Dispatch(alice, "hello everyone"))
	s.Empty(s.room.Announcements())
}

func (s *CommandsSuite) TestUnknownCommand() {
	alice := s.connect("Alice")
	s.say(alice, "!dance")
	s.Equal("❌ Unknown command: !dance. Type !help for available commands.", s.lastPrivate(alice))
}

func (s *CommandsSuite) TestCommandNamesAreCaseInsensitive() {
	alice := s.connect("Alice")
	s.say(alice, "!PING")
	s.Equal("🏓 Pong!", s.lastPrivate(alice))
}

func (s *CommandsSuite) TestNonAdminCannotMovePlayers() {
	alice := s.connect("Alice")
	bob := s.connect("Bob")

	s.say(alice, "!red Bob")

	s.Equal(model.TeamSpectator, s.fresh(bob).Team)
	s.Equal("❌ You don't have permission to use this command.", s.lastPrivate(alice))
}

func (s *CommandsSuite) TestOwnerOnlyDenial() {
	alice := s.connect("Alice")
	s.say(alice, "!newclub Lions Alice")
	s.Equal("❌ Only the room owner can use this command.", s.lastPrivate(alice))
	s.Empty(s.env.Clubs.Clubs())
}

func (s *CommandsSuite) TestMissingArgumentsShowUsage() {
	o := s.owner()
	s.say(o, "!kick")
	s.Equal("❌ Usage: !kick <player> [reason]", s.lastPrivate(o))
}

func (s *CommandsSuite) TestHandlerPanicLeavesStateUntouched() {
	s.dispatcher.Registry().Register(Command{
		Name: "explode",
		Handler: func(c *Call) error {
			panic("boom")
		},
	})
	o := s.owner()
	s.connect("Bob")
	s.say(o, "!newclub Falcons Bob")
	s.say(o, "!addplayer Falcons Carl")
	s.Require().Len(s.env.Clubs.Clubs(), 1)

	alice := s.connect("Alice")
	ranks := s.env.Authority.Snapshot()
	clubs := s.env.Clubs.Clubs()

	s.say(alice, "!explode")

	s.Equal(genericFailure, s.lastPrivate(alice))
	s.Equal(ranks, s.env.Authority.Snapshot())
	s.Equal(clubs, s.env.Clubs.Clubs())
	s.True(s.env.Clubs.IsCaptain("Bob"))
}

func (s *CommandsSuite) TestSensitiveArgsAreRedactedInLogs() {
	logger, logs := testutil.CaptureLogger()
	d := NewDispatcher(NewDefaultRegistry(), s.env, DefaultPrefix, logger)
	alice := s.connect("Alice")

	s.True(d.Dispatch(alice, "!owner secret"))
	s.True(d.Dispatch(s.fresh(alice), "!ping loudly"))

	s.Contains(logs.String(), `"args":"[redacted]"`)
	s.Contains(logs.String(), `"args":"loudly"`)
	s.NotContains(logs.String(), "secret")
}

func (s *CommandsSuite) TestUnexpectedErrorGivesGenericFailure() {
	s.dispatcher.Registry().Register(Command{
		Name:    "broken",
		Handler: func(c *Call) error { return model.ErrInvariantViolation },
	})
	alice := s.connect("Alice")
	s.say(alice, "!broken")
	s.Equal(genericFailure, s.lastPrivate(alice))
}

// Authority commands

func (s *CommandsSuite) TestOwnerLogin() {
	o := s.owner()
	s.True(s.env.Authority.IsOwner(o))
	s.Equal("👑 Olivia is now the Owner!", s.lastTo(o))
}

func (s *CommandsSuite) TestOwnerWrongPassword() {
	alice := s.connect("Alice")
	s.say(alice, "!owner guess")
	s.False(s.env.Authority.IsOwner(alice))
	s.Equal("❌ Wrong password!", s.lastPrivate(alice))
}

func (s *CommandsSuite) TestAdminAndUnadmin() {
	o := s.owner()
	bob := s.connect("Bob")

	s.say(o, "!admin Bob")
	s.True(s.env.Authority.IsAdmin(bob))

	s.say(o, "!unadmin Bob")
	s.False(s.env.Authority.IsAdmin(bob))
}

func (s *CommandsSuite) TestAdminUnknownPlayer() {
	o := s.owner()
	s.say(o, "!admin Ghost")
	s.Equal("❌ Player not found.", s.lastPrivate(o))
}

// Club commands

func (s *CommandsSuite) TestClubLifecycle() {
	o := s.owner()
	carla := s.connect("Carla")
	dan := s.connect("Dan")

	s.say(o, "!newclub Lions Carla")
	s.Require().Len(s.env.Clubs.Clubs(), 1)
	s.True(s.env.Clubs.IsCaptain("Carla"))

	s.say(carla, "!sign Dan")
	club, ok := s.env.Clubs.FindClubOf("Dan")
	s.Require().True(ok)
	s.Equal("Lions", club.Name)

	s.say(dan, "!roster")
	s.Contains(s.lastPrivate(dan), "Lions ROSTER (2)")

	s.say(carla, "!remove Dan")
	_, ok = s.env.Clubs.FindClubOf("Dan")
	s.False(ok)
}

func (s *CommandsSuite) TestSignRequiresCaptain() {
	alice := s.connect("Alice")
	s.connect("Bob")
	s.say(alice, "!sign Bob")
	s.Equal("❌ Only club captains can use this command.", s.lastPrivate(alice))
}

func (s *CommandsSuite) TestNewClubInvalidName() {
	o := s.owner()
	s.connect("Carla")
	s.say(o, "!newclub L Carla")
	s.Equal("❌ Club name must be 2-20 letters, digits or spaces.", s.lastPrivate(o))
}

func (s *CommandsSuite) TestClubsListing() {
	o := s.owner()
	s.say(o, "!clubs")
	s.Equal("🏆 No clubs created yet.", s.lastPrivate(o))

	s.connect("Carla")
	s.say(o, "!newclub Lions Carla")
	s.say(o, "!clubs")
	s.Equal("🏆 CLUBS (1):\nLions - Captain: Carla (1 members)", s.lastPrivate(o))
}

func (s *CommandsSuite) TestRosterWithoutClub() {
	alice := s.connect("Alice")
	s.say(alice, "!roster")
	s.Contains(s.lastPrivate(alice), "You are not in a club")
}

// Team commands

func (s *CommandsSuite) TestAdminMovesPlayer() {
	o := s.owner()
	bob := s.connect("Bob")

	s.say(o, "!blue Bob")

	s.Equal(model.TeamBlue, s.fresh(bob).Team)
	s.True(s.env.Lineup.WasMoved(bob.ID))

	s.say(o, "!spec Bob")
	s.Equal(model.TeamSpectator, s.fresh(bob).Team)
	s.False(s.env.Lineup.WasMoved(bob.ID))
}

func (s *CommandsSuite) TestClearMovesEveryoneToSpectators() {
	o := s.owner()
	a := s.connect("Alice")
	b := s.connect("Bob")
	s.say(o, "!red Alice")
	s.say(o, "!blue Bob")

	s.say(o, "!clear")

	s.Equal(model.TeamSpectator, s.fresh(a).Team)
	s.Equal(model.TeamSpectator, s.fresh(b).Team)
	s.False(s.env.Lineup.WasMoved(a.ID))
}

func (s *CommandsSuite) TestChooseAlternatesAfterShuffle() {
	o := s.owner()
	a := s.connect("Alice")
	b := s.connect("Bob")
	c := s.connect("Cleo")
	d := s.connect("Dev")
	s.random.QueueShuffle(3, 2, 1, 0)

	s.say(o, "!choose Alice Bob Cleo Dev")

	s.Equal(model.TeamRed, s.fresh(d).Team)
	s.Equal(model.TeamBlue, s.fresh(c).Team)
	s.Equal(model.TeamRed, s.fresh(b).Team)
	s.Equal(model.TeamBlue, s.fresh(a).Team)
	s.Equal("🎲 Teams drawn! 🔴 Dev, Bob vs 🔵 Cleo, Alice", s.lastTo(o))
}

func (s *CommandsSuite) TestChooseUnknownPlayerMovesNobody() {
	o := s.owner()
	a := s.connect("Alice")
	s.say(o, "!choose Alice Ghost")
	s.Equal(model.TeamSpectator, s.fresh(a).Team)
	s.Equal("❌ Player not found.", s.lastPrivate(o))
}

func (s *CommandsSuite) TestSub() {
	o := s.owner()
	a := s.connect("Alice")
	b := s.connect("Bob")
	s.say(o, "!red Alice")

	s.say(o, "!sub Alice Bob")

	s.Equal(model.TeamSpectator, s.fresh(a).Team)
	s.Equal(model.TeamRed, s.fresh(b).Team)
	s.True(s.env.Lineup.WasMoved(b.ID))
	s.False(s.env.Lineup.WasMoved(a.ID))
}

func (s *CommandsSuite) TestSubRequiresPlayerOnTeam() {
	o := s.owner()
	s.connect("Alice")
	s.connect("Bob")
	s.say(o, "!sub Alice Bob")
	s.Equal("❌ That player is not on a team.", s.lastPrivate(o))
}

func (s *CommandsSuite) TestAfk() {
	o := s.owner()
	a := s.connect("Alice")
	s.say(o, "!red Alice")

	s.say(a, "!afk")

	s.Equal(model.TeamSpectator, s.fresh(a).Team)
	s.Equal("💤 Alice is AFK", s.lastTo(a))
}

func (s *CommandsSuite) TestReadyStartsGameAfterDelay() {
	o := s.owner()
	a := s.connect("Alice")
	b := s.connect("Bob")
	s.say(o, "!red Alice")
	s.say(o, "!blue Bob")

	s.say(a, "!ready")
	s.Empty(s.deferrer.calls)

	s.say(b, "!ready")
	s.Require().Len(s.deferrer.calls, 1)
	s.Equal(DefaultReadyDelay, s.deferrer.calls[0].delay)
	s.False(s.room.Running())

	s.deferrer.calls[0].fn()
	s.True(s.room.Running())
	s.False(s.env.Lineup.IsReady(a.ID))
}

func (s *CommandsSuite) TestReadyToggles() {
	o := s.owner()
	a := s.connect("Alice")
	s.say(o, "!red Alice")

	s.say(a, "!ready")
	s.True(s.env.Lineup.IsReady(a.ID))
	s.say(a, "!ready")
	s.False(s.env.Lineup.IsReady(a.ID))
}

func (s *CommandsSuite) TestReadyFromSpectators() {
	a := s.connect("Alice")
	s.say(a, "!ready")
	s.False(s.env.Lineup.IsReady(a.ID))
}

// Game control

func (s *CommandsSuite) TestStartAndStop() {
	o := s.owner()
	s.say(o, "!start")
	s.True(s.room.Running())

	s.env.Match.OnGameStart(nil)
	s.say(o, "!start")
	s.Equal("❌ A game is already in progress.", s.lastPrivate(o))

	s.say(o, "!stop")
	s.False(s.room.Running())
}

func (s *CommandsSuite) TestStopWithoutGame() {
	o := s.owner()
	s.say(o, "!stop")
	s.Equal("❌ No game is in progress.", s.lastPrivate(o))
}

// Moderation

func (s *CommandsSuite) TestKick() {
	o := s.owner()
	bob := s.connect("Bob")

	s.say(o, "!kick Bob spamming chat")

	_, ok := s.room.Session(bob.ID)
	s.False(ok)
	s.Equal("👢 Bob was kicked: spamming chat", s.lastTo(o))
	s.Len(s.recorder.OfKind(model.KindModeration), 1)
}

func (s *CommandsSuite) TestAdminCannotKickOwner() {
	o := s.owner()
	bob := s.connect("Bob")
	s.say(o, "!admin Bob")

	s.say(bob, "!kick Olivia")

	_, ok := s.room.Session(o.ID)
	s.True(ok)
	s.Equal("❌ You don't have permission to do that.", s.lastPrivate(bob))
}

func (s *CommandsSuite) TestBanAndClearBans() {
	o := s.owner()
	s.connect("Bob")

	s.say(o, "!ban Bob")
	_, err := s.room.Connect("Bob", "fp-bob")
	s.ErrorIs(err, simroom.ErrBanned)

	s.say(o, "!clearbans")
	_, err = s.room.Connect("Bob", "fp-bob")
	s.NoError(err)
}

// Information

func (s *CommandsSuite) TestStatsAndRanking() {
	alice := s.connect("Alice")
	s.env.Stats.Update("Alice", func(p *model.PlayerStats) {
		p.Goals = 3
		p.Wins = 1
		p.GamesPlayed = 2
	})
	s.env.Stats.Update("Bob", func(p *model.PlayerStats) { p.Goals = 5 })

	s.say(alice, "!stats")
	s.Contains(s.lastPrivate(alice), "⚽ Goals: 3")
	s.Contains(s.lastPrivate(alice), "📈 Win rate: 50%")

	s.say(alice, "!ranking")
	s.Equal("🏆 TOP SCORERS\n🥇 Bob - 5 goals\n🥈 Alice - 3 goals", s.lastPrivate(alice))
}

func (s *CommandsSuite) TestStatsUnknownPlayer() {
	alice := s.connect("Alice")
	s.say(alice, "!stats Nobody")
	s.Equal("❌ Player not found.", s.lastPrivate(alice))
}

func (s *CommandsSuite) TestCoinAndRoll() {
	alice := s.connect("Alice")
	s.random.QueueIntn(1, 41)

	s.say(alice, "!coin")
	s.Equal("🪙 Alice flipped a coin: Tails!", s.lastTo(alice))

	s.say(alice, "!roll 50")
	s.Equal("🎲 Alice rolled 42 (1-50)", s.lastTo(alice))

	s.say(alice, "!roll 5000")
	s.Equal("❌ Roll between 1-1000", s.lastPrivate(alice))
}

func (s *CommandsSuite) TestHelpDependsOnTier() {
	alice := s.connect("Alice")
	s.say(alice, "!help")
	s.Contains(s.lastPrivate(alice), "PLAYER:")
	s.NotContains(s.lastPrivate(alice), "ADMIN:")

	o := s.owner()
	s.say(o, "!help")
	s.Contains(s.lastPrivate(o), "ADMIN:")
	s.Contains(s.lastPrivate(o), "OWNER:")
}

func (s *CommandsSuite) TestInfoAndList() {
	o := s.owner()
	s.connect("Bob")
	s.say(o, "!red Bob")

	s.say(o, "!info")
	s.Contains(s.lastPrivate(o), "🤖 Host: RHL Bot")
	s.Contains(s.lastPrivate(o), "🌍 Public (EG)")
	s.Contains(s.lastPrivate(o), "👥 Players: 2/16")
	s.Contains(s.lastPrivate(o), "https://discord.gg/rhl")

	s.say(o, "!list")
	s.Contains(s.lastPrivate(o), "🔴 Red (1): PLAYER Bob")
	s.Contains(s.lastPrivate(o), "👑 OWNER Olivia")
}
