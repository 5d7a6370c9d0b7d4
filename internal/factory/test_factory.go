package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/roomwarden/internal/config"
	"github.com/mcoot/roomwarden/internal/dependencies/mocks"
	"github.com/mcoot/roomwarden/internal/testutil"
)

// TestOwnerPassword is the owner password of every TestApp
const TestOwnerPassword = "secret"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Recorder   *testutil.Recorder
}

// TestConfig returns a config with defaults suitable for tests
func TestConfig() config.Config {
	return config.Config{
		RoomName:                   "RHL TOURNAMENT",
		PlayerName:                 "RHL Bot",
		MaxPlayers:                 16,
		Public:                     true,
		GeoCode:                    "eg",
		GeoLat:                     30.0444,
		GeoLon:                     31.2357,
		TimeLimit:                  3,
		ScoreLimit:                 3,
		OwnerPassword:              TestOwnerPassword,
		CommandPrefix:              "!",
		DiscordInvite:              "https://discord.gg/rhl",
		TouchWindow:                5 * time.Second,
		TouchCapacity:              10,
		DiscordReminderInterval:    3 * time.Minute,
		AutoJoinPreventionInterval: time.Second,
		HealthCheckInterval:        30 * time.Second,
		NotifyQueueSize:            16,
		Port:                       5000,
		SimulationAPI:              true,
		LogLevel:                   "info",
	}
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Notifications are recorded instead of queued.
func NewTestApp(cfg config.Config) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	recorder := testutil.NewRecorder()

	app, err := newWithDependencies(cfg, dependencies{
		clock:      mockClock,
		random:     mockRandom,
		publisher:  recorder,
		bcryptCost: bcrypt.MinCost,
	}, testutil.NopLogger())
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Recorder:   recorder,
	}
}
