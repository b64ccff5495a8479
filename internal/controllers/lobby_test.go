package controllers

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rts-lobby/internal/commands"
	"rts-lobby/internal/config"
	"rts-lobby/internal/models"
	"rts-lobby/internal/online"
)

var localCRC = models.CRCInfo{ExeCRC: 0xAAAA, IniCRC: 0xBBBB}

type harness struct {
	svc   *MockServices
	view  *fakeView
	nav   *fakeNavigator
	tr    *fakeTransition
	prefs *config.MemoryPreferences
	ctrl  *LobbyController
	now   time.Time
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	if opts.CRC == (models.CRCInfo{}) {
		opts.CRC = localCRC
	}
	h := &harness{
		svc:   newMockServices(),
		view:  &fakeView{},
		nav:   &fakeNavigator{},
		tr:    &fakeTransition{},
		prefs: config.NewMemoryPreferences(),
		now:   time.Unix(1_700_000_000, 0),
	}
	h.ctrl = NewLobbyController(Dependencies{
		Services:    h.svc,
		View:        h.view,
		Navigator:   h.nav,
		Transition:  h.tr,
		Preferences: h.prefs,
		Localizer:   echoLocalizer{},
	}, opts)
	return h
}

// start runs Init and finishes the entry transition.
func (h *harness) start() {
	h.ctrl.Init(h.now)
	h.tr.done = true
}

func (h *harness) tick(d time.Duration) {
	h.now = h.now.Add(d)
	h.ctrl.Update(h.now)
}

func (h *harness) send(ev Event) {
	h.view.handler(ev)
}

func game(id int, mutate ...func(*models.StagingRoom)) models.StagingRoom {
	g := models.StagingRoom{
		ID:     id,
		Name:   "game",
		Host:   "host",
		ExeCRC: localCRC.ExeCRC,
		IniCRC: localCRC.IniCRC,
		Slots:  []models.SlotState{models.SlotPlayer, models.SlotOpen},
	}
	for _, m := range mutate {
		m(&g)
	}
	return g
}

func chatMessage(text string) online.Message {
	return online.Message{Kind: online.ChatReceived, Chat: online.ChatMessage{From: "Bob", ProfileID: 2, Text: text}}
}

func gameIDs(rows []GameRow) []int {
	ids := make([]int, len(rows))
	for i, r := range rows {
		ids[i] = r.Game.ID
	}
	return ids
}

func TestInitSubscribesAndRestoresPreferences(t *testing.T) {
	h := newHarness(t, Options{})
	h.prefs.SetInt(config.PrefLastGroupRoom, 7)
	h.prefs.SetBool(config.PrefLongGameList, true)

	h.ctrl.Init(h.now)

	assert.True(t, h.ctrl.Active())
	require.NotNil(t, h.view.handler)
	assert.True(t, h.view.longList)
	assert.False(t, h.view.joinEnabled)
	assert.NotNil(t, h.svc.callbacks.OnChat)
	assert.NotNil(t, h.svc.callbacks.OnGameJoined)
	assert.Equal(t, []bool{false}, h.tr.starts)
	h.svc.AssertCalled(t, "RefreshGroupRooms", mock.Anything)
	h.svc.AssertCalled(t, "JoinGroupRoom", mock.Anything, 7)
}

func TestInitWithoutViewIsNoop(t *testing.T) {
	svc := newMockServices()
	ctrl := NewLobbyController(Dependencies{Services: svc}, Options{})

	ctrl.Init(time.Now())
	ctrl.Update(time.Now())

	assert.False(t, ctrl.Active())
	svc.AssertNotCalled(t, "RefreshGroupRooms", mock.Anything)
}

func TestUpdateWaitsForTransition(t *testing.T) {
	h := newHarness(t, Options{})
	h.ctrl.Init(h.now)
	h.svc.queue = []online.Message{chatMessage("hello")}

	h.tick(time.Second)
	assert.Empty(t, h.view.chat)
	h.svc.AssertNotCalled(t, "RefreshGames", mock.Anything)

	h.tr.done = true
	h.tick(time.Second)
	require.Len(t, h.view.chat, 1)
	assert.Equal(t, ChatLine{From: "Bob", Text: "hello"}, h.view.chat[0])
	h.svc.AssertNumberOfCalls(t, "RefreshGames", 1)
}

func TestPollIsCappedPerTick(t *testing.T) {
	h := newHarness(t, Options{MaxMessagesPerTick: 3})
	h.start()
	for i := 0; i < 5; i++ {
		h.svc.queue = append(h.svc.queue, chatMessage("spam"))
	}

	h.tick(0)
	assert.Len(t, h.view.chat, 3)
	h.tick(0)
	assert.Len(t, h.view.chat, 5)
}

func TestRefreshIntervals(t *testing.T) {
	h := newHarness(t, Options{})
	h.svc.members = []models.RoomMember{{ProfileID: 2, Name: "Bob"}}
	h.start()

	h.tick(0)
	h.svc.AssertNumberOfCalls(t, "RefreshGames", 1)
	require.Len(t, h.view.players, 1)

	h.svc.members = append(h.svc.members, models.RoomMember{ProfileID: 3, Name: "Carl"})
	h.tick(4 * time.Second)
	assert.Len(t, h.view.players, 1, "players redrawn too early")
	h.svc.AssertNumberOfCalls(t, "RefreshGames", 1)

	h.tick(time.Second)
	assert.Len(t, h.view.players, 2)

	h.tick(5 * time.Second)
	h.svc.AssertNumberOfCalls(t, "RefreshGames", 2)
}

func TestRosterMessagesForceRedraw(t *testing.T) {
	h := newHarness(t, Options{})
	h.start()
	h.tick(0)
	require.Empty(t, h.view.players)

	h.svc.members = []models.RoomMember{{ProfileID: 4, Name: "Dana"}}
	h.svc.queue = []online.Message{{Kind: online.PlayerJoined, Member: h.svc.members[0]}}
	h.tick(time.Second)

	assert.Len(t, h.view.players, 1)
}

func TestGameListFiltering(t *testing.T) {
	games := []models.StagingRoom{
		game(1, func(g *models.StagingRoom) { g.GroupRoomID = 10 }),
		game(2, func(g *models.StagingRoom) { g.GroupRoomID = 20 }),
		game(-1, func(g *models.StagingRoom) { g.GroupRoomID = 10 }),
	}

	tests := []struct {
		name  string
		room  models.GroupRoom
		in    bool
		wants []int
	}{
		{"current room only", models.GroupRoom{ID: 10}, true, []int{1}},
		{"show all matches", models.GroupRoom{ID: 10, Flags: models.RoomFlagShowAllMatches}, true, []int{1, 2}},
		{"not in a room", models.GroupRoom{}, false, []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, Options{})
			h.svc.games = games
			h.svc.current, h.svc.inRoom = tt.room, tt.in
			h.start()
			h.tick(0)

			if diff := cmp.Diff(tt.wants, gameIDs(h.view.games)); diff != "" {
				t.Errorf("visible games mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGameRowsMarkCompatibilityAndDetail(t *testing.T) {
	h := newHarness(t, Options{})
	h.svc.games = []models.StagingRoom{
		game(1),
		game(2, func(g *models.StagingRoom) { g.IniCRC = 1 }),
	}
	h.start()
	h.tick(0)

	require.Len(t, h.view.games, 2)
	assert.True(t, h.view.games[0].Compatible)
	assert.False(t, h.view.games[1].Compatible)
	assert.False(t, h.view.games[0].Detailed)

	h.send(Event{Kind: EventLongListToggled, Enabled: true})
	h.tick(0)
	assert.True(t, h.view.games[0].Detailed)
}

func TestSelectionClearedWhenGameDisappears(t *testing.T) {
	h := newHarness(t, Options{})
	h.svc.games = []models.StagingRoom{game(1, func(g *models.StagingRoom) { g.MapPath = "maps/desert.map" })}
	h.start()
	h.tick(0)

	h.send(Event{Kind: EventGameSelected, GameID: 1})
	assert.True(t, h.view.joinEnabled)
	assert.Equal(t, "maps/desert.map", h.view.preview)

	h.svc.games = nil
	h.svc.queue = []online.Message{{Kind: online.GameRemoved, GameID: 1}}
	h.tick(time.Second)

	assert.Equal(t, noGame, h.view.selectedID)
	assert.False(t, h.view.joinEnabled)
}

func TestJoinBlockedOnCRCMismatch(t *testing.T) {
	h := newHarness(t, Options{})
	h.svc.games = []models.StagingRoom{game(4, func(g *models.StagingRoom) { g.ExeCRC = 0x1234 })}
	h.start()
	h.tick(0)

	h.send(Event{Kind: EventGameActivated, GameID: 4})

	assert.Equal(t, []shownMessage{{"lobby.error_title", "lobby.crc_mismatch"}}, h.view.messages)
	h.svc.AssertNotCalled(t, "JoinGame", mock.Anything, mock.Anything, mock.Anything)
}

func TestJoinWithoutSelection(t *testing.T) {
	h := newHarness(t, Options{})
	h.start()
	h.tick(0)

	h.send(Event{Kind: EventJoin})

	assert.Equal(t, []shownMessage{{"lobby.error_title", "lobby.no_game_selected"}}, h.view.messages)
}

func TestJoinRefusedForGameInProgress(t *testing.T) {
	h := newHarness(t, Options{})
	h.svc.games = []models.StagingRoom{game(4, func(g *models.StagingRoom) { g.InProgress = true })}
	h.start()
	h.tick(0)

	h.send(Event{Kind: EventGameActivated, GameID: 4})
	assert.False(t, h.view.joinEnabled)
	h.send(Event{Kind: EventJoin})

	want := shownMessage{"lobby.error_title", "lobby.join_failed.in_progress"}
	assert.Equal(t, []shownMessage{want, want}, h.view.messages)
	h.svc.AssertNotCalled(t, "JoinGame", mock.Anything, mock.Anything, mock.Anything)
}

func TestUnansweredAttemptTimesOut(t *testing.T) {
	h := newHarness(t, Options{AttemptTimeout: 10 * time.Second})
	h.svc.games = []models.StagingRoom{game(4)}
	h.svc.On("JoinGame", mock.Anything, 4, "").Return(nil)
	h.start()
	h.tick(0)

	h.send(Event{Kind: EventGameActivated, GameID: 4})
	h.tick(9 * time.Second)
	assert.Empty(t, h.view.messages)
	h.send(Event{Kind: EventJoin})
	h.svc.AssertNumberOfCalls(t, "JoinGame", 1)

	h.tick(time.Second)
	assert.Equal(t, []shownMessage{{"lobby.error_title", "lobby.join_failed.timeout"}}, h.view.messages)

	h.send(Event{Kind: EventJoin})
	h.svc.AssertNumberOfCalls(t, "JoinGame", 2)
}

func TestJoinGuardAndDeferredFailure(t *testing.T) {
	h := newHarness(t, Options{})
	h.svc.games = []models.StagingRoom{game(4)}
	h.svc.On("JoinGame", mock.Anything, 4, "").Return(nil)
	h.start()
	h.tick(0)

	h.send(Event{Kind: EventGameActivated, GameID: 4})
	h.send(Event{Kind: EventGameActivated, GameID: 4})
	h.send(Event{Kind: EventHost})
	h.svc.AssertNumberOfCalls(t, "JoinGame", 1)
	h.svc.AssertNotCalled(t, "CreateGame", mock.Anything, mock.Anything)

	h.svc.callbacks.OnGameJoined(online.GameResult{GameID: 4, Result: models.JoinFull})
	assert.Empty(t, h.view.messages, "failure box must wait for the next tick")

	h.tick(0)
	assert.Equal(t, []shownMessage{{"lobby.error_title", "lobby.join_failed.full"}}, h.view.messages)

	h.send(Event{Kind: EventJoin})
	h.svc.AssertNumberOfCalls(t, "JoinGame", 2)
}

func TestJoinRequestErrorReleasesGuard(t *testing.T) {
	h := newHarness(t, Options{})
	h.svc.games = []models.StagingRoom{game(4)}
	h.svc.On("JoinGame", mock.Anything, 4, "").Return(online.ErrNotConnected)
	h.start()
	h.tick(0)

	h.send(Event{Kind: EventGameActivated, GameID: 4})
	h.tick(0)
	assert.Equal(t, []shownMessage{{"lobby.error_title", "lobby.join_failed.generic"}}, h.view.messages)

	h.send(Event{Kind: EventJoin})
	h.svc.AssertNumberOfCalls(t, "JoinGame", 2)
}

func TestPasswordProtectedJoin(t *testing.T) {
	h := newHarness(t, Options{})
	h.svc.games = []models.StagingRoom{game(4, func(g *models.StagingRoom) { g.HasPassword = true })}
	h.svc.On("JoinGame", mock.Anything, 4, "secret").Return(nil)
	h.start()
	h.tick(0)

	h.send(Event{Kind: EventGameActivated, GameID: 4})
	require.NotNil(t, h.view.passwordPrompt)
	h.svc.AssertNotCalled(t, "JoinGame", mock.Anything, mock.Anything, mock.Anything)

	h.view.passwordPrompt("", false)
	h.svc.AssertNotCalled(t, "JoinGame", mock.Anything, mock.Anything, mock.Anything)

	h.view.passwordPrompt("secret", true)
	h.svc.AssertCalled(t, "JoinGame", mock.Anything, 4, "secret")
}

func TestHostBuildsDefaultGame(t *testing.T) {
	h := newHarness(t, Options{DefaultMap: "maps/tournament desert.map"})
	h.svc.On("CreateGame", mock.Anything, mock.MatchedBy(func(req online.CreateGameRequest) bool {
		return req.Name == "lobby.default_game_name map[Name:Dozer]" &&
			req.MapPath == "maps/tournament desert.map" &&
			len(req.Slots) == models.MaxSlots &&
			req.Slots[0] == models.SlotPlayer &&
			req.Slots[1] == models.SlotOpen &&
			req.CRC == localCRC
	})).Return(nil).Once()
	h.start()

	h.send(Event{Kind: EventHost})
	h.send(Event{Kind: EventHost})

	h.svc.AssertExpectations(t)
}

func TestSuccessfulResultEntersStaging(t *testing.T) {
	h := newHarness(t, Options{})
	h.start()
	h.tick(0)

	g := game(9)
	h.svc.queue = []online.Message{
		{Kind: online.CreateGameResult, GameID: 9, Result: models.JoinSuccess, Game: g},
		chatMessage("after"),
	}
	h.tick(time.Second)

	require.Len(t, h.nav.staged, 1)
	assert.Equal(t, 9, h.nav.staged[0].ID)
	assert.Empty(t, h.view.chat)

	h.tick(time.Second)
	assert.Empty(t, h.view.chat, "no polling while staging is on top")

	h.ctrl.Resume()
	h.tick(time.Second)
	assert.Len(t, h.view.chat, 1)
}

func TestResultMidBatchLeavesLaterMessagesQueued(t *testing.T) {
	h := newHarness(t, Options{})
	h.start()
	h.tick(0)

	h.svc.queue = []online.Message{
		chatMessage("before"),
		{Kind: online.JoinGameResult, GameID: 9, Result: models.JoinSuccess, Game: game(9)},
		chatMessage("after"),
		{Kind: online.RoomAdded},
	}
	h.tick(time.Second)

	require.Len(t, h.nav.staged, 1)
	assert.Equal(t, []ChatLine{{From: "Bob", Text: "before"}}, h.view.chat)
	assert.Len(t, h.svc.queue, 2)

	h.svc.groupRooms = []models.GroupRoom{{ID: 1, Name: "Lobby"}, {ID: 2, Name: "Ranked"}}
	h.svc.current, h.svc.inRoom = h.svc.groupRooms[0], true
	h.ctrl.Resume()
	assert.Equal(t, h.svc.groupRooms, h.view.groupRooms)
	assert.Equal(t, 1, h.view.currentRoom)

	h.tick(time.Second)
	assert.Equal(t, []ChatLine{{From: "Bob", Text: "before"}, {From: "Bob", Text: "after"}}, h.view.chat)
	assert.Empty(t, h.svc.queue)
}

func TestFailedResultMessageDoesNotNavigate(t *testing.T) {
	h := newHarness(t, Options{})
	h.start()
	h.svc.queue = []online.Message{{Kind: online.JoinGameResult, GameID: 9, Result: models.JoinBanned}}

	h.tick(0)

	assert.Empty(t, h.nav.staged)
}

func TestDisconnectLeavesLobby(t *testing.T) {
	h := newHarness(t, Options{})
	h.start()
	h.svc.queue = []online.Message{{Kind: online.Disconnected, Reason: "kicked"}, chatMessage("late")}

	h.tick(0)

	assert.Equal(t, []shownMessage{{"lobby.error_title", "lobby.disconnected"}}, h.view.messages)
	assert.False(t, h.ctrl.Active())
	assert.True(t, h.view.unbound)
	assert.Equal(t, 1, h.svc.cleared)
	assert.Equal(t, 1, h.nav.pops)
	assert.Empty(t, h.view.chat)
	assert.Len(t, h.svc.queue, 1, "messages behind the disconnect stay queued")

	h.tick(time.Second)
	assert.Equal(t, 1, h.nav.pops)
}

func TestBackPlaysExitTransitionThenPops(t *testing.T) {
	h := newHarness(t, Options{})
	h.start()
	h.send(Event{Kind: EventLongListToggled, Enabled: true})

	h.send(Event{Kind: EventBack})
	assert.Equal(t, []bool{false, true}, h.tr.starts)

	h.tick(0)
	assert.Zero(t, h.nav.pops)
	assert.True(t, h.ctrl.Active())

	h.send(Event{Kind: EventHost})
	h.svc.AssertNotCalled(t, "CreateGame", mock.Anything, mock.Anything)

	h.tr.done = true
	h.tick(0)
	assert.Equal(t, 1, h.nav.pops)
	assert.False(t, h.ctrl.Active())
	assert.True(t, h.prefs.Bool(config.PrefLongGameList))
	assert.Equal(t, 1, h.svc.cleared)
}

func TestShutdownIsIdempotent(t *testing.T) {
	h := newHarness(t, Options{})
	h.start()

	h.ctrl.Shutdown()
	h.ctrl.Shutdown()

	assert.Equal(t, 1, h.svc.cleared)
	assert.Nil(t, h.svc.callbacks.OnChat)
}

func TestCallbacksAfterShutdownAreDropped(t *testing.T) {
	h := newHarness(t, Options{})
	h.start()
	cb := h.svc.callbacks

	h.ctrl.Shutdown()
	cb.OnGameJoined(online.GameResult{Result: models.JoinFull})
	h.tick(0)

	assert.Empty(t, h.view.messages)
}

func TestStatsRequestedOnce(t *testing.T) {
	h := newHarness(t, Options{})
	h.svc.members = []models.RoomMember{{ProfileID: 5, Name: "Eve"}}
	h.start()

	h.tick(0)
	h.tick(PlayerRefreshInterval)
	h.svc.AssertNumberOfCalls(t, "RequestStats", 1)

	h.svc.callbacks.OnStats(online.StatsResult{
		ProfileID: 5,
		Stats:     models.PlayerStats{ProfileID: 5, Wins: map[models.Side]int{models.SideUSA: 12}},
	})
	h.tick(0)

	require.Len(t, h.view.players, 1)
	assert.True(t, h.view.players[0].HasStats)
	assert.Equal(t, 60, h.view.players[0].RankPoints)

	h.tick(PlayerRefreshInterval)
	h.svc.AssertNumberOfCalls(t, "RequestStats", 1)
}

func TestFailedStatsAreNotRetried(t *testing.T) {
	h := newHarness(t, Options{})
	h.svc.members = []models.RoomMember{{ProfileID: 5, Name: "Eve"}}
	h.start()
	h.tick(0)

	h.svc.callbacks.OnStats(online.StatsResult{ProfileID: 5, Err: errors.New("lookup failed")})
	h.tick(0)
	h.tick(PlayerRefreshInterval)

	h.svc.AssertNumberOfCalls(t, "RequestStats", 1)
	assert.False(t, h.view.players[0].HasStats)
}

func TestUnrequestedStatsAreDiscarded(t *testing.T) {
	h := newHarness(t, Options{})
	h.svc.members = []models.RoomMember{{ProfileID: 5, Name: "Eve"}}
	h.start()
	h.tick(0)

	h.svc.callbacks.OnStats(online.StatsResult{ProfileID: 77, Stats: models.PlayerStats{ProfileID: 77}})
	h.tick(0)

	_, ok := h.ctrl.stats[77]
	assert.False(t, ok)
}

func TestBuddyOverlay(t *testing.T) {
	h := newHarness(t, Options{})
	h.svc.members = []models.RoomMember{
		{ProfileID: 2, Name: "Bob", Flags: models.MemberFlagBuddy},
		{ProfileID: 3, Name: "Carl"},
	}
	h.start()
	h.tick(0)

	h.send(Event{Kind: EventToggleBuddies})
	h.tick(0)

	assert.True(t, h.view.buddiesVisible)
	require.Len(t, h.view.buddies, 1)
	assert.Equal(t, "Bob", h.view.buddies[0].Name)

	h.send(Event{Kind: EventToggleBuddies})
	assert.False(t, h.view.buddiesVisible)
}

func TestHidingBuddiesKeepsPendingRedraw(t *testing.T) {
	h := newHarness(t, Options{})
	h.svc.members = []models.RoomMember{{ProfileID: 2, Name: "Bob", Flags: models.MemberFlagBuddy}}
	h.start()
	h.send(Event{Kind: EventToggleBuddies})
	h.tick(0)
	require.Len(t, h.view.players, 1)

	h.svc.members = append(h.svc.members, models.RoomMember{ProfileID: 3, Name: "Carl"})
	h.send(Event{Kind: EventRefresh})
	h.send(Event{Kind: EventToggleBuddies})
	h.tick(time.Second)

	assert.False(t, h.view.buddiesVisible)
	assert.Len(t, h.view.players, 2)
}

func TestMentionNotifies(t *testing.T) {
	h := newHarness(t, Options{})
	h.start()

	h.svc.callbacks.OnChat(online.ChatMessage{From: "Bob", ProfileID: 2, Text: "gg DOZER"})
	h.svc.callbacks.OnChat(online.ChatMessage{From: "Dozer", ProfileID: 1, Text: "I am dozer"})
	h.svc.callbacks.OnChat(online.ChatMessage{From: "Bob", ProfileID: 2, Text: "anyone?"})
	h.tick(0)

	assert.Equal(t, []string{"Bob: gg DOZER"}, h.view.mentions)
}

func TestSwitchGroupRoomSavesPreference(t *testing.T) {
	h := newHarness(t, Options{})
	h.start()

	h.send(Event{Kind: EventGroupRoomSelected, RoomID: 3})

	h.svc.AssertCalled(t, "JoinGroupRoom", mock.Anything, 3)
	assert.Equal(t, 3, h.prefs.Int(config.PrefLastGroupRoom))
}

func TestRoomMessagesRenderGroupRooms(t *testing.T) {
	h := newHarness(t, Options{})
	h.svc.groupRooms = []models.GroupRoom{{ID: 1, Name: "Lobby"}, {ID: 2, Name: "Ranked"}}
	h.svc.current, h.svc.inRoom = h.svc.groupRooms[1], true
	h.start()

	h.svc.queue = []online.Message{{Kind: online.RoomAdded, Room: h.svc.groupRooms[1]}}
	h.tick(0)

	assert.Equal(t, h.svc.groupRooms, h.view.groupRooms)
	assert.Equal(t, 2, h.view.currentRoom)
}

func TestChatSubmit(t *testing.T) {
	h := newHarness(t, Options{})
	h.svc.On("SendChat", mock.Anything, "hello all", false).Return(nil).Once()
	h.svc.On("SendChat", mock.Anything, "waves", true).Return(nil).Once()
	h.start()

	h.send(Event{Kind: EventChatSubmit, Text: "  hello all  "})
	h.send(Event{Kind: EventChatSubmit, Text: "/ME waves"})
	h.send(Event{Kind: EventChatSubmit, Text: "/me"})
	h.send(Event{Kind: EventChatSubmit, Text: "   "})

	h.svc.AssertExpectations(t)
	h.svc.AssertNumberOfCalls(t, "SendChat", 2)
}

func TestChatRateLimit(t *testing.T) {
	h := newHarness(t, Options{ChatRate: 1, ChatBurst: 2})
	h.svc.On("SendChat", mock.Anything, mock.Anything, false).Return(nil)
	h.start()

	for i := 0; i < 3; i++ {
		h.send(Event{Kind: EventChatSubmit, Text: "spam"})
	}
	h.svc.AssertNumberOfCalls(t, "SendChat", 2)
	assert.Equal(t, ChatLine{Text: "chat.slow_down", System: true}, h.view.lastChat())

	h.tick(time.Second)
	h.send(Event{Kind: EventChatSubmit, Text: "later"})
	h.svc.AssertNumberOfCalls(t, "SendChat", 3)
}

func TestSlashCommands(t *testing.T) {
	t.Run("help", func(t *testing.T) {
		h := newHarness(t, Options{})
		h.start()
		h.send(Event{Kind: EventChatSubmit, Text: "/help"})
		require.Len(t, h.view.chat, len(commands.HelpMessageIDs(false)))
		assert.Equal(t, ChatLine{Text: "help.host", System: true}, h.view.chat[0])
	})

	t.Run("unknown", func(t *testing.T) {
		h := newHarness(t, Options{})
		h.start()
		h.send(Event{Kind: EventChatSubmit, Text: "/dance now"})
		assert.Equal(t, "chat.unknown_command map[Command:dance]", h.view.lastChat().Text)
	})

	t.Run("debug command without debug build", func(t *testing.T) {
		h := newHarness(t, Options{})
		h.svc.games = []models.StagingRoom{game(1)}
		h.start()
		h.tick(0)
		h.send(Event{Kind: EventChatSubmit, Text: "/fakecrc"})
		assert.Equal(t, "chat.unknown_command map[Command:fakecrc]", h.view.lastChat().Text)
		h.tick(0)
		assert.True(t, h.view.games[0].Compatible)
	})

	t.Run("relay modes", func(t *testing.T) {
		h := newHarness(t, Options{})
		h.svc.On("SetRelayMode", mock.Anything, online.RelayForce).Return(nil).Once()
		h.svc.On("SetRelayMode", mock.Anything, online.RelayAllow).Return(nil).Once()
		h.start()

		h.send(Event{Kind: EventChatSubmit, Text: "/forcerelay"})
		assert.Equal(t, "chat.relay_forced", h.view.lastChat().Text)
		h.send(Event{Kind: EventChatSubmit, Text: "/allowrelay"})
		assert.Equal(t, "chat.relay_allowed", h.view.lastChat().Text)
		h.svc.AssertExpectations(t)
	})

	t.Run("nick", func(t *testing.T) {
		h := newHarness(t, Options{})
		h.svc.On("SetDisplayName", mock.Anything, "Bobby").Return(nil).Once()
		h.start()

		h.send(Event{Kind: EventChatSubmit, Text: "/nick Bobby"})
		assert.Equal(t, "chat.name_changed map[Name:Bobby]", h.view.lastChat().Text)

		h.send(Event{Kind: EventChatSubmit, Text: "/name"})
		assert.Equal(t, "chat.name_missing", h.view.lastChat().Text)
		h.svc.AssertExpectations(t)
	})

	t.Run("fakecrc flips compatibility", func(t *testing.T) {
		h := newHarness(t, Options{DebugCommands: true})
		h.svc.games = []models.StagingRoom{game(1)}
		h.start()
		h.tick(0)
		require.True(t, h.view.games[0].Compatible)

		h.send(Event{Kind: EventChatSubmit, Text: "/fakecrc"})
		assert.Equal(t, "chat.fakecrc_on", h.view.lastChat().Text)
		h.tick(0)
		assert.False(t, h.view.games[0].Compatible)

		h.send(Event{Kind: EventChatSubmit, Text: "/fakecrc"})
		assert.Equal(t, "chat.fakecrc_off", h.view.lastChat().Text)
		h.tick(0)
		assert.True(t, h.view.games[0].Compatible)
	})

	t.Run("slots", func(t *testing.T) {
		h := newHarness(t, Options{DebugCommands: true})
		h.svc.games = []models.StagingRoom{game(1)}
		h.start()
		h.tick(0)

		h.send(Event{Kind: EventChatSubmit, Text: "/slots"})
		assert.Equal(t, "lobby.no_game_selected", h.view.lastChat().Text)

		h.send(Event{Kind: EventGameSelected, GameID: 1})
		h.send(Event{Kind: EventChatSubmit, Text: "/slots"})
		assert.Equal(t, "chat.slots map[Game:game Slots:Player, Open]", h.view.lastChat().Text)
	})

	t.Run("refresh", func(t *testing.T) {
		h := newHarness(t, Options{})
		h.start()
		h.tick(0)
		h.svc.AssertNumberOfCalls(t, "RefreshGames", 1)

		h.send(Event{Kind: EventChatSubmit, Text: "/refresh"})
		assert.Equal(t, "chat.refreshing", h.view.lastChat().Text)
		h.tick(time.Millisecond)
		h.svc.AssertNumberOfCalls(t, "RefreshGames", 2)
	})
}
