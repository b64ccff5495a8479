package controllers

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"

	"rts-lobby/internal/models"
	"rts-lobby/internal/online"
)

// --- Services ---

type MockServices struct {
	mock.Mock

	queue      []online.Message
	callbacks  online.Callbacks
	cleared    int
	games      []models.StagingRoom
	members    []models.RoomMember
	groupRooms []models.GroupRoom
	current    models.GroupRoom
	inRoom     bool
	profile    models.Profile
}

func newMockServices() *MockServices {
	m := &MockServices{profile: models.Profile{ProfileID: 1, DisplayName: "Dozer"}}
	m.On("RefreshGroupRooms", mock.Anything).Return(nil).Maybe()
	m.On("JoinGroupRoom", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("RefreshGames", mock.Anything).Return(nil).Maybe()
	m.On("RequestStats", mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

func (m *MockServices) RefreshGroupRooms(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockServices) JoinGroupRoom(ctx context.Context, roomID int) error {
	return m.Called(ctx, roomID).Error(0)
}

func (m *MockServices) GroupRooms() []models.GroupRoom { return m.groupRooms }

func (m *MockServices) CurrentGroupRoom() (models.GroupRoom, bool) { return m.current, m.inRoom }

func (m *MockServices) Members() []models.RoomMember { return m.members }

func (m *MockServices) RefreshGames(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockServices) Games() []models.StagingRoom { return m.games }

func (m *MockServices) CreateGame(ctx context.Context, req online.CreateGameRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockServices) JoinGame(ctx context.Context, gameID int, password string) error {
	return m.Called(ctx, gameID, password).Error(0)
}

func (m *MockServices) LeaveGame(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockServices) LocalProfile() models.Profile { return m.profile }

func (m *MockServices) SetDisplayName(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockServices) RequestStats(ctx context.Context, profileID int64) error {
	return m.Called(ctx, profileID).Error(0)
}

func (m *MockServices) SendChat(ctx context.Context, text string, action bool) error {
	return m.Called(ctx, text, action).Error(0)
}

func (m *MockServices) SetRelayMode(ctx context.Context, mode online.RelayMode) error {
	return m.Called(ctx, mode).Error(0)
}

func (m *MockServices) Poll(max int) []online.Message {
	if max > len(m.queue) {
		max = len(m.queue)
	}
	out := m.queue[:max]
	m.queue = m.queue[max:]
	return out
}

func (m *MockServices) SetCallbacks(cb online.Callbacks) { m.callbacks = cb }

func (m *MockServices) ClearCallbacks() {
	m.callbacks = online.Callbacks{}
	m.cleared++
}

// --- View ---

type shownMessage struct {
	title string
	text  string
}

type fakeView struct {
	handler        func(Event)
	unbound        bool
	players        []models.PlayerInfo
	games          []GameRow
	selectedID     int
	groupRooms     []models.GroupRoom
	currentRoom    int
	chat           []ChatLine
	longList       bool
	buddiesVisible bool
	buddies        []models.PlayerInfo
	joinEnabled    bool
	preview        string
	messages       []shownMessage
	passwordPrompt func(string, bool)
	mentions       []string
	setGamesCalls  int
}

func (v *fakeView) Bind(handler func(Event)) { v.handler = handler }
func (v *fakeView) Unbind()                  { v.handler = nil; v.unbound = true }

func (v *fakeView) SetPlayers(players []models.PlayerInfo) { v.players = players }

func (v *fakeView) SetGames(rows []GameRow, selectedID int) {
	v.games = rows
	v.selectedID = selectedID
	v.setGamesCalls++
}

func (v *fakeView) SetGroupRooms(rooms []models.GroupRoom, currentID int) {
	v.groupRooms = rooms
	v.currentRoom = currentID
}

func (v *fakeView) AppendChat(line ChatLine) { v.chat = append(v.chat, line) }
func (v *fakeView) SetLongList(enabled bool) { v.longList = enabled }

func (v *fakeView) SetBuddyOverlay(visible bool, buddies []models.PlayerInfo) {
	v.buddiesVisible = visible
	v.buddies = buddies
}

func (v *fakeView) SetJoinEnabled(enabled bool)   { v.joinEnabled = enabled }
func (v *fakeView) ShowMapPreview(mapPath string) { v.preview = mapPath }

func (v *fakeView) ShowMessage(title, text string) {
	v.messages = append(v.messages, shownMessage{title, text})
}

func (v *fakeView) PromptPassword(prompt string, done func(string, bool)) {
	v.passwordPrompt = done
}

func (v *fakeView) NotifyMention(from, text string) {
	v.mentions = append(v.mentions, from+": "+text)
}

func (v *fakeView) lastChat() ChatLine {
	if len(v.chat) == 0 {
		return ChatLine{}
	}
	return v.chat[len(v.chat)-1]
}

// --- Navigator, Transition, Localizer ---

type fakeNavigator struct {
	staged []models.StagingRoom
	pops   int
}

func (n *fakeNavigator) EnterStaging(room models.StagingRoom) { n.staged = append(n.staged, room) }
func (n *fakeNavigator) Pop()                                 { n.pops++ }

type fakeTransition struct {
	done   bool
	starts []bool
}

func (t *fakeTransition) Start(reverse bool) {
	t.starts = append(t.starts, reverse)
	t.done = false
}

func (t *fakeTransition) Done() bool { return t.done }

// echoLocalizer renders ids with their template data so assertions do not
// depend on the message files.
type echoLocalizer struct{}

func (echoLocalizer) Text(id string, data map[string]interface{}) string {
	if len(data) == 0 {
		return id
	}
	return fmt.Sprintf("%s %v", id, data)
}
