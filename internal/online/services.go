package online

import (
	"context"
	"errors"

	"rts-lobby/internal/models"
)

var (
	ErrNotConnected = errors.New("not connected to the online service")
	ErrClosed       = errors.New("online client closed")
)

// RelayMode selects how game traffic is routed between peers.
type RelayMode int

const (
	RelayAllow RelayMode = iota
	RelayForce
)

func (m RelayMode) String() string {
	if m == RelayForce {
		return "force"
	}
	return "allow"
}

type CreateGameRequest struct {
	Name     string
	Password string
	MapPath  string
	Slots    []models.SlotState
	CRC      models.CRCInfo
}

// GameResult is delivered to the create and join callbacks.
type GameResult struct {
	GameID int
	Result models.JoinResult
	Game   models.StagingRoom
}

// StatsResult answers a RequestStats call. Err is set when the lookup failed.
type StatsResult struct {
	ProfileID int64
	Stats     models.PlayerStats
	Err       error
}

// Callbacks are invoked from the transport goroutine. Implementations must
// not touch UI state directly.
type Callbacks struct {
	OnGameCreated   func(GameResult)
	OnGameJoined    func(GameResult)
	OnChat          func(ChatMessage)
	OnRosterChanged func()
	OnStats         func(StatsResult)
}

type Rooms interface {
	RefreshGroupRooms(ctx context.Context) error
	JoinGroupRoom(ctx context.Context, roomID int) error
	GroupRooms() []models.GroupRoom
	CurrentGroupRoom() (models.GroupRoom, bool)
	Members() []models.RoomMember
}

type Lobby interface {
	RefreshGames(ctx context.Context) error
	Games() []models.StagingRoom
	CreateGame(ctx context.Context, req CreateGameRequest) error
	JoinGame(ctx context.Context, gameID int, password string) error
	LeaveGame(ctx context.Context) error
}

type Auth interface {
	LocalProfile() models.Profile
	SetDisplayName(ctx context.Context, name string) error
}

type Stats interface {
	RequestStats(ctx context.Context, profileID int64) error
}

type Chat interface {
	SendChat(ctx context.Context, text string, action bool) error
}

type Network interface {
	SetRelayMode(ctx context.Context, mode RelayMode) error
}

type Messages interface {
	Poll(max int) []Message
	SetCallbacks(cb Callbacks)
	ClearCallbacks()
}

// Services is everything the lobby screen needs from the backend.
type Services interface {
	Rooms
	Lobby
	Auth
	Stats
	Chat
	Network
	Messages
}
