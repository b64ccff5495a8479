package online

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"rts-lobby/internal/models"
)

// Envelope frames every websocket message in both directions.
type Envelope struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func newEnvelope(typ string, payload interface{}) (Envelope, error) {
	env := Envelope{Type: typ, ID: uuid.NewString()}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Envelope{}, fmt.Errorf("failed to encode %s payload: %w", typ, err)
		}
		env.Payload = raw
	}
	return env, nil
}

// Outgoing message types.
const (
	typeLogin          = "login"
	typeListGroupRooms = "list_group_rooms"
	typeJoinGroupRoom  = "join_group_room"
	typeListGames      = "list_games"
	typeCreateGame     = "create_game"
	typeJoinGame       = "join_game"
	typeLeaveGame      = "leave_game"
	typeSendChat       = "chat"
	typeSetName        = "set_name"
	typeGetStats       = "get_stats"
	typeSetRelay       = "set_relay"
)

// Incoming message types.
const (
	typeWelcome          = "welcome"
	typeGroupRooms       = "group_rooms"
	typeRoomAdded        = "room_added"
	typeRoomUpdated      = "room_updated"
	typeRoomRemoved      = "room_removed"
	typeMembers          = "members"
	typePlayerJoined     = "player_joined"
	typePlayerLeft       = "player_left"
	typePlayerChanged    = "player_changed"
	typeGames            = "games"
	typeGameAdded        = "game_added"
	typeGameUpdated      = "game_updated"
	typeGameRemoved      = "game_removed"
	typeChat             = "chat"
	typeJoinGameResult   = "join_game_result"
	typeCreateGameResult = "create_game_result"
	typeStats            = "stats"
	typeDisconnect       = "disconnect"
	typeProfile          = "profile"
)

type loginPayload struct {
	Name   string `json:"name"`
	ExeCRC uint32 `json:"exe_crc"`
	IniCRC uint32 `json:"ini_crc"`
}

type welcomePayload struct {
	ProfileID int64  `json:"profile_id"`
	Name      string `json:"name"`
}

type groupRoomPayload struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Flags uint8  `json:"flags"`
}

type groupRoomsPayload struct {
	Rooms []groupRoomPayload `json:"rooms"`
}

type idPayload struct {
	ID int `json:"id"`
}

type roomIDPayload struct {
	RoomID int `json:"room_id"`
}

type memberPayload struct {
	ProfileID int64  `json:"profile_id"`
	Name      string `json:"name"`
	Flags     uint8  `json:"flags"`
}

type membersPayload struct {
	RoomID  int             `json:"room_id"`
	Members []memberPayload `json:"members"`
}

type gamePayload struct {
	ID          int    `json:"id"`
	GroupRoomID int    `json:"group_room_id"`
	Name        string `json:"name"`
	Host        string `json:"host"`
	HasPassword bool   `json:"has_password"`
	ExeCRC      uint32 `json:"exe_crc"`
	IniCRC      uint32 `json:"ini_crc"`
	Slots       []int  `json:"slots"`
	MapPath     string `json:"map"`
	InProgress  bool   `json:"in_progress"`
}

type gamesPayload struct {
	Games []gamePayload `json:"games"`
}

type chatPayload struct {
	From      string `json:"from,omitempty"`
	ProfileID int64  `json:"profile_id,omitempty"`
	Text      string `json:"text"`
	Action    bool   `json:"action,omitempty"`
	Private   bool   `json:"private,omitempty"`
}

type createGamePayload struct {
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
	MapPath  string `json:"map"`
	Slots    []int  `json:"slots"`
	ExeCRC   uint32 `json:"exe_crc"`
	IniCRC   uint32 `json:"ini_crc"`
}

type joinGamePayload struct {
	GameID   int    `json:"game_id"`
	Password string `json:"password,omitempty"`
}

type gameResultPayload struct {
	GameID int          `json:"game_id"`
	Result int          `json:"result"`
	Game   *gamePayload `json:"game,omitempty"`
}

type namePayload struct {
	Name string `json:"name"`
}

type statsRequestPayload struct {
	ProfileID int64 `json:"profile_id"`
}

type statsPayload struct {
	ProfileID   int64               `json:"profile_id"`
	Wins        map[models.Side]int `json:"wins"`
	Losses      map[models.Side]int `json:"losses"`
	Disconnects map[models.Side]int `json:"disconnects"`
	Error       string              `json:"error,omitempty"`
}

type relayPayload struct {
	Mode string `json:"mode"`
}

type disconnectPayload struct {
	Reason string `json:"reason"`
}

var errEmptyMemberName = errors.New("member name must not be empty")

func (p groupRoomPayload) toModel() (models.GroupRoom, error) {
	return models.NewGroupRoom(p.ID, p.Name, models.RoomFlags(p.Flags))
}

func (p memberPayload) toModel() (models.RoomMember, error) {
	name := strings.TrimSpace(p.Name)
	if p.ProfileID <= 0 {
		return models.RoomMember{}, fmt.Errorf("member %q: invalid profile id %d", name, p.ProfileID)
	}
	if name == "" {
		return models.RoomMember{}, fmt.Errorf("member %d: %w", p.ProfileID, errEmptyMemberName)
	}
	return models.RoomMember{ProfileID: p.ProfileID, Name: name, Flags: models.MemberFlags(p.Flags)}, nil
}

func (p gamePayload) toModel() (models.StagingRoom, error) {
	slots := make([]models.SlotState, 0, len(p.Slots))
	for _, s := range p.Slots {
		state := models.SlotState(s)
		if state < models.SlotOpen || state > models.SlotPlayer {
			return models.StagingRoom{}, fmt.Errorf("staging room %d: invalid slot state %d", p.ID, s)
		}
		slots = append(slots, state)
	}
	return models.NewStagingRoom(models.StagingRoom{
		ID:          p.ID,
		GroupRoomID: p.GroupRoomID,
		Name:        p.Name,
		Host:        p.Host,
		HasPassword: p.HasPassword,
		ExeCRC:      p.ExeCRC,
		IniCRC:      p.IniCRC,
		Slots:       slots,
		MapPath:     p.MapPath,
		InProgress:  p.InProgress,
	})
}

func (p statsPayload) toModel() models.PlayerStats {
	return models.PlayerStats{
		ProfileID:   p.ProfileID,
		Wins:        p.Wins,
		Losses:      p.Losses,
		Disconnects: p.Disconnects,
	}
}

func slotInts(slots []models.SlotState) []int {
	out := make([]int, len(slots))
	for i, s := range slots {
		out[i] = int(s)
	}
	return out
}
