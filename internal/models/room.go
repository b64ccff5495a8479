package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidRoomID = errors.New("room id must not be negative")
	ErrEmptyRoomName = errors.New("room name must not be empty")
	ErrTooManySlots  = errors.New("too many slots")
)

// MaxSlots is the largest number of player slots a staging room may have.
const MaxSlots = 8

type RoomFlags uint8

const (
	// RoomFlagShowAllMatches makes the game list ignore group room ids.
	RoomFlagShowAllMatches RoomFlags = 1 << iota
	RoomFlagDefault
)

// GroupRoom is a chat room in which players gather and browse games.
type GroupRoom struct {
	ID    int
	Name  string
	Flags RoomFlags
}

func NewGroupRoom(id int, name string, flags RoomFlags) (GroupRoom, error) {
	if id < 0 {
		return GroupRoom{}, fmt.Errorf("group room %d: %w", id, ErrInvalidRoomID)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return GroupRoom{}, fmt.Errorf("group room %d: %w", id, ErrEmptyRoomName)
	}
	return GroupRoom{ID: id, Name: name, Flags: flags}, nil
}

func (r GroupRoom) ShowAllMatches() bool {
	return r.Flags&RoomFlagShowAllMatches != 0
}

// SlotState describes what occupies a seat in a staging room.
type SlotState int

const (
	SlotOpen SlotState = iota
	SlotClosed
	SlotAIEasy
	SlotAIMedium
	SlotAIBrutal
	SlotPlayer
)

func (s SlotState) String() string {
	switch s {
	case SlotOpen:
		return "Open"
	case SlotClosed:
		return "Closed"
	case SlotAIEasy:
		return "Easy AI"
	case SlotAIMedium:
		return "Medium AI"
	case SlotAIBrutal:
		return "Brutal AI"
	case SlotPlayer:
		return "Player"
	default:
		return fmt.Sprintf("SlotState(%d)", int(s))
	}
}

func (s SlotState) IsAI() bool {
	return s == SlotAIEasy || s == SlotAIMedium || s == SlotAIBrutal
}

// CRCInfo is the pair of checksums two clients must share to play together.
type CRCInfo struct {
	ExeCRC uint32
	IniCRC uint32
}

// StagingRoom is a hosted match waiting for players.
type StagingRoom struct {
	ID          int
	GroupRoomID int
	Name        string
	Host        string
	HasPassword bool
	ExeCRC      uint32
	IniCRC      uint32
	Slots       []SlotState
	MapPath     string
	InProgress  bool
}

func NewStagingRoom(room StagingRoom) (StagingRoom, error) {
	if room.ID < 0 {
		return StagingRoom{}, fmt.Errorf("staging room %d: %w", room.ID, ErrInvalidRoomID)
	}
	room.Name = strings.TrimSpace(room.Name)
	if room.Name == "" {
		return StagingRoom{}, fmt.Errorf("staging room %d: %w", room.ID, ErrEmptyRoomName)
	}
	if len(room.Slots) > MaxSlots {
		return StagingRoom{}, fmt.Errorf("staging room %d: %w (%d)", room.ID, ErrTooManySlots, len(room.Slots))
	}
	room.Slots = append([]SlotState(nil), room.Slots...)
	return room, nil
}

func (r StagingRoom) OpenSlots() int {
	n := 0
	for _, s := range r.Slots {
		if s == SlotOpen {
			n++
		}
	}
	return n
}

func (r StagingRoom) PlayerCount() int {
	n := 0
	for _, s := range r.Slots {
		if s == SlotPlayer {
			n++
		}
	}
	return n
}

func (r StagingRoom) IsFull() bool {
	return r.OpenSlots() == 0
}

// CompatibleWith reports whether a client with the given checksums may join.
func (r StagingRoom) CompatibleWith(local CRCInfo) bool {
	return r.ExeCRC == local.ExeCRC && r.IniCRC == local.IniCRC
}

// MapName is the last path element of MapPath without its extension.
func (r StagingRoom) MapName() string {
	return MapName(r.MapPath)
}

// MapName strips the directories and extension from a map path. Both slash
// styles are accepted.
func MapName(path string) string {
	p := strings.ReplaceAll(path, "\\", "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	if i := strings.LastIndex(p, "."); i > 0 {
		p = p[:i]
	}
	return p
}

func (r StagingRoom) equal(o StagingRoom) bool {
	if r.ID != o.ID || r.GroupRoomID != o.GroupRoomID || r.Name != o.Name ||
		r.Host != o.Host || r.HasPassword != o.HasPassword ||
		r.ExeCRC != o.ExeCRC || r.IniCRC != o.IniCRC ||
		r.MapPath != o.MapPath || r.InProgress != o.InProgress ||
		len(r.Slots) != len(o.Slots) {
		return false
	}
	for i := range r.Slots {
		if r.Slots[i] != o.Slots[i] {
			return false
		}
	}
	return true
}
