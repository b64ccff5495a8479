package controllers

// EventKind identifies a user action raised by the lobby view.
type EventKind int

const (
	EventBack EventKind = iota + 1
	EventRefresh
	EventHost
	EventJoin
	EventToggleBuddies
	EventChatSubmit
	EventGameSelected
	EventGameActivated
	EventGroupRoomSelected
	EventLongListToggled
)

// Event is one widget interaction translated into controller terms.
type Event struct {
	Kind    EventKind
	Text    string
	GameID  int
	RoomID  int
	Enabled bool
}
