package controllers

import "rts-lobby/internal/models"

// ChatLine is a line for the chat log. System lines are local notices that
// were never sent to the server.
type ChatLine struct {
	From    string
	Text    string
	Action  bool
	Private bool
	System  bool
}

// GameRow is one entry of the game list.
type GameRow struct {
	Game       models.StagingRoom
	Compatible bool
	Detailed   bool
}

// View is the widget surface of the lobby screen.
type View interface {
	Bind(handler func(Event))
	Unbind()
	SetPlayers(players []models.PlayerInfo)
	SetGames(rows []GameRow, selectedID int)
	SetGroupRooms(rooms []models.GroupRoom, currentID int)
	AppendChat(line ChatLine)
	SetLongList(enabled bool)
	SetBuddyOverlay(visible bool, buddies []models.PlayerInfo)
	SetJoinEnabled(enabled bool)
	ShowMapPreview(mapPath string)
	ShowMessage(title, text string)
	PromptPassword(prompt string, done func(password string, ok bool))
	NotifyMention(from, text string)
}

// Navigator moves between screens.
type Navigator interface {
	EnterStaging(room models.StagingRoom)
	Pop()
}

// Transition is the screen entry/exit animation.
type Transition interface {
	Start(reverse bool)
	Done() bool
}

// Localizer resolves message ids to user-facing text.
type Localizer interface {
	Text(id string, data map[string]interface{}) string
}
