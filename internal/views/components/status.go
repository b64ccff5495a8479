package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar displays the current group room and list sizes
type StatusBar struct {
	container   *fyne.Container
	roomLabel   *widget.Label
	playersInfo *widget.Label
	gamesInfo   *widget.Label
	text        Text
}

// NewStatusBar creates a new status bar component
func NewStatusBar(text Text) *StatusBar {
	sb := &StatusBar{text: text}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents() {
	sb.roomLabel = widget.NewLabel("--")
	sb.playersInfo = widget.NewLabel("")
	sb.gamesInfo = widget.NewLabel("")
	sb.SetCounts(0, 0)
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewHBox(
		sb.roomLabel,
		widget.NewSeparator(),
		sb.playersInfo,
		widget.NewSeparator(),
		sb.gamesInfo,
	)
}

// SetRoom shows the current group room name
func (sb *StatusBar) SetRoom(name string) {
	if name == "" {
		name = "--"
	}
	sb.roomLabel.SetText(fmt.Sprintf("%s: %s", sb.text("label.group_room"), name))
}

// SetCounts updates the player and game totals
func (sb *StatusBar) SetCounts(players, games int) {
	sb.playersInfo.SetText(fmt.Sprintf("%s: %d", sb.text("label.players"), players))
	sb.gamesInfo.SetText(fmt.Sprintf("%s: %d", sb.text("label.games"), games))
}

// GetStatus returns the status line as displayed
func (sb *StatusBar) GetStatus() string {
	return sb.roomLabel.Text + " | " + sb.playersInfo.Text + " | " + sb.gamesInfo.Text
}

// GetContainer returns the status bar container
func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}
