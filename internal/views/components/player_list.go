package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"rts-lobby/internal/models"
)

// PlayerList shows the members of the current group room.
type PlayerList struct {
	container *fyne.Container
	header    *widget.Label
	list      *widget.List
	players   []models.PlayerInfo
}

func NewPlayerList(title string) *PlayerList {
	pl := &PlayerList{}
	pl.header = widget.NewLabelWithStyle(title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	pl.list = widget.NewList(
		func() int { return len(pl.players) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(pl.players) {
				return
			}
			p := pl.players[id]
			label := obj.(*widget.Label)
			label.TextStyle = fyne.TextStyle{Bold: p.Buddy}
			label.SetText(FormatPlayer(p))
		},
	)
	pl.list.OnSelected = func(widget.ListItemID) { pl.list.UnselectAll() }
	pl.container = container.NewBorder(pl.header, nil, nil, nil, pl.list)
	return pl
}

// FormatPlayer renders one player row.
func FormatPlayer(p models.PlayerInfo) string {
	if !p.HasStats {
		return p.Name
	}
	row := fmt.Sprintf("%s  [%s]  %d/%d", p.Name, p.Rank.Name, p.Wins, p.Losses)
	if p.Side != models.SideRandom && p.Side.Valid() {
		row += "  " + p.Side.String()
	}
	return row
}

func (pl *PlayerList) SetPlayers(players []models.PlayerInfo) {
	pl.players = append(pl.players[:0], players...)
	pl.list.Refresh()
}

func (pl *PlayerList) Len() int {
	return len(pl.players)
}

// GetContainer returns the main container
func (pl *PlayerList) GetContainer() *fyne.Container {
	return pl.container
}
