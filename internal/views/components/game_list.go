package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"rts-lobby/internal/controllers"
)

// GameList shows the staging rooms of the current group room. A tap selects
// a game, a double tap asks to join it.
type GameList struct {
	container *fyne.Container
	header    *widget.Label
	list      *widget.List
	rows      []controllers.GameRow
	text      Text

	selectHandler   func(gameID int)
	activateHandler func(gameID int)

	updating bool
}

// gameRowLabel is a list row that reports taps by row index.
type gameRowLabel struct {
	widget.Label
	id          widget.ListItemID
	onTap       func(widget.ListItemID)
	onDoubleTap func(widget.ListItemID)
}

func newGameRowLabel(onTap, onDoubleTap func(widget.ListItemID)) *gameRowLabel {
	r := &gameRowLabel{onTap: onTap, onDoubleTap: onDoubleTap}
	r.Truncation = fyne.TextTruncateEllipsis
	r.ExtendBaseWidget(r)
	return r
}

func (r *gameRowLabel) Tapped(*fyne.PointEvent) {
	if r.onTap != nil {
		r.onTap(r.id)
	}
}

func (r *gameRowLabel) DoubleTapped(*fyne.PointEvent) {
	if r.onDoubleTap != nil {
		r.onDoubleTap(r.id)
	}
}

func NewGameList(text Text) *GameList {
	gl := &GameList{text: text}
	gl.header = widget.NewLabelWithStyle(text("label.games"), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	gl.list = widget.NewList(
		func() int { return len(gl.rows) },
		func() fyne.CanvasObject {
			return newGameRowLabel(gl.list.Select, gl.activate)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(gl.rows) {
				return
			}
			row := gl.rows[id]
			label := obj.(*gameRowLabel)
			label.id = id
			label.Importance = rowImportance(row)
			label.SetText(FormatGameRow(row, gl.text))
		},
	)
	gl.list.OnSelected = func(id widget.ListItemID) {
		if gl.updating || gl.selectHandler == nil || id < 0 || id >= len(gl.rows) {
			return
		}
		gl.selectHandler(gl.rows[id].Game.ID)
	}
	gl.container = container.NewBorder(gl.header, nil, nil, nil, gl.list)
	return gl
}

func rowImportance(row controllers.GameRow) widget.Importance {
	switch {
	case !row.Compatible:
		return widget.DangerImportance
	case row.Game.InProgress:
		return widget.LowImportance
	default:
		return widget.MediumImportance
	}
}

// FormatGameRow renders a game in either the short or the detailed layout.
func FormatGameRow(row controllers.GameRow, text Text) string {
	g := row.Game
	s := fmt.Sprintf("%s  (%d/%d)", g.Name, g.PlayerCount(), len(g.Slots))
	if g.HasPassword {
		s += "  [" + text("label.password") + "]"
	}
	if !row.Detailed {
		return s
	}
	return fmt.Sprintf("%s  %s: %s  %s: %s", s, text("label.host"), g.Host, text("label.map"), g.MapName())
}

func (gl *GameList) activate(id widget.ListItemID) {
	if gl.activateHandler == nil || id < 0 || id >= len(gl.rows) {
		return
	}
	gl.activateHandler(gl.rows[id].Game.ID)
}

func (gl *GameList) SetSelectHandler(handler func(gameID int))   { gl.selectHandler = handler }
func (gl *GameList) SetActivateHandler(handler func(gameID int)) { gl.activateHandler = handler }

// SetRows replaces the list and restores the selection without firing the
// selection handler. A selectedID below zero clears the selection.
func (gl *GameList) SetRows(rows []controllers.GameRow, selectedID int) {
	gl.updating = true
	defer func() { gl.updating = false }()

	gl.rows = append(gl.rows[:0], rows...)
	gl.list.Refresh()

	for i, r := range gl.rows {
		if r.Game.ID == selectedID && selectedID >= 0 {
			gl.list.Select(i)
			return
		}
	}
	gl.list.UnselectAll()
}

func (gl *GameList) Len() int {
	return len(gl.rows)
}

// List exposes the underlying widget for keyboard focus.
func (gl *GameList) List() *widget.List {
	return gl.list
}

// GetContainer returns the main container
func (gl *GameList) GetContainer() *fyne.Container {
	return gl.container
}
