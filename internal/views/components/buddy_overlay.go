package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"rts-lobby/internal/models"
)

// BuddyOverlay is the collapsible panel listing buddies in the room.
type BuddyOverlay struct {
	container *fyne.Container
	list      *widget.List
	buddies   []models.PlayerInfo
}

func NewBuddyOverlay(text Text) *BuddyOverlay {
	bo := &BuddyOverlay{}
	bo.list = widget.NewList(
		func() int { return len(bo.buddies) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= 0 && id < len(bo.buddies) {
				obj.(*widget.Label).SetText(FormatPlayer(bo.buddies[id]))
			}
		},
	)
	bo.list.OnSelected = func(widget.ListItemID) { bo.list.UnselectAll() }
	bo.container = container.NewBorder(
		widget.NewLabelWithStyle(text("label.buddies"), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		bo.list,
	)
	bo.container.Hide()
	return bo
}

// Set shows or hides the overlay. A nil list keeps the current rows.
func (bo *BuddyOverlay) Set(visible bool, buddies []models.PlayerInfo) {
	if buddies != nil || !visible {
		bo.buddies = append(bo.buddies[:0], buddies...)
		bo.list.Refresh()
	}
	if visible {
		bo.container.Show()
	} else {
		bo.container.Hide()
	}
}

func (bo *BuddyOverlay) Visible() bool {
	return bo.container.Visible()
}

func (bo *BuddyOverlay) Len() int {
	return len(bo.buddies)
}

// GetContainer returns the main container
func (bo *BuddyOverlay) GetContainer() *fyne.Container {
	return bo.container
}
