package views

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"rts-lobby/internal/controllers"
	"rts-lobby/internal/models"
	"rts-lobby/internal/views/components"
)

// StagingView is the screen pushed after a successful host or join. It
// lists the room's slots and offers a way back to the lobby.
type StagingView struct {
	room        models.StagingRoom
	content     *fyne.Container
	slots       *widget.List
	leaveButton *widget.Button
	preview     *components.MapPreview
}

func NewStagingView(room models.StagingRoom, text controllers.Localizer, thumbs components.Thumbnailer, onLeave func()) *StagingView {
	t := func(id string) string {
		if text == nil {
			return id
		}
		return text.Text(id, nil)
	}

	sv := &StagingView{room: room}
	sv.slots = widget.NewList(
		func() int { return len(sv.room.Slots) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= 0 && id < len(sv.room.Slots) {
				obj.(*widget.Label).SetText(fmt.Sprintf("%d. %s", id+1, sv.room.Slots[id]))
			}
		},
	)
	sv.slots.OnSelected = func(widget.ListItemID) { sv.slots.UnselectAll() }

	sv.leaveButton = widget.NewButton(t("button.leave"), func() {
		if onLeave != nil {
			onLeave()
		}
	})

	sv.preview = components.NewMapPreview(thumbs, t)
	sv.preview.SetMap(room.MapPath)

	header := container.NewVBox(
		widget.NewLabelWithStyle(room.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel(fmt.Sprintf("%s: %s", t("label.host"), room.Host)),
	)

	sv.content = container.NewBorder(
		header,
		container.NewHBox(sv.leaveButton),
		nil,
		sv.preview.GetContainer(),
		container.NewBorder(
			widget.NewLabelWithStyle(t("label.slots"), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			nil, nil, nil,
			sv.slots,
		),
	)
	return sv
}

func (sv *StagingView) Content() fyne.CanvasObject {
	return sv.content
}

func (sv *StagingView) Room() models.StagingRoom {
	return sv.room
}

func (sv *StagingView) LeaveButton() *widget.Button {
	return sv.leaveButton
}
