package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"rts-lobby/internal/models"
)

// Text resolves message ids for widget captions.
type Text func(id string) string

// Toolbar holds the lobby's navigation and action buttons, the group room
// picker and the detailed list toggle.
type Toolbar struct {
	container     *fyne.Container
	backButton    *widget.Button
	refreshButton *widget.Button
	hostButton    *widget.Button
	joinButton    *widget.Button
	buddiesButton *widget.Button
	longListCheck *widget.Check
	roomSelect    *widget.Select

	// Event handlers
	backHandler     func()
	refreshHandler  func()
	hostHandler     func()
	joinHandler     func()
	buddiesHandler  func()
	longListHandler func(bool)
	roomHandler     func(int)

	// State
	rooms    []models.GroupRoom
	updating bool
	text     Text
}

// NewToolbar creates a new toolbar component
func NewToolbar(text Text) *Toolbar {
	toolbar := &Toolbar{text: text}
	toolbar.createComponents()
	toolbar.buildLayout()
	toolbar.setupEventHandlers()
	return toolbar
}

func (t *Toolbar) createComponents() {
	t.backButton = widget.NewButton(t.text("button.back"), nil)

	t.refreshButton = widget.NewButton(t.text("button.refresh"), nil)

	t.hostButton = widget.NewButton(t.text("button.host"), nil)
	t.hostButton.Importance = widget.HighImportance

	t.joinButton = widget.NewButton(t.text("button.join"), nil)
	t.joinButton.Importance = widget.HighImportance
	t.joinButton.Disable()

	t.buddiesButton = widget.NewButton(t.text("button.buddies"), nil)

	t.longListCheck = widget.NewCheck(t.text("check.long_list"), nil)

	t.roomSelect = widget.NewSelect(nil, nil)
}

func (t *Toolbar) buildLayout() {
	roomSection := container.NewHBox(
		widget.NewLabel(t.text("label.group_room")),
		t.roomSelect,
	)

	actionSection := container.NewHBox(
		t.refreshButton,
		t.hostButton,
		t.joinButton,
		widget.NewSeparator(),
		t.buddiesButton,
	)

	t.container = container.NewHBox(
		t.backButton,
		widget.NewSeparator(),
		roomSection,
		widget.NewSeparator(),
		actionSection,
		widget.NewSeparator(),
		t.longListCheck,
	)
}

func (t *Toolbar) setupEventHandlers() {
	t.backButton.OnTapped = func() {
		if t.backHandler != nil {
			t.backHandler()
		}
	}

	t.refreshButton.OnTapped = func() {
		if t.refreshHandler != nil {
			t.refreshHandler()
		}
	}

	t.hostButton.OnTapped = func() {
		if t.hostHandler != nil {
			t.hostHandler()
		}
	}

	t.joinButton.OnTapped = func() {
		if t.joinHandler != nil {
			t.joinHandler()
		}
	}

	t.buddiesButton.OnTapped = func() {
		if t.buddiesHandler != nil {
			t.buddiesHandler()
		}
	}

	t.longListCheck.OnChanged = func(checked bool) {
		if t.updating || t.longListHandler == nil {
			return
		}
		t.longListHandler(checked)
	}

	t.roomSelect.OnChanged = func(name string) {
		if t.updating || t.roomHandler == nil {
			return
		}
		idx := t.roomSelect.SelectedIndex()
		if idx < 0 || idx >= len(t.rooms) {
			return
		}
		t.roomHandler(t.rooms[idx].ID)
	}
}

func (t *Toolbar) SetBackHandler(handler func())                { t.backHandler = handler }
func (t *Toolbar) SetRefreshHandler(handler func())             { t.refreshHandler = handler }
func (t *Toolbar) SetHostHandler(handler func())                { t.hostHandler = handler }
func (t *Toolbar) SetJoinHandler(handler func())                { t.joinHandler = handler }
func (t *Toolbar) SetBuddiesHandler(handler func())             { t.buddiesHandler = handler }
func (t *Toolbar) SetLongListHandler(handler func(bool))        { t.longListHandler = handler }
func (t *Toolbar) SetGroupRoomHandler(handler func(roomID int)) { t.roomHandler = handler }

// SetGroupRooms replaces the room picker options without firing the
// selection handler.
func (t *Toolbar) SetGroupRooms(rooms []models.GroupRoom, currentID int) {
	t.updating = true
	defer func() { t.updating = false }()

	t.rooms = append(t.rooms[:0], rooms...)
	names := make([]string, len(rooms))
	selected := -1
	for i, r := range rooms {
		names[i] = r.Name
		if r.ID == currentID {
			selected = i
		}
	}
	t.roomSelect.SetOptions(names)
	if selected >= 0 {
		t.roomSelect.SetSelectedIndex(selected)
	} else {
		t.roomSelect.ClearSelected()
	}
}

// SetLongList updates the check box without firing its handler.
func (t *Toolbar) SetLongList(enabled bool) {
	t.updating = true
	t.longListCheck.SetChecked(enabled)
	t.updating = false
}

func (t *Toolbar) SetJoinEnabled(enabled bool) {
	if enabled {
		t.joinButton.Enable()
	} else {
		t.joinButton.Disable()
	}
}

// SetEnabled toggles every control, used while the screen is inactive.
func (t *Toolbar) SetEnabled(enabled bool) {
	for _, w := range []fyne.Disableable{t.backButton, t.refreshButton, t.hostButton, t.buddiesButton, t.longListCheck, t.roomSelect} {
		if enabled {
			w.Enable()
		} else {
			w.Disable()
		}
	}
	if !enabled {
		t.joinButton.Disable()
	}
}

// GetContainer returns the main container
func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}

func (t *Toolbar) BackButton() *widget.Button    { return t.backButton }
func (t *Toolbar) RefreshButton() *widget.Button { return t.refreshButton }
func (t *Toolbar) HostButton() *widget.Button    { return t.hostButton }
func (t *Toolbar) JoinButton() *widget.Button    { return t.joinButton }
func (t *Toolbar) BuddiesButton() *widget.Button { return t.buddiesButton }
func (t *Toolbar) LongListCheck() *widget.Check  { return t.longListCheck }
func (t *Toolbar) RoomSelect() *widget.Select    { return t.roomSelect }
