package views

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"rts-lobby/internal/controllers"
	"rts-lobby/internal/models"
	"rts-lobby/internal/views/components"
)

// LobbyView is the fyne rendition of the lobby screen. All methods run on
// the UI goroutine.
type LobbyView struct {
	app     fyne.App
	window  fyne.Window
	text    controllers.Localizer
	content *fyne.Container

	toolbar   *components.Toolbar
	players   *components.PlayerList
	games     *components.GameList
	chat      *components.ChatPanel
	preview   *components.MapPreview
	buddies   *components.BuddyOverlay
	statusBar *components.StatusBar

	handler func(controllers.Event)

	passwordDialog *dialog.FormDialog
	passwordEntry  *widget.Entry
}

var _ controllers.View = (*LobbyView)(nil)

// NewLobbyView creates the lobby widgets. Nothing is shown until the
// content is placed on a window.
func NewLobbyView(app fyne.App, window fyne.Window, text controllers.Localizer, thumbs components.Thumbnailer) *LobbyView {
	lv := &LobbyView{
		app:    app,
		window: window,
		text:   text,
	}

	lv.initializeComponents(thumbs)
	lv.buildLayout()
	lv.setupEventHandlers()

	return lv
}

func (lv *LobbyView) t(id string) string {
	if lv.text == nil {
		return id
	}
	return lv.text.Text(id, nil)
}

func (lv *LobbyView) initializeComponents(thumbs components.Thumbnailer) {
	lv.toolbar = components.NewToolbar(lv.t)
	lv.players = components.NewPlayerList(lv.t("label.players"))
	lv.games = components.NewGameList(lv.t)
	lv.chat = components.NewChatPanel(lv.t)
	lv.preview = components.NewMapPreview(thumbs, lv.t)
	lv.buddies = components.NewBuddyOverlay(lv.t)
	lv.statusBar = components.NewStatusBar(lv.t)
}

func (lv *LobbyView) buildLayout() {
	left := container.NewBorder(nil, lv.buddies.GetContainer(), nil, nil, lv.players.GetContainer())

	center := container.NewVSplit(lv.games.GetContainer(), lv.chat.GetContainer())
	center.SetOffset(0.45)

	right := container.NewVBox(lv.preview.GetContainer())

	body := container.NewHSplit(left, container.NewBorder(nil, nil, nil, right, center))
	body.SetOffset(0.22)

	lv.content = container.NewBorder(
		lv.toolbar.GetContainer(),
		lv.statusBar.GetContainer(),
		nil,
		nil,
		body,
	)
}

func (lv *LobbyView) setupEventHandlers() {
	lv.toolbar.SetBackHandler(func() { lv.emit(controllers.Event{Kind: controllers.EventBack}) })
	lv.toolbar.SetRefreshHandler(func() { lv.emit(controllers.Event{Kind: controllers.EventRefresh}) })
	lv.toolbar.SetHostHandler(func() { lv.emit(controllers.Event{Kind: controllers.EventHost}) })
	lv.toolbar.SetJoinHandler(func() { lv.emit(controllers.Event{Kind: controllers.EventJoin}) })
	lv.toolbar.SetBuddiesHandler(func() { lv.emit(controllers.Event{Kind: controllers.EventToggleBuddies}) })
	lv.toolbar.SetLongListHandler(func(enabled bool) {
		lv.emit(controllers.Event{Kind: controllers.EventLongListToggled, Enabled: enabled})
	})
	lv.toolbar.SetGroupRoomHandler(func(roomID int) {
		lv.emit(controllers.Event{Kind: controllers.EventGroupRoomSelected, RoomID: roomID})
	})

	lv.games.SetSelectHandler(func(gameID int) {
		lv.emit(controllers.Event{Kind: controllers.EventGameSelected, GameID: gameID})
	})
	lv.games.SetActivateHandler(func(gameID int) {
		lv.emit(controllers.Event{Kind: controllers.EventGameActivated, GameID: gameID})
	})

	lv.chat.SetSubmitHandler(func(text string) {
		lv.emit(controllers.Event{Kind: controllers.EventChatSubmit, Text: text})
	})
}

func (lv *LobbyView) emit(ev controllers.Event) {
	if lv.handler != nil {
		lv.handler(ev)
	}
}

// Content returns the root object of the screen
func (lv *LobbyView) Content() fyne.CanvasObject {
	return lv.content
}

func (lv *LobbyView) Bind(handler func(controllers.Event)) {
	lv.handler = handler
	lv.toolbar.SetEnabled(true)
}

func (lv *LobbyView) Unbind() {
	lv.handler = nil
	lv.toolbar.SetEnabled(false)
	if lv.passwordDialog != nil {
		lv.passwordDialog.Hide()
		lv.passwordDialog = nil
	}
}

func (lv *LobbyView) SetPlayers(players []models.PlayerInfo) {
	lv.players.SetPlayers(players)
	lv.statusBar.SetCounts(lv.players.Len(), lv.games.Len())
}

func (lv *LobbyView) SetGames(rows []controllers.GameRow, selectedID int) {
	lv.games.SetRows(rows, selectedID)
	lv.statusBar.SetCounts(lv.players.Len(), lv.games.Len())
	if selectedID < 0 {
		lv.preview.SetMap("")
	}
}

func (lv *LobbyView) SetGroupRooms(rooms []models.GroupRoom, currentID int) {
	lv.toolbar.SetGroupRooms(rooms, currentID)
	name := ""
	for _, r := range rooms {
		if r.ID == currentID {
			name = r.Name
			break
		}
	}
	lv.statusBar.SetRoom(name)
}

func (lv *LobbyView) AppendChat(line controllers.ChatLine) {
	lv.chat.Append(line)
}

func (lv *LobbyView) SetLongList(enabled bool) {
	lv.toolbar.SetLongList(enabled)
}

func (lv *LobbyView) SetBuddyOverlay(visible bool, buddies []models.PlayerInfo) {
	lv.buddies.Set(visible, buddies)
}

func (lv *LobbyView) SetJoinEnabled(enabled bool) {
	lv.toolbar.SetJoinEnabled(enabled)
}

func (lv *LobbyView) ShowMapPreview(mapPath string) {
	lv.preview.SetMap(mapPath)
}

// ShowMessage displays an information dialog
func (lv *LobbyView) ShowMessage(title, text string) {
	dialog.ShowInformation(title, text, lv.window)
}

// PromptPassword asks for a game password. done receives false when the
// dialog is dismissed.
func (lv *LobbyView) PromptPassword(prompt string, done func(password string, ok bool)) {
	if lv.passwordDialog != nil {
		lv.passwordDialog.Hide()
	}

	entry := widget.NewPasswordEntry()
	items := []*widget.FormItem{
		widget.NewFormItem("", widget.NewLabel(prompt)),
		widget.NewFormItem(lv.t("label.password"), entry),
	}
	d := dialog.NewForm(lv.t("lobby.title"), lv.t("button.join"), lv.t("button.cancel"), items, func(ok bool) {
		lv.passwordDialog = nil
		lv.passwordEntry = nil
		done(entry.Text, ok)
	}, lv.window)
	lv.passwordDialog = d
	lv.passwordEntry = entry
	d.Show()
	lv.window.Canvas().Focus(entry)
}

// NotifyMention raises a desktop notification for a chat line naming the
// local player.
func (lv *LobbyView) NotifyMention(from, text string) {
	if lv.app == nil {
		return
	}
	lv.app.SendNotification(fyne.NewNotification(lv.t("lobby.title"), from+": "+text))
}

func (lv *LobbyView) GetToolbar() *components.Toolbar       { return lv.toolbar }
func (lv *LobbyView) GetPlayerList() *components.PlayerList { return lv.players }
func (lv *LobbyView) GetGameList() *components.GameList     { return lv.games }
func (lv *LobbyView) GetChatPanel() *components.ChatPanel   { return lv.chat }
func (lv *LobbyView) GetMapPreview() *components.MapPreview { return lv.preview }
func (lv *LobbyView) GetBuddyOverlay() *components.BuddyOverlay {
	return lv.buddies
}
func (lv *LobbyView) GetStatusBar() *components.StatusBar { return lv.statusBar }
