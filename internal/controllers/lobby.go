package controllers

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"rts-lobby/internal/config"
	"rts-lobby/internal/localization"
	"rts-lobby/internal/logger"
	"rts-lobby/internal/models"
	"rts-lobby/internal/online"
)

const component = "LobbyController"

const (
	GameRefreshInterval   = 10 * time.Second
	PlayerRefreshInterval = 5 * time.Second
	DefaultMaxMessages    = 20
	DefaultRequestTimeout = 5 * time.Second
	DefaultAttemptTimeout = 30 * time.Second
	noGame                = -1
)

// Options tunes the controller. Zero values fall back to defaults.
type Options struct {
	CRC                models.CRCInfo
	DebugCommands      bool
	DefaultMap         string
	ChatRate           float64
	ChatBurst          int
	MaxMessagesPerTick int
	RequestTimeout     time.Duration
	// AttemptTimeout bounds the wait for a host or join result.
	AttemptTimeout time.Duration
}

// Dependencies are the collaborators the controller drives.
type Dependencies struct {
	Services    online.Services
	View        View
	Navigator   Navigator
	Transition  Transition
	Preferences config.Preferences
	Localizer   Localizer
	Logger      logger.Logger
}

type messageBox struct {
	title string
	text  string
}

// LobbyController runs the lobby screen. Every method except the backend
// callbacks must be called from the UI goroutine; callbacks only post work
// into the inbox, which Update drains.
type LobbyController struct {
	services   online.Services
	view       View
	nav        Navigator
	transition Transition
	prefs      config.Preferences
	text       Localizer
	log        logger.Logger
	opts       Options

	limiter *rate.Limiter

	inboxMu sync.Mutex
	inbox   []func()

	ctx    context.Context
	cancel context.CancelFunc
	now    time.Time

	active         bool
	attemptPending bool
	attemptExpires time.Time
	leaving        bool
	navigating     bool
	pendingBoxes   []messageBox

	forceGames     bool
	forcePlayers   bool
	lastGameFetch  time.Time
	lastPlayerDraw time.Time

	games          []models.StagingRoom
	selectedGame   int
	longList       bool
	buddiesVisible bool
	fakeCRC        bool

	stats        map[int64]models.PlayerStats
	pendingStats map[int64]struct{}
	failedStats  map[int64]struct{}
}

func NewLobbyController(deps Dependencies, opts Options) *LobbyController {
	if opts.MaxMessagesPerTick <= 0 {
		opts.MaxMessagesPerTick = DefaultMaxMessages
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = DefaultAttemptTimeout
	}
	if opts.ChatRate <= 0 {
		opts.ChatRate = config.DefaultChatRate
	}
	if opts.ChatBurst <= 0 {
		opts.ChatBurst = config.DefaultChatBurst
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	if deps.Preferences == nil {
		deps.Preferences = config.NewMemoryPreferences()
	}

	return &LobbyController{
		services:     deps.Services,
		view:         deps.View,
		nav:          deps.Navigator,
		transition:   deps.Transition,
		prefs:        deps.Preferences,
		text:         deps.Localizer,
		log:          deps.Logger,
		opts:         opts,
		limiter:      rate.NewLimiter(rate.Limit(opts.ChatRate), opts.ChatBurst),
		selectedGame: noGame,
	}
}

// Init binds the view, subscribes to the backend and asks for the initial
// room list and room join.
func (c *LobbyController) Init(now time.Time) {
	if c.view == nil || c.services == nil {
		c.log.Warning(component, "init skipped, view or services missing", nil)
		return
	}

	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.now = now
	c.active = true
	c.attemptPending = false
	c.leaving = false
	c.navigating = false
	c.pendingBoxes = nil
	c.games = nil
	c.selectedGame = noGame
	c.buddiesVisible = false
	c.fakeCRC = false
	c.forceGames = true
	c.forcePlayers = true
	c.lastGameFetch = time.Time{}
	c.lastPlayerDraw = now
	c.stats = make(map[int64]models.PlayerStats)
	c.pendingStats = make(map[int64]struct{})
	c.failedStats = make(map[int64]struct{})
	c.inboxMu.Lock()
	c.inbox = nil
	c.inboxMu.Unlock()

	c.view.Bind(c.HandleEvent)
	c.longList = c.prefs.Bool(config.PrefLongGameList)
	c.view.SetLongList(c.longList)
	c.view.SetJoinEnabled(false)
	c.view.SetBuddyOverlay(false, nil)

	c.services.SetCallbacks(online.Callbacks{
		OnGameCreated:   func(r online.GameResult) { c.post(func() { c.onGameResult(r) }) },
		OnGameJoined:    func(r online.GameResult) { c.post(func() { c.onGameResult(r) }) },
		OnChat:          func(m online.ChatMessage) { c.post(func() { c.onChat(m) }) },
		OnRosterChanged: func() { c.post(func() { c.forcePlayers = true }) },
		OnStats:         func(r online.StatsResult) { c.post(func() { c.onStats(r) }) },
	})

	c.request("refresh group rooms", c.services.RefreshGroupRooms)
	room := c.prefs.Int(config.PrefLastGroupRoom)
	c.request("join group room", func(ctx context.Context) error {
		return c.services.JoinGroupRoom(ctx, room)
	})

	if c.transition != nil {
		c.transition.Start(false)
	}

	c.log.Info(component, "lobby entered", map[string]interface{}{
		"group_room": room,
		"long_list":  c.longList,
	})
}

// Resume is called when a screen pushed from the lobby is popped again.
func (c *LobbyController) Resume() {
	if !c.active {
		return
	}
	c.navigating = false
	c.attemptPending = false
	c.forceGames = true
	c.forcePlayers = true
	c.lastGameFetch = time.Time{}
	c.renderGroupRooms()
}

// Update runs one UI tick.
func (c *LobbyController) Update(now time.Time) {
	if !c.active {
		return
	}
	c.now = now

	c.drainInbox()
	if !c.active {
		return
	}

	if c.attemptPending && !c.navigating && !now.Before(c.attemptExpires) {
		c.log.Warning(component, "no host or join result received", map[string]interface{}{
			"timeout": c.opts.AttemptTimeout.String(),
		})
		c.attemptPending = false
		c.deferMessage(localization.JoinFailureMessageID(models.JoinTimeout), nil)
	}

	for _, box := range c.pendingBoxes {
		c.view.ShowMessage(box.title, box.text)
	}
	c.pendingBoxes = nil

	if c.leaving {
		if c.transitionDone() {
			c.Shutdown()
			if c.nav != nil {
				c.nav.Pop()
			}
		}
		return
	}

	if !c.transitionDone() || c.navigating {
		return
	}

	// Messages are taken one at a time so that anything behind a navigation
	// or disconnect stays queued.
	for i := 0; i < c.opts.MaxMessagesPerTick; i++ {
		batch := c.services.Poll(1)
		if len(batch) == 0 {
			break
		}
		c.dispatch(batch[0])
		if !c.active || c.navigating {
			return
		}
	}

	if now.Sub(c.lastGameFetch) >= GameRefreshInterval {
		c.lastGameFetch = now
		c.request("refresh games", c.services.RefreshGames)
		c.forceGames = true
	}
	if c.forceGames {
		c.forceGames = false
		c.renderGames()
	}

	if now.Sub(c.lastPlayerDraw) >= PlayerRefreshInterval {
		c.forcePlayers = true
	}
	if c.forcePlayers {
		c.forcePlayers = false
		c.lastPlayerDraw = now
		c.renderPlayers()
	}
}

// Shutdown unsubscribes from the backend, persists preferences and lets go
// of the view. It is safe to call more than once.
func (c *LobbyController) Shutdown() {
	if !c.active {
		return
	}
	c.active = false

	c.services.ClearCallbacks()
	c.prefs.SetBool(config.PrefLongGameList, c.longList)
	c.view.Unbind()
	if c.cancel != nil {
		c.cancel()
	}

	c.games = nil
	c.stats = nil
	c.pendingStats = nil
	c.failedStats = nil
	c.pendingBoxes = nil

	c.log.Info(component, "lobby closed", nil)
}

// Active reports whether the lobby is between Init and Shutdown.
func (c *LobbyController) Active() bool {
	return c.active
}

func (c *LobbyController) transitionDone() bool {
	return c.transition == nil || c.transition.Done()
}

func (c *LobbyController) post(fn func()) {
	c.inboxMu.Lock()
	c.inbox = append(c.inbox, fn)
	c.inboxMu.Unlock()
}

func (c *LobbyController) drainInbox() {
	c.inboxMu.Lock()
	work := c.inbox
	c.inbox = nil
	c.inboxMu.Unlock()

	for _, fn := range work {
		if !c.active {
			return
		}
		fn()
	}
}

func (c *LobbyController) request(what string, fn func(ctx context.Context) error) bool {
	ctx, cancel := context.WithTimeout(c.ctx, c.opts.RequestTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		c.log.Error(component, err, map[string]interface{}{"request": what})
		return false
	}
	return true
}

func (c *LobbyController) t(id string, data map[string]interface{}) string {
	if c.text == nil {
		return id
	}
	return c.text.Text(id, data)
}

// beginAttempt marks a host or join request as in flight.
func (c *LobbyController) beginAttempt() {
	c.attemptPending = true
	c.attemptExpires = c.now.Add(c.opts.AttemptTimeout)
}

func (c *LobbyController) deferMessage(id string, data map[string]interface{}) {
	c.pendingBoxes = append(c.pendingBoxes, messageBox{
		title: c.t("lobby.error_title", nil),
		text:  c.t(id, data),
	})
}

func (c *LobbyController) systemLine(id string, data map[string]interface{}) {
	c.view.AppendChat(ChatLine{Text: c.t(id, data), System: true})
}

func (c *LobbyController) localCRC() models.CRCInfo {
	crc := c.opts.CRC
	if c.fakeCRC {
		crc.ExeCRC = ^crc.ExeCRC
	}
	return crc
}

// Backend message dispatch

func (c *LobbyController) dispatch(msg online.Message) {
	switch msg.Kind {
	case online.PlayerJoined, online.PlayerLeft, online.PlayerChanged:
		c.forcePlayers = true

	case online.ChatReceived:
		c.view.AppendChat(ChatLine{
			From:    msg.Chat.From,
			Text:    msg.Chat.Text,
			Action:  msg.Chat.Action,
			Private: msg.Chat.Private,
		})

	case online.RoomAdded, online.RoomUpdated, online.RoomRemoved:
		c.renderGroupRooms()
		c.forceGames = true

	case online.GameAdded, online.GameUpdated, online.GameRemoved:
		c.forceGames = true

	case online.JoinGameResult, online.CreateGameResult:
		if !msg.Result.OK() {
			return
		}
		game := msg.Game
		if game.ID != msg.GameID {
			game.ID = msg.GameID
		}
		c.log.Info(component, "entering staging room", map[string]interface{}{
			"game_id": msg.GameID,
			"kind":    msg.Kind.String(),
		})
		c.navigating = true
		if c.nav != nil {
			c.nav.EnterStaging(game)
		}

	case online.Disconnected:
		c.log.Warning(component, "disconnected from online service", map[string]interface{}{"reason": msg.Reason})
		c.view.ShowMessage(c.t("lobby.error_title", nil), c.t("lobby.disconnected", nil))
		c.Shutdown()
		if c.nav != nil {
			c.nav.Pop()
		}

	default:
		c.log.Debug(component, "unhandled message", map[string]interface{}{"kind": msg.Kind.String()})
	}
}

// Backend callbacks, run from the inbox

func (c *LobbyController) onGameResult(r online.GameResult) {
	c.attemptPending = false
	if r.Result.OK() {
		return
	}
	c.log.Info(component, "host or join failed", map[string]interface{}{
		"game_id": r.GameID,
		"result":  int(r.Result),
	})
	c.deferMessage(localization.JoinFailureMessageID(r.Result), nil)
}

func (c *LobbyController) onChat(m online.ChatMessage) {
	me := c.services.LocalProfile()
	if m.ProfileID == me.ProfileID || me.DisplayName == "" {
		return
	}
	if strings.Contains(strings.ToLower(m.Text), strings.ToLower(me.DisplayName)) {
		c.view.NotifyMention(m.From, m.Text)
	}
}

func (c *LobbyController) onStats(r online.StatsResult) {
	if _, ok := c.pendingStats[r.ProfileID]; !ok {
		c.log.Debug(component, "discarding unrequested stats", map[string]interface{}{"profile_id": r.ProfileID})
		return
	}
	delete(c.pendingStats, r.ProfileID)

	if r.Err != nil {
		c.failedStats[r.ProfileID] = struct{}{}
		c.log.Warning(component, "stats lookup failed", map[string]interface{}{
			"profile_id": r.ProfileID,
			"error":      r.Err.Error(),
		})
		return
	}
	c.stats[r.ProfileID] = r.Stats
	c.forcePlayers = true
}

// Rendering

func (c *LobbyController) renderGroupRooms() {
	current := noGame
	if room, ok := c.services.CurrentGroupRoom(); ok {
		current = room.ID
	}
	c.view.SetGroupRooms(c.services.GroupRooms(), current)
}

func (c *LobbyController) visibleGames() []models.StagingRoom {
	all := c.services.Games()
	room, inRoom := c.services.CurrentGroupRoom()

	out := make([]models.StagingRoom, 0, len(all))
	for _, g := range all {
		if g.ID < 0 {
			continue
		}
		if inRoom && !room.ShowAllMatches() && g.GroupRoomID != room.ID {
			continue
		}
		out = append(out, g)
	}
	return out
}

func (c *LobbyController) renderGames() {
	next := c.visibleGames()
	if diff := models.DiffStagingRooms(c.games, next); !diff.Empty() {
		c.log.Debug(component, "game list changed", map[string]interface{}{
			"added":   len(diff.Added),
			"updated": len(diff.Updated),
			"removed": len(diff.Removed),
		})
	}
	c.games = next

	selected, ok := c.findGame(c.selectedGame)
	if !ok {
		c.selectedGame = noGame
	}
	c.view.SetJoinEnabled(ok && !selected.InProgress)

	crc := c.localCRC()
	rows := make([]GameRow, len(next))
	for i, g := range next {
		rows[i] = GameRow{Game: g, Compatible: g.CompatibleWith(crc), Detailed: c.longList}
	}
	c.view.SetGames(rows, c.selectedGame)
}

func (c *LobbyController) renderPlayers() {
	members := c.services.Members()
	rows := make([]models.PlayerInfo, 0, len(members))
	for _, m := range members {
		st, ok := c.stats[m.ProfileID]
		if !ok {
			c.requestStats(m.ProfileID)
		}
		rows = append(rows, models.NewPlayerInfo(m, st, ok))
	}
	models.SortPlayers(rows)
	c.view.SetPlayers(rows)

	if c.buddiesVisible {
		c.view.SetBuddyOverlay(true, buddiesOf(rows))
	}
}

func (c *LobbyController) requestStats(profileID int64) {
	if _, ok := c.pendingStats[profileID]; ok {
		return
	}
	if _, ok := c.failedStats[profileID]; ok {
		return
	}
	c.pendingStats[profileID] = struct{}{}
	ok := c.request("request stats", func(ctx context.Context) error {
		return c.services.RequestStats(ctx, profileID)
	})
	if !ok {
		delete(c.pendingStats, profileID)
	}
}

func buddiesOf(players []models.PlayerInfo) []models.PlayerInfo {
	var out []models.PlayerInfo
	for _, p := range players {
		if p.Buddy {
			out = append(out, p)
		}
	}
	return out
}

func (c *LobbyController) findGame(id int) (models.StagingRoom, bool) {
	if id < 0 {
		return models.StagingRoom{}, false
	}
	for _, g := range c.games {
		if g.ID == id {
			return g, true
		}
	}
	return models.StagingRoom{}, false
}
