package online

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"rts-lobby/internal/logger"
	"rts-lobby/internal/models"
)

const (
	component      = "OnlineClient"
	writeTimeout   = 10 * time.Second
	pongWait       = 90 * time.Second
	pingInterval   = 30 * time.Second
	handshakeLimit = 10 * time.Second
)

// LoginInfo identifies the local client to the service.
type LoginInfo struct {
	Name string
	CRC  models.CRCInfo
}

// Client is the websocket implementation of Services. A single reader
// goroutine owns the connection's read side; writes are serialized.
type Client struct {
	conn  *websocket.Conn
	log   logger.Logger
	queue *Queue

	writeMu sync.Mutex

	mu          sync.RWMutex
	profile     models.Profile
	groupRooms  map[int]models.GroupRoom
	currentRoom int
	inRoom      bool
	members     map[int64]models.RoomMember
	games       map[int]models.StagingRoom
	callbacks   Callbacks
	relay       RelayMode

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Dial connects, logs in and starts the reader and keepalive goroutines.
func Dial(ctx context.Context, url string, login LoginInfo, log logger.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	c := newClient(conn, log)
	if err := c.handshake(ctx, login); err != nil {
		conn.Close()
		return nil, err
	}

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	c.wg.Add(2)
	go c.readLoop()
	go c.pingLoop()

	log.Info(component, "connected", map[string]interface{}{
		"url":        url,
		"profile_id": c.profile.ProfileID,
		"name":       c.profile.DisplayName,
	})
	return c, nil
}

func newClient(conn *websocket.Conn, log logger.Logger) *Client {
	return &Client{
		conn:       conn,
		log:        log,
		queue:      NewQueue(DefaultQueueCapacity),
		groupRooms: make(map[int]models.GroupRoom),
		members:    make(map[int64]models.RoomMember),
		games:      make(map[int]models.StagingRoom),
		done:       make(chan struct{}),
	}
}

func (c *Client) handshake(ctx context.Context, login LoginInfo) error {
	err := c.send(ctx, typeLogin, loginPayload{
		Name:   login.Name,
		ExeCRC: login.CRC.ExeCRC,
		IniCRC: login.CRC.IniCRC,
	})
	if err != nil {
		return err
	}

	deadline := time.Now().Add(handshakeLimit)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	c.conn.SetReadDeadline(deadline)

	var env Envelope
	if err := c.conn.ReadJSON(&env); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if env.Type == typeDisconnect {
		var p disconnectPayload
		json.Unmarshal(env.Payload, &p)
		return fmt.Errorf("login rejected: %s", p.Reason)
	}
	if env.Type != typeWelcome {
		return fmt.Errorf("login failed: unexpected %q message", env.Type)
	}

	var welcome welcomePayload
	if err := json.Unmarshal(env.Payload, &welcome); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	c.profile = models.Profile{ProfileID: welcome.ProfileID, DisplayName: welcome.Name}
	return nil
}

// Close shuts the connection and waits for the goroutines to exit.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	c.wg.Wait()
	return err
}

// Shutdown satisfies the shutdown manager.
func (c *Client) Shutdown() {
	if err := c.Close(); err != nil {
		c.log.Debug(component, "close returned error", map[string]interface{}{"error": err.Error()})
	}
}

func (c *Client) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Client) send(ctx context.Context, typ string, payload interface{}) error {
	if c.closed() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	env, err := newEnvelope(typ, payload)
	if err != nil {
		return err
	}

	deadline := time.Now().Add(writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteJSON(env); err != nil {
		return fmt.Errorf("failed to send %s: %w", typ, err)
	}
	return nil
}

func (c *Client) pingLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
			c.writeMu.Unlock()
			if err != nil {
				c.log.Warning(component, "ping failed", map[string]interface{}{"error": err.Error()})
				return
			}
		}
	}
}

func (c *Client) readLoop() {
	defer c.wg.Done()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			reason := err.Error()
			if c.closed() {
				return
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				reason = "server closed the connection"
			}
			c.log.Warning(component, "connection lost", map[string]interface{}{"reason": reason})
			c.queue.Push(Message{Kind: Disconnected, Reason: reason})
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.log.Warning(component, "dropping malformed message", map[string]interface{}{"error": err.Error()})
			continue
		}
		if err := c.dispatch(env); err != nil {
			c.log.Warning(component, "dropping bad record", map[string]interface{}{
				"type":  env.Type,
				"error": err.Error(),
			})
		}
	}
}

func (c *Client) snapshotCallbacks() Callbacks {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.callbacks
}

func decode(env Envelope, v interface{}) error {
	if len(env.Payload) == 0 {
		return errors.New("empty payload")
	}
	return json.Unmarshal(env.Payload, v)
}

func (c *Client) dispatch(env Envelope) error {
	switch env.Type {
	case typeGroupRooms:
		var p groupRoomsPayload
		if err := decode(env, &p); err != nil {
			return err
		}
		c.replaceGroupRooms(p.Rooms)

	case typeRoomAdded, typeRoomUpdated:
		var p groupRoomPayload
		if err := decode(env, &p); err != nil {
			return err
		}
		room, err := p.toModel()
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.groupRooms[room.ID] = room
		c.mu.Unlock()
		kind := RoomAdded
		if env.Type == typeRoomUpdated {
			kind = RoomUpdated
		}
		c.queue.Push(Message{Kind: kind, Room: room, RoomID: room.ID})

	case typeRoomRemoved:
		var p idPayload
		if err := decode(env, &p); err != nil {
			return err
		}
		c.mu.Lock()
		delete(c.groupRooms, p.ID)
		c.mu.Unlock()
		c.queue.Push(Message{Kind: RoomRemoved, RoomID: p.ID})

	case typeMembers:
		var p membersPayload
		if err := decode(env, &p); err != nil {
			return err
		}
		c.replaceMembers(p)

	case typePlayerJoined, typePlayerLeft, typePlayerChanged:
		var p memberPayload
		if err := decode(env, &p); err != nil {
			return err
		}
		member, err := p.toModel()
		if err != nil {
			return err
		}
		c.applyMember(env.Type, member)

	case typeGames:
		var p gamesPayload
		if err := decode(env, &p); err != nil {
			return err
		}
		c.replaceGames(p.Games)

	case typeGameAdded, typeGameUpdated:
		var p gamePayload
		if err := decode(env, &p); err != nil {
			return err
		}
		game, err := p.toModel()
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.games[game.ID] = game
		c.mu.Unlock()
		kind := GameAdded
		if env.Type == typeGameUpdated {
			kind = GameUpdated
		}
		c.queue.Push(Message{Kind: kind, Game: game, GameID: game.ID})

	case typeGameRemoved:
		var p idPayload
		if err := decode(env, &p); err != nil {
			return err
		}
		c.mu.Lock()
		delete(c.games, p.ID)
		c.mu.Unlock()
		c.queue.Push(Message{Kind: GameRemoved, GameID: p.ID})

	case typeChat:
		var p chatPayload
		if err := decode(env, &p); err != nil {
			return err
		}
		if p.Text == "" {
			return errors.New("empty chat text")
		}
		msg := ChatMessage{From: p.From, ProfileID: p.ProfileID, Text: p.Text, Action: p.Action, Private: p.Private}
		c.queue.Push(Message{Kind: ChatReceived, Chat: msg})
		if cb := c.snapshotCallbacks().OnChat; cb != nil {
			cb(msg)
		}

	case typeJoinGameResult, typeCreateGameResult:
		var p gameResultPayload
		if err := decode(env, &p); err != nil {
			return err
		}
		c.applyGameResult(env.Type, p)

	case typeStats:
		var p statsPayload
		if err := decode(env, &p); err != nil {
			return err
		}
		res := StatsResult{ProfileID: p.ProfileID, Stats: p.toModel()}
		if p.Error != "" {
			res.Err = errors.New(p.Error)
		}
		if cb := c.snapshotCallbacks().OnStats; cb != nil {
			cb(res)
		}

	case typeProfile:
		var p welcomePayload
		if err := decode(env, &p); err != nil {
			return err
		}
		c.mu.Lock()
		c.profile.DisplayName = p.Name
		c.mu.Unlock()

	case typeDisconnect:
		var p disconnectPayload
		decode(env, &p)
		c.queue.Push(Message{Kind: Disconnected, Reason: p.Reason})

	default:
		c.log.Debug(component, "ignoring message", map[string]interface{}{"type": env.Type})
	}
	return nil
}

func (c *Client) replaceGroupRooms(rooms []groupRoomPayload) {
	next := make(map[int]models.GroupRoom, len(rooms))
	for _, p := range rooms {
		room, err := p.toModel()
		if err != nil {
			c.log.Warning(component, "dropping group room", map[string]interface{}{"error": err.Error()})
			continue
		}
		next[room.ID] = room
	}

	c.mu.Lock()
	prev := c.groupRooms
	c.groupRooms = next
	c.mu.Unlock()

	for _, id := range sortedKeys(next) {
		room := next[id]
		old, ok := prev[id]
		switch {
		case !ok:
			c.queue.Push(Message{Kind: RoomAdded, Room: room, RoomID: id})
		case old != room:
			c.queue.Push(Message{Kind: RoomUpdated, Room: room, RoomID: id})
		}
	}
	for _, id := range sortedKeys(prev) {
		if _, ok := next[id]; !ok {
			c.queue.Push(Message{Kind: RoomRemoved, RoomID: id})
		}
	}
}

func (c *Client) replaceMembers(p membersPayload) {
	members := make(map[int64]models.RoomMember, len(p.Members))
	for _, mp := range p.Members {
		m, err := mp.toModel()
		if err != nil {
			c.log.Warning(component, "dropping member", map[string]interface{}{"error": err.Error()})
			continue
		}
		members[m.ProfileID] = m
	}

	c.mu.Lock()
	c.members = members
	c.currentRoom = p.RoomID
	c.inRoom = true
	c.mu.Unlock()

	if cb := c.snapshotCallbacks().OnRosterChanged; cb != nil {
		cb()
	}
}

func (c *Client) applyMember(typ string, member models.RoomMember) {
	kind := PlayerChanged
	c.mu.Lock()
	switch typ {
	case typePlayerJoined:
		kind = PlayerJoined
		c.members[member.ProfileID] = member
	case typePlayerLeft:
		kind = PlayerLeft
		delete(c.members, member.ProfileID)
	default:
		c.members[member.ProfileID] = member
	}
	c.mu.Unlock()

	c.queue.Push(Message{Kind: kind, Member: member})
	if cb := c.snapshotCallbacks().OnRosterChanged; cb != nil {
		cb()
	}
}

func (c *Client) replaceGames(games []gamePayload) {
	next := make(map[int]models.StagingRoom, len(games))
	for _, p := range games {
		g, err := p.toModel()
		if err != nil {
			c.log.Warning(component, "dropping staging room", map[string]interface{}{"error": err.Error()})
			continue
		}
		next[g.ID] = g
	}

	c.mu.Lock()
	prev := make([]models.StagingRoom, 0, len(c.games))
	for _, g := range c.games {
		prev = append(prev, g)
	}
	c.games = next
	c.mu.Unlock()

	cur := make([]models.StagingRoom, 0, len(next))
	for _, g := range next {
		cur = append(cur, g)
	}
	diff := models.DiffStagingRooms(prev, cur)
	for _, g := range diff.Added {
		c.queue.Push(Message{Kind: GameAdded, Game: g, GameID: g.ID})
	}
	for _, g := range diff.Updated {
		c.queue.Push(Message{Kind: GameUpdated, Game: g, GameID: g.ID})
	}
	for _, id := range diff.Removed {
		c.queue.Push(Message{Kind: GameRemoved, GameID: id})
	}
}

func (c *Client) applyGameResult(typ string, p gameResultPayload) {
	res := GameResult{GameID: p.GameID, Result: models.JoinResult(p.Result)}
	if p.Game != nil {
		game, err := p.Game.toModel()
		if err != nil {
			c.log.Warning(component, "dropping staging room in result", map[string]interface{}{"error": err.Error()})
		} else {
			res.Game = game
		}
	}

	kind, cb := JoinGameResult, c.snapshotCallbacks().OnGameJoined
	if typ == typeCreateGameResult {
		kind, cb = CreateGameResult, c.snapshotCallbacks().OnGameCreated
	}
	c.queue.Push(Message{Kind: kind, GameID: res.GameID, Result: res.Result, Game: res.Game})
	if cb != nil {
		cb(res)
	}
}

func sortedKeys[K int | int64, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Messages

func (c *Client) Poll(max int) []Message { return c.queue.Poll(max) }

func (c *Client) SetCallbacks(cb Callbacks) {
	c.mu.Lock()
	c.callbacks = cb
	c.mu.Unlock()
}

func (c *Client) ClearCallbacks() {
	c.SetCallbacks(Callbacks{})
}

// Rooms

func (c *Client) RefreshGroupRooms(ctx context.Context) error {
	return c.send(ctx, typeListGroupRooms, nil)
}

func (c *Client) JoinGroupRoom(ctx context.Context, roomID int) error {
	if roomID < 0 {
		return fmt.Errorf("join group room: %w", models.ErrInvalidRoomID)
	}
	return c.send(ctx, typeJoinGroupRoom, roomIDPayload{RoomID: roomID})
}

func (c *Client) GroupRooms() []models.GroupRoom {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.GroupRoom, 0, len(c.groupRooms))
	for _, id := range sortedKeys(c.groupRooms) {
		out = append(out, c.groupRooms[id])
	}
	return out
}

func (c *Client) CurrentGroupRoom() (models.GroupRoom, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.inRoom {
		return models.GroupRoom{}, false
	}
	room, ok := c.groupRooms[c.currentRoom]
	return room, ok
}

func (c *Client) Members() []models.RoomMember {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.RoomMember, 0, len(c.members))
	for _, id := range sortedKeys(c.members) {
		out = append(out, c.members[id])
	}
	return out
}

// Lobby

func (c *Client) RefreshGames(ctx context.Context) error {
	return c.send(ctx, typeListGames, nil)
}

func (c *Client) Games() []models.StagingRoom {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.StagingRoom, 0, len(c.games))
	for _, id := range sortedKeys(c.games) {
		out = append(out, c.games[id])
	}
	return out
}

func (c *Client) CreateGame(ctx context.Context, req CreateGameRequest) error {
	return c.send(ctx, typeCreateGame, createGamePayload{
		Name:     req.Name,
		Password: req.Password,
		MapPath:  req.MapPath,
		Slots:    slotInts(req.Slots),
		ExeCRC:   req.CRC.ExeCRC,
		IniCRC:   req.CRC.IniCRC,
	})
}

func (c *Client) JoinGame(ctx context.Context, gameID int, password string) error {
	if gameID < 0 {
		return fmt.Errorf("join game: %w", models.ErrInvalidRoomID)
	}
	return c.send(ctx, typeJoinGame, joinGamePayload{GameID: gameID, Password: password})
}

func (c *Client) LeaveGame(ctx context.Context) error {
	return c.send(ctx, typeLeaveGame, nil)
}

// Auth

func (c *Client) LocalProfile() models.Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profile
}

func (c *Client) SetDisplayName(ctx context.Context, name string) error {
	return c.send(ctx, typeSetName, namePayload{Name: name})
}

// Stats

func (c *Client) RequestStats(ctx context.Context, profileID int64) error {
	return c.send(ctx, typeGetStats, statsRequestPayload{ProfileID: profileID})
}

// Chat

func (c *Client) SendChat(ctx context.Context, text string, action bool) error {
	return c.send(ctx, typeSendChat, chatPayload{Text: text, Action: action})
}

// Network

func (c *Client) SetRelayMode(ctx context.Context, mode RelayMode) error {
	if err := c.send(ctx, typeSetRelay, relayPayload{Mode: mode.String()}); err != nil {
		return err
	}
	c.mu.Lock()
	c.relay = mode
	c.mu.Unlock()
	return nil
}

func (c *Client) RelayMode() RelayMode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.relay
}

var _ Services = (*Client)(nil)
