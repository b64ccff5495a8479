package controllers

import (
	"context"
	"strings"
	"time"

	"rts-lobby/internal/commands"
	"rts-lobby/internal/config"
	"rts-lobby/internal/localization"
	"rts-lobby/internal/models"
	"rts-lobby/internal/online"
)

// HandleEvent reacts to a widget interaction.
func (c *LobbyController) HandleEvent(ev Event) {
	if !c.active || c.leaving {
		return
	}

	switch ev.Kind {
	case EventBack:
		c.leave()
	case EventRefresh:
		c.refreshAll()
	case EventHost:
		c.host()
	case EventJoin:
		c.join(c.selectedGame)
	case EventGameSelected:
		c.selectGame(ev.GameID)
	case EventGameActivated:
		c.selectGame(ev.GameID)
		c.join(ev.GameID)
	case EventToggleBuddies:
		c.buddiesVisible = !c.buddiesVisible
		c.view.SetBuddyOverlay(c.buddiesVisible, nil)
		if c.buddiesVisible {
			c.forcePlayers = true
		}
	case EventChatSubmit:
		c.submitChat(ev.Text)
	case EventGroupRoomSelected:
		c.switchGroupRoom(ev.RoomID)
	case EventLongListToggled:
		c.longList = ev.Enabled
		c.forceGames = true
	default:
		c.log.Debug(component, "unknown event", map[string]interface{}{"kind": int(ev.Kind)})
	}
}

func (c *LobbyController) leave() {
	c.leaving = true
	if c.transition != nil {
		c.transition.Start(true)
	}
}

func (c *LobbyController) refreshAll() {
	c.lastGameFetch = time.Time{}
	c.forcePlayers = true
	c.request("refresh group rooms", c.services.RefreshGroupRooms)
}

func (c *LobbyController) selectGame(id int) {
	game, ok := c.findGame(id)
	if !ok {
		c.selectedGame = noGame
		c.view.SetJoinEnabled(false)
		return
	}
	c.selectedGame = id
	c.view.SetJoinEnabled(!game.InProgress)
	c.view.ShowMapPreview(game.MapPath)
}

func (c *LobbyController) host() {
	if c.attemptPending {
		c.log.Debug(component, "host ignored, attempt already pending", nil)
		return
	}

	slots := make([]models.SlotState, models.MaxSlots)
	slots[0] = models.SlotPlayer
	me := c.services.LocalProfile()
	req := online.CreateGameRequest{
		Name:    c.t("lobby.default_game_name", map[string]interface{}{"Name": me.DisplayName}),
		MapPath: c.opts.DefaultMap,
		Slots:   slots,
		CRC:     c.localCRC(),
	}

	c.beginAttempt()
	if !c.request("create game", func(ctx context.Context) error { return c.services.CreateGame(ctx, req) }) {
		c.attemptPending = false
		c.deferMessage("lobby.join_failed.generic", nil)
	}
}

func (c *LobbyController) join(id int) {
	if c.attemptPending {
		c.log.Debug(component, "join ignored, attempt already pending", nil)
		return
	}

	game, ok := c.findGame(id)
	if !ok {
		c.view.ShowMessage(c.t("lobby.error_title", nil), c.t("lobby.no_game_selected", nil))
		return
	}
	if game.InProgress {
		c.view.ShowMessage(c.t("lobby.error_title", nil), c.t(localization.JoinFailureMessageID(models.JoinInProgress), nil))
		return
	}
	if !game.CompatibleWith(c.localCRC()) {
		c.log.Info(component, "join blocked by crc mismatch", map[string]interface{}{
			"game_id":  game.ID,
			"game_exe": game.ExeCRC,
			"game_ini": game.IniCRC,
		})
		c.view.ShowMessage(c.t("lobby.error_title", nil), c.t("lobby.crc_mismatch", nil))
		return
	}

	if !game.HasPassword {
		c.startJoin(game.ID, "")
		return
	}
	c.view.PromptPassword(c.t("lobby.password_prompt", nil), func(password string, ok bool) {
		if ok && c.active && !c.attemptPending {
			c.startJoin(game.ID, password)
		}
	})
}

func (c *LobbyController) startJoin(id int, password string) {
	c.beginAttempt()
	if !c.request("join game", func(ctx context.Context) error { return c.services.JoinGame(ctx, id, password) }) {
		c.attemptPending = false
		c.deferMessage("lobby.join_failed.generic", nil)
	}
}

func (c *LobbyController) switchGroupRoom(id int) {
	if id < 0 {
		return
	}
	if room, ok := c.services.CurrentGroupRoom(); ok && room.ID == id {
		return
	}
	if c.request("join group room", func(ctx context.Context) error { return c.services.JoinGroupRoom(ctx, id) }) {
		c.prefs.SetInt(config.PrefLastGroupRoom, id)
		c.selectedGame = noGame
		c.forceGames = true
		c.forcePlayers = true
	}
}

func (c *LobbyController) submitChat(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if cmd, ok := commands.Parse(text); ok {
		c.runCommand(cmd)
		return
	}
	c.sendChat(text, false)
}

func (c *LobbyController) sendChat(text string, action bool) {
	if !c.limiter.AllowN(c.now, 1) {
		c.systemLine("chat.slow_down", nil)
		return
	}
	c.request("send chat", func(ctx context.Context) error { return c.services.SendChat(ctx, text, action) })
}

func (c *LobbyController) runCommand(cmd commands.Command) {
	if cmd.Kind.DebugOnly() && !c.opts.DebugCommands {
		cmd.Kind = commands.Unknown
	}

	switch cmd.Kind {
	case commands.Host:
		c.host()

	case commands.Me:
		if cmd.Args != "" {
			c.sendChat(cmd.Args, true)
		}

	case commands.Help:
		for _, id := range commands.HelpMessageIDs(c.opts.DebugCommands) {
			c.systemLine(id, nil)
		}

	case commands.Name:
		if cmd.Args == "" {
			c.systemLine("chat.name_missing", nil)
			return
		}
		if c.request("set display name", func(ctx context.Context) error { return c.services.SetDisplayName(ctx, cmd.Args) }) {
			c.systemLine("chat.name_changed", map[string]interface{}{"Name": cmd.Args})
		}

	case commands.ForceRelay:
		if c.request("force relay", func(ctx context.Context) error { return c.services.SetRelayMode(ctx, online.RelayForce) }) {
			c.systemLine("chat.relay_forced", nil)
		}

	case commands.AllowRelay:
		if c.request("allow relay", func(ctx context.Context) error { return c.services.SetRelayMode(ctx, online.RelayAllow) }) {
			c.systemLine("chat.relay_allowed", nil)
		}

	case commands.Refresh:
		c.refreshAll()
		c.systemLine("chat.refreshing", nil)

	case commands.FakeCRC:
		c.fakeCRC = !c.fakeCRC
		c.forceGames = true
		if c.fakeCRC {
			c.systemLine("chat.fakecrc_on", nil)
		} else {
			c.systemLine("chat.fakecrc_off", nil)
		}

	case commands.Slots:
		game, ok := c.findGame(c.selectedGame)
		if !ok {
			c.systemLine("lobby.no_game_selected", nil)
			return
		}
		states := make([]string, len(game.Slots))
		for i, s := range game.Slots {
			states[i] = s.String()
		}
		c.systemLine("chat.slots", map[string]interface{}{
			"Game":  game.Name,
			"Slots": strings.Join(states, ", "),
		})

	default:
		c.systemLine("chat.unknown_command", map[string]interface{}{"Command": cmd.Name})
	}
}
