// Package commands recognizes slash commands typed into the lobby chat.
package commands

import (
	"strings"
	"unicode"
)

type Kind int

const (
	Unknown Kind = iota
	Host
	Me
	Help
	Name
	ForceRelay
	AllowRelay
	Refresh
	FakeCRC
	Slots
)

var keywords = map[string]Kind{
	"host":       Host,
	"me":         Me,
	"help":       Help,
	"name":       Name,
	"nick":       Name,
	"forcerelay": ForceRelay,
	"allowrelay": AllowRelay,
	"refresh":    Refresh,
	"fakecrc":    FakeCRC,
	"slots":      Slots,
}

// DebugOnly reports whether the command is only honoured in debug builds.
func (k Kind) DebugOnly() bool {
	return k == FakeCRC || k == Slots
}

// Command is a parsed slash command. Name is the lowercased keyword as typed
// and Args is the untouched remainder of the line.
type Command struct {
	Kind Kind
	Name string
	Args string
}

// Parse classifies input whose first character is '/'. The keyword is the
// first whitespace-delimited token and is matched case-insensitively. It
// returns false for plain chat.
func Parse(input string) (Command, bool) {
	input = strings.TrimLeftFunc(input, unicode.IsSpace)
	if !strings.HasPrefix(input, "/") {
		return Command{}, false
	}

	body := input[1:]
	token, rest := body, ""
	if i := strings.IndexFunc(body, unicode.IsSpace); i >= 0 {
		token, rest = body[:i], body[i:]
	}

	name := strings.ToLower(token)
	cmd := Command{Kind: keywords[name], Name: name, Args: strings.TrimSpace(rest)}
	return cmd, true
}

// HelpMessageIDs lists the message ids of the /help text, one per command.
func HelpMessageIDs(debug bool) []string {
	ids := []string{
		"help.host",
		"help.me",
		"help.name",
		"help.forcerelay",
		"help.allowrelay",
		"help.refresh",
		"help.help",
	}
	if debug {
		ids = append(ids, "help.fakecrc", "help.slots")
	}
	return ids
}
