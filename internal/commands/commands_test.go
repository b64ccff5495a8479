package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClassifiesFirstToken(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
		name  string
		args  string
	}{
		{"/host", Host, "host", ""},
		{"/HOST", Host, "host", ""},
		{"/Me waves at the crowd", Me, "me", "waves at the crowd"},
		{"/help", Help, "help", ""},
		{"/name  General Kwai ", Name, "name", "General Kwai"},
		{"/NiCk Tank", Name, "nick", "Tank"},
		{"/ForceRelay", ForceRelay, "forcerelay", ""},
		{"/allowrelay", AllowRelay, "allowrelay", ""},
		{"/refresh now", Refresh, "refresh", "now"},
		{"/fakecrc", FakeCRC, "fakecrc", ""},
		{"/SLOTS", Slots, "slots", ""},
		{"/me\tdances", Me, "me", "dances"},
		{"/me\u00a0bows", Me, "me", "bows"},
		{"/nick\nTank", Name, "nick", "Tank"},
		{"\u3000/host", Host, "host", ""},
		{"  /host", Host, "host", ""},
		{"/hostile", Unknown, "hostile", ""},
		{"/", Unknown, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd, ok := Parse(tt.input)
			assert.True(t, ok)
			assert.Equal(t, tt.kind, cmd.Kind)
			assert.Equal(t, tt.name, cmd.Name)
			assert.Equal(t, tt.args, cmd.Args)
		})
	}
}

func TestParseIgnoresPlainChat(t *testing.T) {
	for _, input := range []string{"", "gg", "hello /host", "host"} {
		_, ok := Parse(input)
		assert.False(t, ok, input)
	}
}

func TestDebugOnly(t *testing.T) {
	assert.True(t, FakeCRC.DebugOnly())
	assert.True(t, Slots.DebugOnly())
	assert.False(t, Host.DebugOnly())
	assert.False(t, Unknown.DebugOnly())
}

func TestHelpMessageIDs(t *testing.T) {
	ids := HelpMessageIDs(false)
	assert.Len(t, HelpMessageIDs(true), len(ids)+2)
	assert.NotContains(t, ids, "help.fakecrc")
	assert.Contains(t, HelpMessageIDs(true), "help.slots")
}
