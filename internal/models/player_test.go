package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSideString(t *testing.T) {
	assert.Equal(t, "GLA", SideGLA.String())
	assert.Equal(t, "Unknown", Side(99).String())
	assert.Equal(t, "Unknown", Side(-1).String())
	assert.False(t, Side(99).Valid())
	assert.Len(t, PlayableSides(), 13)
}

func TestFavoriteSide(t *testing.T) {
	assert.Equal(t, SideRandom, PlayerStats{}.FavoriteSide())

	stats := PlayerStats{
		Wins:   map[Side]int{SideChina: 2, SideGLAToxin: 1},
		Losses: map[Side]int{SideGLAToxin: 4},
	}
	assert.Equal(t, SideGLAToxin, stats.FavoriteSide())
}

func TestNewPlayerInfo(t *testing.T) {
	member := RoomMember{ProfileID: 42, Name: "Dozer", Flags: MemberFlagBuddy}

	bare := NewPlayerInfo(member, PlayerStats{}, false)
	assert.Equal(t, "Dozer", bare.Name)
	assert.False(t, bare.HasStats)
	assert.True(t, bare.Buddy)
	assert.Equal(t, SideRandom, bare.Side)

	stats := PlayerStats{
		ProfileID: 42,
		Wins:      map[Side]int{SideUSA: 10},
		Losses:    map[Side]int{SideUSA: 3},
	}
	row := NewPlayerInfo(member, stats, true)
	assert.True(t, row.HasStats)
	assert.Equal(t, 53, row.RankPoints)
	assert.Equal(t, "Captain", row.Rank.Name)
	assert.Equal(t, SideUSA, row.Side)
	assert.Equal(t, 10, row.Wins)
	assert.Equal(t, 3, row.Losses)
}

func TestSortPlayers(t *testing.T) {
	players := []PlayerInfo{
		{Name: "bravo", ProfileID: 2},
		{Name: "Alpha", ProfileID: 9},
		{Name: "alpha", ProfileID: 1},
	}
	SortPlayers(players)

	assert.Equal(t, int64(1), players[0].ProfileID)
	assert.Equal(t, int64(9), players[1].ProfileID)
	assert.Equal(t, "bravo", players[2].Name)
}
