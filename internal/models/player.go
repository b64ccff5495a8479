package models

import (
	"sort"
	"strings"
)

// PlayerStats is the persistent record fetched from the stats service.
type PlayerStats struct {
	ProfileID   int64
	Wins        map[Side]int
	Losses      map[Side]int
	Disconnects map[Side]int
}

func sum(m map[Side]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

func (s PlayerStats) TotalWins() int        { return sum(s.Wins) }
func (s PlayerStats) TotalLosses() int      { return sum(s.Losses) }
func (s PlayerStats) TotalDisconnects() int { return sum(s.Disconnects) }

// FavoriteSide is the side with the most recorded games. Ties go to the
// lower side value; no games at all yields SideRandom.
func (s PlayerStats) FavoriteSide() Side {
	best, bestGames := SideRandom, 0
	for _, side := range PlayableSides() {
		games := s.Wins[side] + s.Losses[side] + s.Disconnects[side]
		if games > bestGames {
			best, bestGames = side, games
		}
	}
	return best
}

// RoomMember is a user present in the current group room.
type RoomMember struct {
	ProfileID int64
	Name      string
	Flags     MemberFlags
}

type MemberFlags uint8

const (
	MemberFlagBuddy MemberFlags = 1 << iota
	MemberFlagAway
	MemberFlagModerator
)

// PlayerInfo is one row of the player list, rebuilt on every refresh.
type PlayerInfo struct {
	Name       string
	ProfileID  int64
	RankPoints int
	Rank       Rank
	HasStats   bool
	Side       Side
	Wins       int
	Losses     int
	Buddy      bool
}

// NewPlayerInfo builds a row from a member and, when known, their stats.
func NewPlayerInfo(member RoomMember, stats PlayerStats, haveStats bool) PlayerInfo {
	info := PlayerInfo{
		Name:      member.Name,
		ProfileID: member.ProfileID,
		Side:      SideRandom,
		Buddy:     member.Flags&MemberFlagBuddy != 0,
	}
	if !haveStats {
		return info
	}

	info.HasStats = true
	info.RankPoints = RankPoints(stats)
	info.Rank = RankFromPoints(info.RankPoints)
	info.Side = stats.FavoriteSide()
	info.Wins = stats.TotalWins()
	info.Losses = stats.TotalLosses()
	return info
}

// SortPlayers orders rows by name, case-insensitively, then by profile id.
func SortPlayers(players []PlayerInfo) {
	sort.SliceStable(players, func(i, j int) bool {
		a, b := strings.ToLower(players[i].Name), strings.ToLower(players[j].Name)
		if a != b {
			return a < b
		}
		return players[i].ProfileID < players[j].ProfileID
	})
}

// Profile identifies the local user.
type Profile struct {
	ProfileID   int64
	DisplayName string
}
