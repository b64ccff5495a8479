package models

// Rank is one step of the ladder shown next to a player's name.
type Rank struct {
	Level     int
	Name      string
	Threshold int
}

var rankTable = []Rank{
	{0, "Private", 0},
	{1, "Corporal", 5},
	{2, "Sergeant", 10},
	{3, "Lieutenant", 20},
	{4, "Captain", 50},
	{5, "Major", 100},
	{6, "Colonel", 200},
	{7, "Brigadier General", 500},
	{8, "General", 1000},
	{9, "Commander in Chief", 2000},
}

// MaxRank is the highest rank level in the table.
var MaxRank = len(rankTable) - 1

// Ranks returns a copy of the rank ladder.
func Ranks() []Rank {
	out := make([]Rank, len(rankTable))
	copy(out, rankTable)
	return out
}

// RankFromPoints returns the highest rank whose threshold does not exceed
// points. Negative points map to the lowest rank.
func RankFromPoints(points int) Rank {
	rank := rankTable[0]
	for _, r := range rankTable[1:] {
		if points < r.Threshold {
			break
		}
		rank = r
	}
	return rank
}

// RankPoints scores a player's record. Wins are worth five, losses one,
// disconnects cost ten. The result never drops below zero.
func RankPoints(stats PlayerStats) int {
	points := 5*stats.TotalWins() + stats.TotalLosses() - 10*stats.TotalDisconnects()
	if points < 0 {
		return 0
	}
	return points
}
