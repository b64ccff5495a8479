package models

import "sort"

// StagingDiff is the change between two snapshots of the game list.
type StagingDiff struct {
	Added   []StagingRoom
	Updated []StagingRoom
	Removed []int
}

func (d StagingDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Updated) == 0 && len(d.Removed) == 0
}

// DiffStagingRooms compares snapshots by room id. All three result slices
// are ordered by id.
func DiffStagingRooms(prev, next []StagingRoom) StagingDiff {
	old := make(map[int]StagingRoom, len(prev))
	for _, r := range prev {
		old[r.ID] = r
	}

	var diff StagingDiff
	seen := make(map[int]struct{}, len(next))
	for _, r := range next {
		seen[r.ID] = struct{}{}
		before, ok := old[r.ID]
		switch {
		case !ok:
			diff.Added = append(diff.Added, r)
		case !before.equal(r):
			diff.Updated = append(diff.Updated, r)
		}
	}
	for id := range old {
		if _, ok := seen[id]; !ok {
			diff.Removed = append(diff.Removed, id)
		}
	}

	byID := func(rooms []StagingRoom) {
		sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	}
	byID(diff.Added)
	byID(diff.Updated)
	sort.Ints(diff.Removed)
	return diff
}
