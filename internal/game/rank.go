package game

import (
	"slices"
	"sort"
)

type RankEntry struct {
	ID    string `json:"id"`
	Rank  int    `json:"rank"`
	Score int    `json:"score"`
}

// Ranks orders sessions by descending score and assigns 0-based ranks,
// writing each session's Rank field in place. The sort is stable, so equal
// scores keep the caller's order; rooms pass members in join order, which
// makes the tie-break deterministic.
func Ranks(members []*Session) []RankEntry {
	ordered := slices.Clone(members)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})
	list := make([]RankEntry, len(ordered))
	for i, s := range ordered {
		s.Rank = i
		list[i] = RankEntry{ID: s.ID, Rank: i, Score: s.Score}
	}
	return list
}
