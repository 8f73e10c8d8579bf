package memory

import "sort"

// Placement is the tier decision the consolidation policy makes for a new item.
type Placement int

const (
	// PlaceWorking appends the item to the working buffer.
	PlaceWorking Placement = iota
	// PlaceWorkingAfterConsolidation flushes the full working buffer into
	// short-term memory first, then appends the item to working.
	PlaceWorkingAfterConsolidation
	// PlaceLongTerm stores the item directly in long-term memory.
	PlaceLongTerm
)

// ConsolidationPolicy decides tier placement, promotion ranking and eviction
// victims. It is deliberately free of store state so its decisions can be
// unit tested against plain item slices.
//
// Placement rule per add: importance at or above ImportanceThreshold goes
// straight to long-term; otherwise the item lands in working, flushing
// working into short-term first when the buffer is full. When short-term
// overflows, items are ranked by ImportanceWeight*importance +
// ReferenceWeight*references and the top half is promoted; the rest is
// forgotten. The half-split keeps consolidation amortized O(1) per insert.
type ConsolidationPolicy struct {
	// ImportanceThreshold is the score at and above which an item bypasses
	// the volatile tiers entirely.
	ImportanceThreshold float64
	// ImportanceWeight scales item importance in the promotion score.
	ImportanceWeight float64
	// ReferenceWeight scales the access counter in the promotion score.
	ReferenceWeight float64
}

// NewConsolidationPolicy returns a policy with the conventional 0.7/0.3
// importance/reference weighting and the given direct-to-long-term threshold.
func NewConsolidationPolicy(importanceThreshold float64) *ConsolidationPolicy {
	return &ConsolidationPolicy{
		ImportanceThreshold: importanceThreshold,
		ImportanceWeight:    0.7,
		ReferenceWeight:     0.3,
	}
}

// Place decides where a new item of the given importance goes, based on the
// current working buffer occupancy.
func (p *ConsolidationPolicy) Place(importance float64, workingLen, workingLimit int) Placement {
	switch {
	case importance >= p.ImportanceThreshold:
		return PlaceLongTerm
	case workingLen < workingLimit:
		return PlaceWorking
	default:
		return PlaceWorkingAfterConsolidation
	}
}

// PromotionScore is the weighted retention score used to rank short-term
// items during consolidation.
func (p *ConsolidationPolicy) PromotionScore(it *Item) float64 {
	return it.Importance*p.ImportanceWeight + float64(it.ReferenceCount)*p.ReferenceWeight
}

// RankForPromotion returns the items ordered by descending promotion score.
// The sort is stable: items with equal scores keep their original order. The
// input slice is not modified.
func (p *ConsolidationPolicy) RankForPromotion(items []*Item) []*Item {
	ranked := make([]*Item, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		return p.PromotionScore(ranked[i]) > p.PromotionScore(ranked[j])
	})
	return ranked
}

// PromoteCount is how many of the ranked items survive a short-term
// consolidation (integer half, rounding down).
func (p *ConsolidationPolicy) PromoteCount(n int) int { return n / 2 }

// EvictionVictim returns the index of the least-important item, breaking
// importance ties by the oldest last-access time. Returns -1 for an empty
// slice.
func (p *ConsolidationPolicy) EvictionVictim(items []*Item) int {
	victim := -1
	for i, it := range items {
		if victim == -1 {
			victim = i
			continue
		}
		v := items[victim]
		if it.Importance < v.Importance ||
			(it.Importance == v.Importance && it.LastAccess.Before(v.LastAccess)) {
			victim = i
		}
	}
	return victim
}
