package memory

import (
	"sort"
	"time"

	"github.com/hupe1980/scenemesh/core"
	"github.com/hupe1980/scenemesh/logging"
)

// Item wraps a stored message with retention bookkeeping. An item is owned by
// exactly one tier at a time; consolidation moves it by transferring
// ownership, never by aliasing.
type Item struct {
	// ID is the memory id, distinct from the wrapped message's id.
	ID string
	// Message is the stored conversational record.
	Message *core.Message
	// Importance is the retention score in [0,1] assigned at insertion.
	Importance float64
	// StoredAt is the insertion timestamp.
	StoredAt time.Time
	// Metadata snapshots sender/receiver/type/priority at insertion time.
	Metadata map[string]any
	// Topics are the topic tags extracted from the message.
	Topics []string
	// ReferenceCount counts retrievals of this item.
	ReferenceCount int
	// LastAccess is the time of the most recent retrieval (or insertion).
	LastAccess time.Time

	seq uint64 // monotonic insertion order, breaks timestamp ties
}

// Config bounds the three memory tiers and parameterizes consolidation.
type Config struct {
	WorkingLimit        int     `yaml:"working_limit"`
	ShortTermLimit      int     `yaml:"short_term_limit"`
	LongTermLimit       int     `yaml:"long_term_limit"`
	ImportanceThreshold float64 `yaml:"importance_threshold"`
}

// DefaultConfig mirrors the conventional 5/20/100 tier sizing with a 0.7
// direct-to-long-term threshold.
func DefaultConfig() Config {
	return Config{
		WorkingLimit:        5,
		ShortTermLimit:      20,
		LongTermLimit:       100,
		ImportanceThreshold: 0.7,
	}
}

// Stats is a read-only snapshot of store occupancy and lifetime counters.
// The counters are cumulative over the store's lifetime and survive Clear.
type Stats struct {
	WorkingCount   int            `json:"working_count"`
	ShortTermCount int            `json:"short_term_count"`
	LongTermCount  int            `json:"long_term_count"`
	TotalMemories  int            `json:"total_memories"`
	Forgotten      int            `json:"forgotten"`
	Consolidations int            `json:"consolidations"`
	KeywordKeys    int            `json:"keyword_keys"`
	DateKeys       int            `json:"date_keys"`
	TypeKeys       int            `json:"type_keys"`
	TypeCounts     map[string]int `json:"type_counts"`
}

// Options configures Store construction.
type Options struct {
	Config Config
	Policy *ConsolidationPolicy
	Logger logging.Logger
}

// Store is a tiered, capacity-bounded message store with keyword, date and
// type indices. Every insert restores all capacity invariants synchronously
// before returning; no operation fails for valid input. The store performs no
// internal locking: it is owned by a single actor whose receive pipeline
// serializes access.
type Store struct {
	cfg    Config
	policy *ConsolidationPolicy
	logger logging.Logger

	working   []*Item
	shortTerm []*Item
	longTerm  []*Item
	items     map[string]*Item // memory id -> item, all tiers

	keywordIndex map[string][]string
	dateIndex    map[string][]string
	typeIndex    map[core.MessageType][]string

	seq            uint64
	totalMemories  int
	forgotten      int
	consolidations int
}

// NewStore constructs a store with default config, policy and a no-op logger
// unless overridden.
func NewStore(optFns ...func(o *Options)) *Store {
	opts := Options{
		Config: DefaultConfig(),
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Policy == nil {
		opts.Policy = NewConsolidationPolicy(opts.Config.ImportanceThreshold)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Store{
		cfg:          opts.Config,
		policy:       opts.Policy,
		logger:       opts.Logger,
		items:        make(map[string]*Item),
		keywordIndex: make(map[string][]string),
		dateIndex:    make(map[string][]string),
		typeIndex:    make(map[core.MessageType][]string),
	}
}

// Add stores a message with the given importance and returns the new memory
// id. It never rejects: tier placement, consolidation and eviction all happen
// synchronously so every capacity bound holds when Add returns.
func (s *Store) Add(msg *core.Message, importance float64) string {
	now := time.Now()
	s.seq++
	it := &Item{
		ID:         core.NewID(),
		Message:    msg,
		Importance: importance,
		StoredAt:   now,
		LastAccess: now,
		Topics:     append([]string(nil), msg.TopicTags...),
		Metadata: map[string]any{
			"sender":   msg.Sender,
			"receiver": msg.Receiver,
			"type":     string(msg.Type),
			"priority": msg.Priority.String(),
		},
		seq: s.seq,
	}
	s.totalMemories++

	switch s.policy.Place(importance, len(s.working), s.cfg.WorkingLimit) {
	case PlaceLongTerm:
		s.index(it)
		s.insertLongTerm(it)
	case PlaceWorkingAfterConsolidation:
		s.consolidateWorking()
		fallthrough
	case PlaceWorking:
		s.index(it)
		s.working = append(s.working, it)
	}
	return it.ID
}

// consolidateWorking moves the whole working buffer into short-term memory
// in bulk, triggering a short-term consolidation if that tier overflows.
func (s *Store) consolidateWorking() {
	s.shortTerm = append(s.shortTerm, s.working...)
	s.working = s.working[:0]
	if len(s.shortTerm) > s.cfg.ShortTermLimit {
		s.consolidateShortTerm()
	}
}

// consolidateShortTerm promotes the top half of short-term memory (ranked by
// the policy's weighted score) into long-term memory and forgets the rest.
func (s *Store) consolidateShortTerm() {
	ranked := s.policy.RankForPromotion(s.shortTerm)
	keep := s.policy.PromoteCount(len(ranked))
	for _, it := range ranked[:keep] {
		s.insertLongTerm(it)
	}
	for _, it := range ranked[keep:] {
		s.forget(it)
	}
	s.shortTerm = s.shortTerm[:0]
	s.consolidations++
	s.logger.Debug("short-term consolidation", "promoted", keep, "forgotten", len(ranked)-keep)
}

// insertLongTerm appends an item to long-term memory, evicting the single
// least-important resident (oldest last-access on ties) if the tier would
// exceed its capacity.
func (s *Store) insertLongTerm(it *Item) {
	s.longTerm = append(s.longTerm, it)
	if len(s.longTerm) <= s.cfg.LongTermLimit {
		return
	}
	victim := s.policy.EvictionVictim(s.longTerm)
	evicted := s.longTerm[victim]
	s.longTerm = append(s.longTerm[:victim], s.longTerm[victim+1:]...)
	s.forget(evicted)
	s.logger.Debug("long-term eviction", "memory_id", evicted.ID, "importance", evicted.Importance)
}

// forget removes an item from the id map and all indices and counts it as
// forgotten. The caller is responsible for removing it from its tier slice.
func (s *Store) forget(it *Item) {
	delete(s.items, it.ID)
	s.unindex(it)
	s.forgotten++
}

// index registers an item in the id map and all secondary indices. Called in
// the same mutation step as the tier insert, so there is no window in which
// the item is stored but unindexed.
func (s *Store) index(it *Item) {
	s.items[it.ID] = it
	for _, kw := range it.Message.TopicTags {
		s.keywordIndex[kw] = append(s.keywordIndex[kw], it.ID)
	}
	for _, kw := range it.Message.EmotionTags {
		s.keywordIndex[kw] = append(s.keywordIndex[kw], it.ID)
	}
	bucket := it.StoredAt.Format("2006-01-02")
	s.dateIndex[bucket] = append(s.dateIndex[bucket], it.ID)
	s.typeIndex[it.Message.Type] = append(s.typeIndex[it.Message.Type], it.ID)
}

// unindex removes every index entry for the item, dropping buckets that
// become empty so index cardinalities stay meaningful.
func (s *Store) unindex(it *Item) {
	for _, kw := range it.Message.TopicTags {
		s.keywordIndex[kw] = removeID(s.keywordIndex[kw], it.ID)
		if len(s.keywordIndex[kw]) == 0 {
			delete(s.keywordIndex, kw)
		}
	}
	for _, kw := range it.Message.EmotionTags {
		s.keywordIndex[kw] = removeID(s.keywordIndex[kw], it.ID)
		if len(s.keywordIndex[kw]) == 0 {
			delete(s.keywordIndex, kw)
		}
	}
	bucket := it.StoredAt.Format("2006-01-02")
	s.dateIndex[bucket] = removeID(s.dateIndex[bucket], it.ID)
	if len(s.dateIndex[bucket]) == 0 {
		delete(s.dateIndex, bucket)
	}
	s.typeIndex[it.Message.Type] = removeID(s.typeIndex[it.Message.Type], it.ID)
	if len(s.typeIndex[it.Message.Type]) == 0 {
		delete(s.typeIndex, it.Message.Type)
	}
}

func removeID(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// touch records a retrieval of the item.
func (s *Store) touch(it *Item) {
	it.ReferenceCount++
	it.LastAccess = time.Now()
}

// all returns the items of every tier in insertion order.
func (s *Store) all() []*Item {
	out := make([]*Item, 0, len(s.working)+len(s.shortTerm)+len(s.longTerm))
	out = append(out, s.working...)
	out = append(out, s.shortTerm...)
	out = append(out, s.longTerm...)
	return out
}

// Recent returns up to n of the most recently stored messages across all
// tiers, in chronological (oldest-first) order. Retrieval bumps each
// returned item's reference counter. n <= 0 yields an empty result.
func (s *Store) Recent(n int) []*core.Message {
	if n <= 0 {
		return nil
	}
	items := s.all()
	sort.SliceStable(items, func(i, j int) bool { return items[i].seq > items[j].seq })
	if len(items) > n {
		items = items[:n]
	}
	out := make([]*core.Message, len(items))
	for i, it := range items {
		s.touch(it)
		out[len(items)-1-i] = it.Message
	}
	return out
}

// ByType returns up to n messages of the given type ordered by importance
// then recency, both descending. Retrieval bumps reference counters.
func (s *Store) ByType(t core.MessageType, n int) []*core.Message {
	if n <= 0 {
		return nil
	}
	ids := s.typeIndex[t]
	items := make([]*Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := s.items[id]; ok {
			items = append(items, it)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Importance != items[j].Importance {
			return items[i].Importance > items[j].Importance
		}
		return items[i].seq > items[j].seq
	})
	if len(items) > n {
		items = items[:n]
	}
	out := make([]*core.Message, len(items))
	for i, it := range items {
		s.touch(it)
		out[i] = it.Message
	}
	return out
}

// ByParticipant returns up to n messages sent by or addressed to the named
// participant, most recent first. Retrieval bumps reference counters.
func (s *Store) ByParticipant(name string, n int) []*core.Message {
	if n <= 0 {
		return nil
	}
	var items []*Item
	for _, it := range s.all() {
		if it.Message.Sender == name || it.Message.Receiver == name {
			items = append(items, it)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].seq > items[j].seq })
	if len(items) > n {
		items = items[:n]
	}
	out := make([]*core.Message, len(items))
	for i, it := range items {
		s.touch(it)
		out[i] = it.Message
	}
	return out
}

// Summary returns tier occupancy, lifetime counters and index cardinalities.
func (s *Store) Summary() Stats {
	typeCounts := make(map[string]int, len(s.typeIndex))
	for t, ids := range s.typeIndex {
		typeCounts[string(t)] = len(ids)
	}
	return Stats{
		WorkingCount:   len(s.working),
		ShortTermCount: len(s.shortTerm),
		LongTermCount:  len(s.longTerm),
		TotalMemories:  s.totalMemories,
		Forgotten:      s.forgotten,
		Consolidations: s.consolidations,
		KeywordKeys:    len(s.keywordIndex),
		DateKeys:       len(s.dateIndex),
		TypeKeys:       len(s.typeIndex),
		TypeCounts:     typeCounts,
	}
}

// Config returns the store's tier configuration.
func (s *Store) Config() Config { return s.cfg }

// Clear empties all tiers and indices. The lifetime counters (total,
// forgotten, consolidations) are cumulative and deliberately not reset.
func (s *Store) Clear() {
	s.working = nil
	s.shortTerm = nil
	s.longTerm = nil
	s.items = make(map[string]*Item)
	s.keywordIndex = make(map[string][]string)
	s.dateIndex = make(map[string][]string)
	s.typeIndex = make(map[core.MessageType][]string)
}
