// Package memory implements a bounded, tiered store for conversational
// messages. Items enter a small working buffer, overflow into a scored
// short-term tier and are promoted into a capacity-bounded long-term tier by
// an importance-weighted consolidation policy. Three secondary indices
// (keyword, date bucket, message type) are kept consistent with the tiers on
// every mutation.
//
// A Store is owned by exactly one participant actor which serializes access;
// the store itself performs no locking.
package memory
