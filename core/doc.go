// Package core provides the foundational domain types used by scenemesh. It
// defines the core abstractions for:
//
//   - Messages (immutable-after-creation conversational records with type,
//     priority, emotion/topic tags and thread lineage)
//   - Roles (participant identity: name, background, weighted traits)
//   - Actors (the minimal capability a scene requires from a participant)
//   - AgentState (the participant lifecycle state machine)
//
// The package intentionally keeps implementation concerns (memory tiers,
// broadcast coordination, generation backends) out of scope, exposing small
// types so the other packages can compose them freely.
package core
