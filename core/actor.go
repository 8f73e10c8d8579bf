package core

import "context"

// AgentState models the lifecycle of a participant actor. Transitions are
// serialized by the actor's own lock; StateStopped is absorbing.
type AgentState int

const (
	// StateIdle means the actor is waiting for input.
	StateIdle AgentState = iota
	// StateListening means the actor is ingesting an incoming message.
	StateListening
	// StateThinking means the actor is generating a reply.
	StateThinking
	// StateSpeaking means the actor is emitting a reply.
	StateSpeaking
	// StateExecuting means the actor is carrying out a task directive.
	StateExecuting
	// StatePaused means the actor is temporarily suspended.
	StatePaused
	// StateStopped means the actor permanently ignores further input.
	StateStopped
	// StateError means the last receive failed unexpectedly. The next
	// successful receive transitions out of it.
	StateError
)

// String returns the lowercase state name.
func (s AgentState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateThinking:
		return "thinking"
	case StateSpeaking:
		return "speaking"
	case StateExecuting:
		return "executing"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Actor is the capability a scene requires from a participant: a stable name
// and a receive pipeline that may produce a reply. Receive must serialize its
// own internal work; concurrent callers queue. An empty reply with a nil
// error means the actor chose not to respond.
type Actor interface {
	Name() string
	Receive(ctx context.Context, msg *Message) (string, error)
}
