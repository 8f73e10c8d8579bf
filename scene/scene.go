package scene

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/scenemesh/core"
	"github.com/hupe1980/scenemesh/logging"
)

// Options configures Scene construction.
type Options struct {
	Config Config
	Logger logging.Logger
}

// Scene coordinates a multi-participant dialogue: it owns the participant
// registry and the bounded dialogue history, and fans incoming messages out
// to all eligible actors concurrently under a collection deadline.
//
// The registry and history are mutated only by the Scene's own synchronous
// methods, never by the fan-out goroutines it launches.
type Scene struct {
	cfg    Config
	logger logging.Logger

	mu         sync.Mutex
	characters map[string]core.Actor
	order      []string // registration order, for deterministic description
	history    []*core.Message
}

// New constructs a Scene with default config and a no-op logger unless
// overridden.
func New(optFns ...func(o *Options)) *Scene {
	opts := Options{
		Config: DefaultConfig(),
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Scene{
		cfg:        opts.Config,
		logger:     opts.Logger,
		characters: make(map[string]core.Actor),
	}
}

// Config returns the immutable scene configuration.
func (s *Scene) Config() Config { return s.cfg }

// AddCharacter registers an actor. It returns false (never an error) when
// the scene is at capacity or the name is already taken.
func (s *Scene) AddCharacter(a core.Actor) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.characters) >= s.cfg.MaxCharacters {
		s.logger.Warn("scene at capacity", "max_characters", s.cfg.MaxCharacters)
		return false
	}
	name := a.Name()
	if _, exists := s.characters[name]; exists {
		s.logger.Warn("character already present", "name", name)
		return false
	}
	s.characters[name] = a
	s.order = append(s.order, name)
	s.logger.Info("character joined scene", "name", name)
	return true
}

// RemoveCharacter unregisters an actor by name, reporting whether it was
// present.
func (s *Scene) RemoveCharacter(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.characters[name]; !exists {
		return false
	}
	delete(s.characters, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.logger.Info("character left scene", "name", name)
	return true
}

// Characters returns the participant names in registration order.
func (s *Scene) Characters() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// Broadcast appends the message to the dialogue history and fans it out to
// every eligible participant (everyone but the sender, narrowed to the
// explicit receiver if the message names one). It returns the replies that
// arrived before the configured deadline, keyed by participant name;
// participants that timed out, failed or chose not to reply are simply
// absent from the map.
//
// Cancellation at the deadline is a best-effort signal through the context
// passed to each actor: a straggler's result is discarded, but its execution
// is not guaranteed to halt.
func (s *Scene) Broadcast(ctx context.Context, msg *core.Message) map[string]string {
	s.mu.Lock()
	s.appendHistoryLocked(msg)
	targets := make(map[string]core.Actor, len(s.characters))
	for name, a := range s.characters {
		if name == msg.Sender {
			continue
		}
		if msg.Receiver != "" && name != msg.Receiver {
			continue
		}
		targets[name] = a
	}
	s.mu.Unlock()

	replies := make(map[string]string)
	if len(targets) == 0 {
		return replies
	}

	fanCtx, cancel := context.WithTimeout(ctx, s.cfg.BroadcastTimeout)
	defer cancel()

	type result struct {
		name  string
		reply string
		err   error
	}
	// Buffered so abandoned goroutines can still send and terminate.
	results := make(chan result, len(targets))
	for name, a := range targets {
		go func(name string, a core.Actor) {
			reply, err := a.Receive(fanCtx, msg)
			results <- result{name: name, reply: reply, err: err}
		}(name, a)
	}

	start := time.Now()
	outstanding := len(targets)
collect:
	for outstanding > 0 {
		select {
		case res := <-results:
			outstanding--
			s.recordResult(replies, res.name, res.reply, res.err)
		case <-fanCtx.Done():
			// Deadline hit: pick up results that completed concurrently
			// with the timer, then abandon the rest.
			for outstanding > 0 {
				select {
				case res := <-results:
					outstanding--
					s.recordResult(replies, res.name, res.reply, res.err)
				default:
					s.logger.Warn("broadcast deadline reached", "outstanding", outstanding)
					break collect
				}
			}
		}
	}

	if sl, ok := s.logger.(*logging.SceneLogger); ok {
		sl.LogBroadcast(msg.Sender, len(targets), len(replies), time.Since(start))
	}
	return replies
}

// recordResult merges one fan-out outcome into the reply map. Failures and
// empty replies leave the participant absent, never as an empty entry.
func (s *Scene) recordResult(replies map[string]string, name, reply string, err error) {
	if err != nil {
		s.logger.Warn("participant failed to reply", "name", name, "error", err.Error())
		return
	}
	if reply != "" {
		replies[name] = reply
	}
}

// appendHistoryLocked appends to the bounded dialogue history, dropping the
// oldest entry on overflow. Caller holds s.mu.
func (s *Scene) appendHistoryLocked(msg *core.Message) {
	s.history = append(s.history, msg)
	if s.cfg.HistoryLimit > 0 && len(s.history) > s.cfg.HistoryLimit {
		s.history = s.history[len(s.history)-s.cfg.HistoryLimit:]
	}
}

// DialogueHistory returns the recorded messages, optionally filtered to one
// participant (as sender or receiver) and truncated to the last limit
// entries. A non-positive limit returns the full filtered history.
func (s *Scene) DialogueHistory(limit int, participant string) []*core.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*core.Message, 0, len(s.history))
	for _, m := range s.history {
		if participant != "" && m.Sender != participant && m.Receiver != participant {
			continue
		}
		out = append(out, m)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// DescribeScene renders the scene setup and its participants.
func (s *Scene) DescribeScene() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b strings.Builder
	fmt.Fprintf(&b, "Scene: %s\n", s.cfg.SceneDescription)
	fmt.Fprintf(&b, "Background: %s\n", s.cfg.BackgroundStory)
	fmt.Fprintf(&b, "\nParticipants (%d):\n", len(s.order))
	for _, name := range s.order {
		fmt.Fprintf(&b, "- %s\n", name)
	}
	return b.String()
}
