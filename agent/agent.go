package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/scenemesh/core"
	"github.com/hupe1980/scenemesh/internal/util"
	"github.com/hupe1980/scenemesh/logging"
	"github.com/hupe1980/scenemesh/memory"
	"github.com/hupe1980/scenemesh/model"
)

// Compile-time interface assertion.
var _ core.Actor = (*RoleplayAgent)(nil)

// defaultChatTemplate renders the conversational prompt. Callers can replace
// it (or add templates) through Options.Templates.
const defaultChatTemplate = `You are playing the following character:
{{.role}}

Scene: {{.scene}}
Background: {{.background}}
Current mood: {{.emotions}}

Recent conversation:
{{.history}}

{{.sender}} says: {{.message}}
Reply in character, in one sentence:`

// defaultTaskTemplate renders the prompt for system/action directives.
const defaultTaskTemplate = `You are playing the following character:
{{.role}}

Scene: {{.scene}}

Carry out the following directive and describe the outcome briefly:
{{.message}}`

// rollingContext is the per-actor conversational state updated on every
// received message.
type rollingContext struct {
	lastSpeaker       string
	conversationDepth int
	interactionCount  map[string]int
	lastEmotions      map[string]float64
}

// Options configures RoleplayAgent construction.
type Options struct {
	// MemoryConfig bounds the actor's tiered memory store.
	MemoryConfig memory.Config
	// Scorer rates incoming message importance. Defaults to DefaultScorer.
	Scorer Scorer
	// Templates overrides the prompt templates ("chat", "task").
	Templates map[string]string
	// SceneDescription and BackgroundStory feed the prompt context.
	SceneDescription string
	BackgroundStory  string
	// Logger defaults to NoOpLogger when nil.
	Logger logging.Logger
}

// RoleplayAgent is a scene participant: it owns a tiered memory store, a
// lifecycle state machine and a single-writer receive pipeline that scores,
// stores and answers incoming messages through a generation backend.
//
// The whole Receive body runs under one mutex, so per-actor message handling
// is fully serialized: a second caller blocks until the first completes,
// including memory insertion of the reply.
type RoleplayAgent struct {
	id        string
	role      core.Role
	gen       model.Generator
	scorer    Scorer
	store     *memory.Store
	templates map[string]string
	sceneDesc string
	backstory string
	logger    logging.Logger

	mu sync.Mutex // serializes the entire receive pipeline

	stateMu sync.RWMutex
	state   core.AgentState

	rctx rollingContext
}

// NewRoleplayAgent constructs an actor for the given role and generation
// backend. Unset options fall back to defaults (default memory sizing,
// linear scorer, stock templates, no-op logger).
func NewRoleplayAgent(role core.Role, gen model.Generator, optFns ...func(o *Options)) *RoleplayAgent {
	opts := Options{
		MemoryConfig: memory.DefaultConfig(),
		Scorer:       DefaultScorer(),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Scorer == nil {
		opts.Scorer = DefaultScorer()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	templates := map[string]string{
		"chat": defaultChatTemplate,
		"task": defaultTaskTemplate,
	}
	for name, text := range opts.Templates {
		templates[name] = text
	}
	return &RoleplayAgent{
		id:     core.NewID(),
		role:   role,
		gen:    gen,
		scorer: opts.Scorer,
		store: memory.NewStore(func(o *memory.Options) {
			o.Config = opts.MemoryConfig
			o.Logger = opts.Logger
		}),
		templates: templates,
		sceneDesc: opts.SceneDescription,
		backstory: opts.BackgroundStory,
		logger:    opts.Logger,
		state:     core.StateIdle,
		rctx: rollingContext{
			interactionCount: make(map[string]int),
			lastEmotions:     make(map[string]float64),
		},
	}
}

// ID returns the actor's unique id (distinct from the role name).
func (a *RoleplayAgent) ID() string { return a.id }

// Name implements core.Actor; the actor is addressed by its role name.
func (a *RoleplayAgent) Name() string { return a.role.Name }

// Role returns the played role.
func (a *RoleplayAgent) Role() core.Role { return a.role }

// Memory exposes the actor-owned memory store for observability. The store
// is not synchronized; callers must not mutate it while the actor is live.
func (a *RoleplayAgent) Memory() *memory.Store { return a.store }

// State returns the current lifecycle state.
func (a *RoleplayAgent) State() core.AgentState {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	return a.state
}

func (a *RoleplayAgent) setState(s core.AgentState) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	if a.state == core.StateStopped {
		return // stopped is absorbing
	}
	a.state = s
}

// Stop permanently silences the actor: all further Receive calls are no-ops.
func (a *RoleplayAgent) Stop() {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.state = core.StateStopped
}

// Pause suspends the actor: Receive ignores input (no reply, no state
// change) until Resume is called.
func (a *RoleplayAgent) Pause() { a.setState(core.StatePaused) }

// Resume lifts a pause. It has no effect on a stopped actor.
func (a *RoleplayAgent) Resume() {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	if a.state == core.StatePaused {
		a.state = core.StateIdle
	}
}

// Receive processes an incoming message and returns the actor's reply, if
// any. The pipeline: update rolling context, score and store the message,
// render a prompt, call the generation backend, store the reply. A failed or
// empty generation is an expected outcome (no reply, state back to Idle); an
// internal fault puts the actor into StateError and the next successful call
// transitions out of it. An empty reply with a nil error means "no reply".
func (a *RoleplayAgent) Receive(ctx context.Context, msg *core.Message) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.State() {
	case core.StateStopped, core.StatePaused:
		return "", nil
	}

	a.setState(core.StateListening)
	a.updateContext(msg)

	importance := a.scorer(msg, ScoringContext{
		Role:              a.role,
		LastSpeaker:       a.rctx.lastSpeaker,
		ConversationDepth: a.rctx.conversationDepth,
		InteractionCount:  a.rctx.interactionCount,
	})
	a.store.Add(msg, importance)

	tmplName := "chat"
	if msg.IsSystem() || msg.IsAction() {
		a.setState(core.StateExecuting)
		tmplName = "task"
	} else {
		a.setState(core.StateThinking)
	}

	prompt, err := a.buildPrompt(tmplName, msg)
	if err != nil {
		a.setState(core.StateError)
		return "", fmt.Errorf("render %s prompt: %w", tmplName, err)
	}

	temperature := a.temperatureFor(msg)
	start := time.Now()
	reply, genErr := a.gen.Generate(ctx, prompt, temperature)
	if sl, ok := a.logger.(*logging.SceneLogger); ok {
		sl.LogGeneration(a.gen.Info().Name, time.Since(start), genErr == nil, genErr)
	}
	if genErr != nil || reply == "" {
		if genErr != nil {
			a.logger.Warn("generation yielded no reply", "actor", a.role.Name, "error", genErr.Error())
		}
		a.setState(core.StateIdle)
		return "", nil
	}

	a.setState(core.StateSpeaking)
	replyMsg := core.NewMessage(a.role.Name, msg.Sender, reply)
	replyMsg.ThreadID = msg.ThreadID
	replyMsg.AddReference(msg.ID)
	a.store.Add(replyMsg, importance*0.9)

	a.setState(core.StateIdle)
	return reply, nil
}

// updateContext maintains the rolling conversational context: speaker
// continuity depth, per-sender interaction counts and an emotion snapshot.
func (a *RoleplayAgent) updateContext(msg *core.Message) {
	if msg.Sender == a.rctx.lastSpeaker && a.rctx.lastSpeaker != "" {
		a.rctx.conversationDepth++
	} else {
		a.rctx.conversationDepth = 1
	}
	a.rctx.lastSpeaker = msg.Sender
	a.rctx.interactionCount[msg.Sender]++
	a.updateEmotions(msg)
}

// emotionMarkers maps content markers to the mood dimension they raise.
var emotionMarkers = map[string]string{
	"happy":   "happy",
	"glad":    "happy",
	"sad":     "sad",
	"sorry":   "sad",
	"excited": "excited",
	"eager":   "excited",
	"worried": "nervous",
	"nervous": "nervous",
}

// updateEmotions derives a coarse mood snapshot from message content,
// amplified by the actor's warm/sensitive traits.
func (a *RoleplayAgent) updateEmotions(msg *core.Message) {
	emotions := map[string]float64{"happy": 0, "sad": 0, "excited": 0, "nervous": 0}
	content := strings.ToLower(msg.Content)
	for marker, dimension := range emotionMarkers {
		if strings.Contains(content, marker) {
			emotions[dimension] += 0.3
		}
	}
	for _, tag := range msg.EmotionTags {
		if _, ok := emotions[tag]; ok {
			emotions[tag] += 0.3
		}
	}
	if w := a.role.Trait("warm"); w > 0 {
		emotions["happy"] *= 1 + w
	}
	if w := a.role.Trait("sensitive"); w > 0 {
		emotions["nervous"] *= 1 + w
	}
	a.rctx.lastEmotions = emotions
}

// formatEmotions renders the mood snapshot for the prompt.
func (a *RoleplayAgent) formatEmotions() string {
	var parts []string
	for _, dimension := range []string{"happy", "sad", "excited", "nervous"} {
		if v := a.rctx.lastEmotions[dimension]; v > 0.2 {
			parts = append(parts, fmt.Sprintf("%s: %.1f", dimension, v))
		}
	}
	if len(parts) == 0 {
		return "calm"
	}
	return strings.Join(parts, ", ")
}

// temperatureFor derives the sampling temperature from message type and role
// traits: system directives cool generation down, emotional messages heat it
// up, clamped to [0.1, 1.0].
func (a *RoleplayAgent) temperatureFor(msg *core.Message) float64 {
	temperature := 0.7
	switch {
	case msg.IsSystem():
		temperature -= 0.2
	case msg.IsEmotion():
		temperature += 0.1
	}
	if w := a.role.Trait("humorous"); w > 0 {
		temperature += w * 0.2
	}
	if w := a.role.Trait("precise"); w > 0 {
		temperature -= w * 0.2
	}
	return clamp(temperature, 0.1, 1.0)
}

// buildPrompt renders the named template against the role, scene and memory
// context.
func (a *RoleplayAgent) buildPrompt(name string, msg *core.Message) (string, error) {
	var history strings.Builder
	for _, m := range a.store.Recent(5) {
		history.WriteString(m.Sender + ": " + m.Content + "\n")
	}
	return util.RenderTemplate(a.templates[name], map[string]any{
		"role":       a.role.ToPrompt(),
		"scene":      a.sceneDesc,
		"background": a.backstory,
		"emotions":   a.formatEmotions(),
		"history":    history.String(),
		"sender":     msg.Sender,
		"message":    msg.Content,
	})
}
