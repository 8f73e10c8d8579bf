// Package scenemesh provides a high-level façade over the scene coordinator
// and participant actors enabling rapid construction of multi-character
// roleplay systems. Most applications interact with this package by:
//  1. Creating a SceneMesh via New() (optionally overriding config and logger)
//  2. Adding characters (NewCharacter wires scene context into each actor)
//  3. Broadcasting messages and reading the collected replies
//
// The façade delegates coordination to scene.Scene while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a structured logger and a
// real generation backend.
package scenemesh

import (
	"context"

	"github.com/hupe1980/scenemesh/agent"
	"github.com/hupe1980/scenemesh/core"
	"github.com/hupe1980/scenemesh/logging"
	"github.com/hupe1980/scenemesh/model"
	"github.com/hupe1980/scenemesh/scene"
)

// Options configures the SceneMesh instance.
type Options struct {
	// SceneConfig bounds participants, history and the broadcast deadline.
	SceneConfig scene.Config

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// SceneMesh is the high-level façade aggregating the scene coordinator.
type SceneMesh struct {
	opts  Options
	scene *scene.Scene
}

// New creates a new SceneMesh instance with optional overrides.
func New(optFns ...func(o *Options)) *SceneMesh {
	opts := Options{
		SceneConfig: scene.DefaultConfig(),
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := scene.New(func(o *scene.Options) {
		o.Config = opts.SceneConfig
		o.Logger = opts.Logger
	})

	return &SceneMesh{opts: opts, scene: s}
}

// Scene returns the underlying coordinator.
func (m *SceneMesh) Scene() *scene.Scene { return m.scene }

// NewCharacter constructs a roleplay actor pre-wired with the scene's
// description, background and logger, registers it with the scene and
// returns it. It returns nil when registration fails (capacity or duplicate
// name).
func (m *SceneMesh) NewCharacter(role core.Role, gen model.Generator, optFns ...func(o *agent.Options)) *agent.RoleplayAgent {
	a := agent.NewRoleplayAgent(role, gen, func(o *agent.Options) {
		o.SceneDescription = m.opts.SceneConfig.SceneDescription
		o.BackgroundStory = m.opts.SceneConfig.BackgroundStory
		o.Logger = m.opts.Logger
		for _, fn := range optFns {
			fn(o)
		}
	})
	if !m.scene.AddCharacter(a) {
		return nil
	}
	return a
}

// AddCharacter registers an existing actor with the scene.
func (m *SceneMesh) AddCharacter(a core.Actor) bool { return m.scene.AddCharacter(a) }

// RemoveCharacter unregisters an actor by name.
func (m *SceneMesh) RemoveCharacter(name string) bool { return m.scene.RemoveCharacter(name) }

// Broadcast fans a message out to all eligible participants and returns the
// replies collected before the configured deadline.
func (m *SceneMesh) Broadcast(ctx context.Context, msg *core.Message) map[string]string {
	return m.scene.Broadcast(ctx, msg)
}

// History returns the dialogue history, optionally filtered and truncated.
func (m *SceneMesh) History(limit int, participant string) []*core.Message {
	return m.scene.DialogueHistory(limit, participant)
}

// Describe renders the scene setup and its participants.
func (m *SceneMesh) Describe() string { return m.scene.DescribeScene() }
