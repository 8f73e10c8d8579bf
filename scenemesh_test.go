package scenemesh

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/scenemesh/core"
	"github.com/hupe1980/scenemesh/model"
	"github.com/hupe1980/scenemesh/scene"
)

func newTestMesh(maxCharacters int) *SceneMesh {
	return New(func(o *Options) {
		o.SceneConfig = scene.Config{
			MaxCharacters:    maxCharacters,
			HistoryLimit:     50,
			BroadcastTimeout: time.Second,
			SceneDescription: "A candlelit tavern",
			BackgroundStory:  "A storm has trapped the patrons inside",
		}
	})
}

func TestSceneMesh_NewCharacterWiresSceneContext(t *testing.T) {
	mesh := newTestMesh(5)
	gen := model.NewMockGenerator("m")

	a := mesh.NewCharacter(core.Role{Name: "Mira", Background: "The innkeeper"}, gen)
	require.NotNil(t, a)
	assert.Equal(t, []string{"Mira"}, mesh.Scene().Characters())

	// The character replies, so its prompt was built from the wired scene
	// context without error.
	replies := mesh.Broadcast(context.Background(), core.NewMessage("Traveler", "", "any rooms left?"))
	require.Contains(t, replies, "Mira")

	calls := gen.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Prompt, "A candlelit tavern")
	assert.Contains(t, calls[0].Prompt, "A storm has trapped the patrons inside")
}

func TestSceneMesh_NewCharacterRejectsDuplicatesAndOverflow(t *testing.T) {
	mesh := newTestMesh(2)
	gen := model.NewMockGenerator("m")

	require.NotNil(t, mesh.NewCharacter(core.Role{Name: "Mira"}, gen))
	assert.Nil(t, mesh.NewCharacter(core.Role{Name: "Mira"}, gen), "duplicate name")

	require.NotNil(t, mesh.NewCharacter(core.Role{Name: "Tobin"}, gen))
	assert.Nil(t, mesh.NewCharacter(core.Role{Name: "Third"}, gen), "over capacity")
}

func TestSceneMesh_BroadcastAndHistory(t *testing.T) {
	mesh := newTestMesh(5)
	gen := model.NewMockGenerator("m")
	require.NotNil(t, mesh.NewCharacter(core.Role{Name: "Mira"}, gen))
	require.NotNil(t, mesh.NewCharacter(core.Role{Name: "Tobin"}, gen))

	replies := mesh.Broadcast(context.Background(), core.NewMessage("Traveler", "", "hello"))
	assert.Len(t, replies, 2)

	history := mesh.History(0, "")
	require.Len(t, history, 1)
	assert.Equal(t, "hello", history[0].Content)
}

func TestSceneMesh_RemoveCharacter(t *testing.T) {
	mesh := newTestMesh(5)
	require.NotNil(t, mesh.NewCharacter(core.Role{Name: "Mira"}, model.NewMockGenerator("m")))

	assert.True(t, mesh.RemoveCharacter("Mira"))
	assert.False(t, mesh.RemoveCharacter("Mira"))
	assert.Empty(t, mesh.Scene().Characters())
}

func TestSceneMesh_Describe(t *testing.T) {
	mesh := newTestMesh(5)
	require.NotNil(t, mesh.NewCharacter(core.Role{Name: "Mira", Background: "The innkeeper"}, model.NewMockGenerator("m")))

	desc := mesh.Describe()
	assert.Contains(t, desc, "A candlelit tavern")
	assert.Contains(t, desc, "Mira")
}
