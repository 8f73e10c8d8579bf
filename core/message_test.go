package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	m := NewMessage("Alice", "Bob", "hello")

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "Alice", m.Sender)
	assert.Equal(t, "Bob", m.Receiver)
	assert.Equal(t, "hello", m.Content)
	assert.Equal(t, MessageTypeChat, m.Type)
	assert.Equal(t, PriorityNormal, m.Priority)
	assert.Equal(t, m.ID, m.ThreadID, "thread defaults to the message's own id")
	assert.True(t, m.IsPrivate())

	broadcast := NewMessage("Alice", "", "hello all")
	assert.False(t, broadcast.IsPrivate())
	assert.NotEqual(t, m.ID, broadcast.ID)
}

func TestMessageConstructors(t *testing.T) {
	sys := NewSystemMessage("scene change")
	assert.Equal(t, "SYSTEM", sys.Sender)
	assert.Equal(t, MessageTypeSystem, sys.Type)
	assert.Equal(t, PriorityHigh, sys.Priority)
	assert.True(t, sys.IsSystem())

	act := NewActionMessage("Alice", "draws her sword")
	assert.Equal(t, MessageTypeAction, act.Type)
	assert.True(t, act.IsAction())

	emo := NewEmotionMessage("Alice", "wonderful!", "happy")
	assert.Equal(t, MessageTypeEmotion, emo.Type)
	assert.True(t, emo.IsEmotion())
	assert.Equal(t, []string{"happy"}, emo.EmotionTags)
}

func TestMessage_TagAndReferenceUnions(t *testing.T) {
	m := NewMessage("Alice", "", "hello")

	m.AddEmotionTag("happy")
	m.AddEmotionTag("happy")
	m.AddEmotionTag("excited")
	assert.Equal(t, []string{"happy", "excited"}, m.EmotionTags)

	m.AddTopicTag("weather")
	m.AddTopicTag("weather")
	assert.Equal(t, []string{"weather"}, m.TopicTags)

	m.AddReference("ref-1")
	m.AddReference("ref-1")
	m.AddReference("ref-2")
	assert.Equal(t, []string{"ref-1", "ref-2"}, m.ReferenceIDs)
}

func TestMessage_MutationsBumpUpdateTime(t *testing.T) {
	m := NewMessage("Alice", "", "hello")
	before := m.UpdateTime
	time.Sleep(time.Millisecond)

	m.UpdateContent("hello again")
	assert.Equal(t, "hello again", m.Content)
	assert.True(t, m.UpdateTime.After(before))

	before = m.UpdateTime
	time.Sleep(time.Millisecond)
	m.SetPriority(PriorityUrgent)
	assert.Equal(t, PriorityUrgent, m.Priority)
	assert.True(t, m.UpdateTime.After(before))

	// A duplicate tag is a no-op and must not bump UpdateTime.
	m.AddEmotionTag("happy")
	before = m.UpdateTime
	time.Sleep(time.Millisecond)
	m.AddEmotionTag("happy")
	assert.Equal(t, before, m.UpdateTime)
}

func TestMessage_String(t *testing.T) {
	m := NewMessage("Alice", "Bob", "secret")
	m.AddEmotionTag("nervous")
	s := m.String()
	assert.Contains(t, s, "Alice -> Bob")
	assert.Contains(t, s, "secret")
	assert.Contains(t, s, "#nervous")

	b := NewMessage("Alice", "", "hello all")
	assert.Contains(t, b.String(), "(broadcast)")
}

func TestMessage_FormatElapsed(t *testing.T) {
	m := NewMessage("Alice", "", "hello")
	assert.Equal(t, "just now", m.FormatElapsed())

	m.CreateTime = time.Now().Add(-5 * time.Minute)
	assert.Equal(t, "5m ago", m.FormatElapsed())

	m.CreateTime = time.Now().Add(-3 * time.Hour)
	assert.Equal(t, "3h ago", m.FormatElapsed())

	m.CreateTime = time.Now().Add(-48 * time.Hour)
	assert.Equal(t, "2d ago", m.FormatElapsed())
}

func TestMessagePriority_String(t *testing.T) {
	assert.Equal(t, "low", PriorityLow.String())
	assert.Equal(t, "normal", PriorityNormal.String())
	assert.Equal(t, "high", PriorityHigh.String())
	assert.Equal(t, "urgent", PriorityUrgent.String())
	assert.Equal(t, "unknown", MessagePriority(42).String())
}

func TestMessageBuilder(t *testing.T) {
	m, err := NewMessageBuilder("Alice").
		Content("the plan").
		Receiver("Bob").
		Type(MessageTypeThought).
		Priority(PriorityHigh).
		Thread("thread-7").
		Reference("ref-1").
		Reference("ref-1").
		EmotionTag("wary").
		TopicTag("heist").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "Alice", m.Sender)
	assert.Equal(t, "Bob", m.Receiver)
	assert.Equal(t, "the plan", m.Content)
	assert.Equal(t, MessageTypeThought, m.Type)
	assert.Equal(t, PriorityHigh, m.Priority)
	assert.Equal(t, "thread-7", m.ThreadID)
	assert.Equal(t, []string{"ref-1"}, m.ReferenceIDs)
	assert.Equal(t, []string{"wary"}, m.EmotionTags)
	assert.Equal(t, []string{"heist"}, m.TopicTags)
}

func TestMessageBuilder_RequiresContent(t *testing.T) {
	_, err := NewMessageBuilder("Alice").Build()
	require.Error(t, err)
}

func TestRole(t *testing.T) {
	r := Role{
		Name:       "Elena",
		Background: "A retired cartographer",
		Traits:     map[string]float64{"warm": 0.8, "precise": 0.5},
	}

	assert.InDelta(t, 0.8, r.Trait("warm"), 1e-9)
	assert.Zero(t, r.Trait("missing"))
	assert.Equal(t, "precise: 0.5, warm: 0.8", r.FormatTraits())

	prompt := r.ToPrompt()
	assert.Contains(t, prompt, "Role: Elena")
	assert.Contains(t, prompt, "Background: A retired cartographer")

	assert.Empty(t, Role{Name: "Blank"}.FormatTraits())
}
