package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MessageType categorizes the conversational intent of a message.
type MessageType string

const (
	// MessageTypeChat is a plain conversational utterance.
	MessageTypeChat MessageType = "chat"
	// MessageTypeEmotion expresses an emotional reaction.
	MessageTypeEmotion MessageType = "emotion"
	// MessageTypeAction describes a physical action performed by a participant.
	MessageTypeAction MessageType = "action"
	// MessageTypeThought is an internal monologue not voiced to other participants.
	MessageTypeThought MessageType = "thought"
	// MessageTypeSystem is an out-of-band directive from the coordinator.
	MessageTypeSystem MessageType = "system"
	// MessageTypeNarrative is scene-setting narration.
	MessageTypeNarrative MessageType = "narrative"
)

// MessagePriority ranks messages for scoring and display purposes.
type MessagePriority int

const (
	// PriorityLow marks background chatter.
	PriorityLow MessagePriority = iota
	// PriorityNormal is the default priority.
	PriorityNormal
	// PriorityHigh marks messages that should influence memory retention.
	PriorityHigh
	// PriorityUrgent marks messages requiring immediate attention.
	PriorityUrgent
)

// String returns the human readable priority name.
func (p MessagePriority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityUrgent:
		return "urgent"
	default:
		return "unknown"
	}
}

// Message is the unit of communication between scene participants. Identity
// (ID) is fixed at creation; the only permitted mutations are content updates
// and monotonic tag/reference unions, each of which bumps UpdateTime. A
// message with an empty Receiver is a broadcast.
//
// Messages are not safe for concurrent mutation; the coordinator and actors
// only read them after fan-out.
type Message struct {
	ID           string          `json:"id"`
	Sender       string          `json:"sender"`
	Receiver     string          `json:"receiver,omitempty"`
	Content      string          `json:"content"`
	Type         MessageType     `json:"type"`
	Priority     MessagePriority `json:"priority"`
	EmotionTags  []string        `json:"emotion_tags,omitempty"`
	TopicTags    []string        `json:"topic_tags,omitempty"`
	CustomData   map[string]any  `json:"custom_data,omitempty"`
	CreateTime   time.Time       `json:"create_time"`
	UpdateTime   time.Time       `json:"update_time"`
	ThreadID     string          `json:"thread_id"`
	ReferenceIDs []string        `json:"reference_ids,omitempty"`
}

// NewMessage creates a chat message from sender to receiver (empty receiver =
// broadcast). The thread id defaults to the message's own id.
func NewMessage(sender, receiver, content string) *Message {
	now := time.Now()
	id := NewID()
	return &Message{
		ID:         id,
		Sender:     sender,
		Receiver:   receiver,
		Content:    content,
		Type:       MessageTypeChat,
		Priority:   PriorityNormal,
		CreateTime: now,
		UpdateTime: now,
		ThreadID:   id,
	}
}

// NewSystemMessage creates a high-priority broadcast system message.
func NewSystemMessage(content string) *Message {
	m := NewMessage("SYSTEM", "", content)
	m.Type = MessageTypeSystem
	m.Priority = PriorityHigh
	return m
}

// NewActionMessage creates a broadcast action description.
func NewActionMessage(sender, action string) *Message {
	m := NewMessage(sender, "", action)
	m.Type = MessageTypeAction
	return m
}

// NewEmotionMessage creates a broadcast emotion message tagged with the given
// emotion.
func NewEmotionMessage(sender, content, emotion string) *Message {
	m := NewMessage(sender, "", content)
	m.Type = MessageTypeEmotion
	m.AddEmotionTag(emotion)
	return m
}

// UpdateContent replaces the message text and bumps UpdateTime.
func (m *Message) UpdateContent(content string) {
	m.Content = content
	m.UpdateTime = time.Now()
}

// AddReference records a referenced message id. Duplicates are ignored.
func (m *Message) AddReference(messageID string) {
	if appended, ok := appendUnique(m.ReferenceIDs, messageID); ok {
		m.ReferenceIDs = appended
		m.UpdateTime = time.Now()
	}
}

// AddEmotionTag appends an emotion tag preserving insertion order. Duplicates
// are ignored.
func (m *Message) AddEmotionTag(emotion string) {
	if appended, ok := appendUnique(m.EmotionTags, emotion); ok {
		m.EmotionTags = appended
		m.UpdateTime = time.Now()
	}
}

// AddTopicTag appends a topic tag preserving insertion order. Duplicates are
// ignored.
func (m *Message) AddTopicTag(topic string) {
	if appended, ok := appendUnique(m.TopicTags, topic); ok {
		m.TopicTags = appended
		m.UpdateTime = time.Now()
	}
}

// SetPriority updates the message priority and bumps UpdateTime.
func (m *Message) SetPriority(p MessagePriority) {
	m.Priority = p
	m.UpdateTime = time.Now()
}

// IsPrivate reports whether the message names an explicit receiver.
func (m *Message) IsPrivate() bool { return m.Receiver != "" }

// IsSystem reports whether the message is a system directive.
func (m *Message) IsSystem() bool { return m.Type == MessageTypeSystem }

// IsAction reports whether the message describes an action.
func (m *Message) IsAction() bool { return m.Type == MessageTypeAction }

// IsEmotion reports whether the message is an emotional expression.
func (m *Message) IsEmotion() bool { return m.Type == MessageTypeEmotion }

// Elapsed returns the time since the message was created.
func (m *Message) Elapsed() time.Duration { return time.Since(m.CreateTime) }

// FormatElapsed renders the age of the message in coarse human units.
func (m *Message) FormatElapsed() string {
	elapsed := m.Elapsed()
	switch {
	case elapsed >= 24*time.Hour:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours())/24)
	case elapsed >= time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	case elapsed >= time.Minute:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	default:
		return "just now"
	}
}

// String renders the message for logs and transcripts.
func (m *Message) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s]", m.CreateTime.Format("2006-01-02 15:04:05"), m.Type)
	if m.Priority != PriorityNormal {
		fmt.Fprintf(&b, "(%s)", m.Priority)
	}
	b.WriteString(" " + m.Sender)
	if m.Receiver != "" {
		b.WriteString(" -> " + m.Receiver)
	} else {
		b.WriteString(" (broadcast)")
	}
	b.WriteString(": " + m.Content)
	if len(m.EmotionTags)+len(m.TopicTags) > 0 {
		all := append(append([]string{}, m.EmotionTags...), m.TopicTags...)
		b.WriteString(" #" + strings.Join(all, " #"))
	}
	return b.String()
}

// NewID generates a unique identifier for messages, memories and actors.
func NewID() string { return uuid.NewString() }

// appendUnique appends v to s if absent, reporting whether an append occurred.
func appendUnique(s []string, v string) ([]string, bool) {
	for _, existing := range s {
		if existing == v {
			return s, false
		}
	}
	return append(s, v), true
}
