package core

import "errors"

// MessageBuilder assembles a Message step by step. Use it when a call site
// needs to set more than sender/receiver/content; for the common cases the
// New*Message constructors are shorter.
type MessageBuilder struct {
	sender       string
	receiver     string
	content      string
	hasContent   bool
	msgType      MessageType
	priority     MessagePriority
	threadID     string
	emotionTags  []string
	topicTags    []string
	referenceIDs []string
}

// NewMessageBuilder creates a builder for a message authored by sender.
func NewMessageBuilder(sender string) *MessageBuilder {
	return &MessageBuilder{
		sender:   sender,
		msgType:  MessageTypeChat,
		priority: PriorityNormal,
	}
}

// Content sets the message text. Required before Build.
func (b *MessageBuilder) Content(content string) *MessageBuilder {
	b.content = content
	b.hasContent = true
	return b
}

// Receiver sets an explicit receiver making the message private.
func (b *MessageBuilder) Receiver(receiver string) *MessageBuilder {
	b.receiver = receiver
	return b
}

// Type sets the message type.
func (b *MessageBuilder) Type(t MessageType) *MessageBuilder {
	b.msgType = t
	return b
}

// Priority sets the message priority.
func (b *MessageBuilder) Priority(p MessagePriority) *MessageBuilder {
	b.priority = p
	return b
}

// Thread attaches the message to an existing conversation thread.
func (b *MessageBuilder) Thread(threadID string) *MessageBuilder {
	b.threadID = threadID
	return b
}

// Reference records a referenced message id. Duplicates are ignored.
func (b *MessageBuilder) Reference(messageID string) *MessageBuilder {
	b.referenceIDs, _ = appendUnique(b.referenceIDs, messageID)
	return b
}

// EmotionTag appends an emotion tag. Duplicates are ignored.
func (b *MessageBuilder) EmotionTag(emotion string) *MessageBuilder {
	b.emotionTags, _ = appendUnique(b.emotionTags, emotion)
	return b
}

// TopicTag appends a topic tag. Duplicates are ignored.
func (b *MessageBuilder) TopicTag(topic string) *MessageBuilder {
	b.topicTags, _ = appendUnique(b.topicTags, topic)
	return b
}

// Build constructs the message. It returns an error if no content was set.
func (b *MessageBuilder) Build() (*Message, error) {
	if !b.hasContent {
		return nil, errors.New("message content must be set before building")
	}
	m := NewMessage(b.sender, b.receiver, b.content)
	m.Type = b.msgType
	m.Priority = b.priority
	if b.threadID != "" {
		m.ThreadID = b.threadID
	}
	m.EmotionTags = b.emotionTags
	m.TopicTags = b.topicTags
	m.ReferenceIDs = b.referenceIDs
	return m, nil
}
