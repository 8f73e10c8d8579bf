package agent

import (
	"strings"

	"github.com/hupe1980/scenemesh/core"
)

// ScoringContext is the actor-local state a scorer may consult.
type ScoringContext struct {
	Role              core.Role
	LastSpeaker       string
	ConversationDepth int
	InteractionCount  map[string]int
}

// Scorer maps a message plus actor-local context to an importance score. It
// must be pure (no side effects) and total (never fail); the returned value
// is used as-is for memory tier placement, so implementations should keep it
// in [0,1].
type Scorer func(msg *core.Message, sctx ScoringContext) float64

// defaultKeywords are content markers that raise importance. The exact word
// list is tuning, not structure; replace the scorer to change it.
var defaultKeywords = []string{"love", "sorry", "angry", "sad", "happy", "remember"}

// NewLinearScorer builds the default additive scorer: base 0.5, adjusted for
// message type, addressing and keyword hits, amplified by the actor's
// "sensitive" trait and clamped to [0.1, 1.0].
func NewLinearScorer(keywords []string) Scorer {
	return func(msg *core.Message, sctx ScoringContext) float64 {
		importance := 0.5

		switch {
		case msg.IsSystem():
			importance += 0.3
		case msg.IsAction():
			importance += 0.2
		}

		if msg.Receiver == sctx.Role.Name {
			importance += 0.2
		} else if msg.Sender == sctx.Role.Name {
			importance += 0.1
		}

		content := strings.ToLower(msg.Content)
		for _, kw := range keywords {
			if strings.Contains(content, kw) {
				importance += 0.1
			}
		}

		if w := sctx.Role.Trait("sensitive"); w > 0 {
			importance *= 1 + w*0.2
		}

		return clamp(importance, 0.1, 1.0)
	}
}

// DefaultScorer is the linear scorer with the stock keyword list.
func DefaultScorer() Scorer { return NewLinearScorer(defaultKeywords) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
