// Package model defines the generation backend abstraction used by
// participant actors and ships a deterministic mock for tests and demos.
// Provider adapters live in the subpackages (anthropic, openai).
package model

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Info contains metadata about a generation backend implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", ...
}

// Generator is the minimal interface actors require to produce a reply. The
// temperature is in [0,2]; providers clamp it to their own supported range.
// A failed or empty generation is treated as "no reply" by the caller, never
// as a coordinator-level fault.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)

	// Info returns information about the backend implementation.
	Info() Info
}

// Call records a single Generate invocation observed by a MockGenerator.
type Call struct {
	Prompt      string
	Temperature float64
	At          time.Time
}

// MockGenerator is a lightweight in-memory Generator useful for tests and
// examples. It supports canned responses, failure injection, an artificial
// latency and records every call in arrival order. Safe for concurrent use.
type MockGenerator struct {
	mu        sync.Mutex
	info      Info
	responses map[string]string
	calls     []Call

	// Delay is an artificial per-call latency, applied before responding.
	Delay time.Duration
	// Err, when set, is returned by every Generate call.
	Err error
}

// NewMockGenerator constructs a MockGenerator.
func NewMockGenerator(name string) *MockGenerator {
	return &MockGenerator{
		info:      Info{Name: name, Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for a prompt.
func (m *MockGenerator) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Calls returns a copy of the recorded calls in arrival order.
func (m *MockGenerator) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// Generate implements Generator. The call is recorded before the artificial
// delay so arrival order is observable even for cancelled calls.
func (m *MockGenerator) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Prompt: prompt, Temperature: temperature, At: time.Now()})
	response, ok := m.responses[prompt]
	err := m.Err
	delay := m.Delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
	if err != nil {
		return "", err
	}
	if !ok {
		response = fmt.Sprintf("Mock response to: %s", prompt)
	}
	return response, nil
}

// Info implements Generator.
func (m *MockGenerator) Info() Info { return m.info }
