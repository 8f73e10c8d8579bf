package model

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGenerator_CannedAndDefaultResponses(t *testing.T) {
	gen := NewMockGenerator("test")
	gen.AddResponse("hello", "hi there")

	got, err := gen.Generate(context.Background(), "hello", 0.7)
	require.NoError(t, err)
	assert.Equal(t, "hi there", got)

	got, err = gen.Generate(context.Background(), "unknown prompt", 0.7)
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: unknown prompt", got)
}

func TestMockGenerator_ErrorInjection(t *testing.T) {
	gen := NewMockGenerator("test")
	gen.Err = errors.New("backend down")

	_, err := gen.Generate(context.Background(), "hello", 0.7)
	require.Error(t, err)
	assert.EqualError(t, err, "backend down")
}

func TestMockGenerator_DelayHonorsCancellation(t *testing.T) {
	gen := NewMockGenerator("test")
	gen.Delay = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := gen.Generate(ctx, "hello", 0.7)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	// The call is still recorded even though it was cancelled.
	assert.Len(t, gen.Calls(), 1)
}

func TestMockGenerator_RecordsCallsInOrder(t *testing.T) {
	gen := NewMockGenerator("test")

	_, _ = gen.Generate(context.Background(), "first", 0.3)
	_, _ = gen.Generate(context.Background(), "second", 0.9)

	calls := gen.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "first", calls[0].Prompt)
	assert.InDelta(t, 0.3, calls[0].Temperature, 1e-9)
	assert.Equal(t, "second", calls[1].Prompt)
	assert.InDelta(t, 0.9, calls[1].Temperature, 1e-9)

	// Calls returns a copy, not a live view.
	calls[0].Prompt = "mutated"
	assert.Equal(t, "first", gen.Calls()[0].Prompt)
}

func TestMockGenerator_Info(t *testing.T) {
	gen := NewMockGenerator("my-mock")
	assert.Equal(t, Info{Name: "my-mock", Provider: "mock"}, gen.Info())
}
