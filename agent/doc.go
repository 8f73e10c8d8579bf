// Package agent implements the scene participant: a role-playing actor that
// serializes message handling behind a single mutex, scores incoming
// messages into its own tiered memory store and produces replies through a
// pluggable generation backend.
package agent
