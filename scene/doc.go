// Package scene provides the broadcast coordinator for multi-participant
// dialogues: a bounded history, a capacity-limited participant registry and
// a concurrent fan-out that collects replies under a hard deadline and
// discards stragglers.
package scene
