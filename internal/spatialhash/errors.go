package spatialhash

import "errors"

// ErrUnknownID is returned by Remove, RemoveFast, and MoveItem when the
// id they were given is not present in the grid.
var ErrUnknownID = errors.New("spatialhash: unknown item id")

// ErrCapacityExhausted is returned by ConcurrentWriter.TryAdd when a
// reverse table or bucket slot could not reserve space for a new entry.
// The caller must finish the current tick, grow capacity via
// PrepareFreePlace, and retry on a freshly derived writer.
var ErrCapacityExhausted = errors.New("spatialhash: capacity exhausted")

// ErrInvariantViolation is raised (as a panic, debug builds only — see
// Debug) when a remove fails to find the bucket entry its own reverse
// tables say must exist. It indicates a programming error in the
// caller: a double-remove, or a stale id used after Clear.
var ErrInvariantViolation = errors.New("spatialhash: invariant violation")

// ConfigError reports an invalid construction argument to New.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "spatialhash: config error: " + e.Reason
}

// Debug enables InvariantViolation assertions on the remove path. It is
// off by default (release behaviour: skip the check) and is meant to be
// flipped on by tests and by callers debugging a double-remove.
var Debug = false
