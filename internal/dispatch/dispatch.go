// Package dispatch owns the intent-to-handler registry, the confidence
// gate, and the normalization of every handler outcome into a uniform
// ExecutionResult. Registration happens once at startup; after that the
// registry is read-only and Dispatch is safe for concurrent callers.
package dispatch

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"spark/internal/intent"
	"spark/internal/logging"
)

// DefaultThreshold is the confidence gate applied when the configuration
// does not override it.
const DefaultThreshold = 0.7

// Handler is the boundary to the action layer: it receives the extracted
// entities and returns a human-readable success message or an error. It
// must never require a slot the parser cannot provide.
type Handler func(ctx context.Context, ents intent.Entities) (string, error)

// ExecutionResult is the only artifact exposed to the calling layer.
type ExecutionResult struct {
	Success bool
	Message string
	Intent  intent.Intent
	Failure Failure
}

// FallbackEligible reports whether the calling loop should consult the
// conversational fallback collaborator for this result.
func (r ExecutionResult) FallbackEligible() bool {
	return !r.Success && r.Failure.FallbackEligible()
}

type registration struct {
	handler  Handler
	required []intent.EntityKey
}

// Dispatcher routes parsed intents to registered handlers.
type Dispatcher struct {
	mu        sync.RWMutex
	threshold float64
	handlers  map[intent.Intent]registration
}

// New creates a dispatcher with the given confidence threshold; values
// outside [0,1] fall back to DefaultThreshold.
func New(threshold float64) *Dispatcher {
	if threshold < 0 || threshold > 1 {
		logging.Dispatch("threshold %.2f out of range, using default %.2f", threshold, DefaultThreshold)
		threshold = DefaultThreshold
	}
	return &Dispatcher{
		threshold: threshold,
		handlers:  make(map[intent.Intent]registration),
	}
}

// Register binds a handler to an intent along with the entity slots it
// requires. Re-registering an intent replaces the prior handler. Intended
// to be called only during initialization, before any Dispatch.
func (d *Dispatcher) Register(in intent.Intent, h Handler, required ...intent.EntityKey) {
	if in == intent.IntentUnknown || h == nil {
		return
	}
	d.mu.Lock()
	d.handlers[in] = registration{handler: h, required: required}
	d.mu.Unlock()
	logging.DispatchDebug("registered handler for %s (required=%v)", in, required)
}

// Registered reports whether a handler exists for the intent.
func (d *Dispatcher) Registered(in intent.Intent) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.handlers[in]
	return ok
}

// Intents lists the registered intents in stable order.
func (d *Dispatcher) Intents() []intent.Intent {
	d.mu.RLock()
	out := make([]intent.Intent, 0, len(d.handlers))
	for in := range d.handlers {
		out = append(out, in)
	}
	d.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Threshold returns the current confidence gate.
func (d *Dispatcher) Threshold() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.threshold
}

// SetThreshold retunes the confidence gate; used by config reload. Values
// outside [0,1] are rejected.
func (d *Dispatcher) SetThreshold(v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("confidence threshold %.2f outside [0,1]", v)
	}
	d.mu.Lock()
	d.threshold = v
	d.mu.Unlock()
	logging.Dispatch("confidence threshold set to %.2f", v)
	return nil
}

// Dispatch routes one ParseResult to its handler and normalizes the
// outcome. Every failure path returns a typed ExecutionResult; nothing
// escapes as a panic.
func (d *Dispatcher) Dispatch(ctx context.Context, pr intent.ParseResult) ExecutionResult {
	if pr.Intent == intent.IntentUnknown {
		logging.DispatchDebug("no match for %q", pr.RawText)
		return ExecutionResult{
			Success: false,
			Message: "I didn't understand that command",
			Intent:  intent.IntentUnknown,
			Failure: FailureNoMatch,
		}
	}

	if pr.Confidence < d.Threshold() {
		logging.DispatchDebug("%s below confidence gate (%.2f < %.2f)", pr.Intent, pr.Confidence, d.Threshold())
		return ExecutionResult{
			Success: false,
			Message: fmt.Sprintf("I'm not confident enough that you meant %s", pr.Intent),
			Intent:  pr.Intent,
			Failure: FailureLowConfidence,
		}
	}

	d.mu.RLock()
	reg, ok := d.handlers[pr.Intent]
	d.mu.RUnlock()
	if !ok {
		logging.Dispatch("no handler registered for %s", pr.Intent)
		return ExecutionResult{
			Success: false,
			Message: fmt.Sprintf("no action is configured for %s", pr.Intent),
			Intent:  pr.Intent,
			Failure: FailureUnregistered,
		}
	}

	for _, key := range reg.required {
		if !pr.Entities.Has(key) {
			logging.DispatchDebug("%s missing required slot %s", pr.Intent, key)
			return ExecutionResult{
				Success: false,
				Message: fmt.Sprintf("I need a %s to do that", key),
				Intent:  pr.Intent,
				Failure: FailureMissingEntity,
			}
		}
	}

	msg, err := invoke(ctx, reg.handler, pr.Entities)
	if err != nil {
		logging.Dispatch("handler for %s failed: %v", pr.Intent, err)
		return ExecutionResult{
			Success: false,
			Message: fmt.Sprintf("error executing command: %v", err),
			Intent:  pr.Intent,
			Failure: FailureHandlerError,
		}
	}

	logging.DispatchDebug("%s succeeded: %s", pr.Intent, msg)
	return ExecutionResult{Success: true, Message: msg, Intent: pr.Intent, Failure: FailureNone}
}

// invoke isolates handler panics so a misbehaving action collaborator
// cannot take down the dispatch loop.
func invoke(ctx context.Context, h Handler, ents intent.Entities) (msg string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, ents)
}
