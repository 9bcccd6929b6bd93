// Package assistant glues the pipeline together: one utterance goes
// through parse, dispatch, optional conversational fallback, and history
// recording, and comes back as a single Response.
package assistant

import (
	"context"
	"sync"

	"spark/internal/dispatch"
	"spark/internal/fallback"
	"spark/internal/history"
	"spark/internal/intent"
	"spark/internal/logging"
)

// Response is what the calling surface (REPL, one-shot command, voice
// loop) renders for one utterance.
type Response struct {
	// Text is the final reply to speak or print.
	Text string
	// Result is the dispatch outcome before any fallback.
	Result dispatch.ExecutionResult
	// Parsed is the classification that produced the result.
	Parsed intent.ParseResult
	// FromFallback is true when Text came from the conversational model.
	FromFallback bool
}

// SessionStats counts outcomes for the session summary.
type SessionStats struct {
	Handled    int
	Succeeded  int
	Fallbacks  int
	Unanswered int
}

// Assistant runs the utterance pipeline.
type Assistant struct {
	parser    *intent.Parser
	disp      *dispatch.Dispatcher
	responder fallback.Responder // nil when fallback is disabled
	hist      *history.Store     // nil when history is disabled

	mu    sync.Mutex
	stats SessionStats
}

// New wires the pipeline. responder and hist may be nil.
func New(parser *intent.Parser, disp *dispatch.Dispatcher, responder fallback.Responder, hist *history.Store) *Assistant {
	return &Assistant{
		parser:    parser,
		disp:      disp,
		responder: responder,
		hist:      hist,
	}
}

// HandleUtterance runs one utterance through the full pipeline. It always
// returns a usable Response; internal failures degrade to the dispatch
// message rather than erroring out.
func (a *Assistant) HandleUtterance(ctx context.Context, text string) Response {
	parsed := a.parser.Parse(text)
	logging.Parser("%q -> %s (confidence=%.2f)", text, parsed.Intent, parsed.Confidence)

	result := a.disp.Dispatch(ctx, parsed)
	resp := Response{Text: result.Message, Result: result, Parsed: parsed}

	if result.FallbackEligible() && a.responder != nil {
		reply, err := a.responder.Respond(ctx, text)
		if err != nil {
			logging.Fallback("fallback failed for %q: %v", text, err)
		} else {
			resp.Text = reply
			resp.FromFallback = true
		}
	}

	a.record(parsed, result, resp)
	return resp
}

func (a *Assistant) record(parsed intent.ParseResult, result dispatch.ExecutionResult, resp Response) {
	a.mu.Lock()
	a.stats.Handled++
	switch {
	case result.Success:
		a.stats.Succeeded++
	case resp.FromFallback:
		a.stats.Fallbacks++
	default:
		a.stats.Unanswered++
	}
	a.mu.Unlock()

	if a.hist == nil {
		return
	}
	answered := result.Success || resp.FromFallback
	if err := a.hist.Record(parsed.RawText, parsed.Intent, answered, resp.Text); err != nil {
		logging.History("failed to record %q: %v", parsed.RawText, err)
	}
}

// Stats returns a snapshot of the session counters.
func (a *Assistant) Stats() SessionStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}
