package dispatch

// Failure classifies why a dispatch did not produce a handler success.
// Every failure path maps to exactly one kind; none of them escape as a
// panic or process exit.
type Failure int

const (
	FailureNone          Failure = iota
	FailureNoMatch               // utterance matched no rule (IntentUnknown)
	FailureLowConfidence         // matched, but below the confidence gate
	FailureMissingEntity         // a required slot is absent after extraction
	FailureHandlerError          // the action collaborator reported or panicked with an error
	FailureUnregistered          // parser produced an intent with no registered handler
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureNoMatch:
		return "no_match"
	case FailureLowConfidence:
		return "low_confidence"
	case FailureMissingEntity:
		return "missing_entity"
	case FailureHandlerError:
		return "handler_error"
	case FailureUnregistered:
		return "unregistered_intent"
	default:
		return "unknown"
	}
}

// FallbackEligible reports whether this failure should hand the utterance
// to the conversational fallback collaborator. Missing entities and handler
// errors are real commands that failed; re-answering them generatively
// would mask the diagnostic.
func (f Failure) FallbackEligible() bool {
	switch f {
	case FailureNoMatch, FailureLowConfidence, FailureUnregistered:
		return true
	default:
		return false
	}
}
