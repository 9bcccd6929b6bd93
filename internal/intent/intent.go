// Package intent classifies normalized utterances into intents with typed
// entities and a discrete-tiered confidence score. The parser is a pure
// function of its input and a statically declared rule table; it never
// panics and degrades to IntentUnknown on anything it cannot classify.
package intent

// Intent is the closed set of command categories an utterance can map to.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentOpenApp
	IntentCloseApp
	IntentSearch
	IntentGetTime
	IntentGetWeather
	IntentVolumeUp
	IntentVolumeDown
	IntentMute
	IntentUnmute
	IntentLockScreen
	IntentShutdown
	IntentTakeScreenshot
	IntentSetTimer
	IntentPlayMedia
	IntentPauseMedia
	IntentNextTrack
	IntentPreviousTrack
	IntentCalculate
)

var intentNames = map[Intent]string{
	IntentUnknown:        "unknown",
	IntentOpenApp:        "open_app",
	IntentCloseApp:       "close_app",
	IntentSearch:         "search",
	IntentGetTime:        "get_time",
	IntentGetWeather:     "get_weather",
	IntentVolumeUp:       "volume_up",
	IntentVolumeDown:     "volume_down",
	IntentMute:           "mute",
	IntentUnmute:         "unmute",
	IntentLockScreen:     "lock_screen",
	IntentShutdown:       "shutdown",
	IntentTakeScreenshot: "take_screenshot",
	IntentSetTimer:       "set_timer",
	IntentPlayMedia:      "play_media",
	IntentPauseMedia:     "pause_media",
	IntentNextTrack:      "next_track",
	IntentPreviousTrack:  "previous_track",
	IntentCalculate:      "calculate",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "unknown"
}

// EntityKey names a typed slot a rule can extract.
type EntityKey string

const (
	KeyAppName         EntityKey = "app_name"
	KeyQuery           EntityKey = "query"
	KeyDurationSeconds EntityKey = "duration_seconds"
	KeyLocation        EntityKey = "location"
	KeyExpression      EntityKey = "expression"
	KeyTrack           EntityKey = "track"
)

// Entities is the fixed-key record of extracted slots. A field is present
// only when its slot was successfully extracted; absence is meaningful and
// must be checked with Has before use. DurationSeconds is always a positive
// number of seconds when present.
type Entities struct {
	AppName         string
	Query           string
	DurationSeconds int
	Location        string
	Expression      string
	Track           string
}

// Has reports whether the given slot was extracted.
func (e Entities) Has(k EntityKey) bool {
	switch k {
	case KeyAppName:
		return e.AppName != ""
	case KeyQuery:
		return e.Query != ""
	case KeyDurationSeconds:
		return e.DurationSeconds > 0
	case KeyLocation:
		return e.Location != ""
	case KeyExpression:
		return e.Expression != ""
	case KeyTrack:
		return e.Track != ""
	default:
		return false
	}
}

// IsEmpty reports whether no slot at all was extracted.
func (e Entities) IsEmpty() bool {
	return e == Entities{}
}

// Keys returns the present slots in fixed declaration order.
func (e Entities) Keys() []EntityKey {
	all := []EntityKey{KeyAppName, KeyQuery, KeyDurationSeconds, KeyLocation, KeyExpression, KeyTrack}
	keys := make([]EntityKey, 0, len(all))
	for _, k := range all {
		if e.Has(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Confidence tiers. Values are discrete and deterministic; only the
// relative ordering is load-bearing.
const (
	ConfidenceExact   = 1.0  // trigger phrase covers the whole utterance
	ConfidencePattern = 0.9  // structural pattern matched, extraction succeeded
	ConfidenceKeyword = 0.75 // trigger phrase contained in the utterance
	ConfidencePartial = 0.6  // rule fired but a required extraction failed
	ConfidenceNone    = 0.0  // no rule fired
)

// ParseResult is the immutable outcome of classifying one utterance.
type ParseResult struct {
	Intent     Intent
	Entities   Entities
	Confidence float64
	RawText    string
}

func unknownResult(raw string) ParseResult {
	return ParseResult{Intent: IntentUnknown, Confidence: ConfidenceNone, RawText: raw}
}
