package intent

// Extraction tags the recipe a rule uses to pull entities out of the
// matched region. Each tag corresponds to one extractor in extract.go.
type Extraction int

const (
	ExtractNone       Extraction = iota
	ExtractAppName               // first capture group, articles stripped
	ExtractQuery                 // first capture group verbatim
	ExtractDuration              // amount + unit groups, normalized to seconds
	ExtractLocation              // optional trailing "in <place>" group
	ExtractExpression            // arithmetic remainder, validated by calc
	ExtractTrack                 // optional track name group
)

// Rule declares one trigger for an intent: literal phrases for keyword
// containment plus regex patterns carrying the extraction capture groups.
// Required marks the extraction as load-bearing; when it fails the rule
// still fires but only at ConfidencePartial.
type Rule struct {
	Intent   Intent
	Phrases  []string
	Patterns []string
	Extract  Extraction
	Required bool
}

// DefaultRules returns the built-in rule table. Declaration order is the
// final tiebreak between candidates, so more specific intents sit above
// the generic ones they overlap with.
func DefaultRules() []Rule {
	return []Rule{
		{
			Intent:   IntentSetTimer,
			Phrases:  []string{"set a timer", "set timer", "start a timer", "countdown"},
			Patterns: []string{`^(?:set|start)\s+(?:a\s+)?(?:timer|countdown)\s+(?:for\s+)?(\d+(?:\.\d+)?)\s*(seconds?|secs?|minutes?|mins?|hours?|hrs?)$`, `timer\s+(?:for\s+)?(\d+(?:\.\d+)?)\s*(seconds?|secs?|minutes?|mins?|hours?|hrs?)`, `countdown\s+(?:for\s+)?(\d+(?:\.\d+)?)\s*(seconds?|secs?|minutes?|mins?|hours?|hrs?)`},
			Extract:  ExtractDuration,
			Required: true,
		},
		{
			Intent:   IntentCalculate,
			Phrases:  []string{"calculate", "compute", "evaluate"},
			Patterns: []string{`(?:calculate|compute|evaluate)\s+(.+)$`, `what\s+is\s+([0-9\s+\-*/().]+)$`, `what's\s+([0-9\s+\-*/().]+)$`},
			Extract:  ExtractExpression,
			Required: true,
		},
		{
			Intent:   IntentGetTime,
			Phrases:  []string{"what time is it", "what's the time", "what is the time", "current time", "tell me the time"},
			Patterns: []string{`what(?:'s| is)\s+the\s+time`, `what\s+time\s+is\s+it`, `current\s+time`},
		},
		{
			Intent:   IntentGetWeather,
			Phrases:  []string{"weather", "temperature", "forecast", "how hot is it", "how cold is it"},
			Patterns: []string{`(?:weather|temperature|forecast)(?:\s+(?:in|for|at)\s+(.+))?$`},
			Extract:  ExtractLocation,
		},
		{
			Intent:   IntentTakeScreenshot,
			Phrases:  []string{"take a screenshot", "take screenshot", "screenshot", "screen capture"},
			Patterns: []string{`(?:take|capture|grab)\s+(?:a\s+)?screen\s*shot`, `screen\s*shot`},
		},
		{
			Intent:   IntentLockScreen,
			Phrases:  []string{"lock the screen", "lock screen", "lock my screen", "lock my computer", "lock the computer"},
			Patterns: []string{`lock\s+(?:the\s+|my\s+)?(?:screen|computer|pc)`},
		},
		{
			Intent:   IntentShutdown,
			Phrases:  []string{"shut down", "shutdown", "power off", "turn off the computer"},
			Patterns: []string{`shut\s*down`, `power\s+off`, `turn\s+off\s+(?:the\s+)?(?:computer|pc|machine)`},
		},
		{
			Intent:   IntentVolumeUp,
			Phrases:  []string{"volume up", "turn it up", "louder", "increase the volume", "increase volume"},
			Patterns: []string{`volume\s+up`, `turn\s+(?:the\s+volume|it)\s+up`, `(?:increase|raise)\s+(?:the\s+)?volume`},
		},
		{
			Intent:   IntentVolumeDown,
			Phrases:  []string{"volume down", "turn it down", "quieter", "softer", "decrease the volume", "decrease volume"},
			Patterns: []string{`volume\s+down`, `turn\s+(?:the\s+volume|it)\s+down`, `(?:decrease|lower)\s+(?:the\s+)?volume`},
		},
		{
			Intent:   IntentUnmute,
			Phrases:  []string{"unmute", "sound on", "sound back on"},
			Patterns: []string{`\bunmute\b`, `turn\s+(?:the\s+)?sound\s+(?:back\s+)?on`},
		},
		{
			Intent:   IntentMute,
			Phrases:  []string{"mute", "silence", "be quiet"},
			Patterns: []string{`\bmute\b`, `turn\s+(?:the\s+)?sound\s+off`},
		},
		{
			Intent:   IntentNextTrack,
			Phrases:  []string{"next track", "next song", "skip this song", "skip track"},
			Patterns: []string{`(?:next|skip)\s+(?:this\s+)?(?:track|song)`, `^skip$`},
		},
		{
			Intent:   IntentPreviousTrack,
			Phrases:  []string{"previous track", "previous song", "last song", "go back a song"},
			Patterns: []string{`(?:previous|last)\s+(?:track|song)`, `go\s+back\s+a\s+(?:track|song)`},
		},
		{
			Intent:   IntentPauseMedia,
			Phrases:  []string{"pause", "pause the music", "stop the music", "stop playing"},
			Patterns: []string{`\bpause\b`, `stop\s+(?:the\s+)?(?:music|playback|playing)`},
		},
		{
			Intent:   IntentPlayMedia,
			Phrases:  []string{"play", "resume", "play some music", "put some music on"},
			Patterns: []string{`^play(?:\s+(?:some\s+)?(.+))?$`, `^resume$`},
			Extract:  ExtractTrack,
		},
		{
			Intent:   IntentSearch,
			Phrases:  []string{"search", "google", "look up"},
			Patterns: []string{`(?:search|google|look up)\s+(?:for\s+)?(.+)$`},
			Extract:  ExtractQuery,
			Required: true,
		},
		{
			Intent:   IntentOpenApp,
			Phrases:  []string{"open", "launch", "start"},
			Patterns: []string{`^(?:open|launch|start)\s+(.+)$`},
			Extract:  ExtractAppName,
			Required: true,
		},
		{
			Intent:   IntentCloseApp,
			Phrases:  []string{"close", "quit", "exit", "kill"},
			Patterns: []string{`^(?:close|quit|exit|kill)\s+(.+)$`},
			Extract:  ExtractAppName,
			Required: true,
		},
	}
}
