package intent

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmptyInput(t *testing.T) {
	p := NewParser()

	for _, input := range []string{"", "   ", "\t\n", "  ?!  "} {
		t.Run("input="+input, func(t *testing.T) {
			res := p.Parse(input)
			assert.Equal(t, IntentUnknown, res.Intent)
			assert.Equal(t, 0.0, res.Confidence)
			assert.True(t, res.Entities.IsEmpty())
			assert.Equal(t, input, res.RawText)
		})
	}
}

func TestParseOpenApp(t *testing.T) {
	p := NewParser()

	res := p.Parse("open firefox")
	require.Equal(t, IntentOpenApp, res.Intent)
	assert.Equal(t, "firefox", res.Entities.AppName)
	assert.Equal(t, ConfidenceExact, res.Confidence)
}

func TestParseNormalization(t *testing.T) {
	p := NewParser()

	res := p.Parse("  Open   THE Calculator!  ")
	require.Equal(t, IntentOpenApp, res.Intent)
	assert.Equal(t, "calculator", res.Entities.AppName)
}

func TestParseSetTimer(t *testing.T) {
	p := NewParser()

	tests := []struct {
		input string
		secs  int
	}{
		{"set timer for 5 minutes", 300},
		{"set a timer for 30 seconds", 30},
		{"start a timer for 2 hours", 7200},
		{"timer for 90 secs", 90},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := p.Parse(tt.input)
			require.Equal(t, IntentSetTimer, res.Intent)
			assert.Equal(t, tt.secs, res.Entities.DurationSeconds)
		})
	}
}

func TestParseTimerBeatsOpenApp(t *testing.T) {
	// "start ..." also matches the open-app catch-all; the timer rule has
	// to win on specificity, not luck.
	p := NewParser()

	res := p.Parse("start a timer for 10 seconds")
	require.Equal(t, IntentSetTimer, res.Intent)
	assert.Equal(t, 10, res.Entities.DurationSeconds)
}

func TestParseCalculate(t *testing.T) {
	p := NewParser()

	res := p.Parse("calculate 23 * 45")
	require.Equal(t, IntentCalculate, res.Intent)
	assert.Equal(t, "23 * 45", res.Entities.Expression)

	res = p.Parse("what is 2 + 2")
	require.Equal(t, IntentCalculate, res.Intent)
	assert.Equal(t, "2 + 2", res.Entities.Expression)
}

func TestParseTimeBeatsCalculate(t *testing.T) {
	// "what is the time" must never be treated as arithmetic.
	p := NewParser()

	res := p.Parse("what is the time")
	assert.Equal(t, IntentGetTime, res.Intent)
}

func TestParseWeatherLocation(t *testing.T) {
	p := NewParser()

	res := p.Parse("what's the weather in Paris?")
	require.Equal(t, IntentGetWeather, res.Intent)
	assert.Equal(t, "paris", res.Entities.Location)

	res = p.Parse("weather")
	require.Equal(t, IntentGetWeather, res.Intent)
	assert.Empty(t, res.Entities.Location, "location is optional")
}

func TestParseMuteUnmute(t *testing.T) {
	p := NewParser()

	assert.Equal(t, IntentUnmute, p.Parse("unmute").Intent)
	assert.Equal(t, IntentMute, p.Parse("mute").Intent)
	assert.Equal(t, IntentMute, p.Parse("mute the sound please").Intent)
}

func TestParseRequiredExtractionFailure(t *testing.T) {
	// A fired rule with a missing required slot still reports the intent,
	// at a confidence below the default gate.
	p := NewParser()

	res := p.Parse("search")
	require.Equal(t, IntentSearch, res.Intent)
	assert.Equal(t, ConfidencePartial, res.Confidence)
	assert.True(t, res.Entities.IsEmpty())
}

func TestParseUnknown(t *testing.T) {
	p := NewParser()

	res := p.Parse("flibber the wobbles")
	assert.Equal(t, IntentUnknown, res.Intent)
	assert.Equal(t, 0.0, res.Confidence)
}

func TestParseSpecificityTieBreak(t *testing.T) {
	// Two rules at the same confidence tier: the longer matched literal
	// wins; equal literals fall back to declaration order.
	rules := []Rule{
		{Intent: IntentCloseApp, Phrases: []string{"close chrome"}},
		{Intent: IntentPauseMedia, Phrases: []string{"close"}},
	}
	p := NewParser(rules...)

	res := p.Parse("close chrome")
	assert.Equal(t, IntentCloseApp, res.Intent)
	assert.Equal(t, ConfidenceExact, res.Confidence)
}

func TestParseDeterministic(t *testing.T) {
	p := NewParser()

	first := p.Parse("set a timer for 5 minutes and then some")
	for i := 0; i < 50; i++ {
		again := p.Parse("set a timer for 5 minutes and then some")
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("parse not deterministic (-first +again):\n%s", diff)
		}
	}
}

func TestParseConcurrentUse(t *testing.T) {
	p := NewParser()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				_ = p.Parse("open firefox")
				_ = p.Parse("set timer for 5 minutes")
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Hello   World  ", "hello world"},
		{"What time is it?", "what time is it"},
		{"shut down!!!", "shut down"},
		{"what's 2 + 2?", "what's 2 + 2"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestRulesExposedInDeclarationOrder(t *testing.T) {
	p := NewParser()
	rules := p.Rules()
	require.NotEmpty(t, rules)
	assert.Equal(t, IntentSetTimer, rules[0].Intent)

	want := DefaultRules()
	if diff := cmp.Diff(want, rules); diff != "" {
		t.Errorf("rule table drifted (-want +got):\n%s", diff)
	}
}
