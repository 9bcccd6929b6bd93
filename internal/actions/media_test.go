package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spark/internal/intent"
)

func TestMediaPlayerctl(t *testing.T) {
	runner := &fakeRunner{}
	m := &Media{runner: runner, goos: "linux"}

	tests := []struct {
		name string
		call func() (string, error)
		op   string
	}{
		{"play", func() (string, error) { return m.Play(context.Background(), intent.Entities{}) }, "play"},
		{"pause", func() (string, error) { return m.Pause(context.Background(), intent.Entities{}) }, "pause"},
		{"next", func() (string, error) { return m.Next(context.Background(), intent.Entities{}) }, "next"},
		{"previous", func() (string, error) { return m.Previous(context.Background(), intent.Entities{}) }, "previous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.call()
			require.NoError(t, err)
			assert.Equal(t, []string{"playerctl", tt.op}, runner.lastCall())
		})
	}
}

func TestMediaPlayNamedTrack(t *testing.T) {
	runner := &fakeRunner{}
	m := &Media{runner: runner, goos: "linux"}

	msg, err := m.Play(context.Background(), intent.Entities{Track: "bohemian rhapsody"})
	require.NoError(t, err)
	assert.Equal(t, "Playing bohemian rhapsody", msg)
}

func TestMediaNoPlayerctl(t *testing.T) {
	runner := &fakeRunner{missing: map[string]bool{"playerctl": true}}
	m := &Media{runner: runner, goos: "linux"}

	_, err := m.Pause(context.Background(), intent.Entities{})
	assert.Error(t, err)
}
