package actions

import (
	"context"
	"fmt"
	"runtime"

	"spark/internal/intent"
	"spark/internal/logging"
)

// Media drives playback through playerctl on Linux and AppleScript on
// macOS. Windows falls back to the media virtual keys.
type Media struct {
	runner CommandRunner
	goos   string
}

// NewMedia builds the media handler set for the current platform.
func NewMedia(runner CommandRunner) *Media {
	return &Media{runner: runner, goos: runtime.GOOS}
}

// Play resumes playback. A named track is acknowledged but resolution is
// left to the active player.
func (m *Media) Play(ctx context.Context, ents intent.Entities) (string, error) {
	if err := m.control(ctx, "play"); err != nil {
		return "", err
	}
	if ents.Has(intent.KeyTrack) {
		logging.Actions("play requested for %q", ents.Track)
		return fmt.Sprintf("Playing %s", ents.Track), nil
	}
	return "Resuming playback", nil
}

// Pause pauses playback.
func (m *Media) Pause(ctx context.Context, _ intent.Entities) (string, error) {
	if err := m.control(ctx, "pause"); err != nil {
		return "", err
	}
	return "Paused", nil
}

// Next skips to the next track.
func (m *Media) Next(ctx context.Context, _ intent.Entities) (string, error) {
	if err := m.control(ctx, "next"); err != nil {
		return "", err
	}
	return "Skipping to the next track", nil
}

// Previous returns to the previous track.
func (m *Media) Previous(ctx context.Context, _ intent.Entities) (string, error) {
	if err := m.control(ctx, "previous"); err != nil {
		return "", err
	}
	return "Going back a track", nil
}

func (m *Media) control(ctx context.Context, op string) error {
	var err error
	switch m.goos {
	case "darwin":
		var script string
		switch op {
		case "play":
			script = `tell application "Music" to play`
		case "pause":
			script = `tell application "Music" to pause`
		case "next":
			script = `tell application "Music" to next track`
		case "previous":
			script = `tell application "Music" to previous track`
		}
		_, err = m.runner.Run(ctx, "osascript", "-e", script)
	case "windows":
		key := map[string]string{
			"play":     "179", // play/pause toggle
			"pause":    "179",
			"next":     "176",
			"previous": "177",
		}[op]
		_, err = m.runner.Run(ctx, "powershell", "-c",
			fmt.Sprintf("(new-object -com wscript.shell).SendKeys([char]%s)", key))
	default:
		if !m.runner.LookPath("playerctl") {
			return fmt.Errorf("playerctl is not installed")
		}
		_, err = m.runner.Run(ctx, "playerctl", op)
	}
	if err != nil {
		return fmt.Errorf("could not control playback: %w", err)
	}
	logging.ActionsDebug("media %s", op)
	return nil
}
