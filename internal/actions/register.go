package actions

import (
	"context"
	"fmt"

	"spark/internal/calc"
	"spark/internal/config"
	"spark/internal/dispatch"
	"spark/internal/intent"
	"spark/internal/logging"
)

// Options tunes which handlers Register wires up.
type Options struct {
	// AllowPower enables the shutdown and lock-screen handlers. Off by
	// default so a misheard utterance can't power the machine down.
	AllowPower bool
	// ScreenshotDir is where screenshots are written; empty means the
	// working directory.
	ScreenshotDir string
}

// Set bundles the constructed handler collaborators so the calling layer
// can reach the timer manager for shutdown and expiry notifications.
type Set struct {
	Apps   *Apps
	System *System
	Media  *Media
	Timers *TimerManager
}

// Register builds every handler and binds it to its intent with the slots
// it requires. Intents whose prerequisites are not met (weather without an
// API key, power actions without AllowPower) are simply left unregistered;
// the dispatcher reports those as unconfigured.
func Register(d *dispatch.Dispatcher, cfg *config.Config, runner CommandRunner, opts Options) *Set {
	if runner == nil {
		runner = ExecRunner{}
	}

	apps := NewApps(runner)
	system := NewSystem(runner, opts.ScreenshotDir)
	media := NewMedia(runner)
	timers := NewTimerManager()

	d.Register(intent.IntentOpenApp, apps.Open, intent.KeyAppName)
	d.Register(intent.IntentCloseApp, apps.Close, intent.KeyAppName)
	d.Register(intent.IntentSearch, apps.Search, intent.KeyQuery)

	d.Register(intent.IntentGetTime, system.Time)
	d.Register(intent.IntentVolumeUp, system.VolumeUp)
	d.Register(intent.IntentVolumeDown, system.VolumeDown)
	d.Register(intent.IntentMute, system.Mute)
	d.Register(intent.IntentUnmute, system.Unmute)
	d.Register(intent.IntentTakeScreenshot, system.Screenshot)

	if opts.AllowPower {
		d.Register(intent.IntentLockScreen, system.LockScreen)
		d.Register(intent.IntentShutdown, system.Shutdown)
	} else {
		logging.Actions("power actions disabled; lock_screen and shutdown not registered")
	}

	d.Register(intent.IntentPlayMedia, media.Play)
	d.Register(intent.IntentPauseMedia, media.Pause)
	d.Register(intent.IntentNextTrack, media.Next)
	d.Register(intent.IntentPreviousTrack, media.Previous)

	d.Register(intent.IntentSetTimer, timers.Set, intent.KeyDurationSeconds)
	d.Register(intent.IntentCalculate, Calculate, intent.KeyExpression)

	if cfg.Weather.Enabled && cfg.Weather.APIKey != "" {
		weather := NewWeatherClient(cfg.Weather.BaseURL, cfg.Weather.APIKey, cfg.Weather.Units, cfg.Assistant.DefaultLocation)
		d.Register(intent.IntentGetWeather, weather.Lookup)
	} else {
		logging.Actions("weather disabled; get_weather not registered")
	}

	return &Set{Apps: apps, System: system, Media: media, Timers: timers}
}

// Calculate evaluates the extracted arithmetic expression.
func Calculate(ctx context.Context, ents intent.Entities) (string, error) {
	v, err := calc.Eval(ents.Expression)
	if err != nil {
		return "", fmt.Errorf("could not calculate that: %w", err)
	}
	return calc.Describe(ents.Expression, v), nil
}
