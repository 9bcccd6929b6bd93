package actions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"spark/internal/intent"
	"spark/internal/logging"
)

// System covers the desktop-level handlers: clock, volume, screen lock,
// shutdown, and screenshots. The clock is injectable so time answers are
// testable.
type System struct {
	runner        CommandRunner
	goos          string
	now           func() time.Time
	screenshotDir string
}

// NewSystem builds the system handler set for the current platform.
// Screenshots land in screenshotDir; empty means the working directory.
func NewSystem(runner CommandRunner, screenshotDir string) *System {
	return &System{
		runner:        runner,
		goos:          runtime.GOOS,
		now:           time.Now,
		screenshotDir: screenshotDir,
	}
}

// Time answers the current local time.
func (s *System) Time(ctx context.Context, _ intent.Entities) (string, error) {
	t := s.now()
	return fmt.Sprintf("It's %s", t.Format("3:04 PM")), nil
}

// VolumeUp raises the master volume one step.
func (s *System) VolumeUp(ctx context.Context, _ intent.Entities) (string, error) {
	if err := s.adjustVolume(ctx, "up"); err != nil {
		return "", err
	}
	return "Volume up", nil
}

// VolumeDown lowers the master volume one step.
func (s *System) VolumeDown(ctx context.Context, _ intent.Entities) (string, error) {
	if err := s.adjustVolume(ctx, "down"); err != nil {
		return "", err
	}
	return "Volume down", nil
}

// Mute silences the master output.
func (s *System) Mute(ctx context.Context, _ intent.Entities) (string, error) {
	if err := s.setMute(ctx, true); err != nil {
		return "", err
	}
	return "Muted", nil
}

// Unmute restores the master output.
func (s *System) Unmute(ctx context.Context, _ intent.Entities) (string, error) {
	if err := s.setMute(ctx, false); err != nil {
		return "", err
	}
	return "Unmuted", nil
}

func (s *System) adjustVolume(ctx context.Context, direction string) error {
	var err error
	switch s.goos {
	case "darwin":
		delta := "+10"
		if direction == "down" {
			delta = "-10"
		}
		script := fmt.Sprintf("set volume output volume ((output volume of (get volume settings)) %s)", delta)
		_, err = s.runner.Run(ctx, "osascript", "-e", script)
	case "windows":
		key := "175" // APPCOMMAND volume up
		if direction == "down" {
			key = "174"
		}
		_, err = s.runner.Run(ctx, "powershell", "-c", fmt.Sprintf("(new-object -com wscript.shell).SendKeys([char]%s)", key))
	default:
		if s.runner.LookPath("pactl") {
			delta := "+5%"
			if direction == "down" {
				delta = "-5%"
			}
			_, err = s.runner.Run(ctx, "pactl", "set-sink-volume", "@DEFAULT_SINK@", delta)
		} else {
			delta := "5%+"
			if direction == "down" {
				delta = "5%-"
			}
			_, err = s.runner.Run(ctx, "amixer", "-q", "set", "Master", delta)
		}
	}
	if err != nil {
		return fmt.Errorf("could not change volume: %w", err)
	}
	logging.Actions("volume %s", direction)
	return nil
}

func (s *System) setMute(ctx context.Context, mute bool) error {
	var err error
	switch s.goos {
	case "darwin":
		script := "set volume output muted true"
		if !mute {
			script = "set volume output muted false"
		}
		_, err = s.runner.Run(ctx, "osascript", "-e", script)
	case "windows":
		_, err = s.runner.Run(ctx, "powershell", "-c", "(new-object -com wscript.shell).SendKeys([char]173)")
	default:
		state := "1"
		if !mute {
			state = "0"
		}
		if s.runner.LookPath("pactl") {
			_, err = s.runner.Run(ctx, "pactl", "set-sink-mute", "@DEFAULT_SINK@", state)
		} else {
			toggle := "mute"
			if !mute {
				toggle = "unmute"
			}
			_, err = s.runner.Run(ctx, "amixer", "-q", "set", "Master", toggle)
		}
	}
	if err != nil {
		return fmt.Errorf("could not change mute state: %w", err)
	}
	logging.Actions("mute=%v", mute)
	return nil
}

// LockScreen locks the desktop session.
func (s *System) LockScreen(ctx context.Context, _ intent.Entities) (string, error) {
	var err error
	switch s.goos {
	case "darwin":
		_, err = s.runner.Run(ctx, "pmset", "displaysleepnow")
	case "windows":
		_, err = s.runner.Run(ctx, "rundll32.exe", "user32.dll,LockWorkStation")
	default:
		switch {
		case s.runner.LookPath("loginctl"):
			_, err = s.runner.Run(ctx, "loginctl", "lock-session")
		case s.runner.LookPath("xdg-screensaver"):
			_, err = s.runner.Run(ctx, "xdg-screensaver", "lock")
		default:
			return "", fmt.Errorf("no screen locker available")
		}
	}
	if err != nil {
		return "", fmt.Errorf("could not lock the screen: %w", err)
	}
	logging.Actions("screen locked")
	return "Locking the screen", nil
}

// Shutdown powers the machine off after a one-minute grace period.
func (s *System) Shutdown(ctx context.Context, _ intent.Entities) (string, error) {
	var err error
	switch s.goos {
	case "darwin":
		_, err = s.runner.Run(ctx, "osascript", "-e", `tell app "System Events" to shut down`)
	case "windows":
		_, err = s.runner.Run(ctx, "shutdown", "/s", "/t", "60")
	default:
		_, err = s.runner.Run(ctx, "shutdown", "-h", "+1")
	}
	if err != nil {
		return "", fmt.Errorf("could not shut down: %w", err)
	}
	logging.Actions("shutdown requested")
	return "Shutting down in one minute", nil
}

// Screenshot captures the screen to a timestamped PNG.
func (s *System) Screenshot(ctx context.Context, _ intent.Entities) (string, error) {
	dir := s.screenshotDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create screenshot directory: %w", err)
	}
	path := filepath.Join(dir, s.now().Format("screenshot_20060102_150405.png"))

	var err error
	switch s.goos {
	case "darwin":
		_, err = s.runner.Run(ctx, "screencapture", path)
	case "windows":
		_, err = s.runner.Run(ctx, "powershell", "-c",
			fmt.Sprintf(`Add-Type -AssemblyName System.Windows.Forms; [System.Windows.Forms.SendKeys]::SendWait('{PRTSC}'); Start-Sleep -m 200; $img=[Windows.Forms.Clipboard]::GetImage(); $img.Save('%s')`, path))
	default:
		switch {
		case s.runner.LookPath("gnome-screenshot"):
			_, err = s.runner.Run(ctx, "gnome-screenshot", "-f", path)
		case s.runner.LookPath("scrot"):
			_, err = s.runner.Run(ctx, "scrot", path)
		case s.runner.LookPath("import"):
			_, err = s.runner.Run(ctx, "import", "-window", "root", path)
		default:
			return "", fmt.Errorf("no screenshot tool available")
		}
	}
	if err != nil {
		return "", fmt.Errorf("could not take a screenshot: %w", err)
	}
	logging.Actions("screenshot saved to %s", path)
	return fmt.Sprintf("Screenshot saved to %s", path), nil
}
