package actions

import (
	"context"
	"fmt"
	"net/url"
	"runtime"
	"strings"

	"spark/internal/intent"
	"spark/internal/logging"
)

// Apps launches and closes desktop applications and opens web searches in
// the default browser. All platform differences live in the small command
// tables below.
type Apps struct {
	runner CommandRunner
	goos   string
}

// NewApps builds the application handler set for the current platform.
func NewApps(runner CommandRunner) *Apps {
	return &Apps{runner: runner, goos: runtime.GOOS}
}

// Open launches the named application.
func (a *Apps) Open(ctx context.Context, ents intent.Entities) (string, error) {
	app := ents.AppName
	var err error
	switch a.goos {
	case "darwin":
		_, err = a.runner.Run(ctx, "open", "-a", app)
	case "windows":
		_, err = a.runner.Run(ctx, "cmd", "/C", "start", "", app)
	default:
		_, err = a.runner.Run(ctx, app)
	}
	if err != nil {
		return "", fmt.Errorf("could not open %s: %w", app, err)
	}
	logging.Actions("opened %s", app)
	return fmt.Sprintf("Opening %s", app), nil
}

// Close terminates the named application.
func (a *Apps) Close(ctx context.Context, ents intent.Entities) (string, error) {
	app := ents.AppName
	var err error
	switch a.goos {
	case "windows":
		_, err = a.runner.Run(ctx, "taskkill", "/IM", app+".exe", "/F")
	default:
		_, err = a.runner.Run(ctx, "pkill", "-f", app)
	}
	if err != nil {
		return "", fmt.Errorf("could not close %s: %w", app, err)
	}
	logging.Actions("closed %s", app)
	return fmt.Sprintf("Closing %s", app), nil
}

// Search opens a web search for the query in the default browser.
func (a *Apps) Search(ctx context.Context, ents intent.Entities) (string, error) {
	target := "https://www.google.com/search?q=" + url.QueryEscape(ents.Query)
	var err error
	switch a.goos {
	case "darwin":
		_, err = a.runner.Run(ctx, "open", target)
	case "windows":
		_, err = a.runner.Run(ctx, "cmd", "/C", "start", "", target)
	default:
		_, err = a.runner.Run(ctx, "xdg-open", target)
	}
	if err != nil {
		return "", fmt.Errorf("could not open browser: %w", err)
	}
	logging.Actions("searching the web for %q", ents.Query)
	return fmt.Sprintf("Searching the web for %s", strings.TrimSpace(ents.Query)), nil
}
