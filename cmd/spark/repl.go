package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"spark/internal/assistant"
	"spark/internal/config"
	"spark/internal/logging"
)

var (
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	replyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	timerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
)

// runInteractive is the default REPL: read an utterance, run the
// pipeline, print the reply, repeat until quit/exit/EOF.
func runInteractive(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	a, disp, set, cleanup, err := buildAssistant(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// Config edits retune the confidence gate without a restart.
	watcher, err := config.NewWatcher(configPath, func(fresh *config.Config) {
		if err := disp.SetThreshold(fresh.Voice.ConfidenceThreshold); err != nil {
			logging.Config("ignoring reloaded threshold: %v", err)
		}
	})
	if err == nil {
		if err := watcher.Start(); err == nil {
			defer watcher.Stop()
		}
	}

	name := cfg.Assistant.Name
	if name == "" {
		name = "spark"
	}
	fmt.Println(dimStyle.Render(fmt.Sprintf("%s ready. Type a command, or quit to leave.", name)))

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	prompt := promptStyle.Render("you> ")
	fmt.Print(prompt)
	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			printSummary(a.Stats())
			return nil

		case t := <-set.Timers.Expired():
			fmt.Println()
			fmt.Println(timerStyle.Render(fmt.Sprintf("⏰ Timer finished (%s)", t.Duration)))
			fmt.Print(prompt)

		case line, ok := <-lines:
			if !ok {
				fmt.Println()
				printSummary(a.Stats())
				return nil
			}
			text := strings.TrimSpace(line)
			switch strings.ToLower(text) {
			case "":
				fmt.Print(prompt)
				continue
			case "quit", "exit", "goodbye":
				printSummary(a.Stats())
				return nil
			}

			resp := a.HandleUtterance(ctx, text)
			style := replyStyle
			if !resp.Result.Success && !resp.FromFallback {
				style = errorStyle
			}
			label := ""
			if resp.FromFallback {
				label = dimStyle.Render(" (assistant)")
			}
			fmt.Println(style.Render(resp.Text) + label)
			fmt.Print(prompt)
		}
	}
}

func printSummary(stats assistant.SessionStats) {
	if stats.Handled == 0 {
		fmt.Println(dimStyle.Render("Goodbye."))
		return
	}
	fmt.Println(summaryStyle.Render(fmt.Sprintf(
		"Session: %d commands, %d succeeded, %d answered by fallback, %d unanswered.",
		stats.Handled, stats.Succeeded, stats.Fallbacks, stats.Unanswered)))
}
