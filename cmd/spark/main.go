package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"spark/internal/actions"
	"spark/internal/assistant"
	"spark/internal/config"
	"spark/internal/dispatch"
	"spark/internal/fallback"
	"spark/internal/history"
	"spark/internal/intent"
	"spark/internal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool
	allowPower bool

	logger *zap.Logger
)

// rootCmd launches the interactive loop when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "spark",
	Short: "spark - intent recognition and dispatch for a voice assistant",
	Long: `spark turns natural-language commands into actions.

Utterances are classified against a static rule table, gated by a
confidence threshold, and routed to the matching handler: applications,
system controls, media, timers, arithmetic, and weather. Anything the
rules can't answer may be handed to a conversational fallback model.

Run without arguments to start the interactive prompt.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real environment always wins.
		_ = godotenv.Load()

		zcfg := zap.NewProductionConfig()
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = zcfg.Build(zap.WithCaller(false))
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.InitializeWith(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context())
	},
}

// runCmd handles a single utterance and exits.
var runCmd = &cobra.Command{
	Use:   "run [utterance]",
	Short: "Handle one utterance and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runOnce,
}

// intentsCmd prints the rule table.
var intentsCmd = &cobra.Command{
	Use:   "intents",
	Short: "List the recognized intents and their trigger phrases",
	RunE:  listIntents,
}

// historyCmd prints recent commands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently handled commands",
	RunE:  showHistory,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "spark.yaml", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&allowPower, "allow-power", false, "enable the shutdown and lock-screen handlers")

	historyCmd.Flags().IntP("limit", "n", 10, "number of entries to show")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(intentsCmd)
	rootCmd.AddCommand(historyCmd)
}

// buildAssistant wires the full pipeline from the configuration. The
// returned cleanup releases the history store and timer goroutines.
func buildAssistant(cfg *config.Config) (*assistant.Assistant, *dispatch.Dispatcher, *actions.Set, func(), error) {
	// A configured log directory moves category logs to a file; otherwise
	// they stay on the shared console logger set up in PersistentPreRunE.
	if cfg.Logging.Directory != "" {
		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		if err := logging.Initialize(level, cfg.Logging.Directory); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to set up file logging: %w", err)
		}
	}

	parser := intent.NewParser()
	disp := dispatch.New(cfg.Voice.ConfidenceThreshold)

	set := actions.Register(disp, cfg, nil, actions.Options{
		AllowPower: allowPower,
	})

	responder, err := fallback.New(cfg.LLM)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to set up fallback: %w", err)
	}

	var hist *history.Store
	if cfg.History.Enabled {
		hist, err = history.Open(cfg.History.Path)
		if err != nil {
			// History is a convenience; run without it rather than refuse to start.
			logging.History("disabled: %v", err)
			hist = nil
		}
	}

	cleanup := func() {
		set.Timers.Shutdown()
		if hist != nil {
			_ = hist.Close()
		}
	}
	return assistant.New(parser, disp, responder, hist), disp, set, cleanup, nil
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	a, _, _, cleanup, err := buildAssistant(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	resp := a.HandleUtterance(cmd.Context(), strings.Join(args, " "))
	fmt.Println(resp.Text)
	if !resp.Result.Success && !resp.FromFallback {
		os.Exit(1)
	}
	return nil
}

func listIntents(cmd *cobra.Command, args []string) error {
	parser := intent.NewParser()
	for _, r := range parser.Rules() {
		line := r.Intent.String()
		if len(r.Phrases) > 0 {
			line += "  " + fmt.Sprintf("%v", r.Phrases)
		}
		fmt.Println(line)
	}
	return nil
}

func showHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("history is disabled in the configuration")
	}

	hist, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer hist.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := hist.Recent(limit)
	if err != nil {
		return err
	}
	for _, e := range entries {
		status := "ok"
		if !e.Success {
			status = "failed"
		}
		fmt.Printf("%s  [%s] %-8s %q -> %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Intent, status, e.RawText, e.Message)
	}

	sum, err := hist.Summarize()
	if err != nil {
		return err
	}
	if sum.Total > 0 {
		fmt.Printf("%d commands recorded, %d succeeded (%.0f%%)\n",
			sum.Total, sum.Succeeded, sum.SuccessRate*100)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
