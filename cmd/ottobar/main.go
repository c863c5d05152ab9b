// Ottobar is a cocktail workbench in the terminal.
//
// Usage:
//
//	ottobar [--verbose] [--quiet] [--glass rocks] [--memory] [--no-ai]
package main

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/alexflint/go-arg"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/hammamikhairi/ottobar/internal/catalog"
	"github.com/hammamikhairi/ottobar/internal/config"
	"github.com/hammamikhairi/ottobar/internal/conversation"
	"github.com/hammamikhairi/ottobar/internal/display"
	"github.com/hammamikhairi/ottobar/internal/domain"
	"github.com/hammamikhairi/ottobar/internal/engine"
	"github.com/hammamikhairi/ottobar/internal/gpt"
	"github.com/hammamikhairi/ottobar/internal/interpret"
	"github.com/hammamikhairi/ottobar/internal/logger"
	"github.com/hammamikhairi/ottobar/internal/mission"
	"github.com/hammamikhairi/ottobar/internal/recipe"
	"github.com/hammamikhairi/ottobar/internal/storage"
	"github.com/hammamikhairi/ottobar/internal/telemetry"
	"github.com/hammamikhairi/ottobar/internal/timer"
)

// args are the command-line flags. Anything not given here comes from the
// environment, see internal/config.
type args struct {
	Verbose   bool           `arg:"-v,--verbose" help:"enable verbose/debug logging"`
	Quiet     bool           `arg:"-q,--quiet" help:"disable all logging"`
	EnvFile   string         `arg:"--env-file" default:".env" help:"dotenv file to load before reading the environment"`
	LogFile   string         `arg:"--log-file" help:"file to write logs to (use \"stderr\" to log to console)"`
	DB        string         `arg:"--db" help:"session database path"`
	Memory    bool           `arg:"--memory" help:"keep sessions in memory only"`
	Glass     string         `arg:"--glass" help:"glass for new drinks: rocks, highball, martini or coupe"`
	StepDelay *time.Duration `arg:"--step-delay" help:"pause between playback instructions"`
	NoAI      bool           `arg:"--no-ai" help:"disable the bartender even if GPT_API_KEY is set"`
	Strict    bool           `arg:"--strict" help:"refuse pours that would overflow the glass"`
}

func (args) Description() string {
	return "Ottobar builds cocktails step by step and plays back recipes."
}

func main() {
	var a args
	p := arg.MustParse(&a)

	cfg, err := config.Load(a.EnvFile)
	if err != nil {
		p.Fail(err.Error())
	}
	applyFlags(cfg, a)
	if err := cfg.Validate(); err != nil {
		p.Fail(err.Error())
	}

	// Configure logger.
	logLevel := logger.LevelNormal
	if a.Verbose {
		logLevel = logger.LevelVerbose
	}
	if a.Quiet {
		logLevel = logger.LevelOff
	}

	// Direct logs to a file by default so the REPL stays clean.
	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" && cfg.LogFile != "stderr" {
		if err := ensureDir(cfg.LogFile); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v (falling back to stderr)\n", err)
		} else {
			rotated := &lumberjack.Logger{
				Filename:   cfg.LogFile,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
			}
			logOut = rotated
			defer rotated.Close()
		}
	}

	// Third-party libraries that log through the standard package (the
	// gRPC exporters) write to the same place.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	// Set up context, cancelled when the UI quits.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	otelCfg, err := telemetry.LoadConfig()
	if err != nil {
		log.Warn("telemetry config: %v", err)
	}
	shutdown, err := telemetry.Init(ctx, otelCfg, log)
	if err != nil {
		log.Error("telemetry disabled: %v", err)
		shutdown = func(context.Context) error { return nil }
	}
	defer func() {
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		if err := shutdown(sctx); err != nil {
			log.Error("telemetry shutdown: %v", err)
		}
	}()

	// Wire dependencies.
	shelf := catalog.NewDefault(log)
	if cfg.CatalogPath != "" {
		loaded, err := catalog.LoadFile(cfg.CatalogPath, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		shelf = loaded
	}

	var store domain.SessionStore
	if a.Memory {
		store = storage.NewMemoryStore(log)
	} else {
		if err := ensureDir(cfg.DBPath); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		bolt, err := storage.OpenBolt(cfg.DBPath, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		defer bolt.Close()
		store = bolt
	}

	eng := engine.New(shelf, store, interpret.New(shelf, log), log,
		engine.WithStepDelay(cfg.StepDelay),
		engine.WithPourGap(cfg.PourGap),
		engine.WithDefaultGlass(cfg.DefaultGlass()),
		engine.WithStrictCapacity(cfg.StrictCapacity),
	)

	ui := display.NewUI(store, shelf)
	notifier := conversation.NewCLINotifier(log, ui.Printf)
	parser := conversation.NewCommandParser(log)
	book := recipe.NewBook(log)

	// Build the bartender if GPT credentials are available. The judge stays
	// a nil interface without it so the evaluator reports it as missing.
	var bartender *gpt.Bartender
	var judge domain.Judge
	if cfg.GPT.Enabled() && !a.NoAI {
		client := gpt.NewClient(cfg.GPT.APIKey, log,
			gpt.WithBaseURL(cfg.GPT.BaseURL),
			gpt.WithModel(cfg.GPT.Model),
			gpt.WithHTTPTimeout(cfg.GPT.Timeout),
		)
		bartender = gpt.NewBartender(client, log)
		judge = bartender
		log.Info("bartender enabled (model=%s)", cfg.GPT.Model)
	} else if !a.NoAI {
		log.Info("bartender disabled: set GPT_API_KEY to enable")
	}
	evaluator := mission.NewEvaluator(judge, shelf, log)

	// Start background session supervisor.
	supervisor := timer.New(store, eng, notifier, log)
	supervisor.Start(ctx)
	defer supervisor.Stop()

	app := &cliApp{
		engine:    eng,
		shelf:     shelf,
		book:      book,
		parser:    parser,
		bartender: bartender,
		evaluator: evaluator,
		log:       log,
		ui:        ui,
	}
	if err := app.newSession(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	// Run app logic in a background goroutine.
	go func() {
		ui.WaitReady()
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal and blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
}

// applyFlags lets command-line flags override the environment.
func applyFlags(cfg *config.Config, a args) {
	if a.LogFile != "" {
		cfg.LogFile = a.LogFile
	}
	if a.DB != "" {
		cfg.DBPath = a.DB
	}
	if a.Glass != "" {
		cfg.Glass = a.Glass
	}
	if a.StepDelay != nil {
		cfg.StepDelay = *a.StepDelay
	}
	if a.Strict {
		cfg.StrictCapacity = true
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}
