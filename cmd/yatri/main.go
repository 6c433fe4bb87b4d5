package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/priya/yatri/internal/agent"
	"github.com/priya/yatri/internal/gateway"
	"github.com/priya/yatri/internal/governance"
	"github.com/priya/yatri/internal/llm"
	"github.com/priya/yatri/internal/observability"
	"github.com/priya/yatri/internal/session"
	"github.com/priya/yatri/internal/store"
	"github.com/priya/yatri/internal/tools"
	"github.com/priya/yatri/internal/travel"
	"github.com/priya/yatri/pkg/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

func main() {
	observability.PrintBanner()
	observability.InitializeTerminal()

	// Route all log output through the terminal mutex so it never
	// interrupts the dashboard's cursor save/restore sequence.
	log.SetOutput(observability.NewTermWriter())

	cfg := config.LoadConfig("config.json")

	tgCfg, ok := cfg.GetTelegramConfig()
	if !ok {
		log.Fatal("Telegram gateway is not enabled or token is missing")
	}

	prefs, err := store.NewPreferenceStore(cfg.Memory.Path)
	if err != nil {
		log.Fatal(err)
	}

	// Providers and tools
	destinations := travel.NewGuideDestinationProvider()

	registry := tools.NewRegistry()
	registry.Register(tools.NewFlightSearchTool(travel.NewStaticFlightProvider()))
	registry.Register(tools.NewHotelSearchTool(travel.NewStaticHotelProvider()))
	registry.Register(tools.NewDestinationInfoTool(destinations))
	registry.Register(tools.NewBudgetCalculatorTool())
	registry.Register(tools.NewSavePreferencesTool(prefs))
	registry.Register(tools.NewWatchPricesTool(prefs))
	registry.Register(tools.NewGeneralAssistanceTool())

	promptsDir := cfg.App.Prompts
	if promptsDir == "" {
		promptsDir = "./prompts"
	}
	prompts := agent.NewPromptManager(promptsDir)

	gov := governance.NewDefaultPolicyEngine()
	logger := observability.NewLogger()

	// Initialize LLM (using default enabled provider)
	pName, pCfg := cfg.GetDefaultProvider()
	if pName == "" {
		log.Fatal("No enabled provider found in config")
	}

	var model llms.Model
	switch pName {
	case "openai", "openrouter":
		opts := []openai.Option{
			openai.WithToken(pCfg.APIKey),
			openai.WithModel(pCfg.Model),
		}
		if pCfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(pCfg.BaseURL))
		}
		model, err = openai.New(opts...)
	default:
		log.Fatalf("Provider %s not yet implemented in main", pName)
	}
	if err != nil {
		log.Fatal(err)
	}

	minSpacing := time.Duration(cfg.Agent.MinCallSpacingMs) * time.Millisecond
	if minSpacing <= 0 {
		minSpacing = 1200 * time.Millisecond
	}
	baseBackoff := time.Duration(cfg.Agent.BackoffBaseMs) * time.Millisecond
	if baseBackoff <= 0 {
		baseBackoff = 2 * time.Second
	}
	limited := llm.NewLimiter(model, minSpacing, baseBackoff)

	sessions := session.NewStore()
	planner := agent.NewPlanner(limited, registry, prompts)
	executor := agent.NewExecutor(registry, gov, logger)
	assistant := agent.NewAssistant(sessions, prefs, planner, executor, limited, prompts, logger)
	if cfg.Agent.MaxIterations > 0 {
		assistant.MaxIterations = cfg.Agent.MaxIterations
	}
	assistant.RequireApproval = cfg.Agent.RequireApproval

	tg, err := gateway.NewTelegramGateway(tgCfg.Token, assistant)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Agent.PriceWatchEnabled {
		scheduler := agent.NewScheduler(assistant, prefs, tg)
		go scheduler.Start(ctx)
	}

	// Live dashboard (1-second updates)
	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.PrintLiveStatus()
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.Heartbeat()
			}
		}
	}()

	go func() {
		if err := tg.Start(); err != nil {
			log.Printf("\033[91m[ FAIL ] GATEWAY CRITICAL ERROR: %v\033[0m", err)
			stop()
		}
	}()

	<-ctx.Done()

	observability.CleanupTerminal()

	time.Sleep(500 * time.Millisecond)
	log.Println("\033[95m[ EXIT ] YATRI SIGNING OFF. SAFE TRAVELS.\033[0m")
}
