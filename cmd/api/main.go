package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"estate_assistant_backend/internal/config"
	"estate_assistant_backend/internal/conversation"
	"estate_assistant_backend/internal/crm"
	"estate_assistant_backend/internal/events"
	apphttp "estate_assistant_backend/internal/http"
	"estate_assistant_backend/internal/leads"
	"estate_assistant_backend/internal/llm"
	"estate_assistant_backend/internal/properties"
	"estate_assistant_backend/internal/whatsapp"
	platformevents "estate_assistant_backend/platform/events"
	"estate_assistant_backend/platform/logger"
	"estate_assistant_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Event bus for decoupled communication between modules
	eventBus := platformevents.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules
	// ========================================================================

	propertiesModule := properties.NewModule(cfg.PropertyStorePath(), val, log)
	if cfg.PropertySeedFile != "" {
		if err := propertiesModule.Service().SeedFromFile(cfg.PropertySeedFile); err != nil {
			log.Error("property seed import failed", "error", err, "file", cfg.PropertySeedFile)
		}
	}

	leadsModule := leads.NewModule(cfg.LeadStorePath(), val, log)

	waClient := whatsapp.NewClient(cfg, log)

	modelClient := llm.NewClient(llm.Config{
		APIKey:  cfg.LLMAPIKey,
		BaseURL: cfg.LLMBaseURL,
		Model:   cfg.LLMModel,
	}, log)
	if modelClient == nil {
		log.Warn("LLM_API_KEY not configured; replies fall back to the static greeting")
	}

	crmPolicy := crm.DefaultRetryPolicy()
	crmPolicy.MaxAttempts = cfg.CRMAttempts
	crmClient := crm.NewClient(crm.Config{
		SyncURL: cfg.CRMSyncURL,
		APIKey:  cfg.CRMAPIKey,
		Timeout: cfg.CRMTimeout,
	}, crmPolicy, log)
	if cfg.CRMSyncURL == "" {
		log.Warn("CRM_SYNC_URL not configured; leads stay pending_sync")
	}

	conversationModule := conversation.NewModule(
		propertiesModule.Service(),
		waClient,
		modelClient,
		leadsModule.Repository(),
		crmClient,
		eventBus,
		cfg.WhatsAppVerifyToken,
		log,
	)

	registerAgentNotifications(cfg, eventBus, waClient, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Modules: []apphttp.Module{
			conversationModule,
			leadsModule,
			propertiesModule,
		},
	}

	engine := apphttp.NewRouter(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// registerAgentNotifications forwards escalation requests and fresh
// qualified leads to the configured human agent's WhatsApp number.
func registerAgentNotifications(cfg *config.Config, bus events.Bus, wa *whatsapp.Client, log *logger.Logger) {
	if cfg.AgentNotifyNumber == "" {
		log.Warn("AGENT_NOTIFY_NUMBER not configured; agent notifications disabled")
		return
	}

	bus.Subscribe(events.EscalationRequested{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		escalation, ok := event.(events.EscalationRequested)
		if !ok {
			return nil
		}
		body := fmt.Sprintf("⚠️ Customer %s asked for a human agent.\nLast message: %s", escalation.Sender, escalation.Message)
		return wa.SendText(ctx, cfg.AgentNotifyNumber, body)
	}))

	bus.Subscribe(events.LeadQualified{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		qualified, ok := event.(events.LeadQualified)
		if !ok {
			return nil
		}
		body := fmt.Sprintf("🎯 New qualified lead %s from %s (score %d).", qualified.LeadID, qualified.Sender, qualified.Score)
		return wa.SendText(ctx, cfg.AgentNotifyNumber, body)
	}))
}
