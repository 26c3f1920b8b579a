package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	HTTPAddr string

	// Flat-file store locations.
	DataDir string

	// WhatsApp Cloud API.
	WhatsAppVerifyToken   string
	WhatsAppAccessToken   string
	WhatsAppPhoneNumberID string
	WhatsAppGraphBaseURL  string

	// Conversational model (OpenAI-compatible chat completions).
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string

	// CRM synchronization. An empty SyncURL disables delivery.
	CRMSyncURL  string
	CRMAPIKey   string
	CRMTimeout  time.Duration
	CRMAttempts int

	// Static credential for the admin listing surface.
	AdminToken string

	// WhatsApp number of the human agent notified on escalation requests.
	AgentNotifyNumber string

	// Optional YAML file of listings imported into an empty property store.
	PropertySeedFile string

	CORSAllowAll bool
	CORSOrigins  []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		DataDir:               getEnv("DATA_DIR", "data"),
		WhatsAppVerifyToken:   getEnv("WHATSAPP_VERIFY_TOKEN", ""),
		WhatsAppAccessToken:   getEnv("WHATSAPP_ACCESS_TOKEN", ""),
		WhatsAppPhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		WhatsAppGraphBaseURL:  getEnv("WHATSAPP_GRAPH_BASE_URL", "https://graph.facebook.com/v22.0"),
		LLMAPIKey:             getEnv("LLM_API_KEY", ""),
		LLMBaseURL:            getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMModel:              getEnv("LLM_MODEL", "gpt-4o-mini"),
		CRMSyncURL:            getEnv("CRM_SYNC_URL", ""),
		CRMAPIKey:             getEnv("CRM_API_KEY", ""),
		CRMTimeout:            mustDuration(getEnv("CRM_TIMEOUT", "5s")),
		CRMAttempts:           3,
		AdminToken:            getEnv("ADMIN_API_TOKEN", ""),
		AgentNotifyNumber:     getEnv("AGENT_NOTIFY_NUMBER", ""),
		PropertySeedFile:      getEnv("PROPERTY_SEED_FILE", ""),
		CORSAllowAll:          equalsTrue(getEnv("CORS_ALLOW_ALL", "false")),
		CORSOrigins:           splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200")),
	}

	if cfg.WhatsAppVerifyToken == "" {
		return nil, fmt.Errorf("WHATSAPP_VERIFY_TOKEN is required")
	}
	if cfg.WhatsAppAccessToken == "" || cfg.WhatsAppPhoneNumberID == "" {
		return nil, fmt.Errorf("WHATSAPP_ACCESS_TOKEN and WHATSAPP_PHONE_NUMBER_ID are required")
	}
	if cfg.CRMTimeout <= 0 {
		return nil, fmt.Errorf("CRM_TIMEOUT must be a positive duration")
	}

	return cfg, nil
}

// LeadStorePath is the backing file for the lead collection.
func (c *Config) LeadStorePath() string {
	return filepath.Join(c.DataDir, "leads.json")
}

// PropertyStorePath is the backing file for the property collection.
func (c *Config) PropertyStorePath() string {
	return filepath.Join(c.DataDir, "properties.json")
}
