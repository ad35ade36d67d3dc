package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env string `mapstructure:"ENV"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32  `mapstructure:"DB_MIN_CONNS"`

	FaxAPIBaseURL   string `mapstructure:"FAX_API_BASE_URL"`
	FaxAccessKey    string `mapstructure:"HUMBLEFAX_ACCESS_KEY"`
	FaxSecretKey    string `mapstructure:"HUMBLEFAX_SECRET_KEY"`
	FaxFromNumber   string `mapstructure:"FAX_FROM_NUMBER"`
	FaxFromName     string `mapstructure:"FAX_FROM_NAME"`
	FaxCoverMessage string `mapstructure:"FAX_COVER_MESSAGE"`

	TwilioAccountSID  string   `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string   `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber string   `mapstructure:"TWILIO_PHONE_NUMBER"`
	NotifyPhones      []string `mapstructure:"NOTIFY_PHONES"`

	SMTPHost     string   `mapstructure:"SMTP_HOST"`
	SMTPPort     int      `mapstructure:"SMTP_PORT"`
	SMTPUser     string   `mapstructure:"SMTP_USER"`
	SMTPPassword string   `mapstructure:"SMTP_PASSWORD"`
	ReportEmails []string `mapstructure:"REPORT_EMAILS"`

	StagingDir       string `mapstructure:"STAGING_DIR"`
	TemplateDir      string `mapstructure:"TEMPLATE_DIR"`
	TrackingWorkbook string `mapstructure:"TRACKING_WORKBOOK"`

	SendBatchSize     int `mapstructure:"SEND_BATCH_SIZE"`
	SendBatchPauseSec int `mapstructure:"SEND_BATCH_PAUSE_SEC"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 5)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("FAX_API_BASE_URL", "https://api.humblefax.com")
	v.SetDefault("FAX_FROM_NAME", "Motus Nova")
	v.SetDefault("FAX_COVER_MESSAGE", "Motus Nova Documents Request")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("STAGING_DIR", "RequestDocuments")
	v.SetDefault("TEMPLATE_DIR", "templates_with_textboxes")
	v.SetDefault("TRACKING_WORKBOOK", "failed_fax_tracking.xlsx")
	v.SetDefault("SEND_BATCH_SIZE", 5)
	v.SetDefault("SEND_BATCH_PAUSE_SEC", 2)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("FAX_API_BASE_URL")
	v.BindEnv("HUMBLEFAX_ACCESS_KEY")
	v.BindEnv("HUMBLEFAX_SECRET_KEY")
	v.BindEnv("FAX_FROM_NUMBER")
	v.BindEnv("FAX_FROM_NAME")
	v.BindEnv("FAX_COVER_MESSAGE")
	v.BindEnv("TWILIO_ACCOUNT_SID")
	v.BindEnv("TWILIO_AUTH_TOKEN")
	v.BindEnv("TWILIO_PHONE_NUMBER")
	v.BindEnv("NOTIFY_PHONES")
	v.BindEnv("SMTP_HOST")
	v.BindEnv("SMTP_PORT")
	v.BindEnv("SMTP_USER")
	v.BindEnv("SMTP_PASSWORD")
	v.BindEnv("REPORT_EMAILS")
	v.BindEnv("STAGING_DIR")
	v.BindEnv("TEMPLATE_DIR")
	v.BindEnv("TRACKING_WORKBOOK")
	v.BindEnv("SEND_BATCH_SIZE")
	v.BindEnv("SEND_BATCH_PAUSE_SEC")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.NotifyPhones == nil {
		if phones := v.GetString("NOTIFY_PHONES"); phones != "" {
			cfg.NotifyPhones = strings.Split(phones, ",")
		}
	}
	if cfg.ReportEmails == nil {
		if emails := v.GetString("REPORT_EMAILS"); emails != "" {
			cfg.ReportEmails = strings.Split(emails, ",")
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// SendBatchPause returns the pause between transmission batches.
func (c *Config) SendBatchPause() time.Duration {
	return time.Duration(c.SendBatchPauseSec) * time.Second
}

// ValidateGenerate checks the configuration needed by the document-assembly
// job.
func (c *Config) ValidateGenerate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

// ValidateSend checks the configuration needed by the transmission job.
func (c *Config) ValidateSend() error {
	if err := c.validateFaxAPI(); err != nil {
		return err
	}
	if c.FaxFromNumber == "" {
		return fmt.Errorf("FAX_FROM_NUMBER is required")
	}
	return nil
}

// ValidateReconcile checks the configuration needed by the failed-fax
// reconciliation job.
func (c *Config) ValidateReconcile() error {
	if err := c.validateFaxAPI(); err != nil {
		return err
	}
	if c.FaxFromNumber == "" {
		return fmt.Errorf("FAX_FROM_NUMBER is required")
	}
	if len(c.ReportEmails) == 0 {
		return fmt.Errorf("REPORT_EMAILS is required")
	}
	return nil
}

func (c *Config) validateFaxAPI() error {
	if c.FaxAccessKey == "" || c.FaxSecretKey == "" {
		return fmt.Errorf("HUMBLEFAX_ACCESS_KEY and HUMBLEFAX_SECRET_KEY are required")
	}
	return nil
}
