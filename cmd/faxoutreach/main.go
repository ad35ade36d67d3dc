package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/motusnova/faxoutreach/internal/assembly"
	"github.com/motusnova/faxoutreach/internal/config"
	"github.com/motusnova/faxoutreach/internal/intake"
	"github.com/motusnova/faxoutreach/internal/pdfutil"
	"github.com/motusnova/faxoutreach/internal/platform/db"
	"github.com/motusnova/faxoutreach/internal/platform/docshare"
	"github.com/motusnova/faxoutreach/internal/platform/faxapi"
	"github.com/motusnova/faxoutreach/internal/platform/notify"
	"github.com/motusnova/faxoutreach/internal/platform/tracking"
	"github.com/motusnova/faxoutreach/internal/reconcile"
	"github.com/motusnova/faxoutreach/internal/transmit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "faxoutreach",
		Short: "Medical-device fax outreach pipeline",
	}

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(sendCmd())
	rootCmd.AddCommand(reconcileCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Query outreach cases and assemble per-patient document sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate()
		},
	}
}

func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send",
		Short: "Merge and fax every staged document set",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend()
		},
	}
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Report the day's failed faxes by email and tracking sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile()
		},
	}
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger.With().Str("run_id", uuid.NewString()).Logger()
}

func runGenerate() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.ValidateGenerate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to upstream database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to upstream database")

	generator := assembly.NewGenerator(
		intake.NewRepoPG(pool),
		pdfutil.Filler{},
		docshare.NewClient(logger),
		assembly.Staging{Root: cfg.StagingDir},
		assembly.NewTemplateCatalog(cfg.TemplateDir),
		logger,
	)

	stats, err := generator.Run(ctx)
	if err != nil {
		return err
	}

	notifyCompletion(ctx, cfg, logger, stats.CompletionMessage())
	return nil
}

func runSend() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.ValidateSend(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	sequencer := transmit.NewSequencer(
		faxapi.NewClient(cfg.FaxAPIBaseURL, cfg.FaxAccessKey, cfg.FaxSecretKey, logger),
		pdfutil.Merger{},
		assembly.Staging{Root: cfg.StagingDir},
		transmit.Options{
			FromNumber:   cfg.FaxFromNumber,
			FromName:     cfg.FaxFromName,
			CoverMessage: cfg.FaxCoverMessage,
			BatchSize:    cfg.SendBatchSize,
			BatchPause:   cfg.SendBatchPause(),
		},
		logger,
	)

	stats, err := sequencer.Run(ctx)
	if err != nil {
		return err
	}

	notifyCompletion(ctx, cfg, logger, stats.CompletionMessage())
	return nil
}

func runReconcile() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.ValidateReconcile(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	job := reconcile.NewJob(
		faxapi.NewClient(cfg.FaxAPIBaseURL, cfg.FaxAccessKey, cfg.FaxSecretKey, logger),
		notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, logger),
		tracking.NewWorkbook(cfg.TrackingWorkbook, logger),
		cfg.FaxFromNumber,
		cfg.ReportEmails,
		logger,
	)

	report, err := job.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info().Int("failed_faxes", len(report.Failures)).Msg("reconciliation complete")
	return nil
}

// notifyCompletion sends the run summary SMS to the operator phones when
// Twilio is configured. Best-effort: a missing or failing channel never
// fails the run.
func notifyCompletion(ctx context.Context, cfg *config.Config, logger zerolog.Logger, body string) {
	if cfg.TwilioAccountSID == "" || len(cfg.NotifyPhones) == 0 {
		logger.Info().Msg("sms notifications not configured, skipping completion message")
		return
	}
	sender := notify.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber, logger)
	notify.NotifyAll(ctx, sender, logger, cfg.NotifyPhones, body)
}
