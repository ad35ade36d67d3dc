// Package reconcile runs the failed-fax reconciliation job. It operates
// against the provider's send history, independently of the transmission
// pipeline's in-process state.
package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/motusnova/faxoutreach/internal/platform/faxapi"
	"github.com/motusnova/faxoutreach/internal/platform/notify"
)

// FaxHistory is the slice of the provider API the job needs.
type FaxHistory interface {
	ListSentFaxes(ctx context.Context, from, to time.Time, fromNumber string) ([]string, error)
	GetSentFax(ctx context.Context, faxID string) (faxapi.SentFax, error)
}

// Tracker appends a report to the tracking workbook.
type Tracker interface {
	AppendSheet(sheetName string, rows [][]string) error
}

// Job collects the day's failed faxes on one outbound line and reports them
// by email and tracking sheet.
type Job struct {
	history    FaxHistory
	email      notify.EmailSender
	tracker    Tracker
	line       string
	recipients []string
	logger     zerolog.Logger
	now        func() time.Time
}

func NewJob(history FaxHistory, email notify.EmailSender, tracker Tracker,
	line string, recipients []string, logger zerolog.Logger) *Job {
	return &Job{
		history:    history,
		email:      email,
		tracker:    tracker,
		line:       line,
		recipients: recipients,
		logger:     logger,
		now:        time.Now,
	}
}

// Window returns the reconciliation window for a run at now: midnight to
// noon UTC of the run's date.
func Window(now time.Time) (time.Time, time.Time) {
	today := now.UTC()
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(today.Year(), today.Month(), today.Day(), 12, 0, 0, 0, time.UTC)
	return start, end
}

// Run builds the day's report and delivers it. The history query failing is
// fatal; email and tracking-sheet failures are logged and the run continues.
func (j *Job) Run(ctx context.Context) (Report, error) {
	now := j.now()
	start, end := Window(now)

	ids, err := j.history.ListSentFaxes(ctx, start, end, j.line)
	if err != nil {
		return Report{}, fmt.Errorf("list sent faxes: %w", err)
	}

	report := Report{Date: now.UTC()}
	for _, id := range ids {
		fax, err := j.history.GetSentFax(ctx, id)
		if err != nil {
			j.logger.Warn().Err(err).Str("fax_id", id).Msg("fetching sent fax status")
			continue
		}
		if fax.Status != "failure" || len(fax.Recipients) == 0 {
			continue
		}
		report.Failures = append(report.Failures, FailedFax{
			ID:     fax.ID,
			Number: strings.TrimPrefix(fax.Recipients[0].ToNumber, "+"),
			Reason: fax.Recipients[0].FailureReason,
		})
	}
	j.logger.Info().Int("failed", len(report.Failures)).Int("checked", len(ids)).Msg("reconciliation swept send history")

	if err := j.email.SendEmail(ctx, j.recipients, report.Subject(), report.EmailBody()); err != nil {
		j.logger.Error().Err(err).Msg("emailing failed-fax report")
	}
	if err := j.tracker.AppendSheet(report.SheetName(), report.Rows()); err != nil {
		j.logger.Error().Err(err).Msg("updating tracking workbook")
	}

	return report, nil
}
