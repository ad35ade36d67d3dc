// Package transmit runs the transmission stage: each staged slot folder is
// merged into one document and submitted to the fax provider.
package transmit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/motusnova/faxoutreach/internal/assembly"
	"github.com/motusnova/faxoutreach/internal/pdfutil"
	"github.com/motusnova/faxoutreach/internal/platform/faxapi"
)

// MergedName is the merge target written into every slot folder.
const MergedName = "merged_document.pdf"

// FaxSender is the slice of the provider API the sequencer needs.
type FaxSender interface {
	CreateTmpFax(ctx context.Context, req faxapi.CreateTmpFaxRequest) (string, error)
	UploadAttachment(ctx context.Context, faxID, path string) error
	SendFax(ctx context.Context, faxID string) error
	DeleteTmpFax(ctx context.Context, faxID string) error
	ListTmpFaxes(ctx context.Context) ([]string, error)
}

// Merger concatenates PDFs into one output document.
type Merger interface {
	Merge(out string, inputs []string) error
}

// Options carries the fixed send parameters.
type Options struct {
	FromNumber   string
	FromName     string
	CoverMessage string
	BatchSize    int
	BatchPause   time.Duration
}

// Sequencer walks the staging tree and transmits one fax per routed slot.
type Sequencer struct {
	fax     FaxSender
	merger  Merger
	staging assembly.Staging
	opts    Options
	logger  zerolog.Logger
	now     func() time.Time
	sleep   func(time.Duration)
}

func NewSequencer(fax FaxSender, merger Merger, staging assembly.Staging, opts Options, logger zerolog.Logger) *Sequencer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 5
	}
	return &Sequencer{
		fax:     fax,
		merger:  merger,
		staging: staging,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// SendStats summarizes one transmission run.
type SendStats struct {
	Sent    int
	Elapsed time.Duration
}

// CompletionMessage is the SMS body sent to the operator when the run ends.
func (st SendStats) CompletionMessage() string {
	return fmt.Sprintf("The fax sending process is completed.\n"+
		"Total faxes sent: %d\n"+
		"Total time taken: %.2f seconds.", st.Sent, st.Elapsed.Seconds())
}

// Run sweeps stale provider-side staging objects, transmits every routed
// slot in fixed-size batches with a pause between batches, and tears the
// staging tree down when the sweep of folders is complete.
func (s *Sequencer) Run(ctx context.Context) (SendStats, error) {
	start := s.now()

	s.sweepTmpFaxes(ctx)

	patientDirs, err := s.staging.PatientDirs()
	if err != nil {
		return SendStats{}, err
	}

	stats := SendStats{}
	for i := 0; i < len(patientDirs); i += s.opts.BatchSize {
		end := i + s.opts.BatchSize
		if end > len(patientDirs) {
			end = len(patientDirs)
		}
		for _, patientDir := range patientDirs[i:end] {
			slotDirs, err := s.staging.SlotDirs(patientDir)
			if err != nil {
				s.logger.Error().Err(err).Str("patient", patientDir).Msg("listing slot folders")
				continue
			}
			for _, slotDir := range slotDirs {
				if s.processSlot(ctx, slotDir) {
					stats.Sent++
				}
			}
		}
		if end < len(patientDirs) && s.opts.BatchPause > 0 {
			s.sleep(s.opts.BatchPause)
		}
	}

	if err := s.staging.Teardown(); err != nil {
		s.logger.Error().Err(err).Msg("tearing down staging tree")
	}

	stats.Elapsed = s.now().Sub(start)
	s.logger.Info().Int("sent", stats.Sent).Dur("elapsed", stats.Elapsed).Msg("transmission complete")
	return stats, nil
}

// processSlot merges and transmits one slot folder. Returns true when the
// merged document was accepted for sending.
func (s *Sequencer) processSlot(ctx context.Context, slotDir string) bool {
	inputs, err := slotPDFs(slotDir)
	if err != nil {
		s.logger.Error().Err(err).Str("slot", slotDir).Msg("listing slot documents")
		return false
	}
	ordered := pdfutil.OrderForMerge(inputs)
	if len(ordered) == 0 {
		s.logger.Warn().Str("slot", slotDir).Msg("slot has no documents, skipping")
		return false
	}

	merged := filepath.Join(slotDir, MergedName)
	if err := s.merger.Merge(merged, ordered); err != nil {
		s.logger.Error().Err(err).Str("slot", slotDir).Msg("merging slot documents")
		return false
	}

	faxNumber, recipient, err := assembly.ReadRoutingFile(slotDir)
	if err != nil {
		// deliberate soft-fail: a slot without a routing target was gated
		// at assembly time
		s.logger.Debug().Err(err).Str("slot", slotDir).Msg("no routing target, skipping slot")
		return false
	}

	faxID, err := s.fax.CreateTmpFax(ctx, faxapi.CreateTmpFaxRequest{
		ToName:            recipient,
		FromName:          s.opts.FromName,
		FromNumber:        s.opts.FromNumber,
		Recipients:        []string{faxNumber},
		Resolution:        "Fine",
		PageSize:          "Letter",
		IncludeCoversheet: true,
		Message:           s.opts.CoverMessage,
		CompanyInfo:       s.opts.FromName,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("recipient", recipient).Msg("creating provider staging fax")
		return false
	}

	if err := s.fax.UploadAttachment(ctx, faxID, merged); err != nil {
		s.logger.Error().Err(err).Str("fax_id", faxID).Msg("uploading attachment")
		s.deleteTmpFax(ctx, faxID)
		return false
	}

	if err := s.fax.SendFax(ctx, faxID); err != nil {
		s.logger.Error().Err(err).Str("fax_id", faxID).Str("recipient", recipient).Msg("sending fax")
	} else {
		s.logger.Info().Str("fax_id", faxID).Str("recipient", recipient).Str("to", faxNumber).Msg("fax sent")
	}
	// staging object is deleted whether the send succeeded or not
	s.deleteTmpFax(ctx, faxID)
	return true
}

// sweepTmpFaxes deletes every provider-side staging object left over from a
// previous run before any new sends happen.
func (s *Sequencer) sweepTmpFaxes(ctx context.Context) {
	ids, err := s.fax.ListTmpFaxes(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("listing stale staging faxes")
		return
	}
	if len(ids) == 0 {
		s.logger.Info().Msg("no stale staging faxes to delete")
		return
	}
	s.logger.Info().Int("count", len(ids)).Msg("deleting stale staging faxes")
	for _, id := range ids {
		s.deleteTmpFax(ctx, id)
	}
}

func (s *Sequencer) deleteTmpFax(ctx context.Context, faxID string) {
	if err := s.fax.DeleteTmpFax(ctx, faxID); err != nil {
		s.logger.Warn().Err(err).Str("fax_id", faxID).Msg("deleting provider staging fax")
	}
}

func slotPDFs(slotDir string) ([]string, error) {
	entries, err := os.ReadDir(slotDir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, filepath.Join(slotDir, e.Name()))
		}
	}
	return files, nil
}
