package assembly

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/motusnova/faxoutreach/internal/intake"
)

// medNote is the prescriber note pre-filled on every prescription form.
const medNote = "I am ordering the Motus Hand / Foot Rehabilitation System, a robotic based neuro-rehabilitation therapy system for use at home. My patient would functionally benefit from the active assistance and neuromuscular re-education to improve their active and passive range of motion, reduce tone, and increase strength. Additionally, it would improve fine and gross motor functions to assist in eating, dressing, walking and other activities of daily living."

// FormFiller fills a PDF template's text fields and checkboxes into out.
type FormFiller interface {
	Fill(template, out string, fields map[string]string, checks map[string]bool) error
}

// DocumentFetcher resolves an external document-share link to file bytes.
type DocumentFetcher interface {
	Download(ctx context.Context, link, dest string) error
}

// Generator runs the document-assembly stage: it fetches outreach cases,
// plans a document set per patient, and writes the filled forms and routing
// files into the staging tree.
type Generator struct {
	repo    intake.Repository
	filler  FormFiller
	fetcher DocumentFetcher
	staging Staging
	catalog TemplateCatalog
	logger  zerolog.Logger
	now     func() time.Time
}

func NewGenerator(repo intake.Repository, filler FormFiller, fetcher DocumentFetcher,
	staging Staging, catalog TemplateCatalog, logger zerolog.Logger) *Generator {
	return &Generator{
		repo:    repo,
		filler:  filler,
		fetcher: fetcher,
		staging: staging,
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
	}
}

// GenerateStats summarizes one generation run for the completion report.
type GenerateStats struct {
	Patients    int
	Documents   int
	SkippedRows int
	Elapsed     time.Duration
}

// CompletionMessage is the SMS body sent to the operator when the run ends.
func (st GenerateStats) CompletionMessage() string {
	perPatient := 0.0
	if st.Patients > 0 {
		perPatient = st.Elapsed.Seconds() / float64(st.Patients)
	}
	return fmt.Sprintf("The process of generating PDFs for the Fax blast is completed.\n"+
		"Total PDFs generated: %d\n"+
		"Total time taken: %.2f minutes.\n"+
		"Average time taken to generate PDFs per patient: %.2f seconds.",
		st.Documents, st.Elapsed.Minutes(), perPatient)
}

// Run executes the assembly stage. A fetch failure at the start is fatal; a
// failure on any single document aborts that document only.
func (g *Generator) Run(ctx context.Context) (GenerateStats, error) {
	start := g.now()

	raws, err := g.repo.ListOutreachCases(ctx)
	if err != nil {
		return GenerateStats{}, fmt.Errorf("fetch outreach cases: %w", err)
	}
	records, skipped := intake.Normalize(raws)
	if skipped > 0 {
		g.logger.Warn().Int("skipped", skipped).Msg("skipped rows missing name or date of birth")
	}

	if err := g.staging.Reset(); err != nil {
		return GenerateStats{}, err
	}

	stats := GenerateStats{SkippedRows: skipped}
	for _, rec := range records {
		stats.Patients++
		set := Plan(rec, g.now())

		patientDir, err := g.staging.PatientDir(rec.FolderName())
		if err != nil {
			g.logger.Error().Err(err).Str("patient", rec.FolderName()).Msg("staging patient folder")
			continue
		}
		for _, slot := range set.Slots {
			slotDir, err := g.staging.SlotDir(patientDir, slot.Name)
			if err != nil {
				g.logger.Error().Err(err).Str("slot", slot.Name).Msg("staging slot folder")
				continue
			}
			stats.Documents += g.buildSlot(ctx, rec, slot, slotDir)
		}
	}

	stats.Elapsed = g.now().Sub(start)
	g.logger.Info().
		Int("patients", stats.Patients).
		Int("documents", stats.Documents).
		Int("skipped_rows", stats.SkippedRows).
		Dur("elapsed", stats.Elapsed).
		Msg("document assembly complete")
	return stats, nil
}

// buildSlot writes the slot's documents and routing file, returning the
// number of documents produced.
func (g *Generator) buildSlot(ctx context.Context, p intake.PatientRecord, slot Slot, slotDir string) int {
	produced := 0

	if slot.Authorization {
		dest := filepath.Join(slotDir, "AuthorizationDocument_"+p.FolderName()+".pdf")
		if slot.AuthorizationLink != "" {
			if err := g.fetcher.Download(ctx, slot.AuthorizationLink, dest); err != nil {
				g.logger.Warn().Err(err).Str("patient", p.FolderName()).Msg("fetching existing authorization")
			} else {
				produced++
			}
		} else if g.fill(TplAuthorization, dest, g.authorizationFields(p), nil) {
			produced++
		}
	}

	if slot.Prescription {
		dest := filepath.Join(slotDir, "Prescription_"+p.FolderName()+".pdf")
		if g.fill(TplPrescription, dest, g.prescriptionFields(p), prescriptionChecks(p)) {
			produced++
		}
	}

	if slot.Request != RequestNone {
		dest := filepath.Join(slotDir, fmt.Sprintf("Request_%s_doc%d.pdf", p.FolderName(), slot.Index))
		if g.fill(slot.Request.Key(slot.Tier), dest, g.requestFields(p, slot), nil) {
			produced++
		}
		g.writeRouting(slot, slotDir)
	}

	return produced
}

// writeRouting standardizes the provider fax and records the routing target.
// An invalid fax number leaves the slot without a target, so it is skipped at
// transmission time.
func (g *Generator) writeRouting(slot Slot, slotDir string) {
	cleaned, err := StandardizeFaxNumber(slot.Provider.Fax)
	if err != nil {
		g.logger.Debug().Err(err).Str("provider", slot.Provider.Name).Msg("slot left without routing target")
		return
	}
	if err := WriteRoutingFile(slotDir, cleaned, slot.Provider.Name); err != nil {
		g.logger.Error().Err(err).Str("slot", slotDir).Msg("writing routing file")
	}
}

func (g *Generator) fill(templateKey, dest string, fields map[string]string, checks map[string]bool) bool {
	template, err := g.catalog.Path(templateKey)
	if err != nil {
		g.logger.Error().Err(err).Msg("resolving template")
		return false
	}
	if err := g.filler.Fill(template, dest, fields, checks); err != nil {
		g.logger.Error().Err(err).Str("template", templateKey).Str("dest", dest).Msg("filling form")
		return false
	}
	return true
}

func (g *Generator) authorizationFields(p intake.PatientRecord) map[string]string {
	return map[string]string{
		"PatientName":  p.FullName(),
		"PatientDOB":   p.DOB.Format(intake.DOBLayout),
		"Phone Number": p.Phone,
		"Signature":    p.FullName(),
		"Date":         g.now().Format(intake.DOBLayout),
	}
}

func (g *Generator) prescriptionFields(p intake.PatientRecord) map[string]string {
	return map[string]string{
		"FirstName":    p.FirstName,
		"LastName":     p.LastName,
		"Address":      strings.TrimSpace(p.Address),
		"City":         p.City,
		"State":        p.State,
		"Zipcode":      p.Zip,
		"Phone Number": p.Phone,
		"Birth Month":  p.DOB.Format("01"),
		"Birth Day":    p.DOB.Format("02"),
		"Birth Year":   p.DOB.Format("2006"),
		"Med Note":     medNote,
	}
}

func prescriptionChecks(p intake.PatientRecord) map[string]bool {
	return map[string]bool{
		"Hand Product": p.Product == "Motus Hand",
		"Foot Product": p.Product == "Motus Foot",
	}
}

func (g *Generator) requestFields(p intake.PatientRecord, slot Slot) map[string]string {
	line, err := AssignLine(p.DOB.Day(), int(p.DOB.Month()))
	if err != nil {
		// unreachable for a parsed date; keep the form fillable anyway
		g.logger.Error().Err(err).Msg("assigning outbound line")
	}
	return map[string]string{
		"Date":           g.now().Format(intake.DOBLayout),
		"To":             slot.Provider.Name,
		"FaxNumber":      slot.Provider.Fax,
		"MotusFaxNumber": line,
		"MotusProduct":   p.Product,
		"PatientName":    p.FullName(),
		"PatientDOB":     p.DOB.Format(intake.DOBLayout),
		"DocName":        slot.Provider.Name,
	}
}
