package assembly

import (
	"fmt"
	"time"

	"github.com/motusnova/faxoutreach/internal/intake"
)

// Slot is the set of documents planned for one provider routing target.
type Slot struct {
	// Name is the staging subfolder, doc_1 or doc_2.
	Name  string
	Index int

	Provider intake.Provider

	// Authorization is set when no authorization is on file for the
	// patient. When AuthorizationLink is also set the existing document is
	// fetched instead of filling the template.
	Authorization     bool
	AuthorizationLink string

	// Prescription is set when no prescription is on file.
	Prescription bool

	// Request selects the provider-request form variant, RequestNone when
	// both prescription and medical records are already on file.
	Request RequestVariant
	Tier    int
}

// DocumentSet is the full assembly plan for one patient: one slot per
// provider on file, each with a disjoint set of documents and exactly one
// merge target at transmission time.
type DocumentSet struct {
	Patient intake.PatientRecord
	Slots   []Slot
}

// Plan decides which documents each of the patient's provider slots needs.
// It is pure: all filesystem and network effects happen in the Generator.
func Plan(p intake.PatientRecord, now time.Time) DocumentSet {
	tier := TemplateTier(p.OpenedAt, now)

	variant := RequestNone
	switch {
	case !p.PrescriptionOnFile && !p.MedicalRecordsOnFile:
		variant = RequestRXAndMR
	case p.PrescriptionOnFile && !p.MedicalRecordsOnFile:
		variant = RequestMR
	case !p.PrescriptionOnFile && p.MedicalRecordsOnFile:
		variant = RequestRX
	}

	providers := p.Providers()
	set := DocumentSet{Patient: p, Slots: make([]Slot, 0, len(providers))}
	for i, provider := range providers {
		slot := Slot{
			Name:         fmt.Sprintf("doc_%d", i+1),
			Index:        i + 1,
			Provider:     provider,
			Prescription: !p.PrescriptionOnFile,
			Request:      variant,
			Tier:         tier,
		}
		if !p.AuthorizationOnFile {
			slot.Authorization = true
			slot.AuthorizationLink = p.AuthorizationLink
		}
		set.Slots = append(set.Slots, slot)
	}
	return set
}
