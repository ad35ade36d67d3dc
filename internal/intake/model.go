package intake

import (
	"time"
)

// Case statuses on the upstream story table that mark a patient as needing
// document outreach.
const (
	StatusNeedPrescriptionOnly              = "needPrescriptionOnly"
	StatusNeedMedicalRecordsOnly            = "needMedicalRecordsOnly"
	StatusNeedPrescriptionAndMedicalRecords = "needPrescriptionAndMedicalRecords"
)

// Provider is a prescriber routing target: the clinician's name and the raw
// fax number on file for them. The fax number is not validated here; it is
// standardized at routing time.
type Provider struct {
	Name string
	Fax  string
}

// Empty reports whether neither a name nor a fax number is on file.
func (p Provider) Empty() bool {
	return p.Name == "" && p.Fax == ""
}

// PatientRecord is one outreach case, normalized from the upstream query.
// It is read-only for the rest of the pipeline.
type PatientRecord struct {
	CaseID   string
	OpenedAt time.Time

	FirstName string
	LastName  string
	DOB       time.Time
	Product   string
	Phone     string
	Email     string
	Address   string
	City      string
	State     string
	Zip       string

	Primary   Provider
	Secondary Provider

	PrescriptionOnFile   bool
	MedicalRecordsOnFile bool
	AuthorizationOnFile  bool
	AuthorizationLink    string
}

// FullName returns "First Last".
func (p PatientRecord) FullName() string {
	return p.FirstName + " " + p.LastName
}

// FolderName returns the concatenated name used for staging folders and
// generated file names, e.g. "JaneDoe".
func (p PatientRecord) FolderName() string {
	return p.FirstName + p.LastName
}

// Providers returns the routing targets for this patient: always the primary,
// plus the secondary when one is on file.
func (p PatientRecord) Providers() []Provider {
	if p.Secondary.Empty() {
		return []Provider{p.Primary}
	}
	return []Provider{p.Primary, p.Secondary}
}
