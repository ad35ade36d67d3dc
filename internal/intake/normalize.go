package intake

import (
	"errors"
	"time"
)

// ErrMissingRequiredField marks a raw case that cannot be normalized because
// first name, last name, or date of birth is absent.
var ErrMissingRequiredField = errors.New("missing required field")

// DOBLayout is the date-of-birth format used by the upstream store and by all
// generated documents.
const DOBLayout = "01/02/2006"

// RawCase is one row of the upstream outreach query before validation. All
// fields are carried as the store returned them.
type RawCase struct {
	CaseID   string
	OpenedAt time.Time

	FirstName string
	LastName  string
	DOB       string
	Product   string
	Phone     string
	Email     string
	Address   string
	City      string
	State     string
	Zip       string

	PrimaryDocName   string
	PrimaryDocFax    string
	SecondaryDocName string
	SecondaryDocFax  string

	Status              string
	AuthorizationOnFile bool
	AuthorizationLink   string
}

// normalizeOne validates a single raw case. Rows missing first name, last
// name, or a parseable DOB fail with ErrMissingRequiredField; no other
// validation happens at the intake boundary.
func normalizeOne(raw RawCase) (PatientRecord, error) {
	if raw.FirstName == "" || raw.LastName == "" || raw.DOB == "" {
		return PatientRecord{}, ErrMissingRequiredField
	}
	dob, err := time.Parse(DOBLayout, raw.DOB)
	if err != nil {
		return PatientRecord{}, ErrMissingRequiredField
	}

	rec := PatientRecord{
		CaseID:    raw.CaseID,
		OpenedAt:  raw.OpenedAt,
		FirstName: raw.FirstName,
		LastName:  raw.LastName,
		DOB:       dob,
		Product:   raw.Product,
		Phone:     raw.Phone,
		Email:     raw.Email,
		Address:   raw.Address,
		City:      raw.City,
		State:     raw.State,
		Zip:       raw.Zip,
		Primary:   Provider{Name: raw.PrimaryDocName, Fax: raw.PrimaryDocFax},
		Secondary: Provider{Name: raw.SecondaryDocName, Fax: raw.SecondaryDocFax},

		AuthorizationOnFile: raw.AuthorizationOnFile,
		AuthorizationLink:   raw.AuthorizationLink,
	}

	switch raw.Status {
	case StatusNeedPrescriptionOnly:
		rec.MedicalRecordsOnFile = true
	case StatusNeedMedicalRecordsOnly:
		rec.PrescriptionOnFile = true
	case StatusNeedPrescriptionAndMedicalRecords:
		// both missing
	default:
		// unknown stage: nothing to request
		rec.PrescriptionOnFile = true
		rec.MedicalRecordsOnFile = true
	}

	return rec, nil
}

// Normalize converts raw upstream rows into patient records. Rows failing
// required-field validation are skipped; the count of skipped rows is
// returned so the run report can surface it.
func Normalize(raws []RawCase) ([]PatientRecord, int) {
	records := make([]PatientRecord, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		rec, err := normalizeOne(raw)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped
}
