package assembly

import (
	"fmt"
	"path/filepath"
	"time"
)

// Template catalog keys for the two standalone forms. Request templates are
// addressed through RequestVariant.Key.
const (
	TplAuthorization = "PatientAuthorizationTemplate"
	TplPrescription  = "AutofillPrescription"
)

// RequestVariant selects which provider-request form a slot needs.
type RequestVariant string

const (
	RequestNone    RequestVariant = ""
	RequestRX      RequestVariant = "RXTemplate"
	RequestMR      RequestVariant = "MRTemplate"
	RequestRXAndMR RequestVariant = "RXAndMRTemplate"
)

// Key returns the catalog key for this variant at the given age tier,
// e.g. "RXAndMRTemplate_t1".
func (v RequestVariant) Key(tier int) string {
	return fmt.Sprintf("%s_t%d", string(v), tier)
}

// TemplateCatalog maps template names to the PDF files under the template
// directory. The layout mirrors the form library: the authorization and
// prescription forms at the top level, request forms under one folder per
// age tier.
type TemplateCatalog map[string]string

// NewTemplateCatalog builds the catalog rooted at dir.
func NewTemplateCatalog(dir string) TemplateCatalog {
	c := TemplateCatalog{
		TplAuthorization: filepath.Join(dir, "patientauthorization_template.pdf"),
		TplPrescription:  filepath.Join(dir, "prescription_template.pdf"),
	}
	for tier := 0; tier <= 2; tier++ {
		tierDir := filepath.Join(dir, fmt.Sprintf("T%d_PDFs", tier))
		for _, v := range []RequestVariant{RequestRX, RequestMR, RequestRXAndMR} {
			c[v.Key(tier)] = filepath.Join(tierDir, string(v)+".pdf")
		}
	}
	return c
}

// Path resolves a catalog key to a template file.
func (c TemplateCatalog) Path(key string) (string, error) {
	p, ok := c[key]
	if !ok {
		return "", fmt.Errorf("unknown template %q", key)
	}
	return p, nil
}

// TierForAge maps the age of a case in whole days onto a template tier.
// Ages outside both early ranges, including zero and negative ages, land on
// the oldest tier.
func TierForAge(ageDays int) int {
	if ageDays >= 1 && ageDays <= 14 {
		return 0
	}
	if ageDays >= 15 && ageDays <= 28 {
		return 1
	}
	return 2
}

// TemplateTier returns the tier for a case opened at the given time.
func TemplateTier(openedAt, now time.Time) int {
	age := int(now.Sub(openedAt).Hours() / 24)
	return TierForAge(age)
}
