package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns a Repository backed by the upstream case database.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

// The outreach query joins the insurance story against the prescriber-fax
// story for the same patient so that every returned case is fax-ready and
// carries both prescriber slots. Statuses mirror the upstream state machine.
const outreachQuery = `
	SELECT
		s1.story_id,
		MIN(s2.created_at) AS creation_timestamp,
		c2.first_name,
		c2.last_name,
		c2.date_of_birth AS dob,
		i.product,
		c2.phone_number,
		c2.email,
		c2.street_address AS address,
		c2.city_address AS city,
		c2.state,
		c2.zip_code,
		c1.last_name AS prim_doc_name,
		c1.doc_fax AS prim_doc_fax,
		c3.last_name AS sec_doc_name,
		c3.doc_fax AS sec_doc_fax,
		s1.status,
		i.authorization_on_file,
		i.medical_records_auth_link
	FROM story_fresh s1
	JOIN story_fresh s2
		ON s1.destination = s2.destination
		AND s2.type = 'prescriberFax'
		AND s2.status = 'faxReady'
	LEFT JOIN contacts_fresh c1
		ON s2.origin = c1.contact_id
	LEFT JOIN contacts_fresh c2
		ON s1.destination = c2.contact_id
	LEFT JOIN contacts_fresh c3
		ON s2.secondary_origin = c3.contact_id
	LEFT JOIN insurance_fresh i
		ON s1.story_id = i.insurance_id
	WHERE s1.type = 'insurance'
		AND s1.status IN (
			'needPrescriptionOnly',
			'needMedicalRecordsOnly',
			'needPrescriptionAndMedicalRecords'
		)
	GROUP BY
		s1.story_id,
		c1.last_name,
		c1.doc_fax,
		c3.last_name,
		c3.doc_fax,
		c2.contact_id,
		c2.first_name,
		c2.last_name,
		c2.date_of_birth,
		c2.phone_number,
		c2.email,
		c2.street_address,
		c2.city_address,
		c2.state,
		c2.zip_code,
		i.product,
		i.authorization_on_file,
		i.medical_records_auth_link`

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *repoPG) ListOutreachCases(ctx context.Context) ([]RawCase, error) {
	rows, err := r.pool.Query(ctx, outreachQuery)
	if err != nil {
		return nil, fmt.Errorf("query outreach cases: %w", err)
	}
	defer rows.Close()

	var cases []RawCase
	for rows.Next() {
		var (
			c          RawCase
			openedAt   *time.Time
			firstName  *string
			lastName   *string
			dob        *string
			product    *string
			phone      *string
			email      *string
			address    *string
			city       *string
			state      *string
			zip        *string
			primName   *string
			primFax    *string
			secName    *string
			secFax     *string
			status     *string
			authOnFile *bool
			authLink   *string
		)
		if err := rows.Scan(&c.CaseID, &openedAt, &firstName, &lastName, &dob,
			&product, &phone, &email, &address, &city, &state, &zip,
			&primName, &primFax, &secName, &secFax,
			&status, &authOnFile, &authLink); err != nil {
			return nil, fmt.Errorf("scan outreach case: %w", err)
		}

		if openedAt != nil {
			c.OpenedAt = *openedAt
		}
		c.FirstName = strVal(firstName)
		c.LastName = strVal(lastName)
		c.DOB = strVal(dob)
		c.Product = strVal(product)
		c.Phone = strVal(phone)
		c.Email = strVal(email)
		c.Address = strVal(address)
		c.City = strVal(city)
		c.State = strVal(state)
		c.Zip = strVal(zip)
		c.PrimaryDocName = strVal(primName)
		c.PrimaryDocFax = strVal(primFax)
		c.SecondaryDocName = strVal(secName)
		c.SecondaryDocFax = strVal(secFax)
		c.Status = strVal(status)
		c.AuthorizationLink = strVal(authLink)
		if authOnFile != nil {
			c.AuthorizationOnFile = *authOnFile
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read outreach cases: %w", err)
	}
	return cases, nil
}
