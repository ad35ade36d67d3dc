package reconcile

import (
	"fmt"
	"strings"
	"time"
)

// NoFailuresMessage is the report body when the window contains no failed
// faxes.
const NoFailuresMessage = "There are no failed faxes for the specified date."

var reportHeader = []string{"faxID", "faxNumber", "reasonForFailure"}

// FailedFax is one failed transmission: the provider's record id, the
// recipient number with the country-code prefix stripped, and the provider's
// failure reason.
type FailedFax struct {
	ID     string
	Number string
	Reason string
}

// Report is the outcome of one reconciliation run.
type Report struct {
	Date     time.Time
	Failures []FailedFax
}

// Subject is the report email subject line.
func (r Report) Subject() string {
	return "List of Failed Faxes - " + r.Date.Format("01/02/2006")
}

// SheetName names the tracking-workbook sheet for this run's date. Slashes
// are not legal in sheet names, so the date is dash-separated there.
func (r Report) SheetName() string {
	return r.Date.Format("01-02-2006")
}

// Rows renders the report as tabular data for the tracking workbook,
// header first.
func (r Report) Rows() [][]string {
	rows := [][]string{reportHeader}
	for _, f := range r.Failures {
		rows = append(rows, []string{f.ID, f.Number, f.Reason})
	}
	return rows
}

// EmailBody renders the report as a plain-text table. An empty report
// produces an explicit no-failures message rather than an empty table.
func (r Report) EmailBody() string {
	if len(r.Failures) == 0 {
		return NoFailuresMessage
	}

	widths := make([]int, len(reportHeader))
	for i, h := range reportHeader {
		widths[i] = len(h)
	}
	for _, f := range r.Failures {
		for i, v := range []string{f.ID, f.Number, f.Reason} {
			if len(v) > widths[i] {
				widths[i] = len(v)
			}
		}
	}

	var b strings.Builder
	b.WriteString("List of Failed Faxes:\n\n")
	writeRow := func(cols []string) {
		cells := make([]string, len(cols))
		for i, v := range cols {
			cells[i] = fmt.Sprintf("%-*s", widths[i], v)
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, "  "), " "))
		b.WriteString("\n")
	}
	writeRow(reportHeader)
	for _, f := range r.Failures {
		writeRow([]string{f.ID, f.Number, f.Reason})
	}
	return strings.TrimRight(b.String(), "\n")
}
