package reconcile

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/motusnova/faxoutreach/internal/platform/faxapi"
)

type fakeHistory struct {
	ids     []string
	faxes   map[string]faxapi.SentFax
	listErr error
	getErr  map[string]error

	gotFrom, gotTo time.Time
	gotLine        string
}

func (h *fakeHistory) ListSentFaxes(ctx context.Context, from, to time.Time, fromNumber string) ([]string, error) {
	h.gotFrom, h.gotTo, h.gotLine = from, to, fromNumber
	return h.ids, h.listErr
}

func (h *fakeHistory) GetSentFax(ctx context.Context, faxID string) (faxapi.SentFax, error) {
	if err := h.getErr[faxID]; err != nil {
		return faxapi.SentFax{}, err
	}
	return h.faxes[faxID], nil
}

type fakeEmail struct {
	to      []string
	subject string
	body    string
	err     error
}

func (e *fakeEmail) SendEmail(ctx context.Context, to []string, subject, body string) error {
	e.to, e.subject, e.body = to, subject, body
	return e.err
}

type fakeTracker struct {
	sheet string
	rows  [][]string
	err   error
}

func (t *fakeTracker) AppendSheet(sheetName string, rows [][]string) error {
	t.sheet, t.rows = sheetName, rows
	return t.err
}

func sentFax(id, status, toNumber, reason string) faxapi.SentFax {
	return faxapi.SentFax{
		ID:     id,
		Status: status,
		Recipients: []faxapi.SentFaxRecipient{
			{ToNumber: toNumber, FailureReason: reason},
		},
	}
}

func runAt() time.Time {
	return time.Date(2024, 6, 10, 13, 30, 0, 0, time.UTC)
}

func newTestJob(h *fakeHistory, e *fakeEmail, tr *fakeTracker) *Job {
	j := NewJob(h, e, tr, "4045550100", []string{"ops@example.com"}, zerolog.Nop())
	j.now = runAt
	return j
}

func TestWindow(t *testing.T) {
	start, end := Window(time.Date(2024, 6, 10, 15, 45, 0, 0, time.UTC))
	if !start.Equal(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %s", start)
	}
	if !end.Equal(time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %s", end)
	}
}

func TestWindow_NormalizesToUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	// 22:00 EST on June 9 is already June 10 in UTC
	start, _ := Window(time.Date(2024, 6, 9, 22, 0, 0, 0, est))
	if !start.Equal(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %s, want June 10 midnight UTC", start)
	}
}

func TestJobRun_CollectsOnlyFailures(t *testing.T) {
	h := &fakeHistory{
		ids: []string{"1", "2", "3"},
		faxes: map[string]faxapi.SentFax{
			"1": sentFax("1", "success", "+14048475393", ""),
			"2": sentFax("2", "failure", "+17705550144", "no answer"),
			"3": sentFax("3", "failure", "4045550199", "busy"),
		},
	}
	email := &fakeEmail{}
	tracker := &fakeTracker{}
	report, err := newTestJob(h, email, tracker).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(report.Failures) != 2 {
		t.Fatalf("failures = %d, want 2", len(report.Failures))
	}
	// the country-code prefix is stripped, bare numbers pass through
	if report.Failures[0].Number != "17705550144" {
		t.Errorf("first failure number = %q", report.Failures[0].Number)
	}
	if report.Failures[1].Number != "4045550199" {
		t.Errorf("second failure number = %q", report.Failures[1].Number)
	}
	if report.Failures[0].Reason != "no answer" {
		t.Errorf("first failure reason = %q", report.Failures[0].Reason)
	}
}

func TestJobRun_QueriesConfiguredWindowAndLine(t *testing.T) {
	h := &fakeHistory{}
	job := newTestJob(h, &fakeEmail{}, &fakeTracker{})
	if _, err := job.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	wantStart, wantEnd := Window(runAt())
	if !h.gotFrom.Equal(wantStart) || !h.gotTo.Equal(wantEnd) {
		t.Errorf("queried window %s..%s", h.gotFrom, h.gotTo)
	}
	if h.gotLine != "4045550100" {
		t.Errorf("queried line = %q", h.gotLine)
	}
}

func TestJobRun_ListFailureIsFatal(t *testing.T) {
	h := &fakeHistory{listErr: errors.New("unauthorized")}
	if _, err := newTestJob(h, &fakeEmail{}, &fakeTracker{}).Run(context.Background()); err == nil {
		t.Fatal("expected error when send history cannot be listed")
	}
}

func TestJobRun_SingleLookupFailureSkipsRecord(t *testing.T) {
	h := &fakeHistory{
		ids: []string{"1", "2"},
		faxes: map[string]faxapi.SentFax{
			"2": sentFax("2", "failure", "+17705550144", "no answer"),
		},
		getErr: map[string]error{"1": errors.New("timeout")},
	}
	report, err := newTestJob(h, &fakeEmail{}, &fakeTracker{}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Failures) != 1 || report.Failures[0].ID != "2" {
		t.Errorf("failures = %+v", report.Failures)
	}
}

func TestJobRun_DeliversEmailAndTrackingSheet(t *testing.T) {
	h := &fakeHistory{
		ids:   []string{"1"},
		faxes: map[string]faxapi.SentFax{"1": sentFax("1", "failure", "+14048475393", "busy")},
	}
	email := &fakeEmail{}
	tracker := &fakeTracker{}
	if _, err := newTestJob(h, email, tracker).Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(email.to) != 1 || email.to[0] != "ops@example.com" {
		t.Errorf("email recipients = %v", email.to)
	}
	if email.subject != "List of Failed Faxes - 06/10/2024" {
		t.Errorf("subject = %q", email.subject)
	}
	if tracker.sheet != "06-10-2024" {
		t.Errorf("sheet = %q", tracker.sheet)
	}
	if len(tracker.rows) != 2 {
		t.Fatalf("tracking rows = %v", tracker.rows)
	}
	if tracker.rows[1][0] != "1" || tracker.rows[1][1] != "14048475393" || tracker.rows[1][2] != "busy" {
		t.Errorf("tracking data row = %v", tracker.rows[1])
	}
}

func TestJobRun_DeliveryFailuresDoNotFailRun(t *testing.T) {
	h := &fakeHistory{}
	email := &fakeEmail{err: errors.New("smtp down")}
	tracker := &fakeTracker{err: errors.New("workbook locked")}
	if _, err := newTestJob(h, email, tracker).Run(context.Background()); err != nil {
		t.Errorf("delivery failures escalated: %v", err)
	}
}

func TestJobRun_EmptyWindowStillEmailsNoFailures(t *testing.T) {
	email := &fakeEmail{}
	if _, err := newTestJob(&fakeHistory{}, email, &fakeTracker{}).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if email.body != NoFailuresMessage {
		t.Errorf("body = %q, want the no-failures message", email.body)
	}
}

func TestReportEmailBody_Table(t *testing.T) {
	r := Report{
		Date: runAt(),
		Failures: []FailedFax{
			{ID: "101", Number: "4048475393", Reason: "no answer"},
			{ID: "102", Number: "7705550144", Reason: "busy"},
		},
	}
	body := r.EmailBody()
	lines := strings.Split(body, "\n")
	if lines[0] != "List of Failed Faxes:" {
		t.Errorf("title = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "faxID") || !strings.Contains(lines[2], "reasonForFailure") {
		t.Errorf("header = %q", lines[2])
	}
	if !strings.Contains(body, "101    4048475393  no answer") {
		t.Errorf("data row misaligned:\n%s", body)
	}
}

func TestReportEmailBody_Empty(t *testing.T) {
	r := Report{Date: runAt()}
	if got := r.EmailBody(); got != "There are no failed faxes for the specified date." {
		t.Errorf("empty body = %q", got)
	}
}

func TestReportRows_HeaderFirst(t *testing.T) {
	r := Report{Date: runAt(), Failures: []FailedFax{{ID: "1", Number: "2", Reason: "3"}}}
	rows := r.Rows()
	if rows[0][0] != "faxID" || rows[0][1] != "faxNumber" || rows[0][2] != "reasonForFailure" {
		t.Errorf("header row = %v", rows[0])
	}
}
