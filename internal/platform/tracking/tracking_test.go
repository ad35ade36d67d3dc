package tracking

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

func reportRows() [][]string {
	return [][]string{
		{"faxID", "faxNumber", "reasonForFailure"},
		{"101", "4048475393", "no answer"},
	}
}

func TestAppendSheet_CreatesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracking.xlsx")
	w := NewWorkbook(path, zerolog.Nop())

	if err := w.AppendSheet("06-10-2024", reportRows()); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "06-10-2024" {
		t.Fatalf("sheets = %v, want only the dated sheet", sheets)
	}
	got, err := f.GetCellValue("06-10-2024", "A2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "101" {
		t.Errorf("A2 = %q, want 101", got)
	}
	got, _ = f.GetCellValue("06-10-2024", "C1")
	if got != "reasonForFailure" {
		t.Errorf("C1 = %q", got)
	}
}

func TestAppendSheet_AddsSheetToExistingWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracking.xlsx")
	w := NewWorkbook(path, zerolog.Nop())

	if err := w.AppendSheet("06-10-2024", reportRows()); err != nil {
		t.Fatal(err)
	}
	if err := w.AppendSheet("06-11-2024", reportRows()); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 {
		t.Errorf("sheets = %v, want both dated sheets", sheets)
	}
}

func TestAppendSheet_ReusesSheetForSameDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracking.xlsx")
	w := NewWorkbook(path, zerolog.Nop())

	if err := w.AppendSheet("06-10-2024", reportRows()); err != nil {
		t.Fatal(err)
	}
	rerun := [][]string{
		{"faxID", "faxNumber", "reasonForFailure"},
		{"202", "7705550144", "busy"},
	}
	if err := w.AppendSheet("06-10-2024", rerun); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 {
		t.Fatalf("sheets = %v, want one", sheets)
	}
	got, _ := f.GetCellValue("06-10-2024", "A2")
	if got != "202" {
		t.Errorf("A2 = %q, want the rerun's value", got)
	}
}
