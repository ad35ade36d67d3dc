// Package tracking appends reconciliation reports to the failed-fax tracking
// workbook, one dated sheet per run.
package tracking

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Workbook is an xlsx tracking file. The file is created on first use.
type Workbook struct {
	Path   string
	logger zerolog.Logger
}

func NewWorkbook(path string, logger zerolog.Logger) *Workbook {
	return &Workbook{Path: path, logger: logger}
}

// AppendSheet writes rows starting at A1 of the named sheet, creating the
// sheet if absent and reusing it otherwise. Earlier cells on a reused sheet
// are overwritten in place.
func (w *Workbook) AppendSheet(sheetName string, rows [][]string) error {
	f, created, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return fmt.Errorf("look up sheet %q: %w", sheetName, err)
	}
	if idx < 0 {
		if _, err := f.NewSheet(sheetName); err != nil {
			return fmt.Errorf("create sheet %q: %w", sheetName, err)
		}
		w.logger.Info().Str("sheet", sheetName).Msg("tracking sheet created")
	} else {
		w.logger.Info().Str("sheet", sheetName).Msg("tracking sheet reused")
	}
	if created && sheetName != "Sheet1" {
		// a fresh workbook carries a default sheet we never write to
		f.DeleteSheet("Sheet1")
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("cell coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(w.Path); err != nil {
		return fmt.Errorf("save tracking workbook: %w", err)
	}
	return nil
}

func (w *Workbook) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(w.Path); os.IsNotExist(err) {
		return excelize.NewFile(), true, nil
	}
	f, err := excelize.OpenFile(w.Path)
	if err != nil {
		return nil, false, fmt.Errorf("open tracking workbook: %w", err)
	}
	return f, false, nil
}
