// Package pdfutil wraps the pdfcpu operations the pipeline needs: filling
// AcroForm templates and merging a slot folder into one outbound document.
package pdfutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// MergeOrder is the fixed page order of a merged document set. Files not
// matching any of these name patterns are ignored.
var MergeOrder = []string{"Request", "Prescription", "Authorization"}

type textField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type checkBox struct {
	Name  string `json:"name"`
	Value bool   `json:"value"`
}

type formPage struct {
	TextFields []textField `json:"textfield,omitempty"`
	CheckBoxes []checkBox  `json:"checkbox,omitempty"`
}

type formData struct {
	Forms []formPage `json:"forms"`
}

// Filler fills PDF form templates via pdfcpu.
type Filler struct{}

// Fill writes template's form filled with the given text fields and
// checkboxes to out.
func (Filler) Fill(template, out string, fields map[string]string, checks map[string]bool) error {
	page := formPage{}
	for _, name := range sortedKeys(fields) {
		page.TextFields = append(page.TextFields, textField{Name: name, Value: fields[name]})
	}
	for _, name := range sortedBoolKeys(checks) {
		page.CheckBoxes = append(page.CheckBoxes, checkBox{Name: name, Value: checks[name]})
	}

	data, err := json.Marshal(formData{Forms: []formPage{page}})
	if err != nil {
		return fmt.Errorf("encode form data: %w", err)
	}
	tmp, err := os.CreateTemp("", "formdata-*.json")
	if err != nil {
		return fmt.Errorf("create form data file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write form data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := api.FillFormFile(template, tmp.Name(), out, nil); err != nil {
		return fmt.Errorf("fill form %s: %w", filepath.Base(template), err)
	}
	return nil
}

// Merger merges PDFs via pdfcpu.
type Merger struct{}

// Merge concatenates inputs into out in the order given.
func (Merger) Merge(out string, inputs []string) error {
	if err := api.MergeCreateFile(inputs, out, false, nil); err != nil {
		return fmt.Errorf("merge %d documents: %w", len(inputs), err)
	}
	return nil
}

// OrderForMerge filters files down to the PDFs belonging to a document set
// and returns them in MergeOrder. Matching is a case-insensitive substring
// check on the file name, so generated names like Request_JaneDoe_doc1.pdf
// sort by kind regardless of listing order.
func OrderForMerge(files []string) []string {
	var ordered []string
	for _, kind := range MergeOrder {
		for _, f := range files {
			base := strings.ToLower(filepath.Base(f))
			if strings.HasSuffix(base, ".pdf") && strings.Contains(base, strings.ToLower(kind)) {
				ordered = append(ordered, f)
			}
		}
	}
	return ordered
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedBoolKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
