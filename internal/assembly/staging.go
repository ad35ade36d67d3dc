package assembly

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RoutingFileName is the per-slot routing target: line 1 the standardized
// fax number, line 2 the recipient name. A slot without this file is skipped
// at transmission time.
const RoutingFileName = "doctor_fax.txt"

// Staging owns the on-disk tree that carries document sets from the
// generation run to the transmission run. One run assumes exclusive
// ownership of the tree for its duration.
type Staging struct {
	Root string
}

// Reset tears the whole tree down and recreates it empty, so no stale
// documents leak into a new batch.
func (s Staging) Reset() error {
	if err := os.RemoveAll(s.Root); err != nil {
		return fmt.Errorf("remove staging tree: %w", err)
	}
	if err := os.MkdirAll(s.Root, 0o777); err != nil {
		return fmt.Errorf("create staging tree: %w", err)
	}
	return nil
}

// Teardown removes the tree after a successful transmission run.
func (s Staging) Teardown() error {
	return os.RemoveAll(s.Root)
}

// PatientDir creates and returns the per-patient folder
// {Root}/{name}_RequestDocs. A collision with another patient of the same
// name is resolved by suffixing an incrementing counter instead of
// overwriting.
func (s Staging) PatientDir(name string) (string, error) {
	base := filepath.Join(s.Root, name+"_RequestDocs")
	dir := base
	for n := 2; ; n++ {
		err := os.Mkdir(dir, 0o777)
		if err == nil {
			return dir, nil
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("create patient folder: %w", err)
		}
		dir = fmt.Sprintf("%s_%d", base, n)
	}
}

// SlotDir creates and returns the slot subfolder inside a patient folder.
func (s Staging) SlotDir(patientDir, slotName string) (string, error) {
	dir := filepath.Join(patientDir, slotName)
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return "", fmt.Errorf("create slot folder: %w", err)
	}
	return dir, nil
}

// PatientDirs lists the patient folders currently staged.
func (s Staging) PatientDirs() ([]string, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, fmt.Errorf("read staging tree: %w", err)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(s.Root, e.Name()))
		}
	}
	return dirs, nil
}

// SlotDirs lists the slot subfolders of one patient folder.
func (s Staging) SlotDirs(patientDir string) ([]string, error) {
	entries, err := os.ReadDir(patientDir)
	if err != nil {
		return nil, fmt.Errorf("read patient folder: %w", err)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(patientDir, e.Name()))
		}
	}
	return dirs, nil
}

// WriteRoutingFile records the transmission target for a slot.
func WriteRoutingFile(slotDir, faxNumber, recipientName string) error {
	path := filepath.Join(slotDir, RoutingFileName)
	content := faxNumber + "\n" + recipientName
	if err := os.WriteFile(path, []byte(content), 0o666); err != nil {
		return fmt.Errorf("write routing file: %w", err)
	}
	return nil
}

// ReadRoutingFile reads a slot's transmission target. It fails when the file
// is absent or has fewer than two lines.
func ReadRoutingFile(slotDir string) (faxNumber, recipientName string, err error) {
	data, err := os.ReadFile(filepath.Join(slotDir, RoutingFileName))
	if err != nil {
		return "", "", err
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) < 2 {
		return "", "", fmt.Errorf("routing file in %s: expected at least two lines", slotDir)
	}
	return strings.TrimSpace(lines[0]), strings.TrimSpace(lines[1]), nil
}
