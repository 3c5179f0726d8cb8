package zip

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestZipFiles(t *testing.T) {
	dir := t.TempDir()
	subDir := filepath.Join(dir, `reports`)
	err := os.MkdirAll(subDir, 0755)
	if err != nil {
		t.Fatal(err)
	}
	fileA := filepath.Join(dir, `summary.xlsx`)
	fileB := filepath.Join(subDir, `wer.html`)
	err = os.WriteFile(fileA, []byte(`excel content`), 0644)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(fileB, []byte(`<html>report</html>`), 0644)
	if err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, `attachments.zip`)
	size, err := ZipFiles(target, []string{fileA, fileB})
	if err != nil {
		t.Fatal(err)
	}
	if size == 0 {
		t.Fatal(`Archive size should not be zero`)
	}
	reader, err := zip.OpenReader(target)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()
	if len(reader.File) != 2 {
		t.Fatal(`Expected 2 entries, got`, len(reader.File))
	}
	// Entries are flattened to base names
	names := map[string]bool{}
	for _, file := range reader.File {
		names[file.Name] = true
	}
	if !names[`summary.xlsx`] || !names[`wer.html`] {
		t.Error(`Wrong entry names`, names)
	}
}

func TestZipFilesEmpty(t *testing.T) {
	_, err := ZipFiles(filepath.Join(t.TempDir(), `empty.zip`), nil)
	if err == nil {
		t.Fatal(`Zipping nothing should fail`)
	}
}

func TestZipFilesMissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := ZipFiles(filepath.Join(dir, `bad.zip`), []string{filepath.Join(dir, `no_such_file`)})
	if err == nil {
		t.Fatal(`Missing source file should fail`)
	}
}
