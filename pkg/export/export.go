// Package export turns workflow data into downloadable files.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	MimeJSON = "application/json"
	MimeCSV  = "text/csv"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Exporter hands a finished file to the user. It is fire-and-forget: failures
// are logged by the implementation, never returned.
type Exporter interface {
	ExportAsFile(filename, mimeType string, content []byte)
}

// Filename is prefix-<UTC timestamp>.ext, e.g.
// wasa-work-history-2026-03-10T09-30-00.000Z.json. Colons are replaced so the
// name is valid on every filesystem.
func Filename(prefix string, at time.Time, ext string) string {
	ts := at.UTC().Format("2006-01-02T15:04:05.000Z")
	return prefix + "-" + strings.ReplaceAll(ts, ":", "-") + "." + ext
}

type dir struct{ path string }

// NewDir writes exported files into path, creating it when needed.
func NewDir(path string) Exporter { return dir{path} }

func (d dir) ExportAsFile(filename, mimeType string, content []byte) {
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		log.Printf("[export] mkdir %s: %v", d.path, err)
		return
	}
	p := filepath.Join(d.path, filepath.Base(filename))
	if err := os.WriteFile(p, content, 0o644); err != nil {
		log.Printf("[export] write %s: %v", p, err)
		return
	}
	log.Printf("[export] wrote %s (%s, %d bytes)", p, mimeType, len(content))
}

// File is one export kept by a Recorder.
type File struct {
	Name     string
	MimeType string
	Content  []byte
}

// Recorder keeps exports in memory. The HTTP views serve the last one back as
// a download.
type Recorder struct {
	mu    sync.Mutex
	files []File
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) ExportAsFile(filename, mimeType string, content []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, File{Name: filename, MimeType: mimeType, Content: bytes.Clone(content)})
}

func (r *Recorder) Files() []File {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]File(nil), r.files...)
}

// Last returns the most recent export.
func (r *Recorder) Last() (File, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.files) == 0 {
		return File{}, false
	}
	return r.files[len(r.files)-1], true
}

// JSON is v pretty-printed with two-space indent.
func JSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// CSV writes header then rows.
func CSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// XLSX builds a one-sheet workbook with a header row.
func XLSX(sheet string, header []string, rows [][]any) ([]byte, error) {
	x := excelize.NewFile()
	defer x.Close()

	if err := x.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := x.SetSheetRow(sheet, "A1", &head); err != nil {
		return nil, fmt.Errorf("xlsx header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := x.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("xlsx row %d: %w", i+1, err)
		}
	}
	buf, err := x.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

type multi []Exporter

// Multi hands every file to each of outs in turn.
func Multi(outs ...Exporter) Exporter { return multi(outs) }

func (m multi) ExportAsFile(filename, mimeType string, content []byte) {
	for _, out := range m {
		out.ExportAsFile(filename, mimeType, content)
	}
}
