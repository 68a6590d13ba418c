package diagnostic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/apparentlymart/go-textseg/v13/textseg"
	"gitlab.com/tozd/go/errors"
)

// Formatter formats diagnostics into different output formats
type Formatter interface {
	// Format formats diagnostics into a specific output format
	Format(diagnostics *Diagnostics) ([]byte, error)
}

// VSCodeFormatter formats diagnostics into VSCode-compatible format
type VSCodeFormatter struct{}

// NewVSCodeFormatter creates a new VSCodeFormatter
func NewVSCodeFormatter() *VSCodeFormatter {
	return &VSCodeFormatter{}
}

type vscodePlace struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type vscodeRange struct {
	Start vscodePlace `json:"start"`
	End   vscodePlace `json:"end"`
}

type vscodeDiagnostic struct {
	Severity int         `json:"severity"`
	Code     string      `json:"code"`
	Source   string      `json:"source"`
	Message  string      `json:"message"`
	File     string      `json:"file"`
	Range    vscodeRange `json:"range"`
}

// VSCode severities: Error = 1, Warning = 2, Information = 3, Hint = 4
var vscodeSeverities = map[DiagnosticSeverity]int{
	SeverityError:       1,
	SeverityWarning:     2,
	SeverityInformation: 3,
	SeverityHint:        4,
}

// Format implements Formatter
func (f *VSCodeFormatter) Format(diagnostics *Diagnostics) ([]byte, error) {
	if diagnostics == nil {
		return nil, errors.Errorf("diagnostics is nil")
	}

	result := []vscodeDiagnostic{}
	for _, d := range diagnostics.All() {
		result = append(result, vscodeDiagnostic{
			Severity: vscodeSeverities[d.Severity],
			Code:     string(d.Kind),
			Source:   "goadoc",
			Message:  d.Message,
			File:     d.Path,
			Range: vscodeRange{
				Start: vscodePlace{Line: d.Range.Start.Line, Character: d.Range.Start.Character},
				End:   vscodePlace{Line: d.Range.End.Line, Character: d.Range.End.Character},
			},
		})
	}

	return json.Marshal(result)
}

// TextFormatter writes compiler style lines followed by the offending source
// line and a marker under the span. Columns count grapheme clusters.
type TextFormatter struct {
	// Sources maps paths to their text, for the source excerpt
	Sources map[string]string
}

func NewTextFormatter(sources map[string]string) *TextFormatter {
	return &TextFormatter{Sources: sources}
}

// Format implements Formatter
func (f *TextFormatter) Format(diagnostics *Diagnostics) ([]byte, error) {
	if diagnostics == nil {
		return nil, errors.Errorf("diagnostics is nil")
	}

	var buf bytes.Buffer
	for _, d := range diagnostics.All() {
		text, ok := f.Sources[d.Path]
		col := d.Range.Start.Character + 1
		if ok {
			col = d.Location.GetDisplayColumn(text) + 1
		}
		fmt.Fprintf(&buf, "%s:%d:%d: %s: %s [%s]\n", d.Path, d.Range.Start.Line+1, col, d.Severity, d.Message, d.Kind)

		if !ok {
			continue
		}
		line := sourceLine(text, d.Location.Offset)
		width := displayWidth(d.Location.Text)
		if width == 0 {
			width = 1
		}
		fmt.Fprintf(&buf, "  %s\n  %s%s\n", line, strings.Repeat(" ", col-1), strings.Repeat("^", width))
	}
	return buf.Bytes(), nil
}

func sourceLine(text string, offset int) string {
	if offset > len(text) {
		offset = len(text)
	}
	start := strings.LastIndexByte(text[:offset], '\n') + 1
	end := strings.IndexByte(text[offset:], '\n')
	if end < 0 {
		return text[start:]
	}
	return text[start : offset+end]
}

func displayWidth(s string) int {
	n, err := textseg.TokenCount([]byte(s), textseg.ScanGraphemeClusters)
	if err != nil {
		return len(s)
	}
	return n
}
