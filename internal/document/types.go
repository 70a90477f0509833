package document

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/mdoc/internal/analysis"
	"github.com/nguyentantai21042004/mdoc/internal/capture"
)

// Format is the requested output.
type Format string

const (
	FormatPDF  Format = "PDF"
	FormatDOCX Format = "DOCX"
	FormatBoth Format = "Both"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEZIP  = "application/zip"
)

var (
	ErrUnknownFormat = errors.New("unknown document format")
	// ErrFontRequired means the text needs document.pdf_font to render as PDF.
	ErrFontRequired = errors.New("pdf needs a unicode font for this text")
)

// ParseFormat accepts PDF, DOCX (or WORD) and Both in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PDF":
		return FormatPDF, nil
	case "DOCX", "WORD":
		return FormatDOCX, nil
	case "BOTH":
		return FormatBoth, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) WantsPDF() bool  { return f == FormatPDF || f == FormatBoth }
func (f Format) WantsDOCX() bool { return f == FormatDOCX || f == FormatBoth }

// Content is everything a rendered document shows.
type Content struct {
	Title                   string
	Client                  string
	DocType                 analysis.DocType
	Date                    time.Time
	Analysis                *analysis.Analysis
	Screenshots             []capture.Screenshot
	ProcessMapPNG           string
	IncludeScreenshots      bool
	IncludeMissingQuestions bool
}

// Filename builds "<title>_<doc_type>_<YYYY-MM-DD>.<ext>" with spaces in the
// title replaced by underscores.
func Filename(title string, docType analysis.DocType, date time.Time, ext string) string {
	safe := strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
	safe = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '"', '*', '?', '<', '>', '|':
			return '-'
		}
		return r
	}, safe)
	if safe == "" {
		safe = "document"
	}
	return fmt.Sprintf("%s_%s_%s.%s", safe, docType, date.Format("2006-01-02"), strings.TrimPrefix(ext, "."))
}
