package document

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

const (
	pdfFamilyCore = "Helvetica"
	pdfFamilyUTF8 = "body"
	pdfBodySize   = 11.0
	ptToMM        = 0.3528
)

func (r *implRenderer) writePDF(ctx context.Context, c Content, path string) error {
	blocks := layout(c)
	if r.cfg.PDFFont == "" {
		if ch, ok := firstNonCP1252(blocks); ok {
			return fmt.Errorf("%w: %q", ErrFontRequired, ch)
		}
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	family := pdfFamilyCore
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if r.cfg.PDFFont != "" {
		bold := r.cfg.PDFFontBold
		if bold == "" {
			bold = r.cfg.PDFFont
		}
		pdf.AddUTF8Font(pdfFamilyUTF8, "", r.cfg.PDFFont)
		pdf.AddUTF8Font(pdfFamilyUTF8, "B", bold)
		family = pdfFamilyUTF8
		tr = func(s string) string { return s }
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(family, "", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	pdf.AddPage()

	left, _, right, _ := pdf.GetMargins()
	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - left - right
	lineH := pdfBodySize * ptToMM * 1.4

	for _, b := range blocks {
		switch b.kind {
		case blockHeading:
			size := float64(headingSize(b.level, uint64(pdfBodySize)))
			pdf.Ln(2)
			pdf.SetFont(family, "B", size)
			pdf.MultiCell(0, size*ptToMM*1.3, tr(cleanMarkdownInline(b.text)), "", "L", false)
			pdf.Ln(1)
		case blockBullet:
			pdf.SetLeftMargin(left + 6)
			pdf.SetX(left + 2)
			pdf.SetFont(family, "", pdfBodySize)
			pdf.Write(lineH, tr("• "))
			writeRuns(pdf, family, lineH, tr, b.text)
			pdf.Ln(lineH)
			pdf.SetLeftMargin(left)
		case blockImage:
			wPx, hPx, err := imageSize(b.path, 0)
			if err != nil || wPx == 0 {
				r.logger.Warn(ctx, "Skipping image %s: %v", b.path, err)
				continue
			}
			w := contentW
			h := w * hPx / wPx
			if limit := pageH / 2; h > limit {
				h = limit
				w = h * wPx / hPx
			}
			_, _, _, bottom := pdf.GetMargins()
			if pdf.GetY()+h > pageH-bottom {
				pdf.AddPage()
			}
			y := pdf.GetY()
			opts := fpdf.ImageOptions{ImageType: imageType(b.path), ReadDpi: true}
			pdf.ImageOptions(b.path, left+(contentW-w)/2, y, w, h, false, opts, 0, "")
			pdf.SetY(y + h + 2)
		case blockCaption:
			pdf.SetFont(family, "", pdfBodySize-2)
			pdf.SetTextColor(85, 85, 85)
			pdf.MultiCell(0, lineH, tr(cleanMarkdownInline(b.text)), "", "C", false)
			pdf.SetTextColor(0, 0, 0)
			pdf.Ln(2)
		default:
			writeRuns(pdf, family, lineH, tr, b.text)
			pdf.Ln(lineH + 1)
		}
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("render pdf: %w", err)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("save pdf: %w", err)
	}
	return nil
}

// firstNonCP1252 returns the first rune the core PDF fonts cannot show.
func firstNonCP1252(blocks []block) (rune, bool) {
	for _, b := range blocks {
		for _, ch := range plainText(b.text) {
			if _, ok := charmap.Windows1252.EncodeRune(ch); !ok {
				return ch, true
			}
		}
	}
	return 0, false
}

func writeRuns(pdf *fpdf.Fpdf, family string, lineH float64, tr func(string) string, text string) {
	for _, rn := range inlineRuns(text) {
		style := ""
		if rn.bold {
			style = "B"
		}
		pdf.SetFont(family, style, pdfBodySize)
		pdf.Write(lineH, tr(rn.text))
	}
}

func imageType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "JPG"
	case ".gif":
		return "GIF"
	default:
		return "PNG"
	}
}
