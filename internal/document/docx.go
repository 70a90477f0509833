package document

import (
	"context"
	"fmt"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/common/units"
	"github.com/gomutex/godocx/docx"
)

const maxImageWidthInch = 6.0

func (r *implRenderer) writeDOCX(ctx context.Context, c Content, path string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create docx: %w", err)
	}

	for _, b := range layout(c) {
		switch b.kind {
		case blockHeading:
			r.addStyledRun(doc.AddParagraph(""), b.text, true, headingSize(b.level, r.cfg.DOCXFontSize))
		case blockBullet:
			r.addRichText(doc.AddParagraph(""), "• "+b.text)
		case blockImage:
			w, h, err := imageSize(b.path, maxImageWidthInch)
			if err != nil {
				r.logger.Warn(ctx, "Skipping image %s: %v", b.path, err)
				continue
			}
			if _, err := doc.AddPicture(b.path, units.Inch(w), units.Inch(h)); err != nil {
				r.logger.Warn(ctx, "Skipping image %s: %v", b.path, err)
			}
		case blockCaption:
			p := doc.AddParagraph("")
			p.AddText(cleanMarkdownInline(b.text)).Font(r.cfg.DOCXFont).Size(r.cfg.DOCXFontSize - 2).Color("555555")
		default:
			r.addRichText(doc.AddParagraph(""), b.text)
		}
	}

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("save docx: %w", err)
	}
	return nil
}

func headingSize(level int, base uint64) uint64 {
	switch level {
	case 0:
		return 18
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return base
	}
}

func (r *implRenderer) addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(cleanMarkdownInline(text)).Font(r.cfg.DOCXFont).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func (r *implRenderer) addRichText(p *docx.Paragraph, text string) {
	for _, rn := range inlineRuns(text) {
		run := p.AddText(rn.text).Font(r.cfg.DOCXFont).Size(r.cfg.DOCXFontSize).Color("000000")
		if rn.bold {
			run.Bold(true)
		}
	}
}
