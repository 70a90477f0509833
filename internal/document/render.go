package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (r *implRenderer) Render(ctx context.Context, c Content, format Format, dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var files []File
	if format.WantsPDF() {
		name := Filename(c.Title, c.DocType, c.Date, "pdf")
		path := filepath.Join(dir, name)
		if err := r.writePDF(ctx, c, path); err != nil {
			return nil, err
		}
		files = append(files, File{Name: name, Path: path, MIME: MIMEPDF})
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if format.WantsDOCX() {
		name := Filename(c.Title, c.DocType, c.Date, "docx")
		path := filepath.Join(dir, name)
		if err := r.writeDOCX(ctx, c, path); err != nil {
			return nil, err
		}
		files = append(files, File{Name: name, Path: path, MIME: MIMEDOCX})
	}

	switch len(files) {
	case 0:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	case 1:
		r.logger.Info(ctx, "Rendered %s", files[0].Name)
		return &files[0], nil
	}

	name := strings.TrimSuffix(files[0].Name, ".pdf") + ".zip"
	path := filepath.Join(dir, name)
	if err := Bundle(path, files); err != nil {
		return nil, err
	}
	r.logger.Info(ctx, "Rendered %s (%d files)", name, len(files))
	return &File{Name: name, Path: path, MIME: MIMEZIP}, nil
}
