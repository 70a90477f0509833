package document

import "context"

// File is one rendered artifact on disk.
type File struct {
	Name string
	Path string
	MIME string
}

// Renderer turns analysed meeting content into deliverable files.
type Renderer interface {
	// Render writes the requested format into dir. FormatBoth yields a single
	// zip holding the PDF and the DOCX.
	Render(ctx context.Context, c Content, format Format, dir string) (*File, error)
}
