package processor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/mdoc/internal/analysis"
	"github.com/nguyentantai21042004/mdoc/internal/capture"
	"github.com/nguyentantai21042004/mdoc/internal/diagram"
	"github.com/nguyentantai21042004/mdoc/internal/document"
	"github.com/nguyentantai21042004/mdoc/internal/llm"
	"github.com/nguyentantai21042004/mdoc/internal/storage"
	"github.com/nguyentantai21042004/mdoc/internal/transcribe"
	"github.com/nguyentantai21042004/mdoc/internal/usage"
)

func (p *implProcessor) Generate(ctx context.Context, req GenerateRequest) (*Generated, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, fmt.Errorf("%w: doc_title is required", ErrInvalidRequest)
	}
	if req.DocType == "" {
		req.DocType = analysis.MeetingSummary
	}
	if req.Format == "" {
		req.Format = document.FormatPDF
	}
	if !p.deps.Analyzer.Available() {
		return nil, llm.ErrNotConfigured
	}

	sess, err := p.resolveSession(ctx, req)
	if err != nil {
		return nil, err
	}
	ctx = usage.WithSession(ctx, sess.GUID)

	p.logger.Info(ctx, "Generating %s (%s) for session %s", req.DocType, req.Format, sess.GUID)

	a, err := p.deps.Analyzer.Analyze(ctx, req.DocType, sess.Transcript, sess.Screenshots)
	if err != nil {
		if errors.Is(err, transcribe.ErrNoTranscript) {
			return nil, fmt.Errorf("%w: session %s has no transcript", ErrInvalidRequest, sess.GUID)
		}
		return nil, fmt.Errorf("analyze session: %w", err)
	}

	outDir := req.OutputDir
	if outDir == "" {
		outDir = filepath.Join(p.sessionDir(sess.GUID), "documents")
	}

	content := document.Content{
		Title:                   req.Title,
		Client:                  sess.ClientName,
		DocType:                 req.DocType,
		Date:                    p.now(),
		Analysis:                a,
		IncludeScreenshots:      req.IncludeScreenshots,
		IncludeMissingQuestions: req.MissingQuestions,
	}
	if req.IncludeScreenshots {
		content.Screenshots = sess.Screenshots
	}
	if req.ProcessMap {
		content.ProcessMapPNG = p.processMap(ctx, a, p.sessionDir(sess.GUID))
	}

	file, err := p.deps.Documents.Render(ctx, content, req.Format, outDir)
	if err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}

	return &Generated{File: *file, SessionGUID: sess.GUID, Analysis: a}, nil
}

func (p *implProcessor) resolveSession(ctx context.Context, req GenerateRequest) (*storage.Session, error) {
	if req.SessionGUID != "" {
		sess, err := p.Session(ctx, req.SessionGUID)
		if err != nil {
			return nil, err
		}
		if sess.VideoPath == "" || sess.ClientName == "" {
			return nil, fmt.Errorf("%w: session data incomplete", ErrInvalidRequest)
		}
		return sess, nil
	}

	if req.VideoPath == "" || req.ClientName == "" {
		return nil, fmt.Errorf("%w: either session_guid or both video_path and client_name are required", ErrInvalidRequest)
	}

	p.logger.Info(ctx, "Processing video to get screenshots and transcript: %s", req.VideoPath)
	res, err := p.Process(ctx, ProcessRequest{
		VideoPath:     req.VideoPath,
		ClientName:    req.ClientName,
		DetectionMode: capture.ModeBasic,
		UseSpeech:     true,
	})
	if err != nil {
		return nil, err
	}
	return res.Session, nil
}

// processMap renders the analysis process steps, returning "" when there is
// nothing to draw or the renderer failed.
func (p *implProcessor) processMap(ctx context.Context, a *analysis.Analysis, dir string) string {
	g, err := diagram.ProcessMap(a.ProcessSteps)
	if err != nil {
		if !errors.Is(err, diagram.ErrEmptyGraph) {
			p.logger.Warn(ctx, "Skipping process map: %v", err)
		}
		return ""
	}
	dest := filepath.Join(dir, "process_map.png")
	if err := p.deps.Diagrams.Render(ctx, g, dest); err != nil {
		p.logger.Warn(ctx, "Skipping process map: %v", err)
		return ""
	}
	return dest
}
