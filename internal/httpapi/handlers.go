package httpapi

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nguyentantai21042004/mdoc/internal/analysis"
	"github.com/nguyentantai21042004/mdoc/internal/capture"
	"github.com/nguyentantai21042004/mdoc/internal/document"
	"github.com/nguyentantai21042004/mdoc/internal/media"
	"github.com/nguyentantai21042004/mdoc/internal/processor"
	"github.com/nguyentantai21042004/mdoc/internal/usage"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": s.cfg.ServiceName})
}

func (s *Server) handleUpload(c *gin.Context) {
	if s.cfg.MaxUploadMB > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadMB<<20)
	}

	file, err := c.FormFile("file")
	if err != nil {
		s.writeError(c, fmt.Errorf("%w: file: %w", errBadForm, err))
		return
	}
	if !media.HasExtension(file.Filename, media.UploadExtensions) {
		s.writeError(c, fmt.Errorf("%w: Invalid file type. Allowed: %s",
			processor.ErrUnsupportedFile, strings.Join(media.UploadExtensions, ", ")))
		return
	}

	req := processor.ProcessRequest{
		ClientName:    strings.TrimSpace(c.PostForm("client_name")),
		DetectionMode: c.DefaultPostForm("detection_mode", capture.ModeBasic),
	}
	if req.ClientName == "" {
		s.writeError(c, fmt.Errorf("%w: client_name is required", errBadForm))
		return
	}
	for _, f := range []struct {
		name string
		def  bool
		dst  *bool
	}{
		{"use_speech", true, &req.UseSpeech},
		{"use_mouse_detection", true, &req.UseMouse},
		{"use_scene_detection", false, &req.UseScene},
		{"use_ai_analysis", true, &req.UseAI},
	} {
		if *f.dst, err = formBool(c, f.name, f.def); err != nil {
			s.writeError(c, err)
			return
		}
	}

	if err := os.MkdirAll(s.uploadsDir, 0755); err != nil {
		s.writeError(c, fmt.Errorf("create uploads dir: %w", err))
		return
	}
	req.VideoPath = filepath.Join(s.uploadsDir, uuid.NewString()+"_"+filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, req.VideoPath); err != nil {
		s.writeError(c, fmt.Errorf("save upload: %w", err))
		return
	}

	res, err := s.proc.Process(c.Request.Context(), req)
	if err != nil {
		if rmErr := os.Remove(req.VideoPath); rmErr != nil && !os.IsNotExist(rmErr) {
			s.logger.Warn(c.Request.Context(), "Failed to remove upload %s: %v", req.VideoPath, rmErr)
		}
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(res.Session, res.Message))
}

func (s *Server) handleGenerate(c *gin.Context) {
	docType, err := analysis.ParseDocType(c.Param("doc_type"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	format, err := document.ParseFormat(c.DefaultPostForm("doc_format", string(document.FormatPDF)))
	if err != nil {
		s.writeError(c, err)
		return
	}

	req := processor.GenerateRequest{
		DocType:     docType,
		Title:       c.PostForm("doc_title"),
		Format:      format,
		SessionGUID: strings.TrimSpace(c.PostForm("session_guid")),
		VideoPath:   c.PostForm("video_path"),
		ClientName:  c.PostForm("client_name"),
	}
	if strings.TrimSpace(req.Title) == "" {
		s.writeError(c, fmt.Errorf("%w: doc_title is required", errBadForm))
		return
	}
	for _, f := range []struct {
		name string
		dst  *bool
	}{
		{"enable_missing_questions", &req.MissingQuestions},
		{"enable_process_map", &req.ProcessMap},
		{"include_screenshots", &req.IncludeScreenshots},
	} {
		if *f.dst, err = formBool(c, f.name, true); err != nil {
			s.writeError(c, err)
			return
		}
	}

	gen, err := s.proc.Generate(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Header("Content-Type", gen.File.MIME)
	c.Header("X-Session-GUID", gen.SessionGUID)
	c.FileAttachment(gen.File.Path, gen.File.Name)
}

func (s *Server) handleSession(c *gin.Context) {
	sess, err := s.proc.Session(c.Request.Context(), c.Param("guid"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(sess, ""))
}

// handleListSessions returns the newest sessions, ?limit=N (default 50).
func (s *Server) handleListSessions(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(c, fmt.Errorf("%w: limit must be a positive integer", errBadForm))
			return
		}
		limit = n
	}

	sessions, err := s.proc.Sessions(c.Request.Context(), limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	out := make([]sessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, newSessionResponse(sess, ""))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sessions": out, "count": len(out)})
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	guid := c.Param("guid")
	if err := s.proc.DeleteSession(c.Request.Context(), guid); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session_guid": guid})
}

// handleUsage reports spend since ?since=<RFC3339> or the last ?days=N,
// all time by default.
func (s *Server) handleUsage(c *gin.Context) {
	var since time.Time
	if v := c.Query("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			s.writeError(c, fmt.Errorf("%w: since must be RFC3339", errBadForm))
			return
		}
		since = t
	} else if v := c.Query("days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			s.writeError(c, fmt.Errorf("%w: days must be a positive integer", errBadForm))
			return
		}
		since = time.Now().AddDate(0, 0, -days)
	}

	totals, err := s.proc.Usage(c.Request.Context(), since)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if totals == nil {
		totals = []usage.Total{}
	}
	var cost float64
	for _, t := range totals {
		cost += t.Cost
	}
	resp := gin.H{"success": true, "totals": totals, "total_cost": cost}
	if !since.IsZero() {
		resp["since"] = since.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}

func formBool(c *gin.Context, name string, def bool) (bool, error) {
	v, ok := c.GetPostForm(name)
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("%w: %s must be true or false", errBadForm, name)
	}
	return b, nil
}
