package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/mdoc/internal/analysis"
	"github.com/nguyentantai21042004/mdoc/internal/document"
	"github.com/nguyentantai21042004/mdoc/internal/llm"
	"github.com/nguyentantai21042004/mdoc/internal/processor"
)

var errBadForm = errors.New("bad form field")

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, processor.ErrSessionNotFound),
		errors.Is(err, processor.ErrVideoNotFound):
		return http.StatusNotFound
	case errors.Is(err, processor.ErrInvalidRequest),
		errors.Is(err, processor.ErrUnsupportedFile),
		errors.Is(err, analysis.ErrUnknownDocType),
		errors.Is(err, document.ErrUnknownFormat),
		errors.Is(err, errBadForm):
		return http.StatusBadRequest
	case errors.Is(err, document.ErrFontRequired):
		return http.StatusUnprocessableEntity
	case errors.Is(err, llm.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError responds with {"success": false, "detail": ...} and the status
// matching err.
func (s *Server) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	ctx := c.Request.Context()
	if status >= http.StatusInternalServerError {
		s.logger.Error(ctx, "%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		s.logger.Warn(ctx, "%s %s rejected: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"success": false, "detail": err.Error()})
}
