package handlers

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/GeneHighlighter/internal/application/highlighting"
	"github.com/turtacn/GeneHighlighter/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GeneHighlighter/pkg/errors"
)

// Annotator is the part of the highlighting service the handler needs.
type Annotator interface {
	Annotate(ctx context.Context, text string) (*highlighting.Annotation, error)
}

// AnnotateRequest is the body of POST /api/v1/annotate.
type AnnotateRequest struct {
	Text string `json:"text" binding:"required"`
}

// AnnotateHandler runs the pipeline over a single text.
type AnnotateHandler struct {
	annotator Annotator
	logger    logging.Logger
}

// NewAnnotateHandler creates an AnnotateHandler.
func NewAnnotateHandler(annotator Annotator, logger logging.Logger) *AnnotateHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &AnnotateHandler{annotator: annotator, logger: logger.Named("annotate")}
}

// Annotate handles POST /api/v1/annotate.
func (h *AnnotateHandler) Annotate(c *gin.Context) {
	var req AnnotateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var maxBytes *http.MaxBytesError
		if stderrors.As(err, &maxBytes) {
			writeAppError(c, err)
			return
		}
		writeError(c, http.StatusBadRequest, errors.CodeInvalidParam, "request body must be JSON with a non-empty \"text\" field")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(c, http.StatusBadRequest, errors.CodeInvalidParam, "text is required")
		return
	}

	ann, err := h.annotator.Annotate(c.Request.Context(), req.Text)
	if err != nil {
		h.logger.WithContext(c.Request.Context()).WithError(err).Warn("annotation failed")
		writeAppError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, ann)
}

//Personal.AI order the ending
