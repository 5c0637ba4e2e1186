package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/data-service/internal/document"
	"github.com/gogotex/data-service/internal/document/service"
	"github.com/gogotex/data-service/pkg/logger"
	"github.com/gogotex/data-service/pkg/metrics"
)

// TimestampLayout formats the server time on the welcome page.
const TimestampLayout = "2006-01-02 15:04:05.000000"

const (
	msgInserted = "Data inserted"
	msgInternal = "internal server error"
	msgTooLarge = "request body too large"
)

// Handler serves the public data API.
type Handler struct {
	svc          service.Service
	maxBodyBytes int64
	now          func() time.Time
}

// New returns a Handler over svc. maxBodyBytes <= 0 leaves POST bodies unbounded.
func New(svc service.Service, maxBodyBytes int64) *Handler {
	return &Handler{svc: svc, maxBodyBytes: maxBodyBytes, now: time.Now}
}

// Register mounts GET /, GET /data and POST /data.
func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/", h.Index)
	r.GET("/data", h.List)
	r.POST("/data", h.Create)
}

// Index returns a plain-text welcome line with the current server time.
func (h *Handler) Index(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to the data service! The current time is: %s", h.now().Format(TimestampLayout))
}

// List returns every stored document without its identifier.
func (h *Handler) List(c *gin.Context) {
	docs, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.internalError(c, "list documents", err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// Create stores a non-empty JSON object.
func (h *Handler) Create(c *gin.Context) {
	body := c.Request.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(c.Writer, body, h.maxBodyBytes)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			metrics.InvalidPayloads.WithLabelValues("too_large").Inc()
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": msgTooLarge})
			return
		}
		rejectBody(c, document.ErrUnparsable)
		return
	}

	doc, err := document.Parse(raw)
	if err != nil {
		rejectBody(c, err)
		return
	}

	if err := h.svc.Insert(c.Request.Context(), doc); err != nil {
		h.internalError(c, "insert document", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": msgInserted})
}

// rejectBody answers 400 for a Parse error: ErrNotObject or ErrUnparsable.
func rejectBody(c *gin.Context, err error) {
	if errors.Is(err, document.ErrNotObject) {
		metrics.InvalidPayloads.WithLabelValues("not_object").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": document.MsgNotObject})
		return
	}
	metrics.InvalidPayloads.WithLabelValues("unparsable").Inc()
	c.JSON(http.StatusBadRequest, gin.H{"error": document.MsgUnparsable})
}

func (h *Handler) internalError(c *gin.Context, op string, err error) {
	_ = c.Error(err)
	logger.Errorf("%s: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
}
