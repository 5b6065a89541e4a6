package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sqlpager/internal/shared"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	requestTimeout  = 30 * time.Second
)

type server struct {
	catalog *catalogHolder
	conns   *connSet
	limiter *rateLimiter // nil disables limiting
	log     *slog.Logger
}

type pageRequest struct {
	Page int `form:"page" binding:"omitempty,min=1"`
	Size int `form:"size" binding:"omitempty,min=1,max=1000"`
}

type pageResponse struct {
	Query    string           `json:"query"`
	Page     int              `json:"page"`
	Size     int              `json:"size"`
	Strategy string           `json:"strategy"`
	Rows     []map[string]any `json:"rows"`
}

type capabilityResponse struct {
	Connection      string `json:"connection"`
	Provider        string `json:"provider"`
	ParameterMarker string `json:"parameter_marker"`
	NamedParameters bool   `json:"named_parameters"`
	Strategy        string `json:"strategy"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

func newRouter(s *server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.accessLog())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	if s.limiter != nil {
		v1.Use(s.limiter.Middleware())
	}
	v1.GET("/queries", s.listQueries)
	v1.GET("/queries/:name", s.queryPage)
	v1.GET("/connections/:name/capability", s.capability)

	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String(requestIDKey, c.GetString(requestIDKey)),
		)
	}
}

func (s *server) listQueries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"queries": s.catalog.Load().QueryNames()})
}

func (s *server) queryPage(c *gin.Context) {
	var req pageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		s.writeError(c, shared.MarkKind(err, shared.KindValidation))
		return
	}

	name := c.Param("name")
	q, err := s.catalog.Load().Query(name)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.Size == 0 {
		req.Size = q.PageSize
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	conn, release, err := s.conns.Get(ctx, q.Connection)
	if err != nil {
		s.writeError(c, err)
		return
	}
	defer release()

	rows, err := conn.PageMapsContext(ctx, q.SQL, req.Size, req.Page)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if rows == nil {
		rows = []map[string]any{}
	}

	capability, _ := conn.Capability()
	c.JSON(http.StatusOK, pageResponse{
		Query:    name,
		Page:     req.Page,
		Size:     req.Size,
		Strategy: capability.PagingStrategy.String(),
		Rows:     rows,
	})
}

func (s *server) capability(c *gin.Context) {
	name := c.Param("name")

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	conn, release, err := s.conns.Get(ctx, name)
	if err != nil {
		s.writeError(c, err)
		return
	}
	defer release()

	capability, _ := conn.Capability()
	c.JSON(http.StatusOK, capabilityResponse{
		Connection:      name,
		Provider:        conn.ProviderID(),
		ParameterMarker: capability.ParameterMarker,
		NamedParameters: capability.NamedParameterSupport,
		Strategy:        capability.PagingStrategy.String(),
	})
}

// writeError answers with the status of err's kind. Unclassified errors come from
// drivers and are reported as dependency failures.
func (s *server) writeError(c *gin.Context, err error) {
	kind := shared.KindOf(err)
	if kind == shared.KindUnknown {
		kind = shared.KindDependencyFailure
	}
	status := statusOf(kind)

	attrs := []any{
		slog.String("path", c.FullPath()),
		slog.Int("status", status),
		slog.String(requestIDKey, c.GetString(requestIDKey)),
		slog.Any("err", err),
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", attrs...)
	} else {
		s.log.Warn("request rejected", attrs...)
	}

	c.AbortWithStatusJSON(status, errorResponse{
		Error:     kind.String(),
		Message:   err.Error(),
		RequestID: c.GetString(requestIDKey),
	})
}

func statusOf(kind shared.Kind) int {
	switch kind {
	case shared.KindNotFound:
		return http.StatusNotFound
	case shared.KindValidation:
		return http.StatusBadRequest
	case shared.KindUnsupported:
		return http.StatusUnprocessableEntity
	case shared.KindTimeout:
		return http.StatusGatewayTimeout
	case shared.KindCanceled:
		return 499
	case shared.KindDependencyFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
