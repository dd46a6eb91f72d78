package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"catalog-service/config"
	"catalog-service/internal/graph"
	"catalog-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// Pinger reports whether the backing database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains HTTP handlers
type Handler struct {
	schema     *graph.Schema
	db         Pinger
	path       string
	debug      bool
	corsOrigin string
}

// NewHandler creates a new HTTP handler
func NewHandler(schema *graph.Schema, db Pinger, cfg *config.Config) *Handler {
	return &Handler{
		schema:     schema,
		db:         db,
		path:       cfg.GraphQL.Path,
		debug:      cfg.GraphQL.Debug,
		corsOrigin: cfg.Server.CORSAllowOrigin,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(requestLogger())
	router.Use(h.cors())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST(h.path, h.graphqlPost)
	router.GET(h.path, h.graphqlGet)
	router.OPTIONS(h.path, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready once the database answers a ping
func (h *Handler) readinessCheck(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		util.LoggerFromContext(c.Request.Context()).Warn("Readiness ping failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"time":   time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// graphqlPost handles a JSON encoded operation
func (h *Handler) graphqlPost(c *gin.Context) {
	var req graph.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	h.execute(c, req)
}

// graphqlGet handles an operation passed in the query string
func (h *Handler) graphqlGet(c *gin.Context) {
	req := graph.Request{
		Query:         c.Query("query"),
		OperationName: c.Query("operationName"),
	}
	if raw := c.Query("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
			badRequest(c, "Invalid variables")
			return
		}
	}
	h.execute(c, req)
}

func (h *Handler) execute(c *gin.Context, req graph.Request) {
	if req.Query == "" {
		badRequest(c, "Missing query")
		return
	}

	ctx := c.Request.Context()
	result := h.schema.Execute(ctx, req)
	if result.HasErrors() {
		h.logErrors(ctx, req, result.Errors)
		c.JSON(http.StatusBadRequest, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) logErrors(ctx context.Context, req graph.Request, errs []gqlerrors.FormattedError) {
	logger := util.LoggerFromContext(ctx)
	if !h.debug {
		logger.Warn("GraphQL operation failed",
			zap.String("operation", req.OperationName),
			zap.Int("errors", len(errs)))
		return
	}

	for _, e := range errs {
		logger.Error("GraphQL operation failed",
			zap.String("operation", req.OperationName),
			zap.String("query", req.Query),
			zap.Any("variables", req.Variables),
			zap.Any("path", e.Path),
			zap.Error(e.OriginalError()))
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"errors": []gin.H{{"message": message}},
	})
}

// cors answers cross-origin requests from the configured origin
func (h *Handler) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Set("Access-Control-Allow-Origin", h.corsOrigin)
		header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+requestIDHeader)
		header.Set("Access-Control-Max-Age", "86400")
		c.Next()
	}
}

// requestLogger tags every request with an id and logs its outcome
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(requestIDHeader, requestID)

		logger := util.GetLogger().With(zap.String("request_id", requestID))
		c.Request = c.Request.WithContext(util.WithLogger(c.Request.Context(), logger))

		c.Next()

		logger.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
