// Package server exposes the HTTP surface of the blog-video-service: a
// liveness probe on GET / and the blog-to-video endpoint on POST /.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/book-expert/blog-video-service/internal/core"
	"github.com/book-expert/blog-video-service/internal/pipeline"
	"github.com/book-expert/logger"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// livenessMessage is returned on GET /.
const livenessMessage = "blog-video-service is running. Use POST to generate a video."

// errNoContent is the structured 400 body for empty post content.
const errNoContent = "No content provided"

// Defaults for absent request fields.
const (
	defaultTitle  = "Blog Video"
	defaultPostID = "post"
)

// Runner executes the blog-to-video pipeline for one request.
type Runner interface {
	Run(ctx context.Context, req core.PostRequest) (pipeline.Result, error)
}

// postBody is the accepted JSON payload. PostID tolerates both string and
// numeric identifiers.
type postBody struct {
	Content string   `json:"content"`
	Images  []string `json:"images"`
	Title   string   `json:"title"`
	PostID  any      `json:"post_id"`
}

// Server routes HTTP requests into the pipeline.
type Server struct {
	engine *gin.Engine
	runner Runner
	log    *logger.Logger
}

// New creates the HTTP server around a pipeline runner.
func New(runner Runner, log *logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	// Numeric post identifiers must survive verbatim; float64 decoding
	// would round them above 2^53.
	binding.EnableDecoderUseNumber = true

	engine := gin.New()
	engine.Use(gin.Recovery())

	srv := &Server{
		engine: engine,
		runner: runner,
		log:    log,
	}

	engine.GET("/", srv.handleHealth)
	engine.POST("/", srv.handleMakeVideo)

	return srv
}

// Handler exposes the router, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	err := s.engine.Run(addr)
	if err != nil {
		return fmt.Errorf("http server stopped: %w", err)
	}

	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, livenessMessage)
}

func (s *Server) handleMakeVideo(c *gin.Context) {
	var body postBody

	err := c.ShouldBindJSON(&body)
	if err != nil {
		// A malformed body is treated as an empty payload; validation
		// below produces the structured client error.
		s.log.Warn("Failed to parse request body: %v", err)
	}

	if strings.TrimSpace(body.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNoContent})

		return
	}

	req := core.PostRequest{
		Content: body.Content,
		Images:  body.Images,
		Title:   body.Title,
		PostID:  coercePostID(body.PostID),
	}

	if req.Title == "" {
		req.Title = defaultTitle
	}

	result, err := s.runner.Run(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, pipeline.ErrAssembly) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

			return
		}

		s.log.Error("Pipeline failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})

		return
	}

	c.JSON(http.StatusOK, gin.H{"video_url": result.VideoURL})
}

// coercePostID turns the loosely typed post_id field into text.
func coercePostID(value any) string {
	switch v := value.(type) {
	case nil:
		return defaultPostID
	case string:
		if v == "" {
			return defaultPostID
		}

		return v
	case json.Number:
		return v.String()
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}

		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
