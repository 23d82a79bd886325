package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bihua-university/countries/internal/country"
	"github.com/bihua-university/countries/internal/semver"
	"github.com/bihua-university/countries/internal/task"
)

type Server struct {
	gateway    *country.Gateway
	registry   *task.Registry
	scheduler  *task.Scheduler
	logger     *slog.Logger
	minVersion semver.Version
	metrics    http.Handler
}

func (s *Server) Router() *gin.Engine {
	g := gin.New()
	g.Use(gin.Recovery(), s.requestLogger(), Cors(), s.versionGate())

	g.GET("/", index)
	g.GET("/countries/:name", s.getCountry)
	g.POST("/countries/compare/:a/:b", s.compareCountries)
	g.GET("/countries/compare/result/:id", s.compareResult)
	g.GET("/countries/compare/watch/:id", s.watchResult)
	if s.metrics != nil {
		g.GET("/metrics", gin.WrapH(s.metrics))
	}
	return g
}

func index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"Hello": "Welcome to the API server"})
}

func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "content-type,"+task.VersionHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.InfoContext(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// versionGate turns away clients older than the minimum version. Requests
// without the header, such as browsers, pass.
func (s *Server) versionGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(task.VersionHeader)
		if header == "" {
			c.Next()
			return
		}
		v, err := semver.Parse(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		if !v.GreaterEqual(s.minVersion) {
			c.AbortWithStatusJSON(http.StatusUpgradeRequired, gin.H{
				"message": "client " + v.String() + " is too old, " + s.minVersion.String() + " or newer is required",
			})
			return
		}
		c.Next()
	}
}
