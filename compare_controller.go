package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/bihua-university/countries/internal/country"
	"github.com/bihua-university/countries/internal/document"
	"github.com/bihua-university/countries/internal/task"
)

// defaultComparators is used when the request names none.
var defaultComparators = []string{"area", "population"}

type compareRequest struct {
	Comparators *[]string `json:"comparators"`
}

func (s *Server) compareCountries(c *gin.Context) {
	var request compareRequest
	if err := c.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"task_id": nil, "message": err.Error()})
		return
	}
	fields := defaultComparators
	if request.Comparators != nil {
		fields = *request.Comparators
	}
	paths, err := document.ParsePathList(fields)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"task_id": nil, "message": err.Error()})
		return
	}

	ctx := c.Request.Context()
	names := [2]string{country.Normalize(c.Param("a")), country.Normalize(c.Param("b"))}
	var sides [2]task.Side
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			found, err := s.gateway.Resolve(gctx, name)
			if err != nil {
				return &lookupFailure{name: name, err: err}
			}
			sides[i] = task.Side{Name: found.Name, Data: document.Filter(found.Data, paths)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var lf *lookupFailure
		if !errors.As(err, &lf) {
			lf = &lookupFailure{err: err}
		}
		status, msg := s.lookupError(c, lf.name, lf.err)
		c.JSON(status, gin.H{"task_id": nil, "message": msg})
		return
	}

	t, err := s.scheduler.Schedule(ctx, sides[0], sides[1])
	if err != nil {
		s.logger.ErrorContext(ctx, "schedule comparison", "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, task.ErrClosed) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"task_id": nil, "message": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"task_id": t.ID, "message": "Task Accepted"})
}

type lookupFailure struct {
	name string
	err  error
}

func (e *lookupFailure) Error() string { return e.name + ": " + e.err.Error() }
func (e *lookupFailure) Unwrap() error { return e.err }

func (s *Server) compareResult(c *gin.Context) {
	id := c.Param("id")
	t, err := s.registry.Get(c.Request.Context(), id)
	if errors.Is(err, task.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"task_id": id, "status": "Not Found", "result": nil})
		return
	}
	if err != nil {
		s.logger.ErrorContext(c.Request.Context(), "get task", "task_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"task_id": id, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, t)
}
