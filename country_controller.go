package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bihua-university/countries/internal/country"
	"github.com/bihua-university/countries/internal/document"
)

func (s *Server) getCountry(c *gin.Context) {
	name := country.Normalize(c.Param("name"))
	paths, err := document.ParsePaths(c.Query("filter_names"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"name": name, "data": nil, "message": err.Error()})
		return
	}

	found, err := s.gateway.Resolve(c.Request.Context(), name)
	if err != nil {
		status, msg := s.lookupError(c, name, err)
		c.JSON(status, gin.H{"name": name, "data": nil, "message": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": found.Name, "data": document.Filter(found.Data, paths)})
}

// lookupError maps a gateway failure to a status code and message.
func (s *Server) lookupError(c *gin.Context, name string, err error) (int, string) {
	var amb *country.AmbiguousError
	switch {
	case errors.As(err, &amb):
		return http.StatusNotFound, fmt.Sprintf("No data found for %s. Did you mean %s?", name, didYouMean(amb.Candidates))
	case errors.Is(err, country.ErrNotFound):
		return http.StatusNotFound, "No data found for " + name
	case errors.Is(err, country.ErrUpstream):
		s.logger.WarnContext(c.Request.Context(), "upstream lookup failed", "name", name, "error", err)
		return http.StatusBadGateway, "Upstream lookup failed for " + name
	default:
		s.logger.ErrorContext(c.Request.Context(), "lookup failed", "name", name, "error", err)
		return http.StatusInternalServerError, "Lookup failed for " + name
	}
}

// didYouMean joins candidates as "A, B or C".
func didYouMean(candidates []string) string {
	if len(candidates) <= 1 {
		return strings.Join(candidates, "")
	}
	last := len(candidates) - 1
	return strings.Join(candidates[:last], ", ") + " or " + candidates[last]
}
