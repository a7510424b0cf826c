package routes

import (
	"net/http"
	"strings"

	"video-api/internal/handlers"

	"github.com/gin-gonic/gin"
)

// Operation is the published description of one route.
type Operation struct {
	Method    string          `json:"method"`
	Path      string          `json:"path"`
	Summary   string          `json:"summary"`
	Params    []Param         `json:"parameters,omitempty"`
	Body      handlers.Schema `json:"body,omitempty"`
	Responses map[int]string  `json:"responses"`
}

// Describe converts the route table into its published description. Path
// parameters are written as {name}.
func Describe(table []Route) []Operation {
	ops := make([]Operation, 0, len(table))
	for _, route := range table {
		ops = append(ops, Operation{
			Method:    route.Method,
			Path:      docPath(route.Path),
			Summary:   route.Summary,
			Params:    route.Params,
			Body:      route.Body,
			Responses: route.Responses,
		})
	}
	return ops
}

// Docs serves the description of table.
func Docs(table []Route) gin.HandlerFunc {
	ops := Describe(table)
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"operations": ops})
	}
}

func docPath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if strings.HasPrefix(segment, ":") {
			segments[i] = "{" + segment[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}
