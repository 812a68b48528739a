package hub

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/san-kum/chatooly/internal/catalog"
	"github.com/san-kum/chatooly/internal/publish"
)

type catalogResponse struct {
	Success     bool           `json:"success"`
	Tools       []catalog.Tool `json:"tools"`
	Count       int            `json:"count"`
	LastUpdated string         `json:"lastUpdated"`
}

func (s *Server) handleCatalog(c *gin.Context) {
	tools, err := s.catalog.Discover()
	if err != nil {
		s.log.Error("catalog failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal server error: " + err.Error(),
			"tools":   []catalog.Tool{},
			"count":   0,
		})
		return
	}
	c.JSON(http.StatusOK, catalogResponse{
		Success:     true,
		Tools:       tools,
		Count:       len(tools),
		LastUpdated: s.now().UTC().Format(isoMillis),
	})
}

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func (s *Server) handlePublish(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxBodyBytes)

	var req publish.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, failure(fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit)))
			return
		}
		c.JSON(http.StatusBadRequest, failure("Invalid JSON body: "+err.Error()))
		return
	}

	res, err := s.publisher.Publish(c.Request.Context(), &req)
	var reqErr *publish.RequestError
	switch {
	case errors.As(err, &reqErr):
		c.JSON(reqErr.Status, failure(reqErr.Message))
	case err != nil:
		s.log.Error("publish failed", "tool", req.ToolName, "err", err)
		c.JSON(http.StatusInternalServerError, failure("Internal server error occurred while publishing tool"))
	default:
		c.JSON(http.StatusOK, res)
	}
}

type testRequest struct {
	ToolName string         `json:"toolName"`
	Metadata any            `json:"metadata"`
	Files    map[string]any `json:"files"`
}

// handleTest echoes a publish-shaped body back without writing anything.
func (s *Server) handleTest(c *gin.Context) {
	var req testRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, failure("Test API error: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "API is working!",
		"received": gin.H{
			"toolName":  req.ToolName,
			"metadata":  req.Metadata,
			"fileCount": len(req.Files),
		},
	})
}
