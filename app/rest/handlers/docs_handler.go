package handlers

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPIDocument []byte

// DocsHandler serves the OpenAPI document
type DocsHandler struct {
	document map[string]interface{}
}

// NewDocsHandler parses the embedded OpenAPI document
func NewDocsHandler() (*DocsHandler, error) {
	var document map[string]interface{}
	if err := yaml.Unmarshal(openAPIDocument, &document); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	return &DocsHandler{document: document}, nil
}

// APIDoc returns the OpenAPI document as JSON, or as YAML with ?format=yaml
// @Summary API document
// @Tags docs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /v1/api-doc [get]
func (h *DocsHandler) APIDoc(c echo.Context) error {
	if c.QueryParam("format") == "yaml" {
		return c.Blob(http.StatusOK, "application/yaml", openAPIDocument)
	}
	return c.JSON(http.StatusOK, h.document)
}
