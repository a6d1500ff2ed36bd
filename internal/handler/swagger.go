package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"

	"github.com/dafibh/mierunbo/mierunbo-backend/docs"
)

// DocsHandler serves the API description and the Swagger UI
type DocsHandler struct {
	instance string
	browse   echo.HandlerFunc
}

// NewDocsHandler creates a DocsHandler for the registered swag document
func NewDocsHandler() *DocsHandler {
	return &DocsHandler{
		instance: docs.SwaggerInfo.InstanceName(),
		browse:   echoSwagger.EchoWrapHandler(echoSwagger.InstanceName(docs.SwaggerInfo.InstanceName())),
	}
}

// Browse serves the Swagger UI under /swagger/
func (h *DocsHandler) Browse(c echo.Context) error {
	return h.browse(c)
}

// ServeSpec serves the swagger 2.0 document with host and scheme taken from the request,
// so "Try it out" targets whichever address the API was reached on.
func (h *DocsHandler) ServeSpec(c echo.Context) error {
	doc, err := swag.ReadDoc(h.instance)
	if err != nil {
		return NewInternalError(c, "Failed to read API description")
	}

	var spec map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &spec); err != nil {
		return NewInternalError(c, "Failed to parse API description")
	}
	spec["host"] = c.Request().Host
	spec["schemes"] = []string{c.Scheme()}

	return c.JSON(http.StatusOK, spec)
}
