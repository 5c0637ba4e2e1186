package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints describing the public data API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>data-service — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "data-service", "version": "v1" },
  "paths": {
    "/": {
      "get": { "summary": "Welcome message with server time", "responses": { "200": { "description": "plain text" } } }
    },
    "/data": {
      "get": {
        "summary": "List every stored document (identifier omitted)",
        "responses": { "200": { "description": "array of documents", "content": { "application/json": { "schema": { "type": "array", "items": { "type": "object" } } } } } }
      },
      "post": {
        "summary": "Store a non-empty JSON object",
        "requestBody": { "required": true, "content": { "application/json": { "schema": { "type": "object", "minProperties": 1 } } } },
        "responses": {
          "201": { "description": "inserted", "content": { "application/json": { "schema": { "type": "object", "properties": { "status": { "type": "string", "example": "Data inserted" } } } } } },
          "400": { "description": "unparsable body, or not a non-empty object", "content": { "application/json": { "schema": { "type": "object", "properties": { "error": { "type": "string" } } } } } },
          "413": { "description": "body over MAX_BODY_BYTES" }
        }
      }
    }
  }
}`
