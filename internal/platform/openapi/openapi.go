package openapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Generator builds the OpenAPI 3.0 document for the report API.
type Generator struct {
	version string
	baseURL string
	archive bool
}

// NewGenerator creates a new OpenAPI spec generator. When archive is false
// the archive routes are left out of the document.
func NewGenerator(version, baseURL string, archive bool) *Generator {
	return &Generator{version: version, baseURL: baseURL, archive: archive}
}

// GenerateSpec produces the OpenAPI 3.0 spec as a map.
func (g *Generator) GenerateSpec() map[string]interface{} {
	paths := map[string]interface{}{
		"/api/v1/reports": map[string]interface{}{
			"post": map[string]interface{}{
				"summary":     "Render an organization report",
				"operationId": "createReport",
				"tags":        []string{"Reports"},
				"requestBody": buildRequestBody("#/components/schemas/ReportRequest"),
				"responses": map[string]interface{}{
					"200": buildResponseWithSchema("Rendered report", "#/components/schemas/CreateReportResponse"),
					"400": buildResponseWithSchema("Invalid request", "#/components/schemas/Error"),
					"500": buildResponseWithSchema("Render failure", "#/components/schemas/Error"),
				},
			},
		},
		"/api/v1/organizations/normalize": map[string]interface{}{
			"post": map[string]interface{}{
				"summary":     "Normalize a raw organization entity",
				"operationId": "normalizeOrganization",
				"tags":        []string{"Organizations"},
				"requestBody": buildRequestBody("#/components/schemas/Entity"),
				"responses": map[string]interface{}{
					"200": buildResponseWithSchema("Normalized organization", "#/components/schemas/Organization"),
					"400": buildResponseWithSchema("Invalid entity", "#/components/schemas/Error"),
				},
			},
		},
	}

	if g.archive {
		idParam := []map[string]interface{}{
			{"name": "id", "in": "path", "required": true, "schema": map[string]string{"type": "string"}},
		}
		list := paths["/api/v1/reports"].(map[string]interface{})
		list["get"] = map[string]interface{}{
			"summary":     "List archived reports",
			"operationId": "listReports",
			"tags":        []string{"Archive"},
			"parameters":  buildListParameters(),
			"responses": map[string]interface{}{
				"200": buildResponseWithSchema("Archived reports", "#/components/schemas/ReportPage"),
			},
		}
		paths["/api/v1/reports/{id}"] = map[string]interface{}{
			"get": map[string]interface{}{
				"summary":     "Download an archived report",
				"operationId": "downloadReport",
				"tags":        []string{"Archive"},
				"parameters":  idParam,
				"responses": map[string]interface{}{
					"200": map[string]interface{}{
						"description": "PDF document",
						"content": map[string]interface{}{
							"application/pdf": map[string]interface{}{
								"schema": map[string]string{"type": "string", "format": "binary"},
							},
						},
					},
					"404": buildResponseWithSchema("Not Found", "#/components/schemas/Error"),
				},
			},
			"delete": map[string]interface{}{
				"summary":     "Delete an archived report",
				"operationId": "deleteReport",
				"tags":        []string{"Archive"},
				"parameters":  idParam,
				"responses": map[string]interface{}{
					"204": map[string]interface{}{"description": "Deleted"},
					"404": buildResponseWithSchema("Not Found", "#/components/schemas/Error"),
				},
			},
		}
		paths["/api/v1/reports/{id}/metadata"] = map[string]interface{}{
			"get": map[string]interface{}{
				"summary":     "Read archived report metadata",
				"operationId": "getReportMetadata",
				"tags":        []string{"Archive"},
				"parameters":  idParam,
				"responses": map[string]interface{}{
					"200": buildResponseWithSchema("Success", "#/components/schemas/ReportMetadata"),
					"404": buildResponseWithSchema("Not Found", "#/components/schemas/Error"),
				},
			},
		}
	}

	return map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":       "Surveyfax Report API",
			"version":     g.version,
			"description": "Renders organization survey faxes as PDF documents",
		},
		"servers": []map[string]string{
			{"url": g.baseURL},
		},
		"paths": paths,
		"components": map[string]interface{}{
			"schemas": buildComponentSchemas(),
			"securitySchemes": map[string]interface{}{
				"bearerAuth": map[string]string{"type": "http", "scheme": "bearer", "bearerFormat": "JWT"},
			},
		},
		"security": []map[string][]string{{"bearerAuth": {}}},
	}
}

func buildListParameters() []map[string]interface{} {
	str := map[string]string{"type": "string"}
	ts := map[string]string{"type": "string", "format": "date-time"}
	num := map[string]string{"type": "integer"}
	return []map[string]interface{}{
		{"name": "rid", "in": "query", "schema": str, "description": "Organization record id"},
		{"name": "file_name", "in": "query", "schema": str},
		{"name": "created_after", "in": "query", "schema": ts},
		{"name": "created_before", "in": "query", "schema": ts},
		{"name": "limit", "in": "query", "schema": num},
		{"name": "offset", "in": "query", "schema": num},
	}
}

// buildRequestBody creates the OpenAPI requestBody for POST operations.
func buildRequestBody(schemaRef string) map[string]interface{} {
	return map[string]interface{}{
		"required": true,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": map[string]interface{}{
					"$ref": schemaRef,
				},
			},
		},
	}
}

// buildResponseWithSchema creates an OpenAPI response with content schema reference.
func buildResponseWithSchema(description, schemaRef string) map[string]interface{} {
	return map[string]interface{}{
		"description": description,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": map[string]interface{}{
					"$ref": schemaRef,
				},
			},
		},
	}
}

func object(props map[string]interface{}, required ...string) map[string]interface{} {
	s := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func ref(name string) map[string]string {
	return map[string]string{"$ref": "#/components/schemas/" + name}
}

func arrayOf(item interface{}) map[string]interface{} {
	return map[string]interface{}{"type": "array", "items": item}
}

func buildComponentSchemas() map[string]interface{} {
	str := map[string]string{"type": "string"}
	num := map[string]string{"type": "integer"}
	labeled := arrayOf(ref("LabeledValue"))

	return map[string]interface{}{
		"Error": object(map[string]interface{}{
			"code":    num,
			"message": str,
		}, "code", "message"),
		"Survey": object(map[string]interface{}{
			"contactName":   str,
			"contactMethod": str,
			"contactEmail":  str,
			"contactFax":    str,
			"notes":         str,
			"orgRidRef":     str,
			"org":           map[string]string{"type": "object", "description": "Normalized organization or raw entity"},
		}, "org", "contactName", "contactFax"),
		"ReportRequest": object(map[string]interface{}{
			"coverText": str,
			"survey":    ref("Survey"),
		}, "survey"),
		"CreateReportResponse": object(map[string]interface{}{
			"pdf":       map[string]string{"type": "string", "format": "byte"},
			"id":        str,
			"pages":     num,
			"file_name": str,
		}, "pdf", "pages", "file_name"),
		"Entity": object(map[string]interface{}{
			"rid":        str,
			"entityType": str,
		}, "rid"),
		"LabeledValue": object(map[string]interface{}{
			"atts":  map[string]interface{}{"type": "object", "additionalProperties": str},
			"value": str,
		}),
		"Address": object(map[string]interface{}{
			"ta_street":     arrayOf(str),
			"ta_city":       str,
			"ta_state":      str,
			"ta_province":   str,
			"ta_postalCode": str,
			"ta_country":    str,
		}),
		"Person": object(map[string]interface{}{
			"ta_person":              ref("LabeledValue"),
			"ta_vacant":              str,
			"ta_positionTitle":       str,
			"td_positionTitleAbbrev": str,
			"td_positionUnit":        str,
			"ta_positionLocation":    str,
			"ta_phones":              labeled,
			"ta_faxes":               labeled,
			"ta_emails":              labeled,
			"ta_address":             arrayOf(ref("Address")),
		}),
		"Organization": object(map[string]interface{}{
			"rid":                    str,
			"organization_name":      str,
			"addresses":              arrayOf(ref("Address")),
			"other_information":      map[string]interface{}{"type": "object", "additionalProperties": str},
			"phones":                 labeled,
			"faxes":                  labeled,
			"emails":                 labeled,
			"websites":               labeled,
			"organization_personnel": arrayOf(ref("Person")),
		}, "rid"),
		"ReportMetadata": object(map[string]interface{}{
			"id":                str,
			"file_name":         str,
			"content_type":      str,
			"size":              num,
			"organization_rid":  str,
			"organization_name": str,
			"pages":             num,
			"hash":              str,
			"created_at":        map[string]string{"type": "string", "format": "date-time"},
			"created_by":        str,
		}),
		"ReportPage": object(map[string]interface{}{
			"data":     arrayOf(ref("ReportMetadata")),
			"total":    num,
			"limit":    num,
			"offset":   num,
			"has_more": map[string]string{"type": "boolean"},
			"links": arrayOf(object(map[string]interface{}{
				"relation": str,
				"url":      str,
			})),
		}),
	}
}

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Surveyfax Report API - Swagger UI</title>
  <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" >
  <style>
    html { box-sizing: border-box; overflow-y: scroll; }
    *, *:before, *:after { box-sizing: inherit; }
    body { margin: 0; background: #fafafa; }
  </style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: "/api/openapi.json",
      dom_id: '#swagger-ui',
      deepLinking: true,
      presets: [
        SwaggerUIBundle.presets.apis,
        SwaggerUIBundle.SwaggerUIStandalonePreset
      ],
      layout: "BaseLayout"
    })
  </script>
</body>
</html>`

// RegisterRoutes registers the OpenAPI endpoints.
func (g *Generator) RegisterRoutes(apiGroup *echo.Group) {
	apiGroup.GET("/openapi.json", func(c echo.Context) error {
		return c.JSON(http.StatusOK, g.GenerateSpec())
	})
	apiGroup.GET("/docs", func(c echo.Context) error {
		return c.HTML(http.StatusOK, swaggerUIHTML)
	})
}
