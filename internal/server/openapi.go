package server

import "net/http"

// handleDocs serves an interactive Swagger UI page backed by the JSON spec.
func (s *Server) handleDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(docsHTML))
}

// handleOpenAPISpec serves the machine-readable OpenAPI document.
func (s *Server) handleOpenAPISpec(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, openAPISpec())
}

const docsHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Promptdeck API Documentation</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@4.15.5/swagger-ui.css" />
    <style>
        html { box-sizing: border-box; overflow: -moz-scrollbars-vertical; overflow-y: scroll; }
        *, *:before, *:after { box-sizing: inherit; }
        body { margin:0; background: #fafafa; }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4.15.5/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            const ui = SwaggerUIBundle({
                url: '/api/openapi.json',
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [
                    SwaggerUIBundle.presets.apis,
                    SwaggerUIBundle.presets.standalone
                ],
                plugins: [
                    SwaggerUIBundle.plugins.DownloadUrl
                ],
                layout: "StandaloneLayout"
            });
        };
    </script>
</body>
</html>`

// ref points at a named component schema.
func ref(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

func arrayOf(name string) map[string]any {
	return map[string]any{"type": "array", "items": ref(name)}
}

// jsonResponse builds a response object with an application/json body.
func jsonResponse(description string, schema map[string]any) map[string]any {
	return map[string]any{
		"description": description,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": schema,
			},
		},
	}
}

func jsonRequestBody(schemaName string) map[string]any {
	return map[string]any{
		"required": true,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": ref(schemaName),
			},
		},
	}
}

func categoryValues() []string {
	return []string{"role", "goal", "audience", "context", "output", "tone"}
}

// openAPISpec returns the OpenAPI 3.0 document for the HTTP API. It is
// maintained by hand and must be kept in step with Handler.
func openAPISpec() map[string]any {
	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":       "Promptdeck API",
			"description": "HTTP interface to the prompt element library, the composer and the prompt history.",
			"version":     "1.0.0",
		},
		"servers": []map[string]any{
			{
				"url":         "http://localhost:8080",
				"description": "Local development server",
			},
		},
		"paths": map[string]any{
			"/health": map[string]any{
				"get": map[string]any{
					"summary": "Health check",
					"responses": map[string]any{
						"200": jsonResponse("Service is up", map[string]any{
							"type": "object",
							"properties": map[string]any{
								"status": map[string]any{"type": "string"},
							},
						}),
					},
				},
			},
			"/api/v1/elements": map[string]any{
				"get": map[string]any{
					"summary":     "List elements",
					"description": "Returns stored elements, optionally filtered by type or fuzzy-matched against a query.",
					"parameters": []map[string]any{
						{
							"name":        "type",
							"in":          "query",
							"description": "Filter by element type",
							"required":    false,
							"schema": map[string]any{
								"type": "string",
								"enum": append([]string{"all"}, categoryValues()...),
							},
						},
						{
							"name":        "q",
							"in":          "query",
							"description": "Fuzzy search query. Takes precedence over the type filter.",
							"required":    false,
							"schema":      map[string]any{"type": "string"},
						},
					},
					"responses": map[string]any{
						"200": jsonResponse("Matching elements", arrayOf("Element")),
						"400": jsonResponse("Unknown type filter", ref("Error")),
					},
				},
				"post": map[string]any{
					"summary":     "Create an element",
					"requestBody": jsonRequestBody("ElementRequest"),
					"responses": map[string]any{
						"201": jsonResponse("Created element", ref("Element")),
						"400": jsonResponse("Validation failure", ref("Error")),
					},
				},
			},
			"/api/v1/elements/{id}": map[string]any{
				"parameters": []map[string]any{
					{
						"name":        "id",
						"in":          "path",
						"description": "Session-scoped element ID as returned by list and create",
						"required":    true,
						"schema":      map[string]any{"type": "integer"},
					},
				},
				"get": map[string]any{
					"summary": "Get an element",
					"responses": map[string]any{
						"200": jsonResponse("Element details", ref("Element")),
						"404": jsonResponse("No element with this ID", ref("Error")),
					},
				},
				"put": map[string]any{
					"summary":     "Update an element",
					"requestBody": jsonRequestBody("ElementRequest"),
					"responses": map[string]any{
						"200": jsonResponse("Updated element", ref("Element")),
						"400": jsonResponse("Validation failure", ref("Error")),
						"404": jsonResponse("No element with this ID", ref("Error")),
					},
				},
				"delete": map[string]any{
					"summary": "Delete an element",
					"responses": map[string]any{
						"204": map[string]any{"description": "Element deleted"},
						"404": jsonResponse("No element with this ID", ref("Error")),
					},
				},
			},
			"/api/v1/compose": map[string]any{
				"post": map[string]any{
					"summary":     "Compose a prompt",
					"description": "Assembles the selected fragments into one prompt, sections in fixed category order.",
					"requestBody": jsonRequestBody("ComposeRequest"),
					"responses": map[string]any{
						"200": jsonResponse("Composed prompt", ref("ComposeResponse")),
						"400": jsonResponse("Unknown category key or unresolved element title", ref("Error")),
					},
				},
			},
			"/api/v1/history": map[string]any{
				"get": map[string]any{
					"summary":     "List history",
					"description": "Returns saved prompts, newest first.",
					"parameters": []map[string]any{
						{
							"name":        "q",
							"in":          "query",
							"description": "Fuzzy search over names and prompt text",
							"required":    false,
							"schema":      map[string]any{"type": "string"},
						},
					},
					"responses": map[string]any{
						"200": jsonResponse("History entries", arrayOf("HistoryEntry")),
					},
				},
				"post": map[string]any{
					"summary":     "Save a prompt to history",
					"requestBody": jsonRequestBody("HistoryRequest"),
					"responses": map[string]any{
						"201": jsonResponse("Saved entry", ref("HistoryEntry")),
						"400": jsonResponse("Validation failure", ref("Error")),
					},
				},
			},
			"/api/v1/history/export": map[string]any{
				"get": map[string]any{
					"summary": "Export history as CSV",
					"responses": map[string]any{
						"200": map[string]any{
							"description": "CSV download with header name,timestamp,prompt",
							"content": map[string]any{
								"text/csv": map[string]any{
									"schema": map[string]any{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"Element": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "integer",
							"description": "Session-scoped ID, stable while the server runs and never persisted",
						},
						"title": map[string]any{
							"type":        "string",
							"description": "Display name, unique within its category",
						},
						"category": map[string]any{
							"type": "string",
							"enum": categoryValues(),
						},
						"content": map[string]any{
							"type":        "string",
							"description": "Fragment text inserted into composed prompts",
						},
					},
					"required": []string{"id", "title", "category", "content"},
				},
				"ElementRequest": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{"type": "string"},
						"type": map[string]any{
							"type":        "string",
							"enum":        categoryValues(),
							"description": "Element category",
						},
						"content": map[string]any{"type": "string"},
					},
					"required": []string{"title", "type", "content"},
				},
				"Selection": map[string]any{
					"type":        "object",
					"description": "The choice for one category. An empty object composes as skipped.",
					"properties": map[string]any{
						"skip": map[string]any{
							"type":        "boolean",
							"description": "Omit this section even if other fields are set",
						},
						"multi": map[string]any{
							"type":        "boolean",
							"description": "List-shaped selection; fragments render one per line under the label",
						},
						"custom": map[string]any{
							"type":        "boolean",
							"description": "Use custom_text instead of, or ahead of, stored titles",
						},
						"custom_text": map[string]any{"type": "string"},
						"titles": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Stored element titles in this category, in pick order",
						},
					},
				},
				"ComposeRequest": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"selections": map[string]any{
							"type":                 "object",
							"description":          "Per-category selections keyed by category name. Missing keys compose as skipped.",
							"additionalProperties": ref("Selection"),
						},
						"request_feedback": map[string]any{
							"type":        "boolean",
							"description": "Append the clarifying-questions suffix",
						},
					},
				},
				"ComposeResponse": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"prompt": map[string]any{"type": "string"},
					},
					"required": []string{"prompt"},
				},
				"HistoryRequest": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":   map[string]any{"type": "string"},
						"prompt": map[string]any{"type": "string"},
					},
					"required": []string{"name"},
				},
				"HistoryEntry": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{"type": "string"},
						"timestamp": map[string]any{
							"type":        "string",
							"description": "Local time, second resolution",
						},
						"prompt": map[string]any{"type": "string"},
					},
					"required": []string{"name", "timestamp", "prompt"},
				},
				"Error": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"error": map[string]any{"type": "string"},
					},
					"required": []string{"error"},
				},
			},
		},
	}
}
