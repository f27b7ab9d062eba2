package httpapi

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/1broseidon/desktopmcp/internal/desktop"
	"github.com/1broseidon/desktopmcp/internal/mcp"
)

const openAPIVersion = "3.1.0"

func schemaRef(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

func jsonBody(description string, schema any) map[string]any {
	return map[string]any{
		"description": description,
		"content": map[string]any{
			"application/json": map[string]any{"schema": schema},
		},
	}
}

func componentSchemas() (map[string]*jsonschema.Schema, error) {
	out := make(map[string]*jsonschema.Schema, 4)
	var err error
	if out["ScreenInfo"], err = jsonschema.For[desktop.ScreenInfo](nil); err != nil {
		return nil, fmt.Errorf("ScreenInfo: %w", err)
	}
	if out["CaptureRegion"], err = jsonschema.For[desktop.CaptureRegion](nil); err != nil {
		return nil, fmt.Errorf("CaptureRegion: %w", err)
	}
	if out["ScreenshotResult"], err = jsonschema.For[desktop.ScreenshotResult](nil); err != nil {
		return nil, fmt.Errorf("ScreenshotResult: %w", err)
	}
	if out["ErrorResponse"], err = jsonschema.For[errorResponse](nil); err != nil {
		return nil, fmt.Errorf("ErrorResponse: %w", err)
	}
	return out, nil
}

// openAPIDocument renders the OpenAPI 3.1 description of the HTTP surface.
// Schemas are derived from the same Go types the handlers encode.
func openAPIDocument() ([]byte, error) {
	schemas, err := componentSchemas()
	if err != nil {
		return nil, err
	}

	errorBody := schemaRef("ErrorResponse")
	doc := map[string]any{
		"openapi": openAPIVersion,
		"info": map[string]any{
			"title":       mcp.ServerName,
			"version":     mcp.ServerVersion,
			"description": "Desktop screen enumeration and region screenshots for AI agents.",
		},
		"paths": map[string]any{
			ScreensPath: map[string]any{
				"get": map[string]any{
					"operationId": "get_screen_info",
					"summary":     "List connected screens",
					"responses": map[string]any{
						"200": jsonBody("One entry per connected display", map[string]any{
							"type":  "array",
							"items": schemaRef("ScreenInfo"),
						}),
						"500": jsonBody("Screen enumeration failed", errorBody),
					},
				},
			},
			ScreenshotPath: map[string]any{
				"post": map[string]any{
					"operationId": "desktop_take_screenshot",
					"summary":     "Capture a region of the virtual desktop as WebP",
					"parameters": []any{
						map[string]any{
							"name":     "context_mode",
							"in":       "query",
							"required": false,
							"schema": map[string]any{
								"type": "string",
								"enum": desktop.ContextModes(),
							},
							"description": "Image size and quality preset; case-insensitive.",
						},
					},
					"requestBody": map[string]any{
						"required": true,
						"content": map[string]any{
							"application/json": map[string]any{"schema": schemaRef("CaptureRegion")},
						},
					},
					"responses": map[string]any{
						"200": jsonBody("Encoded screenshot", schemaRef("ScreenshotResult")),
						"422": jsonBody("Invalid region, body or context_mode", errorBody),
						"500": jsonBody("Screenshot capture failed", errorBody),
					},
				},
			},
		},
		"components": map[string]any{
			"schemas": schemas,
		},
	}
	return json.MarshalIndent(doc, "", "  ")
}
