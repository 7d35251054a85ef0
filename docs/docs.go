// Package docs registers the OpenAPI document served under /swagger/.
// Regenerate with `swag init -g cmd/mnnrunner/docs.go -o docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "mnnrunner maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/capabilities": {
            "get": {
                "produces": ["application/json"],
                "tags": ["backends"],
                "summary": "Probe backend availability",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.CapabilitiesResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/models": {
            "get": {
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "List models in the models directory",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ModelsResponse"}}
                }
            }
        },
        "/models/info": {
            "get": {
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "Describe a model's inputs",
                "parameters": [
                    {"type": "string", "description": "Model path", "name": "path", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/run": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "Run a model once",
                "parameters": [
                    {"description": "Run request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.RunRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.RunResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["status"],
                "summary": "Runner status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}
                }
            }
        },
        "/preflight": {
            "get": {
                "produces": ["application/json"],
                "tags": ["status"],
                "summary": "Environment checks",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PreflightResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.BackendStatus": {
            "type": "object",
            "properties": {
                "available": {"type": "boolean", "example": true},
                "lib": {"type": "boolean", "example": true},
                "plugin": {"type": "boolean", "example": true},
                "source": {"type": "string", "example": "bundled"}
            }
        },
        "types.CPUStatus": {
            "type": "object",
            "properties": {
                "available": {"type": "boolean", "example": true}
            }
        },
        "types.CapabilitiesResponse": {
            "type": "object",
            "properties": {
                "cpu": {"$ref": "#/definitions/types.CPUStatus"},
                "opencl": {"$ref": "#/definitions/types.BackendStatus"},
                "opengl": {"$ref": "#/definitions/types.BackendStatus"},
                "vulkan": {"$ref": "#/definitions/types.BackendStatus"}
            }
        },
        "types.CheckResult": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "name": {"type": "string", "example": "runner_bin_found"},
                "ok": {"type": "boolean", "example": true}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 404},
                "error": {"type": "string", "example": "model not found: /models/missing.mnn"},
                "kind": {"type": "string", "example": "MODEL"}
            }
        },
        "types.Model": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "mobilenet_v2"},
                "name": {"type": "string", "example": "mobilenet_v2.mnn"},
                "path": {"type": "string"},
                "size_bytes": {"type": "integer"}
            }
        },
        "types.ModelsResponse": {
            "type": "object",
            "properties": {
                "models": {"type": "array", "items": {"$ref": "#/definitions/types.Model"}}
            }
        },
        "types.PreflightResponse": {
            "type": "object",
            "properties": {
                "checks": {"type": "array", "items": {"$ref": "#/definitions/types.CheckResult"}},
                "ok": {"type": "boolean"}
            }
        },
        "types.RunRequest": {
            "type": "object",
            "properties": {
                "backend": {"type": "string", "example": "OPENCL"},
                "backupType": {"type": "string", "example": "CPU"},
                "backup_type": {"type": "string"},
                "cache": {"type": "boolean", "example": true},
                "cacheFile": {"type": "string"},
                "inputFill": {"type": "string", "example": "ZERO"},
                "inputShape": {"type": "array", "items": {"type": "integer"}, "example": [1, 3, 224, 224]},
                "inputShapes": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "integer"}}},
                "memoryMode": {"type": "string", "example": "BALANCED"},
                "modelPath": {"type": "string", "example": "/home/user/models/mobilenet_v2.mnn"},
                "powerMode": {"type": "string", "example": "NORMAL"},
                "precisionMode": {"type": "string", "example": "NORMAL"},
                "profile": {"type": "boolean"},
                "threads": {"type": "integer", "example": 4}
            }
        },
        "types.RunResponse": {
            "type": "object",
            "properties": {
                "backend": {"type": "string", "example": "VULKAN"},
                "duration_ms": {"type": "integer", "example": 42},
                "failed": {"type": "boolean"},
                "outcome": {"type": "string", "example": "MNN 3.1.0 OK backend=VULKAN outputs=prob[1x1000]"},
                "profile": {"type": "boolean"},
                "requested": {"type": "string", "example": "OPENCL"},
                "run_id": {"type": "string"}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "cache_dir": {"type": "string"},
                "engine": {"type": "string", "example": "exec"},
                "failed_total": {"type": "integer"},
                "fallbacks_total": {"type": "integer"},
                "inflight": {"type": "integer"},
                "rejected_total": {"type": "integer"},
                "runs_total": {"type": "integer"},
                "server_time_unix": {"type": "integer"},
                "state": {"type": "string", "example": "ready"},
                "uptime_seconds": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "mnnrunner API",
	Description:      "HTTP bridge for probing MNN backends and running MNN models.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
