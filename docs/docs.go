// Package docs holds the swagger document built from the handler annotations.
// Regenerate it with `swag init` after changing an annotation.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://mit-license.org/"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/functions/v1/check-expiry": {
            "get": {
                "description": "Evaluates every asset for the run date and sends the due email and chat reminders.",
                "produces": ["application/json"],
                "tags": ["Expiry"],
                "summary": "Run expiry check",
                "parameters": [
                    {"type": "string", "description": "Run date as YYYY-MM-DD, defaults to today", "name": "date", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/inbound.CheckExpiryResponse"}},
                    "400": {"description": "Invalid date or failed run", "schema": {"$ref": "#/definitions/inbound.CheckExpiryErrorResponse"}}
                }
            },
            "post": {
                "description": "Evaluates every asset for the run date and sends the due email and chat reminders.",
                "produces": ["application/json"],
                "tags": ["Expiry"],
                "summary": "Run expiry check",
                "parameters": [
                    {"type": "string", "description": "Run date as YYYY-MM-DD, defaults to today", "name": "date", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/inbound.CheckExpiryResponse"}},
                    "400": {"description": "Invalid date or failed run", "schema": {"$ref": "#/definitions/inbound.CheckExpiryErrorResponse"}}
                }
            }
        },
        "/api/v1/expiry/logs": {
            "get": {
                "description": "Returns the newest email and chat send attempts, newest first.",
                "produces": ["application/json"],
                "tags": ["Expiry"],
                "summary": "List dispatch logs",
                "parameters": [
                    {"type": "integer", "description": "Maximum rows, defaults to 50", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/router.successResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/inbound.DispatchLogsResponse"}}}
                            ]
                        }
                    },
                    "400": {"description": "Invalid limit", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/router.errorResponse"}}
                }
            }
        },
        "/api/v1/expiry/stats": {
            "get": {
                "description": "Counts successful email and chat sends and failed attempts since midnight.",
                "produces": ["application/json"],
                "tags": ["Expiry"],
                "summary": "Dispatch stats",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/router.successResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/inbound.DispatchStatsResponse"}}}
                            ]
                        }
                    },
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/router.errorResponse"}}
                }
            }
        },
        "/api/v1/expiry/preview": {
            "get": {
                "description": "Lists the notifications a run would send on the given date without sending them.",
                "produces": ["application/json"],
                "tags": ["Expiry"],
                "summary": "Preview run",
                "parameters": [
                    {"type": "string", "description": "Run date as YYYY-MM-DD, defaults to today", "name": "date", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/router.successResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/inbound.PreviewResponse"}}}
                            ]
                        }
                    },
                    "422": {"description": "Invalid date", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/router.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "entity.DispatchResult": {
            "type": "object",
            "properties": {
                "channel": {"type": "string"},
                "recipient": {"type": "string"},
                "asset_name": {"type": "string"},
                "response": {"type": "object"},
                "error": {"type": "string"},
                "skipped": {"type": "boolean"}
            }
        },
        "entity.Issue": {
            "type": "object",
            "properties": {
                "asset_id": {"type": "string"},
                "asset_name": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "inbound.CheckExpiryResponse": {
            "type": "object",
            "properties": {
                "run_id": {"type": "integer"},
                "date": {"type": "string"},
                "sent": {"type": "integer"},
                "failed": {"type": "integer"},
                "skipped": {"type": "integer"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/entity.DispatchResult"}},
                "issues": {"type": "array", "items": {"$ref": "#/definitions/entity.Issue"}},
                "logs": {"type": "array", "items": {"type": "string"}}
            }
        },
        "inbound.CheckExpiryErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "logs": {"type": "array", "items": {"type": "string"}}
            }
        },
        "inbound.DispatchLogResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "created_at": {"type": "string"},
                "type": {"type": "string"},
                "recipient": {"type": "string"},
                "asset_name": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "inbound.DispatchLogsResponse": {
            "type": "object",
            "properties": {
                "logs": {"type": "array", "items": {"$ref": "#/definitions/inbound.DispatchLogResponse"}}
            }
        },
        "inbound.DispatchStatsResponse": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "email": {"type": "integer"},
                "chat": {"type": "integer"},
                "failed": {"type": "integer"}
            }
        },
        "inbound.PreviewNotificationResponse": {
            "type": "object",
            "properties": {
                "asset_id": {"type": "string"},
                "asset_name": {"type": "string"},
                "channel": {"type": "string"},
                "subject": {"type": "string"},
                "severity": {"type": "string"},
                "days_until_expiry": {"type": "integer"}
            }
        },
        "inbound.PreviewResponse": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "notifications": {"type": "array", "items": {"$ref": "#/definitions/inbound.PreviewNotificationResponse"}},
                "issues": {"type": "array", "items": {"$ref": "#/definitions/entity.Issue"}}
            }
        },
        "router.errorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "error": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "router.successResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "data": {"type": "object"},
                "meta": {"type": "object"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "",
	Schemes:          []string{},
	Title:            "Asset Expiry API",
	Description:      "Asset Expiry decides which asset reminders are due and dispatches them by email and chat.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
