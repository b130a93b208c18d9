// Package docs holds the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/crew-members": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Register a crew member",
                "parameters": [
                    {"description": "Crew member", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateCrewMemberRequest"}}
                ],
                "responses": {
                    "201": {"description": "Crew member created", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/crew-members/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Get a crew member",
                "parameters": [
                    {"type": "string", "description": "Crew member ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Crew member", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Crew member not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/crew-members/{id}/documents": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "List a crew member's documents",
                "parameters": [
                    {"type": "string", "description": "Crew member ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Documents on file", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Crew member not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/documents": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Put a document on file",
                "parameters": [
                    {"description": "Document on file", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateDocumentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Document created", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "404": {"description": "Holder not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/documents/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Get a document on file",
                "parameters": [
                    {"type": "string", "description": "Document ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Document", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Document not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/documents/{id}/verify": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["verification"],
                "summary": "Verify a scanned document",
                "parameters": [
                    {"type": "string", "description": "Document ID", "name": "id", "in": "path", "required": true},
                    {"type": "file", "description": "Scanned file (PDF, JPG, or PNG)", "name": "file", "in": "formData"},
                    {"type": "string", "description": "Object key of a scan already in storage", "name": "s3_key", "in": "formData"},
                    {"type": "string", "description": "Document number typed by the operator", "name": "manual_number", "in": "formData"},
                    {"type": "string", "description": "Nationality override for number rules", "name": "nationality", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "Verification completed", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Missing scan or unsupported type", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "404": {"description": "Document not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "409": {"description": "Concurrent verification", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "502": {"description": "Extraction failed", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/documents/{id}/scans": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["verification"],
                "summary": "List scan history",
                "parameters": [
                    {"type": "string", "description": "Document ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "default": 0, "description": "Pagination offset", "name": "offset", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Pagination limit", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Scan history", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Document not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/documents/{id}/scans/active": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["verification"],
                "summary": "Get the active scan",
                "parameters": [
                    {"type": "string", "description": "Document ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Active scan", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Document or scan not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/documents/{id}/scans/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["verification"],
                "summary": "Export scan history",
                "parameters": [
                    {"type": "string", "description": "Document ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "default": "csv", "description": "csv or xlsx", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Scan history export", "schema": {"type": "file"}},
                    "400": {"description": "Unknown format", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        }
    },
    "definitions": {
        "handler.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.PagMeta": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "handler.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "meta": {"$ref": "#/definitions/handler.PagMeta"},
                "success": {"type": "boolean", "example": true}
            }
        },
        "handler.ErrorResponseBody": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.APIError"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "handler.CreateCrewMemberRequest": {
            "type": "object",
            "required": ["full_name"],
            "properties": {
                "full_name": {"type": "string", "example": "RAVI KUMAR"},
                "nationality": {"type": "string", "example": "India"}
            }
        },
        "handler.CreateDocumentRequest": {
            "type": "object",
            "required": ["holder_crew_member_id", "type"],
            "properties": {
                "document_number": {"type": "string", "example": "U2701560"},
                "expiry_date": {"type": "string", "example": "11 MAR 2029"},
                "holder_crew_member_id": {"type": "string", "example": "550e8400-e29b-41d4-a716-446655440000"},
                "issue_date": {"type": "string", "example": "12/03/2019"},
                "issuing_authority": {"type": "string", "example": "MUMBAI"},
                "type": {"type": "string", "example": "passport"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Seacrew Document Verification API",
	Description:      "Verifies scanned crew documents against the records on file and keeps the scan history.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
