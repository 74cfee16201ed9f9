// Package docs registers the swagger document served under /swagger.
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
        "/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Registers a new user",
                "parameters": [
                    {"description": "New account", "name": "signupRequest", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.SignupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "409": {"description": "Username or email taken", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Logs a user in",
                "parameters": [
                    {"description": "Login Credentials", "name": "loginRequest", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.TokenResponse"}},
                    "401": {"description": "Invalid username or password", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Logs the current user out",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.MessageResponse"}}}
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get current user info",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}}
            }
        },
        "/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "List root level",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ListingResponse"}}}
            }
        },
        "/folder/{nodeId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "List a folder",
                "parameters": [{"type": "string", "description": "Folder ID", "name": "nodeId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ListingResponse"}},
                    "400": {"description": "Node is a file", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/upload": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "Upload a file",
                "parameters": [
                    {"type": "file", "description": "File contents", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "Target folder, root when empty", "name": "folder_id", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Node"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/create_folder": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "Create a folder",
                "parameters": [
                    {"type": "string", "description": "Folder name", "name": "folder_name", "in": "formData", "required": true},
                    {"type": "string", "description": "Parent folder, root when empty", "name": "parent_folder_id", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Node"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/download_file/{nodeId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/octet-stream"],
                "tags": ["nodes"],
                "summary": "Download a file",
                "parameters": [{"type": "string", "description": "File ID", "name": "nodeId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}}
            }
        },
        "/view_file/{nodeId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/octet-stream"],
                "tags": ["nodes"],
                "summary": "View a file inline",
                "parameters": [{"type": "string", "description": "File ID", "name": "nodeId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}}
            }
        },
        "/rename_file/{nodeId}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "Rename a file or folder",
                "parameters": [
                    {"type": "string", "description": "Node ID", "name": "nodeId", "in": "path", "required": true},
                    {"description": "New name", "name": "renameNodeRequest", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.RenameNodeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Node"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/move_file/{nodeId}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "Move a file or folder",
                "parameters": [
                    {"type": "string", "description": "Node ID", "name": "nodeId", "in": "path", "required": true},
                    {"description": "Destination", "name": "moveNodeRequest", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.MoveNodeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Node"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/delete_file/{nodeId}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "Delete a file or folder",
                "parameters": [{"type": "string", "description": "Node ID", "name": "nodeId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.MessageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.HealthResponse"}}, "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}}
            }
        }
    },
    "definitions": {
        "api.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string", "example": "node not found"}}},
        "api.MessageResponse": {"type": "object", "properties": {"message": {"type": "string", "example": "deleted"}}},
        "api.HealthResponse": {"type": "object", "properties": {"status": {"type": "string", "example": "ok"}}},
        "api.SignupRequest": {"type": "object", "properties": {"username": {"type": "string", "example": "alice"}, "email": {"type": "string", "example": "alice@example.com"}, "password": {"type": "string", "example": "password123"}}},
        "api.LoginRequest": {"type": "object", "properties": {"username": {"type": "string", "example": "alice"}, "password": {"type": "string", "example": "password123"}}},
        "api.RenameNodeRequest": {"type": "object", "properties": {"new_name": {"type": "string", "example": "report.pdf"}}},
        "api.MoveNodeRequest": {"type": "object", "properties": {"destination_folder_id": {"type": "string"}}},
        "api.TokenResponse": {"type": "object", "properties": {"access_token": {"type": "string"}}},
        "api.ListingResponse": {"type": "object", "properties": {
            "folder": {"$ref": "#/definitions/models.Node"},
            "path": {"type": "array", "items": {"$ref": "#/definitions/models.Node"}},
            "nodes": {"type": "array", "items": {"$ref": "#/definitions/models.Node"}}
        }},
        "models.User": {"type": "object", "properties": {"id": {"type": "integer"}, "username": {"type": "string"}, "email": {"type": "string"}, "created_at": {"type": "string"}}},
        "models.Node": {"type": "object", "properties": {
            "id": {"type": "string"},
            "owner_id": {"type": "integer"},
            "parent_id": {"type": "string"},
            "name": {"type": "string"},
            "is_folder": {"type": "boolean"},
            "size_bytes": {"type": "integer"},
            "mime_type": {"type": "string"},
            "created_at": {"type": "string"}
        }}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "FileFlow API",
	Description:      "Per-user file and folder storage.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
