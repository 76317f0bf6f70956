// Package docs registers the OpenAPI description served on /swagger.
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
        "/register": {
            "post": {
                "tags": ["Users"],
                "summary": "Register a user and receive a token",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.AuthResponse"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Users"],
                "summary": "Exchange credentials for a token",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.AuthResponse"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/boards": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Boards"], "summary": "List boards of the current user", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Boards"], "summary": "Create a board", "responses": {"201": {"description": "Created"}, "403": {"description": "Board limit reached"}}}
        },
        "/boards/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Boards"], "summary": "Board with columns and cards in display order", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["Boards"], "summary": "Update a board (admin)", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Boards"], "summary": "Soft delete a board (admin)", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/boards/{id}/members": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Members"], "summary": "List members", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Members"], "summary": "Add a member or change a role (admin)", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Last admin"}}}
        },
        "/boards/{id}/columns": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Columns"], "summary": "List columns", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Columns"], "summary": "Append a column", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}}}
        },
        "/columns/{id}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Columns"], "summary": "Delete an empty column", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "409": {"description": "Column still contains cards"}}}
        },
        "/columns/{id}/cards": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Cards"], "summary": "List cards in display order", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "boolean", "name": "include_archived", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Cards"], "summary": "Append a card", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}}}
        },
        "/cards/{id}/move": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Cards"],
                "summary": "Move a card to a column at a client computed position",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.MoveCardRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MoveCardResponse"}},
                    "403": {"description": "Editor role required"},
                    "404": {"description": "Card or column not found"},
                    "409": {"description": "Card changed since the given version"}
                }
            }
        }
    },
    "definitions": {
        "handler.RegisterRequest": {"type": "object", "required": ["email", "name", "password"], "properties": {"email": {"type": "string"}, "name": {"type": "string"}, "password": {"type": "string"}}},
        "handler.LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "handler.UserResponse": {"type": "object", "properties": {"id": {"type": "string"}, "email": {"type": "string"}, "name": {"type": "string"}, "is_admin": {"type": "boolean"}}},
        "handler.AuthResponse": {"type": "object", "properties": {"token": {"type": "string"}, "user": {"$ref": "#/definitions/handler.UserResponse"}}},
        "handler.MoveCardRequest": {"type": "object", "required": ["column_id", "position"], "properties": {"column_id": {"type": "string"}, "position": {"type": "number"}, "version": {"type": "integer"}}},
        "handler.MoveCardResponse": {"type": "object", "properties": {"id": {"type": "string"}, "column_id": {"type": "string"}, "position": {"type": "number"}, "version": {"type": "integer"}, "updated_at": {"type": "string"}, "rebalanced": {"type": "boolean"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"description": "Type \"Bearer\" followed by a space and JWT token.", "type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Boardflow API",
	Description:      "Kanban boards with fractional card ordering, optimistic move conflicts and role based access.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
