// Package docs registers the OpenAPI document served under /swagger. The
// handler annotations in internal/api are the source for regenerating it with
// swag init.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Registers a new blogger", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid request body or field"}, "409": {"description": "Username or email already taken"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Logs a user in", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid login or password"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Refresh access token", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid or expired refresh token"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Logs out the current session", "consumes": ["application/json"], "responses": {"204": {"description": "No Content"}}}},
        "/users": {"get": {"tags": ["blog"], "summary": "List bloggers", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/blog/{username}": {"get": {"tags": ["blog"], "summary": "List a user's posts", "produces": ["application/json"], "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "User not found"}}}},
        "/blog/{username}/{postname}": {"get": {"tags": ["blog"], "summary": "Read a post", "produces": ["text/plain"], "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}, {"type": "string", "name": "postname", "in": "path", "required": true}], "responses": {"200": {"description": "Post text"}, "404": {"description": "User or post not found"}}}},
        "/download/{username}/{postname}": {"get": {"tags": ["blog"], "summary": "Download a post", "produces": ["text/plain"], "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}, {"type": "string", "name": "postname", "in": "path", "required": true}], "responses": {"200": {"description": "Post file"}, "404": {"description": "User or post not found"}}}},
        "/posts": {"post": {"security": [{"BearerAuth": []}], "tags": ["blog"], "summary": "Upload a post", "consumes": ["multipart/form-data"], "produces": ["application/json"], "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid file"}, "409": {"description": "Post already exists"}, "413": {"description": "Post too large"}}}},
        "/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Get current user info", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/sessions": {"get": {"security": [{"BearerAuth": []}], "tags": ["sessions"], "summary": "List active sessions", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/sessions/{sessionId}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["sessions"], "summary": "Terminate a specific session", "parameters": [{"type": "string", "format": "uuid", "name": "sessionId", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Session not found"}}}},
        "/sessions/terminate_all": {"post": {"security": [{"BearerAuth": []}], "tags": ["sessions"], "summary": "Terminate all sessions", "responses": {"204": {"description": "No Content"}}}},
        "/events": {"get": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Get new events", "produces": ["application/json"], "parameters": [{"type": "integer", "name": "since", "in": "query"}], "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Blog Server API",
	Description:      "Multi-user blog: plain-text posts with metadata in PostgreSQL and content in object storage.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
