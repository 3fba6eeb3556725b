// Package docs holds the OpenAPI document served at /swagger/*.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/api/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/registerRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/userResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object"}}
                }
            }
        },
        "/api/auth/token": {
            "post": {
                "tags": ["auth"],
                "summary": "Obtain JWT tokens",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/tokenRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/tokenPairResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object"}}
                }
            }
        },
        "/api/auth/token/refresh": {
            "post": {
                "tags": ["auth"],
                "summary": "Refresh the access token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/refreshRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/accessTokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object"}}
                }
            }
        },
        "/api/auth/token/blacklist": {
            "post": {
                "tags": ["auth"],
                "summary": "Revoke a refresh token",
                "consumes": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/refreshRequest"}}],
                "responses": {
                    "205": {"description": "Reset Content"},
                    "401": {"description": "Unauthorized", "schema": {"type": "object"}}
                }
            }
        },
        "/api/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Current user",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/userResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Delete current user",
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"type": "object"}}
                }
            }
        },
        "/api/contents": {
            "get": {
                "tags": ["contents"],
                "summary": "List media content",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "category", "type": "string", "enum": ["game", "video", "artwork", "music"]},
                    {"in": "query", "name": "search", "type": "string"},
                    {"in": "query", "name": "ordering", "type": "string", "enum": ["created_at", "-created_at", "title", "-title"]},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "page_size", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/contentPage"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["contents"],
                "summary": "Create media content",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/contentRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/contentResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object"}}
                }
            }
        },
        "/api/contents/{id}": {
            "get": {
                "tags": ["contents"],
                "summary": "Get media content",
                "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/contentResponse"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["contents"],
                "summary": "Replace media content",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/contentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/contentResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["contents"],
                "summary": "Partially update media content",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/contentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/contentResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["contents"],
                "summary": "Delete media content",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            }
        },
        "/api/ratings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["ratings"],
                "summary": "List ratings",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "media_content_id", "type": "string"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "page_size", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ratingPage"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["ratings"],
                "summary": "Rate media content",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/createRatingRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ratingResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object"}}
                }
            }
        },
        "/api/ratings/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["ratings"],
                "summary": "Get a rating",
                "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ratingResponse"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["ratings"],
                "summary": "Change a rating",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/updateRatingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ratingResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object"}},
                    "403": {"description": "Forbidden", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["ratings"],
                "summary": "Change a rating",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/updateRatingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ratingResponse"}},
                    "403": {"description": "Forbidden", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["ratings"],
                "summary": "Delete a rating",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness probe",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health/ready": {
            "get": {
                "tags": ["health"],
                "summary": "Readiness probe",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}
            }
        }
    },
    "definitions": {
        "registerRequest": {
            "type": "object",
            "required": ["email", "password", "password2"],
            "properties": {
                "email": {"type": "string"},
                "username": {"type": "string"},
                "password": {"type": "string"},
                "password2": {"type": "string"}
            }
        },
        "tokenRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "refreshRequest": {
            "type": "object",
            "required": ["refresh"],
            "properties": {"refresh": {"type": "string"}}
        },
        "tokenPairResponse": {
            "type": "object",
            "properties": {"refresh": {"type": "string"}, "access": {"type": "string"}}
        },
        "accessTokenResponse": {
            "type": "object",
            "properties": {"access": {"type": "string"}}
        },
        "userResponse": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "rating_count": {"type": "integer"},
                "created_at": {"type": "string"},
                "last_login": {"type": "string"}
            }
        },
        "contentRequest": {
            "type": "object",
            "required": ["title", "description", "category", "content_url"],
            "properties": {
                "title": {"type": "string", "maxLength": 255},
                "description": {"type": "string"},
                "category": {"type": "string", "enum": ["game", "video", "artwork", "music"]},
                "thumbnail_url": {"type": "string", "maxLength": 200},
                "content_url": {"type": "string", "maxLength": 200}
            }
        },
        "contentResponse": {
            "type": "object",
            "properties": {
                "media_id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "thumbnail_url": {"type": "string"},
                "content_url": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "contentPage": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "next": {"type": "string"},
                "previous": {"type": "string"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/contentResponse"}}
            }
        },
        "createRatingRequest": {
            "type": "object",
            "required": ["media_content", "value"],
            "properties": {
                "media_content": {"type": "string"},
                "value": {"type": "integer", "enum": [1, 2, 3, 4, 5]}
            }
        },
        "updateRatingRequest": {
            "type": "object",
            "properties": {"value": {"type": "integer", "enum": [1, 2, 3, 4, 5]}}
        },
        "ratingResponse": {
            "type": "object",
            "properties": {
                "rating_id": {"type": "string"},
                "user": {"type": "string"},
                "media_content": {"type": "string"},
                "value": {"type": "integer"},
                "created_at": {"type": "string"}
            }
        },
        "ratingPage": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "next": {"type": "string"},
                "previous": {"type": "string"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/ratingResponse"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the access token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "PixelCore API",
	Description:      "Users, media content and one-per-user ratings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
