// Package docs registers the OpenAPI document served under /swagger/.
// It mirrors the swag annotations on the handlers and must be updated with them.
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
        "/": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["health"],
                "summary": "Liveness",
                "responses": {
                    "200": {"description": "Game Scores API is running!", "schema": {"type": "string"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "description": "Authenticate user and return JWT token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "User login",
                "parameters": [
                    {
                        "description": "Login Request",
                        "name": "loginRequest",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "JWT token returned", "schema": {"$ref": "#/definitions/handlers.LoginResponse"}},
                    "400": {"description": "Missing email or password", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "Too many failed attempts", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the profile of the user the bearer token belongs to",
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ProfileResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/auth/register": {
            "post": {
                "description": "Creates a user account. The password is never returned.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {
                        "description": "Register Request",
                        "name": "registerRequest",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.RegisterRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "User registered", "schema": {"$ref": "#/definitions/handlers.RegisterResponse"}},
                    "400": {"description": "Missing fields, conflict or validation error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/scores": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Stores a score for the authenticated user and raises their highest score",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["scores"],
                "summary": "Submit a score",
                "parameters": [
                    {
                        "description": "Score",
                        "name": "submitScoreRequest",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.SubmitScoreRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.SubmitScoreResponse"}},
                    "400": {"description": "Missing or invalid score", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/scores/leaderboard": {
            "get": {
                "description": "Returns scores ordered by score descending, then oldest first",
                "produces": ["application/json"],
                "tags": ["scores"],
                "summary": "Leaderboard",
                "parameters": [
                    {"type": "integer", "description": "Page size (default 10, capped)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Entries to skip (default 0)", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.LeaderboardEntry"}}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "errors": {"type": "object", "additionalProperties": {"type": "string"}},
                "message": {"type": "string", "default": "Internal server error"}
            }
        },
        "handlers.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "default": "john@example.com"},
                "password": {"type": "string", "default": "secret123"}
            }
        },
        "handlers.LoginResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "default": "Login successful!"},
                "token": {"type": "string", "default": "JWT_TOKEN"},
                "user": {"$ref": "#/definitions/models.UserResponse"}
            }
        },
        "handlers.ProfileResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/models.Profile"}
            }
        },
        "handlers.RegisterRequest": {
            "type": "object",
            "properties": {
                "avatar": {"type": "string"},
                "email": {"type": "string", "default": "john@example.com"},
                "password": {"type": "string", "default": "secret123"},
                "username": {"type": "string", "default": "john_doe"}
            }
        },
        "handlers.RegisterResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "default": "User registered successfully! Please log in."},
                "user": {"$ref": "#/definitions/models.UserResponse"}
            }
        },
        "handlers.SubmitScoreRequest": {
            "type": "object",
            "properties": {
                "score": {"type": "integer", "default": 1200}
            }
        },
        "handlers.SubmitScoreResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "default": "Score submitted successfully!"},
                "score": {"$ref": "#/definitions/models.ScoreDB"}
            }
        },
        "models.Achievement": {
            "type": "object",
            "properties": {
                "achievementId": {"type": "string"},
                "unlockedAt": {"type": "string"}
            }
        },
        "models.LeaderboardEntry": {
            "type": "object",
            "properties": {
                "avatar": {"type": "string"},
                "createdAt": {"type": "string"},
                "id": {"type": "string"},
                "score": {"type": "integer"},
                "user": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "models.Profile": {
            "type": "object",
            "properties": {
                "achievements": {"type": "array", "items": {"$ref": "#/definitions/models.Achievement"}},
                "avatar": {"type": "string"},
                "createdAt": {"type": "string"},
                "email": {"type": "string"},
                "highestScore": {"type": "integer"},
                "id": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "models.ScoreDB": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "id": {"type": "string"},
                "score": {"type": "integer"},
                "user": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "models.UserResponse": {
            "type": "object",
            "properties": {
                "avatar": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "username": {"type": "string"}
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

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:5000",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "gw-game-scores API",
	Description:      "Game score backend: registration, login, score submission and leaderboard",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
