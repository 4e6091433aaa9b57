// Package docs provides the generated swagger specification.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type \"Bearer\" followed by a space and JWT token."
        }
    },
    "paths": {
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new user"}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login user"}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Refresh access token"}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Logout user"}},
        "/user/cards": {"get": {"tags": ["user-cards"], "summary": "List the caller's cards"}},
        "/user/cards/transfer": {"post": {"tags": ["user-cards"], "summary": "Transfer between two of the caller's cards"}},
        "/user/cards/{id}/block": {"post": {"tags": ["user-cards"], "summary": "Request a block on one of the caller's cards"}},
        "/user/cards/{id}/balance": {"get": {"tags": ["user-cards"], "summary": "Get the balance of one of the caller's cards"}},
        "/user/cards/{id}/transactions": {"get": {"tags": ["user-cards"], "summary": "List ledger entries for one of the caller's cards"}},
        "/admin/cards": {
            "get": {"tags": ["admin-cards"], "summary": "List all cards"},
            "post": {"tags": ["admin-cards"], "summary": "Create a card"}
        },
        "/admin/cards/{id}": {
            "get": {"tags": ["admin-cards"], "summary": "Get a card by id"},
            "patch": {"tags": ["admin-cards"], "summary": "Update a card by id"},
            "delete": {"tags": ["admin-cards"], "summary": "Delete a card by id"}
        },
        "/admin/cards/{id}/block": {"patch": {"tags": ["admin-cards"], "summary": "Block a card by id"}},
        "/admin/cards/{id}/activate": {"patch": {"tags": ["admin-cards"], "summary": "Activate a card by id"}},
        "/admin/users": {
            "get": {"tags": ["admin-users"], "summary": "List all users"},
            "post": {"tags": ["admin-users"], "summary": "Create a user"}
        },
        "/admin/users/{id}": {
            "get": {"tags": ["admin-users"], "summary": "Get a user by id"},
            "patch": {"tags": ["admin-users"], "summary": "Update a user by id"},
            "delete": {"tags": ["admin-users"], "summary": "Delete a user by id"}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "Card Vault API",
	Description:      "Bank card management API with encrypted card numbers, block requests, and transfers between own cards.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
