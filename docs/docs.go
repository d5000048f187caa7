// Package docs registers the OpenAPI document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@pharmalink.app"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login user",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/auth/register/pharmacists": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register pharmacist",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            }
        },
        "/auth/register/pharmacy-owners": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register pharmacy owner",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            }
        },
        "/subscriptions/pricing": {
            "get": {
                "tags": ["Subscriptions"],
                "summary": "List plan pricing",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Subscriptions"],
                "summary": "Update plan pricing",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/subscriptions/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Subscriptions"],
                "summary": "Get my subscription",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/subscriptions/upgrade": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Subscriptions"],
                "summary": "Upgrade subscription",
                "responses": {"200": {"description": "OK"}, "201": {"description": "Created"}, "400": {"description": "Bad Request"}, "500": {"description": "Wallet not configured"}}
            }
        },
        "/subscriptions/payments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Subscriptions"],
                "summary": "List my payment requests",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Subscriptions"],
                "summary": "Submit payment evidence",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/admin/payments/{id}/manage": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["Admin"],
                "summary": "Confirm or reject a payment request",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/admin/wallet": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Admin"],
                "summary": "List wallets",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Admin"],
                "summary": "Create wallet",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Admin"],
                "summary": "Update wallet",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
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
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "PharmaLink API",
	Description:      "Pharmacist and pharmacy owner marketplace with manual wallet-transfer subscriptions",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
