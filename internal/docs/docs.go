// Package docs holds the OpenAPI description of the API, served by
// gin-swagger at /swagger.
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
        "/pipeline/ingest": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Search the disclosure site, download new reports, parse and store them (pipeline endpoint)",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pipeline"],
                "summary": "Run ingest",
                "parameters": [
                    {
                        "description": "Disclosure search",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.IngestRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Run summary", "schema": {"type": "object", "additionalProperties": {"$ref": "#/definitions/ingest.RunResult"}}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Invalid API key", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Server error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Disclosure site unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "Pipeline not configured", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/pipeline/reports/parse": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Parse an uploaded periodic transaction report PDF, optionally storing it (pipeline endpoint)",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["pipeline"],
                "summary": "Parse report",
                "parameters": [
                    {"type": "file", "description": "Report PDF", "name": "file", "in": "formData", "required": true},
                    {"type": "boolean", "description": "Store the parsed report", "name": "store", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "Parsed report", "schema": {"$ref": "#/definitions/handlers.ParseReportResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Invalid API key", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "422": {"description": "Report could not be parsed", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Server error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "Pipeline not configured", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/pipeline/runs": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Get a paginated list of ingest runs, most recent first (pipeline endpoint)",
                "produces": ["application/json"],
                "tags": ["pipeline"],
                "summary": "List ingest runs",
                "parameters": [
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Items per page (default 20, max 100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Paginated runs", "schema": {"$ref": "#/definitions/pagination.PageResponse-models_IngestRun"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Invalid API key", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Server error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/pipeline/runs/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Get an ingest run and the documents it failed on (pipeline endpoint)",
                "produces": ["application/json"],
                "tags": ["pipeline"],
                "summary": "Get ingest run",
                "parameters": [
                    {"type": "string", "description": "Run ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Run", "schema": {"type": "object", "additionalProperties": {"$ref": "#/definitions/models.IngestRun"}}},
                    "400": {"description": "Invalid run ID", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Invalid API key", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Run not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Server error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/reports": {
            "get": {
                "description": "Get a paginated list of stored reports, most recently signed first",
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "List reports",
                "parameters": [
                    {"type": "string", "description": "Representative name contains (case-insensitive)", "name": "representative", "in": "query"},
                    {"type": "integer", "description": "Signature year", "name": "year", "in": "query"},
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Items per page (default 20, max 100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Paginated reports", "schema": {"$ref": "#/definitions/pagination.PageResponse-models_Report"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Server error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/reports/{filing_id}": {
            "get": {
                "description": "Get a stored report with its transactions in document order",
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Get report",
                "parameters": [
                    {"type": "integer", "description": "Filing ID", "name": "filing_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Report", "schema": {"type": "object", "additionalProperties": {"$ref": "#/definitions/models.Report"}}},
                    "400": {"description": "Invalid filing ID", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Report not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Server error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/reports/{filing_id}/export": {
            "get": {
                "description": "Download a stored report's transactions as CSV",
                "produces": ["text/csv"],
                "tags": ["reports"],
                "summary": "Export report",
                "parameters": [
                    {"type": "integer", "description": "Filing ID", "name": "filing_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "CSV file", "schema": {"type": "file"}},
                    "400": {"description": "Invalid filing ID", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Report not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Server error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/transactions": {
            "get": {
                "description": "Get a paginated list of stored transactions across reports",
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "List transactions",
                "parameters": [
                    {"type": "integer", "description": "Filing ID", "name": "filing_id", "in": "query"},
                    {"type": "string", "description": "Ticker (case-insensitive)", "name": "ticker", "in": "query"},
                    {"type": "string", "description": "purchase, sale or partial sale", "name": "type", "in": "query"},
                    {"type": "string", "description": "Two-letter asset type tag", "name": "asset_type", "in": "query"},
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Items per page (default 20, max 100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Paginated transactions", "schema": {"$ref": "#/definitions/pagination.PageResponse-models_Transaction"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Server error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handlers.ErrorDetail"}
            }
        },
        "handlers.IngestRequest": {
            "type": "object",
            "required": ["filing_year"],
            "properties": {
                "district": {"type": "string", "maxLength": 2},
                "filing_year": {"type": "integer"},
                "last_name": {"type": "string", "maxLength": 100},
                "state": {"type": "string"}
            }
        },
        "handlers.ParseReportResponse": {
            "type": "object",
            "properties": {
                "report": {"$ref": "#/definitions/ptr.Report"},
                "stored": {"$ref": "#/definitions/services.WriteResult"}
            }
        },
        "ingest.DocumentError": {
            "type": "object",
            "properties": {
                "filing_id": {"type": "integer"},
                "kind": {"type": "string"},
                "message": {"type": "string"},
                "path": {"type": "string"}
            }
        },
        "ingest.RunResult": {
            "type": "object",
            "properties": {
                "discovered": {"type": "integer"},
                "downloaded": {"type": "integer"},
                "duration": {"type": "integer"},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/ingest.DocumentError"}},
                "failed": {"type": "integer"},
                "parsed": {"type": "integer"},
                "run_id": {"type": "string"},
                "skipped": {"type": "integer"},
                "stored": {"$ref": "#/definitions/services.WriteResult"}
            }
        },
        "models.IngestFailure": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "kind": {"type": "string"},
                "message": {"type": "string"},
                "path": {"type": "string"},
                "run_id": {"type": "string"}
            }
        },
        "models.IngestRun": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "trigger": {"type": "string"},
                "filing_year": {"type": "integer"},
                "last_name": {"type": "string"},
                "state": {"type": "string"},
                "district": {"type": "string"},
                "status": {"type": "string"},
                "discovered": {"type": "integer"},
                "skipped": {"type": "integer"},
                "downloaded": {"type": "integer"},
                "parsed": {"type": "integer"},
                "failed": {"type": "integer"},
                "reports_stored": {"type": "integer"},
                "transactions_stored": {"type": "integer"},
                "error": {"type": "string"},
                "started_at": {"type": "string"},
                "finished_at": {"type": "string"},
                "failures": {"type": "array", "items": {"$ref": "#/definitions/models.IngestFailure"}}
            }
        },
        "models.Report": {
            "type": "object",
            "properties": {
                "filing_id": {"type": "integer"},
                "representative_name": {"type": "string"},
                "signed_date": {"type": "string", "example": "01/15/2024"},
                "source_path": {"type": "string"},
                "recorded_on": {"type": "string"},
                "transactions": {"type": "array", "items": {"$ref": "#/definitions/models.Transaction"}}
            }
        },
        "models.Transaction": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "filing_id": {"type": "integer"},
                "position": {"type": "integer"},
                "asset_name": {"type": "string"},
                "asset_type": {"type": "string"},
                "ticker": {"type": "string"},
                "filing_status": {"type": "string"},
                "subholding_of": {"type": "string"},
                "description": {"type": "string"},
                "comment": {"type": "string"},
                "type": {"type": "string", "enum": ["purchase", "sale", "partial sale"]},
                "transaction_date": {"type": "string", "example": "01/02/2024"},
                "notification_date": {"type": "string", "example": "01/10/2024"},
                "amount_min": {"type": "integer"},
                "amount_max": {"type": "integer"},
                "recorded_on": {"type": "string"}
            }
        },
        "pagination.PageResponse-models_IngestRun": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/models.IngestRun"}},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_items": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "pagination.PageResponse-models_Report": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/models.Report"}},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_items": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "pagination.PageResponse-models_Transaction": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/models.Transaction"}},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_items": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "ptr.AmountRange": {
            "type": "object",
            "properties": {
                "max": {"type": "integer"},
                "min": {"type": "integer"}
            }
        },
        "ptr.Asset": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "ticker": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "ptr.Report": {
            "type": "object",
            "properties": {
                "filing_id": {"type": "integer"},
                "representative_name": {"type": "string"},
                "signed_date": {"type": "string"},
                "transactions": {"type": "array", "items": {"$ref": "#/definitions/ptr.Transaction"}}
            }
        },
        "ptr.Transaction": {
            "type": "object",
            "properties": {
                "amount": {"$ref": "#/definitions/ptr.AmountRange"},
                "asset": {"$ref": "#/definitions/ptr.Asset"},
                "comment": {"type": "string"},
                "description": {"type": "string"},
                "filing_status": {"type": "string"},
                "notification_date": {"type": "string"},
                "raw_text": {"type": "string"},
                "subholding_of": {"type": "string"},
                "transaction_date": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "services.WriteResult": {
            "type": "object",
            "properties": {
                "reports_skipped": {"type": "integer"},
                "reports_written": {"type": "integer"},
                "transactions_expected": {"type": "integer"},
                "transactions_written": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "description": "Pipeline API key.",
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "ptrwatch API",
	Description:      "ptrwatch parses House Periodic Transaction Reports into structured transactions and serves them.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
