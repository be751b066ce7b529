package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "LRIS API",
        "description": "Learning resource inventory and distribution ledger",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schools", "description": "School registry"},
        {"name": "Catalog", "description": "Per-category resource catalogs"},
        {"name": "Categories", "description": "Category descriptors"},
        {"name": "Distribution", "description": "Distribution ledger"},
        {"name": "Selections", "description": "Guided resource selection"}
    ],
    "paths": {
        "/schools": {
            "get": {
                "tags": ["Schools"],
                "summary": "List schools",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Schools"],
                "summary": "Create school",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SchoolRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schools/{id}": {
            "get": {
                "tags": ["Schools"],
                "summary": "Get school",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Schools"],
                "summary": "Replace school",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SchoolRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Schools"],
                "summary": "Delete school",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/items/{segment}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List catalog items, newest first",
                "parameters": [
                    {"name": "segment", "in": "path", "required": true, "type": "string", "enum": ["slm", "equipment", "tvl", "lesson"]},
                    {"name": "include_retired", "in": "query", "type": "boolean"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Create catalog item",
                "parameters": [
                    {"name": "segment", "in": "path", "required": true, "type": "string", "enum": ["slm", "equipment", "tvl", "lesson"]},
                    {"name": "X-Actor", "in": "header", "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/items/{segment}/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get catalog item, active or retired",
                "parameters": [
                    {"name": "segment", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Catalog"],
                "summary": "Replace catalog item",
                "parameters": [
                    {"name": "segment", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "X-Actor", "in": "header", "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Catalog"],
                "summary": "Retire catalog item",
                "description": "SLM/SLAS and lesson exemplars are deleted; equipment and TVL items are deactivated.",
                "parameters": [
                    {"name": "segment", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "X-Actor", "in": "header", "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Retired"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/categories": {
            "get": {
                "tags": ["Categories"],
                "summary": "List resource categories",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/categories/describe": {
            "get": {
                "tags": ["Categories"],
                "summary": "Describe a resource category",
                "parameters": [{"name": "key", "in": "query", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown category", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/distributed-resources": {
            "get": {
                "tags": ["Distribution"],
                "summary": "List distribution records",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Distribution"],
                "summary": "Record a distribution",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordDistributionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation or reference error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/distributed-resources/by-school/{id}": {
            "get": {
                "tags": ["Distribution"],
                "summary": "List distribution records of a school",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/selections": {
            "post": {
                "tags": ["Selections"],
                "summary": "Start a resource selection",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/selections/{id}": {
            "get": {
                "tags": ["Selections"],
                "summary": "Get a resource selection",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/selections/{id}/category": {
            "post": {
                "tags": ["Selections"],
                "summary": "Choose category, school and quarter",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChooseCategoryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid state", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/selections/{id}/submit": {
            "post": {
                "tags": ["Selections"],
                "summary": "Submit the selected item",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitSelectionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid state", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SchoolRequest": {
            "type": "object",
            "required": ["id", "name", "district", "level"],
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "enrollees": {"type": "integer"},
                "resourcesAllocated": {"type": "integer"},
                "district": {"type": "string"},
                "level": {"type": "string", "enum": ["Elementary", "High School", "Senior High"]},
                "principal": {"type": "string"},
                "contact": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "RecordDistributionRequest": {
            "type": "object",
            "required": ["SchoolID", "ResourceCategory", "Quantity"],
            "properties": {
                "SchoolID": {"type": "string"},
                "ResourceCategory": {"type": "string", "enum": ["SLM/SLAS", "Equipment", "TVL", "Lesson Exemplar(Matatag)", "Others"]},
                "ResourceItemID": {"type": "integer"},
                "ResourceName": {"type": "string"},
                "Quantity": {"type": "integer", "minimum": 1},
                "DateDistributed": {"type": "string", "format": "date-time"},
                "Notes": {"type": "string"}
            }
        },
        "ChooseCategoryRequest": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "schoolId": {"type": "string"},
                "quarter": {"type": "string"}
            }
        },
        "SubmitSelectionRequest": {
            "type": "object",
            "properties": {
                "itemId": {"type": "string"},
                "resourceName": {"type": "string"},
                "quantity": {"type": "integer", "minimum": 1},
                "notes": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
