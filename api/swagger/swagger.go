package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Acervo API",
        "description": "Catalog of users, authors and materials with ownership-based authorization",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Registration and login"},
        {"name": "Users", "description": "Self-service account management"},
        {"name": "Authors", "description": "Person and institution authors"},
        {"name": "Materials", "description": "Books, articles and videos"},
        {"name": "GraphQL", "description": "Read-only author query"}
    ],
    "paths": {
        "/health": {
            "get": {"summary": "Health check", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {"summary": "Readiness check", "responses": {"200": {"description": "Ready"}, "503": {"description": "Database unavailable"}}}
        },
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register user",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Credentials"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already in use", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Credentials"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid email or password", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Too many failed attempts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/usuario": {
            "get": {"tags": ["Users"], "summary": "List users", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/usuario/me": {
            "get": {"tags": ["Users"], "summary": "Current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/usuario/{id}": {
            "get": {
                "tags": ["Users"], "summary": "Get user", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            },
            "patch": {
                "tags": ["Users"], "summary": "Update own account", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateUserRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "409": {"description": "Email already in use"}}
            },
            "delete": {
                "tags": ["Users"], "summary": "Delete own account and its materials", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}, "403": {"description": "Forbidden"}}
            }
        },
        "/autor": {
            "get": {"tags": ["Authors"], "summary": "List authors", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/autor/pessoa": {
            "post": {
                "tags": ["Authors"], "summary": "Create person author", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePersonAuthorRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}}
            }
        },
        "/autor/instituicao": {
            "post": {
                "tags": ["Authors"], "summary": "Create institution author", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateInstitutionAuthorRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}}
            }
        },
        "/autor/{id}": {
            "get": {
                "tags": ["Authors"], "summary": "Get author", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "patch": {
                "tags": ["Authors"], "summary": "Update author", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateAuthorRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Field of the other author kind"}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["Authors"], "summary": "Delete author", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}, "409": {"description": "Still referenced by materials"}}
            }
        },
        "/material": {
            "get": {
                "tags": ["Materials"], "summary": "Search materials", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "termo", "in": "query", "type": "string"},
                    {"name": "pagina", "in": "query", "type": "integer", "minimum": 1},
                    {"name": "limite", "in": "query", "type": "integer", "minimum": 1, "maximum": 100}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/material/export": {
            "get": {
                "tags": ["Materials"], "summary": "Export materials as CSV or PDF", "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "formato", "in": "query", "required": true, "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "termo", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "Attachment"}, "400": {"description": "Unsupported format"}}
            }
        },
        "/material/livro": {
            "post": {
                "tags": ["Materials"], "summary": "Create book", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBookRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Unknown author or missing title/page count"}, "409": {"description": "ISBN already registered"}}
            }
        },
        "/material/artigo": {
            "post": {
                "tags": ["Materials"], "summary": "Create article", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateArticleRequest"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "DOI already registered"}}
            }
        },
        "/material/video": {
            "post": {
                "tags": ["Materials"], "summary": "Create video", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateVideoRequest"}}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/material/{id}": {
            "get": {
                "tags": ["Materials"], "summary": "Get material", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "patch": {
                "tags": ["Materials"], "summary": "Update material", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateMaterialRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not the creator"}, "404": {"description": "Not found"}, "409": {"description": "Duplicate ISBN or DOI"}}
            },
            "delete": {
                "tags": ["Materials"], "summary": "Delete material", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}, "403": {"description": "Not the creator"}}
            }
        },
        "/graphql": {
            "post": {
                "tags": ["GraphQL"], "summary": "Query authors", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GraphQLRequest"}}],
                "responses": {"200": {"description": "GraphQL result"}}
            }
        }
    },
    "definitions": {
        "Credentials": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "senha": {"type": "string"}},
            "required": ["email", "senha"]
        },
        "UpdateUserRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "senha": {"type": "string"}}
        },
        "CreatePersonAuthorRequest": {
            "type": "object",
            "properties": {"nome": {"type": "string"}, "data_nascimento": {"type": "string", "format": "date"}},
            "required": ["nome", "data_nascimento"]
        },
        "CreateInstitutionAuthorRequest": {
            "type": "object",
            "properties": {"nome": {"type": "string"}, "cidade": {"type": "string"}},
            "required": ["nome", "cidade"]
        },
        "UpdateAuthorRequest": {
            "type": "object",
            "properties": {"nome": {"type": "string"}, "data_nascimento": {"type": "string", "format": "date"}, "cidade": {"type": "string"}}
        },
        "CreateBookRequest": {
            "type": "object",
            "properties": {
                "titulo": {"type": "string"},
                "descricao": {"type": "string"},
                "status": {"type": "string", "enum": ["RASCUNHO", "PUBLICADO", "ARQUIVADO"]},
                "id_autor": {"type": "string"},
                "isbn": {"type": "string"},
                "numero_paginas": {"type": "integer"}
            },
            "required": ["id_autor", "isbn"]
        },
        "CreateArticleRequest": {
            "type": "object",
            "properties": {
                "titulo": {"type": "string"},
                "descricao": {"type": "string"},
                "status": {"type": "string", "enum": ["RASCUNHO", "PUBLICADO", "ARQUIVADO"]},
                "id_autor": {"type": "string"},
                "doi": {"type": "string"}
            },
            "required": ["titulo", "id_autor", "doi"]
        },
        "CreateVideoRequest": {
            "type": "object",
            "properties": {
                "titulo": {"type": "string"},
                "descricao": {"type": "string"},
                "status": {"type": "string", "enum": ["RASCUNHO", "PUBLICADO", "ARQUIVADO"]},
                "id_autor": {"type": "string"},
                "duracao_minutos": {"type": "integer"}
            },
            "required": ["titulo", "id_autor", "duracao_minutos"]
        },
        "UpdateMaterialRequest": {
            "type": "object",
            "properties": {
                "titulo": {"type": "string"},
                "descricao": {"type": "string"},
                "status": {"type": "string", "enum": ["RASCUNHO", "PUBLICADO", "ARQUIVADO"]},
                "id_autor": {"type": "string"},
                "isbn": {"type": "string"},
                "numero_paginas": {"type": "integer"},
                "doi": {"type": "string"},
                "duracao_minutos": {"type": "integer"}
            }
        },
        "GraphQLRequest": {
            "type": "object",
            "properties": {"query": {"type": "string"}, "operationName": {"type": "string"}, "variables": {"type": "object"}},
            "required": ["query"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "array", "items": {"type": "object"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
