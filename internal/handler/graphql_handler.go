package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"

	"github.com/noah-isme/acervo-api/internal/dto"
	"github.com/noah-isme/acervo-api/internal/models"
	appErrors "github.com/noah-isme/acervo-api/pkg/errors"
	"github.com/noah-isme/acervo-api/pkg/response"
)

type authorLister interface {
	List(ctx context.Context) ([]models.Author, error)
}

type graphQLRequest struct {
	Query         string                 `json:"query" form:"query"`
	OperationName string                 `json:"operationName" form:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// GraphQLHandler serves the read-only author query schema.
type GraphQLHandler struct {
	schema graphql.Schema
}

// NewGraphQLHandler builds the schema exposing `autores`.
func NewGraphQLHandler(authors authorLister) (*GraphQLHandler, error) {
	schema, err := newAuthorSchema(authors)
	if err != nil {
		return nil, err
	}
	return &GraphQLHandler{schema: schema}, nil
}

func newAuthorSchema(authors authorLister) (graphql.Schema, error) {
	var person, institution *graphql.Object

	authorKind := graphql.NewEnum(graphql.EnumConfig{
		Name: "AutorTipo",
		Values: graphql.EnumValueConfigMap{
			string(models.AuthorPerson):      &graphql.EnumValueConfig{Value: string(models.AuthorPerson)},
			string(models.AuthorInstitution): &graphql.EnumValueConfig{Value: string(models.AuthorInstitution)},
		},
	})

	authorFields := graphql.Fields{
		"id_autor":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"tipo_autor": &graphql.Field{Type: graphql.NewNonNull(authorKind)},
		"nome":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	}

	authorInterface := graphql.NewInterface(graphql.InterfaceConfig{
		Name:   "Autor",
		Fields: authorFields,
		ResolveType: func(p graphql.ResolveTypeParams) *graphql.Object {
			if author, ok := p.Value.(models.Author); ok && author.Kind == models.AuthorInstitution {
				return institution
			}
			return person
		},
	})

	commonFields := func() graphql.Fields {
		return graphql.Fields{
			"id_autor": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.ID),
				Resolve: authorResolver(func(a models.Author) interface{} { return a.ID }),
			},
			"tipo_autor": &graphql.Field{
				Type:    graphql.NewNonNull(authorKind),
				Resolve: authorResolver(func(a models.Author) interface{} { return string(a.Kind) }),
			},
			"nome": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: authorResolver(func(a models.Author) interface{} { return a.Name }),
			},
		}
	}

	personFields := commonFields()
	personFields["data_nascimento"] = &graphql.Field{
		Type: graphql.String,
		Resolve: authorResolver(func(a models.Author) interface{} {
			if a.BirthDate == nil {
				return nil
			}
			return a.BirthDate.Format(dto.DateLayout)
		}),
	}
	person = graphql.NewObject(graphql.ObjectConfig{
		Name:       "AutorPessoa",
		Interfaces: []*graphql.Interface{authorInterface},
		Fields:     personFields,
	})

	institutionFields := commonFields()
	institutionFields["cidade"] = &graphql.Field{
		Type: graphql.String,
		Resolve: authorResolver(func(a models.Author) interface{} {
			if a.City == nil {
				return nil
			}
			return *a.City
		}),
	}
	institution = graphql.NewObject(graphql.ObjectConfig{
		Name:       "AutorInstituicao",
		Interfaces: []*graphql.Interface{authorInterface},
		Fields:     institutionFields,
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"autores": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(authorInterface))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					items, err := authors.List(p.Context)
					if err != nil {
						return nil, err
					}
					out := make([]interface{}, 0, len(items))
					for _, item := range items {
						out = append(out, item)
					}
					return out, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
		Types: []graphql.Type{person, institution},
	})
}

func authorResolver(fn func(models.Author) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		author, ok := p.Source.(models.Author)
		if !ok {
			return nil, nil
		}
		return fn(author), nil
	}
}

// Serve godoc
// @Summary Author GraphQL query
// @Description Read-only schema with the `autores` root field
// @Tags GraphQL
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param query query string false "GraphQL query (GET)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.Envelope
// @Router /graphql [post]
func (h *GraphQLHandler) Serve(c *gin.Context) {
	var req graphQLRequest
	if c.Request.Method == http.MethodGet {
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if raw := c.Query("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid variables"))
				return
			}
		}
	} else if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	if req.Query == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "query is required"))
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Request.Context(),
	})
	c.JSON(http.StatusOK, result)
}
