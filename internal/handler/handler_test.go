package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/acervo-api/internal/dto"
	"github.com/noah-isme/acervo-api/internal/middleware"
	"github.com/noah-isme/acervo-api/internal/models"
	"github.com/noah-isme/acervo-api/internal/service"
	appErrors "github.com/noah-isme/acervo-api/pkg/errors"
)

func newTestContext(method, target string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	c.Request = req
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	return payload
}

type authServiceMock struct {
	registerReq dto.RegisterRequest
	registerErr error
	loginResp   *models.LoginResponse
	loginErr    error
}

func (m *authServiceMock) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	m.registerReq = req
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	return &models.User{ID: "u1", Email: req.Email, PasswordHash: "secret-hash"}, nil
}

func (m *authServiceMock) Login(ctx context.Context, req dto.LoginRequest) (*models.LoginResponse, error) {
	return m.loginResp, m.loginErr
}

func TestAuthHandlerRegisterCreatesWithoutHash(t *testing.T) {
	svc := &authServiceMock{}
	handler := NewAuthHandler(svc)

	c, w := newTestContext(http.MethodPost, "/auth/register", `{"email":"ana@example.com","senha":"secret1"}`)
	handler.Register(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "secret1", svc.registerReq.Password)
	assert.NotContains(t, w.Body.String(), "secret-hash")
	assert.NotContains(t, w.Body.String(), "password")
}

func TestAuthHandlerRegisterConflict(t *testing.T) {
	handler := NewAuthHandler(&authServiceMock{registerErr: appErrors.Clone(appErrors.ErrConflict, "email already in use")})

	c, w := newTestContext(http.MethodPost, "/auth/register", `{"email":"ana@example.com","senha":"secret1"}`)
	handler.Register(c)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email already in use")
}

func TestAuthHandlerRegisterRejectsInvalidPayload(t *testing.T) {
	svc := &authServiceMock{}
	handler := NewAuthHandler(svc)

	c, w := newTestContext(http.MethodPost, "/auth/register", `{"email":"not-an-email","senha":"123"}`)
	handler.Register(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.registerReq.Email)
	errBody := decodeEnvelope(t, w)["error"].(map[string]interface{})
	assert.Len(t, errBody["details"], 2)
}

func TestAuthHandlerLoginMalformedBody(t *testing.T) {
	handler := NewAuthHandler(&authServiceMock{})

	c, w := newTestContext(http.MethodPost, "/auth/login", `{"email":`)
	handler.Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandlerLoginReturnsToken(t *testing.T) {
	handler := NewAuthHandler(&authServiceMock{loginResp: &models.LoginResponse{AccessToken: "tok", TokenType: "Bearer", ExpiresIn: 60}})

	c, w := newTestContext(http.MethodPost, "/auth/login", `{"email":"ana@example.com","senha":"secret1"}`)
	handler.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "tok", data["access_token"])
}

type userServiceMock struct {
	updated   dto.UpdateUserRequest
	actor     *models.User
	deleteErr error
}

func (m *userServiceMock) List(ctx context.Context) ([]models.User, error) {
	return []models.User{{ID: "u1", Email: "a@example.com"}}, nil
}

func (m *userServiceMock) Get(ctx context.Context, id string) (*models.User, error) {
	return nil, appErrors.ErrNotFound
}

func (m *userServiceMock) Update(ctx context.Context, id string, req dto.UpdateUserRequest, actor *models.User) (*models.User, error) {
	m.updated = req
	m.actor = actor
	return &models.User{ID: id, Email: *req.Email}, nil
}

func (m *userServiceMock) Delete(ctx context.Context, id string, actor *models.User) error {
	m.actor = actor
	return m.deleteErr
}

func TestUserHandlerMeReturnsContextUser(t *testing.T) {
	handler := NewUserHandler(&userServiceMock{})

	c, w := newTestContext(http.MethodGet, "/usuario/me", "")
	c.Set(middleware.ContextUserKey, &models.User{ID: "u1", Email: "a@example.com"})
	handler.Me(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@example.com")
}

func TestUserHandlerMeWithoutUser(t *testing.T) {
	handler := NewUserHandler(&userServiceMock{})

	c, w := newTestContext(http.MethodGet, "/usuario/me", "")
	handler.Me(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserHandlerUpdatePassesActor(t *testing.T) {
	svc := &userServiceMock{}
	handler := NewUserHandler(svc)

	c, w := newTestContext(http.MethodPatch, "/usuario/u1", `{"email":"new@example.com"}`)
	c.Params = gin.Params{{Key: "id", Value: "u1"}}
	c.Set(middleware.ContextUserKey, &models.User{ID: "u1"})
	handler.Update(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.updated.Email)
	assert.Equal(t, "new@example.com", *svc.updated.Email)
	assert.Equal(t, "u1", svc.actor.ID)
}

func TestUserHandlerDeleteForbidden(t *testing.T) {
	handler := NewUserHandler(&userServiceMock{deleteErr: appErrors.ErrForbidden})

	c, w := newTestContext(http.MethodDelete, "/usuario/u2", "")
	c.Params = gin.Params{{Key: "id", Value: "u2"}}
	c.Set(middleware.ContextUserKey, &models.User{ID: "u1"})
	handler.Delete(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

type authorServiceMock struct {
	authors   []models.Author
	person    dto.CreatePersonAuthorRequest
	deleteErr error
	listErr   error
}

func (m *authorServiceMock) CreatePerson(ctx context.Context, req dto.CreatePersonAuthorRequest) (*models.Author, error) {
	m.person = req
	return &models.Author{ID: "a1", Kind: models.AuthorPerson, Name: req.Name}, nil
}

func (m *authorServiceMock) CreateInstitution(ctx context.Context, req dto.CreateInstitutionAuthorRequest) (*models.Author, error) {
	return &models.Author{ID: "a2", Kind: models.AuthorInstitution, Name: req.Name, City: &req.City}, nil
}

func (m *authorServiceMock) List(ctx context.Context) ([]models.Author, error) {
	return m.authors, m.listErr
}

func (m *authorServiceMock) Get(ctx context.Context, id string) (*models.Author, error) {
	return nil, appErrors.ErrNotFound
}

func (m *authorServiceMock) Update(ctx context.Context, id string, req dto.UpdateAuthorRequest) (*models.Author, error) {
	return nil, appErrors.Clone(appErrors.ErrValidation, "cidade does not apply to PESSOA authors")
}

func (m *authorServiceMock) Delete(ctx context.Context, id string) error {
	return m.deleteErr
}

func TestAuthorHandlerCreatePerson(t *testing.T) {
	svc := &authorServiceMock{}
	handler := NewAuthorHandler(svc)

	c, w := newTestContext(http.MethodPost, "/autor/pessoa", `{"nome":"Machado de Assis","data_nascimento":"1839-06-21"}`)
	handler.CreatePerson(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "1839-06-21", svc.person.BirthDate)
	assert.Contains(t, w.Body.String(), `"tipo":"PESSOA"`)
}

func TestAuthorHandlerUpdateVariantMismatch(t *testing.T) {
	handler := NewAuthorHandler(&authorServiceMock{})

	c, w := newTestContext(http.MethodPatch, "/autor/a1", `{"cidade":"Recife"}`)
	c.Params = gin.Params{{Key: "id", Value: "a1"}}
	handler.Update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthorHandlerDeleteRestricted(t *testing.T) {
	handler := NewAuthorHandler(&authorServiceMock{deleteErr: appErrors.Clone(appErrors.ErrConflict, "author still referenced by materials")})

	c, w := newTestContext(http.MethodDelete, "/autor/a1", "")
	c.Params = gin.Params{{Key: "id", Value: "a1"}}
	handler.Delete(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

type materialServiceMock struct {
	term      string
	page      int
	pageSize  int
	book      dto.CreateBookRequest
	creator   *models.User
	updateErr error
}

func (m *materialServiceMock) CreateBook(ctx context.Context, req dto.CreateBookRequest, creator *models.User) (*models.Material, error) {
	m.book = req
	m.creator = creator
	return &models.Material{ID: "m1", Kind: models.MaterialBook, Title: "Dom Casmurro", CreatorID: creator.ID}, nil
}

func (m *materialServiceMock) CreateArticle(ctx context.Context, req dto.CreateArticleRequest, creator *models.User) (*models.Material, error) {
	return nil, appErrors.Clone(appErrors.ErrConflict, "doi already registered")
}

func (m *materialServiceMock) CreateVideo(ctx context.Context, req dto.CreateVideoRequest, creator *models.User) (*models.Material, error) {
	return &models.Material{ID: "m3", Kind: models.MaterialVideo}, nil
}

func (m *materialServiceMock) List(ctx context.Context, term string, page, pageSize int) ([]models.Material, *models.Pagination, error) {
	m.term, m.page, m.pageSize = term, page, pageSize
	return []models.Material{{ID: "m1", Title: "Dom Casmurro"}}, &models.Pagination{Page: 2, PageSize: 5, TotalCount: 6}, nil
}

func (m *materialServiceMock) Get(ctx context.Context, id string) (*models.Material, error) {
	return &models.Material{ID: id}, nil
}

func (m *materialServiceMock) Update(ctx context.Context, id string, req dto.UpdateMaterialRequest, actor *models.User) (*models.Material, error) {
	return nil, m.updateErr
}

func (m *materialServiceMock) Delete(ctx context.Context, id string, actor *models.User) error {
	return nil
}

type exporterMock struct {
	format string
	term   string
	err    error
}

func (m *exporterMock) Export(ctx context.Context, format, term string) (*service.ExportFile, error) {
	m.format, m.term = format, term
	if m.err != nil {
		return nil, m.err
	}
	return &service.ExportFile{Filename: "acervo_20240101_000000.csv", ContentType: "text/csv; charset=utf-8", Body: []byte("Título\nDom Casmurro\n")}, nil
}

func TestMaterialHandlerListBindsQuery(t *testing.T) {
	svc := &materialServiceMock{}
	handler := NewMaterialHandler(svc, &exporterMock{})

	c, w := newTestContext(http.MethodGet, "/material?termo=casmurro&pagina=2&limite=5", "")
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "casmurro", svc.term)
	assert.Equal(t, 2, svc.page)
	assert.Equal(t, 5, svc.pageSize)
	pagination := decodeEnvelope(t, w)["pagination"].(map[string]interface{})
	assert.EqualValues(t, 6, pagination["total_count"])
}

func TestMaterialHandlerListRejectsNonNumericPage(t *testing.T) {
	handler := NewMaterialHandler(&materialServiceMock{}, &exporterMock{})

	c, w := newTestContext(http.MethodGet, "/material?pagina=abc", "")
	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMaterialHandlerListRejectsOutOfRangePaging(t *testing.T) {
	for _, target := range []string{"/material?limite=101", "/material?limite=0", "/material?pagina=0", "/material?pagina=-3"} {
		svc := &materialServiceMock{}
		handler := NewMaterialHandler(svc, &exporterMock{})

		c, w := newTestContext(http.MethodGet, target, "")
		handler.List(c)

		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Empty(t, svc.term, target)
		assert.Zero(t, svc.pageSize, target)
	}
}

func TestMaterialHandlerListLeavesAbsentPagingToService(t *testing.T) {
	svc := &materialServiceMock{}
	handler := NewMaterialHandler(svc, &exporterMock{})

	c, w := newTestContext(http.MethodGet, "/material?limite=100", "")
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, svc.page)
	assert.Equal(t, 100, svc.pageSize)
}

func TestMaterialHandlerCreateBookUsesCurrentUser(t *testing.T) {
	svc := &materialServiceMock{}
	handler := NewMaterialHandler(svc, &exporterMock{})

	c, w := newTestContext(http.MethodPost, "/material/livro", `{"id_autor":"a1","isbn":"9788535914849"}`)
	c.Set(middleware.ContextUserKey, &models.User{ID: "u1"})
	handler.CreateBook(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "9788535914849", svc.book.ISBN)
	assert.Nil(t, svc.book.Title)
	assert.Equal(t, "u1", svc.creator.ID)
}

func TestMaterialHandlerCreateArticleConflict(t *testing.T) {
	handler := NewMaterialHandler(&materialServiceMock{}, &exporterMock{})

	c, w := newTestContext(http.MethodPost, "/material/artigo", `{"titulo":"Paper","id_autor":"a1","doi":"10.1000/xyz"}`)
	c.Set(middleware.ContextUserKey, &models.User{ID: "u1"})
	handler.CreateArticle(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestMaterialHandlerUpdateForbidden(t *testing.T) {
	handler := NewMaterialHandler(&materialServiceMock{updateErr: appErrors.ErrForbidden}, &exporterMock{})

	c, w := newTestContext(http.MethodPatch, "/material/m1", `{"titulo":"Outro"}`)
	c.Params = gin.Params{{Key: "id", Value: "m1"}}
	c.Set(middleware.ContextUserKey, &models.User{ID: "u2"})
	handler.Update(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMaterialHandlerExportStreamsAttachment(t *testing.T) {
	exporter := &exporterMock{}
	handler := NewMaterialHandler(&materialServiceMock{}, exporter)

	c, w := newTestContext(http.MethodGet, "/material/export?formato=csv&termo=dom", "")
	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", exporter.format)
	assert.Equal(t, "dom", exporter.term)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "acervo_20240101_000000.csv")
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Dom Casmurro")
}

func TestMaterialHandlerExportUnsupportedFormat(t *testing.T) {
	handler := NewMaterialHandler(&materialServiceMock{}, &exporterMock{err: appErrors.Clone(appErrors.ErrValidation, `unsupported export format "xls"`)})

	c, w := newTestContext(http.MethodGet, "/material/export?formato=xls", "")
	handler.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGraphQLHandlerResolvesAuthorVariants(t *testing.T) {
	birth := time.Date(1839, 6, 21, 0, 0, 0, 0, time.UTC)
	city := "Rio de Janeiro"
	handler, err := NewGraphQLHandler(&authorServiceMock{authors: []models.Author{
		{ID: "a1", Kind: models.AuthorPerson, Name: "Machado de Assis", BirthDate: &birth},
		{ID: "a2", Kind: models.AuthorInstitution, Name: "Academia Brasileira de Letras", City: &city},
	}})
	require.NoError(t, err)

	query := `{"query":"{ autores { id_autor tipo_autor nome ... on AutorPessoa { data_nascimento } ... on AutorInstituicao { cidade } } }"}`
	c, w := newTestContext(http.MethodPost, "/graphql", query)
	handler.Serve(c)

	require.Equal(t, http.StatusOK, w.Code)
	var result struct {
		Data struct {
			Autores []map[string]interface{} `json:"autores"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Empty(t, result.Errors)
	require.Len(t, result.Data.Autores, 2)
	assert.Equal(t, "PESSOA", result.Data.Autores[0]["tipo_autor"])
	assert.Equal(t, "1839-06-21", result.Data.Autores[0]["data_nascimento"])
	assert.Equal(t, "Rio de Janeiro", result.Data.Autores[1]["cidade"])
	assert.NotContains(t, result.Data.Autores[0], "cidade")
}

func TestGraphQLHandlerExposesAuthorKindEnum(t *testing.T) {
	handler, err := NewGraphQLHandler(&authorServiceMock{})
	require.NoError(t, err)

	query := `{"query":"{ __type(name: \"AutorTipo\") { kind enumValues { name } } }"}`
	c, w := newTestContext(http.MethodPost, "/graphql", query)
	handler.Serve(c)

	require.Equal(t, http.StatusOK, w.Code)
	var result struct {
		Data struct {
			Type struct {
				Kind       string `json:"kind"`
				EnumValues []struct {
					Name string `json:"name"`
				} `json:"enumValues"`
			} `json:"__type"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "ENUM", result.Data.Type.Kind)
	names := make([]string, 0, len(result.Data.Type.EnumValues))
	for _, v := range result.Data.Type.EnumValues {
		names = append(names, v.Name)
	}
	assert.ElementsMatch(t, []string{"PESSOA", "INSTITUICAO"}, names)
}

func TestGraphQLHandlerGetAndErrors(t *testing.T) {
	handler, err := NewGraphQLHandler(&authorServiceMock{listErr: errors.New("db down")})
	require.NoError(t, err)

	c, w := newTestContext(http.MethodGet, "/graphql?query=%7B%20autores%20%7B%20nome%20%7D%20%7D", "")
	handler.Serve(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "db down")

	c, w = newTestContext(http.MethodGet, "/graphql", "")
	handler.Serve(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type pingerMock struct{ err error }

func (p pingerMock) PingContext(ctx context.Context) error { return p.err }

func TestMetricsHandlerReady(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/ready", "")
	NewMetricsHandler(nil, pingerMock{}).Ready(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newTestContext(http.MethodGet, "/ready", "")
	NewMetricsHandler(nil, pingerMock{err: errors.New("refused")}).Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	c, w = newTestContext(http.MethodGet, "/metrics", "")
	NewMetricsHandler(nil, nil).Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
