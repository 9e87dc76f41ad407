package router

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/acervo-api/internal/handler"
	"github.com/noah-isme/acervo-api/internal/models"
	"github.com/noah-isme/acervo-api/internal/service"
	"github.com/noah-isme/acervo-api/pkg/config"
)

type store struct {
	mu        sync.Mutex
	users     map[string]models.User
	authors   map[string]models.Author
	materials map[string]models.Material
}

type userStore struct{ *store }

func (s userStore) List(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		u.PasswordHash = ""
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s userStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	u.PasswordHash = ""
	return &u, nil
}

func (s userStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == strings.ToLower(email) {
			found := u
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s userStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = uuid.NewString()
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	return nil
}

func (s userStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.users[user.ID]
	current.Email = user.Email
	if user.PasswordHash != "" {
		current.PasswordHash = user.PasswordHash
	}
	s.users[user.ID] = current
	return nil
}

func (s userStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.users, id)
	for mid, m := range s.materials {
		if m.CreatorID == id {
			delete(s.materials, mid)
		}
	}
	return nil
}

type authorStore struct{ *store }

func (s authorStore) List(ctx context.Context) ([]models.Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Author, 0, len(s.authors))
	for _, a := range s.authors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s authorStore) FindByID(ctx context.Context, id string) (*models.Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.authors[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &a, nil
}

func (s authorStore) Create(ctx context.Context, author *models.Author) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	author.ID = uuid.NewString()
	s.authors[author.ID] = *author
	return nil
}

func (s authorStore) Update(ctx context.Context, author *models.Author) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authors[author.ID] = *author
	return nil
}

func (s authorStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.authors, id)
	return nil
}

func (s authorStore) CountMaterials(ctx context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, m := range s.materials {
		if m.AuthorID == id {
			count++
		}
	}
	return count, nil
}

type materialStore struct{ *store }

func (s materialStore) Create(ctx context.Context, material *models.Material) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	material.ID = uuid.NewString()
	if material.Status == "" {
		material.Status = models.StatusDraft
	}
	stored := *material
	stored.Author, stored.Creator = nil, nil
	s.materials[material.ID] = stored
	return nil
}

func (s materialStore) FindByID(ctx context.Context, id string) (*models.Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.materials[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &m, nil
}

func (s materialStore) List(ctx context.Context, query models.MaterialQuery) ([]models.Material, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Material, 0, len(s.materials))
	for _, m := range s.materials {
		if query.Term == "" || strings.Contains(strings.ToLower(m.Title), strings.ToLower(query.Term)) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, len(out), nil
}

func (s materialStore) Update(ctx context.Context, material *models.Material) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *material
	stored.Author, stored.Creator = nil, nil
	s.materials[material.ID] = stored
	return nil
}

func (s materialStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.materials[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.materials, id)
	return nil
}

func (s materialStore) ExistsByISBN(ctx context.Context, isbn, excludeID string) (bool, error) {
	return false, nil
}

func (s materialStore) ExistsByDOI(ctx context.Context, doi, excludeID string) (bool, error) {
	return false, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := &store{users: map[string]models.User{}, authors: map[string]models.Author{}, materials: map[string]models.Material{}}
	credentials := service.NewCredentialService(bcrypt.MinCost)
	users := service.NewUserService(userStore{db}, credentials, nil, nil)
	auth := service.NewAuthService(users, credentials, nil, nil, nil, service.AuthConfig{
		AccessTokenSecret: "router-test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "acervo-api",
	})
	authors := service.NewAuthorService(authorStore{db}, nil, nil)
	materials := service.NewMaterialService(materialStore{db}, authors, nil, nil, nil)
	exports := service.NewExportService(materialStore{db}, nil, nil, nil)
	metrics := service.NewMetricsService()

	graph, err := handler.NewGraphQLHandler(authors)
	require.NoError(t, err)

	return New(Dependencies{
		Config: &config.Config{
			Env:      config.EnvDevelopment,
			Features: config.FeatureConfig{Metrics: true, GraphQL: true},
		},
		Metrics:       metrics,
		Authenticator: auth,
		Auth:          handler.NewAuthHandler(auth),
		Users:         handler.NewUserHandler(users),
		Authors:       handler.NewAuthorHandler(authors),
		Materials:     handler.NewMaterialHandler(materials, exports),
		GraphQL:       graph,
		Health:        handler.NewMetricsHandler(metrics, nil),
	})
}

func do(t *testing.T, r *gin.Engine, method, path, token, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var payload map[string]interface{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	}
	return w, payload
}

func dataField(payload map[string]interface{}, key string) string {
	data, _ := payload["data"].(map[string]interface{})
	value, _ := data[key].(string)
	return value
}

func registerAndLogin(t *testing.T, r *gin.Engine, email string) (string, string) {
	t.Helper()
	w, payload := do(t, r, http.MethodPost, "/auth/register", "", `{"email":"`+email+`","senha":"secret1"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "secret1")
	id := dataField(payload, "id")

	w, payload = do(t, r, http.MethodPost, "/auth/login", "", `{"email":"`+email+`","senha":"secret1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return id, dataField(payload, "access_token")
}

func TestRouterCatalogFlow(t *testing.T) {
	r := newTestRouter(t)

	w, _ := do(t, r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodGet, "/usuario/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	ownerID, ownerToken := registerAndLogin(t, r, "owner@example.com")
	_, otherToken := registerAndLogin(t, r, "other@example.com")

	w, _ = do(t, r, http.MethodPost, "/auth/register", "", `{"email":"OWNER@example.com","senha":"secret1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = do(t, r, http.MethodPost, "/auth/login", "", `{"email":"owner@example.com","senha":"wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, payload := do(t, r, http.MethodGet, "/usuario/me", ownerToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ownerID, dataField(payload, "id"))

	w, payload = do(t, r, http.MethodPost, "/autor/pessoa", ownerToken, `{"nome":"Clarice Lispector","data_nascimento":"1920-12-10"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	authorID := dataField(payload, "id")

	w, _ = do(t, r, http.MethodPost, "/material/video", ownerToken, `{"titulo":"Entrevista","id_autor":"`+uuid.NewString()+`","duracao_minutos":30}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, payload = do(t, r, http.MethodPost, "/material/video", ownerToken, `{"titulo":"Entrevista","id_autor":"`+authorID+`","duracao_minutos":30}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	materialID := dataField(payload, "id")
	assert.Equal(t, "RASCUNHO", dataField(payload, "status"))

	w, payload = do(t, r, http.MethodGet, "/material?termo=entre&pagina=1&limite=5", ownerToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	pagination := payload["pagination"].(map[string]interface{})
	assert.EqualValues(t, 1, pagination["total_count"])
	assert.EqualValues(t, 5, pagination["page_size"])

	w, _ = do(t, r, http.MethodPatch, "/material/"+materialID, otherToken, `{"titulo":"Sequestrado"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = do(t, r, http.MethodDelete, "/autor/"+authorID, ownerToken, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = do(t, r, http.MethodGet, "/material/export?formato=csv", ownerToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Entrevista")

	w, _ = do(t, r, http.MethodDelete, "/material/"+materialID, ownerToken, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = do(t, r, http.MethodGet, "/material/"+materialID, ownerToken, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, payload = do(t, r, http.MethodPost, "/graphql", ownerToken, `{"query":"{ autores { nome tipo_autor } }"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Clarice Lispector")
	assert.Nil(t, payload["errors"])

	w, _ = do(t, r, http.MethodDelete, "/usuario/"+ownerID, otherToken, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = do(t, r, http.MethodDelete, "/usuario/"+ownerID, ownerToken, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = do(t, r, http.MethodGet, "/usuario/me", ownerToken, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouterExposesMetrics(t *testing.T) {
	r := newTestRouter(t)

	do(t, r, http.MethodGet, "/health", "", "")
	w, _ := do(t, r, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/health",status="200"} 1`)
}
