package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/acervo-api/internal/models"
	"github.com/noah-isme/acervo-api/internal/repository"
)

type memoryUserRepo struct {
	mu        sync.Mutex
	users     map[string]models.User
	createErr error
	listErr   error
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: map[string]models.User{}}
}

func (m *memoryUserRepo) List(ctx context.Context) ([]models.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		u.PasswordHash = ""
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *memoryUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	u.PasswordHash = ""
	return &u, nil
}

func (m *memoryUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			found := u
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = *user
	return nil
}

func (m *memoryUserRepo) Update(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[user.ID]
	if !ok {
		return sql.ErrNoRows
	}
	stored.Email = user.Email
	if user.PasswordHash != "" {
		stored.PasswordHash = user.PasswordHash
	}
	m.users[user.ID] = stored
	return nil
}

func (m *memoryUserRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.users, id)
	return nil
}

// plainHasher keeps tests fast; bcrypt is covered by the credential tests.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (plainHasher) Verify(password, hash string) bool  { return hash == "hashed:"+password }

type memoryAuthorRepo struct {
	authors   map[string]models.Author
	materials map[string]int
	deleteErr error
	findErr   error
}

func newMemoryAuthorRepo() *memoryAuthorRepo {
	return &memoryAuthorRepo{authors: map[string]models.Author{}, materials: map[string]int{}}
}

func (m *memoryAuthorRepo) List(ctx context.Context) ([]models.Author, error) {
	out := make([]models.Author, 0, len(m.authors))
	for _, a := range m.authors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryAuthorRepo) FindByID(ctx context.Context, id string) (*models.Author, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	a, ok := m.authors[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &a, nil
}

func (m *memoryAuthorRepo) Create(ctx context.Context, author *models.Author) error {
	if author.ID == "" {
		author.ID = uuid.NewString()
	}
	author.CreatedAt = time.Now().UTC()
	author.UpdatedAt = author.CreatedAt
	m.authors[author.ID] = *author
	return nil
}

func (m *memoryAuthorRepo) Update(ctx context.Context, author *models.Author) error {
	m.authors[author.ID] = *author
	return nil
}

func (m *memoryAuthorRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.authors[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.authors, id)
	return nil
}

func (m *memoryAuthorRepo) CountMaterials(ctx context.Context, id string) (int, error) {
	return m.materials[id], nil
}

type memoryMaterialRepo struct {
	items     map[string]models.Material
	creates   int
	createErr error
	lastQuery models.MaterialQuery
}

func newMemoryMaterialRepo() *memoryMaterialRepo {
	return &memoryMaterialRepo{items: map[string]models.Material{}}
}

func (m *memoryMaterialRepo) Create(ctx context.Context, material *models.Material) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.items {
		if material.ISBN != nil && existing.ISBN != nil && *existing.ISBN == *material.ISBN {
			return fmt.Errorf("create material: %w", repository.ErrDuplicate)
		}
	}
	if material.ID == "" {
		material.ID = uuid.NewString()
	}
	if material.Status == "" {
		material.Status = models.StatusDraft
	}
	m.creates++
	m.items[material.ID] = *material
	return nil
}

func (m *memoryMaterialRepo) FindByID(ctx context.Context, id string) (*models.Material, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &item, nil
}

func (m *memoryMaterialRepo) List(ctx context.Context, query models.MaterialQuery) ([]models.Material, int, error) {
	m.lastQuery = query
	var matches []models.Material
	term := strings.ToLower(query.Term)
	for _, item := range m.items {
		desc := ""
		if item.Description != nil {
			desc = *item.Description
		}
		authorName := ""
		if item.Author != nil {
			authorName = item.Author.Name
		}
		haystack := strings.ToLower(item.Title + " " + desc + " " + authorName)
		if term == "" || strings.Contains(haystack, term) {
			matches = append(matches, item)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Title < matches[j].Title })
	total := len(matches)
	start := query.Offset()
	if start > total {
		start = total
	}
	end := start + query.PageSize
	if end > total {
		end = total
	}
	return matches[start:end], total, nil
}

func (m *memoryMaterialRepo) Update(ctx context.Context, material *models.Material) error {
	m.items[material.ID] = *material
	return nil
}

func (m *memoryMaterialRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func (m *memoryMaterialRepo) ExistsByISBN(ctx context.Context, isbn, excludeID string) (bool, error) {
	for id, item := range m.items {
		if id != excludeID && item.ISBN != nil && *item.ISBN == isbn {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryMaterialRepo) ExistsByDOI(ctx context.Context, doi, excludeID string) (bool, error) {
	for id, item := range m.items {
		if id != excludeID && item.DOI != nil && *item.DOI == doi {
			return true, nil
		}
	}
	return false, nil
}
