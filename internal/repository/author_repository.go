package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/acervo-api/internal/models"
)

const authorColumns = `id, kind, name, birth_date, city, created_at, updated_at`

// AuthorRepository persists person and institution authors in the authors table.
type AuthorRepository struct {
	db *sqlx.DB
}

// NewAuthorRepository constructs an AuthorRepository.
func NewAuthorRepository(db *sqlx.DB) *AuthorRepository {
	return &AuthorRepository{db: db}
}

// List returns all authors ordered by name.
func (r *AuthorRepository) List(ctx context.Context) ([]models.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors ORDER BY name ASC, id ASC`
	authors := []models.Author{}
	if err := r.db.SelectContext(ctx, &authors, query); err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}

// FindByID returns a single author.
func (r *AuthorRepository) FindByID(ctx context.Context, id string) (*models.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = $1`
	var author models.Author
	if err := r.db.GetContext(ctx, &author, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find author: %w", err)
	}
	return &author, nil
}

// Create inserts an author.
func (r *AuthorRepository) Create(ctx context.Context, author *models.Author) error {
	if author.ID == "" {
		author.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	author.CreatedAt = now
	author.UpdatedAt = now
	const query = `INSERT INTO authors (id, kind, name, birth_date, city, created_at, updated_at) VALUES (:id, :kind, :name, :birth_date, :city, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, author); err != nil {
		return wrapWriteError("create author", err)
	}
	return nil
}

// Update writes the mutable author fields. The kind never changes.
func (r *AuthorRepository) Update(ctx context.Context, author *models.Author) error {
	author.UpdatedAt = time.Now().UTC()
	const query = `UPDATE authors SET name = :name, birth_date = :birth_date, city = :city, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, author); err != nil {
		return wrapWriteError("update author", err)
	}
	return nil
}

// Delete removes an author. Referencing materials make the delete fail with ErrReferenced.
func (r *AuthorRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return wrapWriteError("delete author", err)
	}
	return requireAffected(res)
}

// CountMaterials returns how many materials credit the author.
func (r *AuthorRepository) CountMaterials(ctx context.Context, id string) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM materials WHERE author_id = $1`, id); err != nil {
		return 0, fmt.Errorf("count author materials: %w", err)
	}
	return total, nil
}
