package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/acervo-api/internal/models"
)

const materialSelect = `SELECT m.id, m.kind, m.title, m.description, m.status, m.creator_id, m.author_id, m.isbn, m.page_count, m.doi, m.duration_minutes, m.created_at, m.updated_at,
a.kind AS author_kind, a.name AS author_name, a.birth_date AS author_birth_date, a.city AS author_city, a.created_at AS author_created_at, a.updated_at AS author_updated_at,
u.email AS creator_email, u.created_at AS creator_created_at, u.updated_at AS creator_updated_at
FROM materials m
JOIN authors a ON a.id = m.author_id
JOIN users u ON u.id = m.creator_id`

const materialFrom = ` FROM materials m JOIN authors a ON a.id = m.author_id`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// materialRow is the joined projection of a material with its author and creator.
type materialRow struct {
	models.Material
	AuthorKind       models.AuthorKind `db:"author_kind"`
	AuthorName       string            `db:"author_name"`
	AuthorBirthDate  *time.Time        `db:"author_birth_date"`
	AuthorCity       *string           `db:"author_city"`
	AuthorCreatedAt  time.Time         `db:"author_created_at"`
	AuthorUpdatedAt  time.Time         `db:"author_updated_at"`
	CreatorEmail     string            `db:"creator_email"`
	CreatorCreatedAt time.Time         `db:"creator_created_at"`
	CreatorUpdatedAt time.Time         `db:"creator_updated_at"`
}

func (r materialRow) toModel() models.Material {
	m := r.Material
	m.Author = &models.Author{
		ID:        m.AuthorID,
		Kind:      r.AuthorKind,
		Name:      r.AuthorName,
		BirthDate: r.AuthorBirthDate,
		City:      r.AuthorCity,
		CreatedAt: r.AuthorCreatedAt,
		UpdatedAt: r.AuthorUpdatedAt,
	}
	m.Creator = &models.User{
		ID:        m.CreatorID,
		Email:     r.CreatorEmail,
		CreatedAt: r.CreatorCreatedAt,
		UpdatedAt: r.CreatorUpdatedAt,
	}
	return m
}

// MaterialRepository persists books, articles and videos in the materials table.
type MaterialRepository struct {
	db *sqlx.DB
}

// NewMaterialRepository constructs a MaterialRepository.
func NewMaterialRepository(db *sqlx.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// Create inserts a material. Unique index violations on isbn/doi surface as ErrDuplicate.
func (r *MaterialRepository) Create(ctx context.Context, material *models.Material) error {
	if material.ID == "" {
		material.ID = uuid.NewString()
	}
	if material.Status == "" {
		material.Status = models.StatusDraft
	}
	now := time.Now().UTC()
	material.CreatedAt = now
	material.UpdatedAt = now

	const query = `INSERT INTO materials (id, kind, title, description, status, creator_id, author_id, isbn, page_count, doi, duration_minutes, created_at, updated_at)
VALUES (:id, :kind, :title, :description, :status, :creator_id, :author_id, :isbn, :page_count, :doi, :duration_minutes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, material); err != nil {
		return wrapWriteError("create material", err)
	}
	return nil
}

// FindByID returns a material with its author and creator populated.
func (r *MaterialRepository) FindByID(ctx context.Context, id string) (*models.Material, error) {
	var row materialRow
	if err := r.db.GetContext(ctx, &row, materialSelect+` WHERE m.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find material: %w", err)
	}
	material := row.toModel()
	return &material, nil
}

// List returns one page of materials ordered by title plus the total number of matches.
// The term matches title, description or author name case-insensitively.
func (r *MaterialRepository) List(ctx context.Context, query models.MaterialQuery) ([]models.Material, int, error) {
	var conditions []string
	var args []interface{}

	if term := strings.TrimSpace(query.Term); term != "" {
		args = append(args, "%"+likeEscaper.Replace(term)+"%")
		idx := len(args)
		conditions = append(conditions, fmt.Sprintf("(m.title ILIKE $%d OR m.description ILIKE $%d OR a.name ILIKE $%d)", idx, idx, idx))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	listQuery := fmt.Sprintf("%s%s ORDER BY m.title ASC, m.id ASC LIMIT %d OFFSET %d", materialSelect, where, query.PageSize, query.Offset())
	var rows []materialRow
	if err := r.db.SelectContext(ctx, &rows, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list materials: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+materialFrom+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count materials: %w", err)
	}

	materials := make([]models.Material, 0, len(rows))
	for _, row := range rows {
		materials = append(materials, row.toModel())
	}
	return materials, total, nil
}

// Update writes every mutable column of a material.
func (r *MaterialRepository) Update(ctx context.Context, material *models.Material) error {
	material.UpdatedAt = time.Now().UTC()
	const query = `UPDATE materials SET title = :title, description = :description, status = :status, author_id = :author_id,
isbn = :isbn, page_count = :page_count, doi = :doi, duration_minutes = :duration_minutes, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, material); err != nil {
		return wrapWriteError("update material", err)
	}
	return nil
}

// Delete hard deletes a material.
func (r *MaterialRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	return requireAffected(res)
}

// ExistsByISBN reports whether a book other than excludeID already uses isbn.
func (r *MaterialRepository) ExistsByISBN(ctx context.Context, isbn, excludeID string) (bool, error) {
	return r.exists(ctx, "isbn", isbn, excludeID)
}

// ExistsByDOI reports whether an article other than excludeID already uses doi.
func (r *MaterialRepository) ExistsByDOI(ctx context.Context, doi, excludeID string) (bool, error) {
	return r.exists(ctx, "doi", doi, excludeID)
}

func (r *MaterialRepository) exists(ctx context.Context, column, value, excludeID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM materials WHERE %s = $1 AND id::text <> $2)`, column)
	var found bool
	if err := r.db.GetContext(ctx, &found, query, value, excludeID); err != nil {
		return false, fmt.Errorf("check material %s: %w", column, err)
	}
	return found, nil
}
