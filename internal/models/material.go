package models

import "time"

// MaterialKind discriminates the material variants.
type MaterialKind string

const (
	MaterialBook    MaterialKind = "LIVRO"
	MaterialArticle MaterialKind = "ARTIGO"
	MaterialVideo   MaterialKind = "VIDEO"
)

// MaterialStatus tracks the editorial state of a material.
type MaterialStatus string

const (
	StatusDraft     MaterialStatus = "RASCUNHO"
	StatusPublished MaterialStatus = "PUBLICADO"
	StatusArchived  MaterialStatus = "ARQUIVADO"
)

// Material is a catalog entry. Variant columns are populated according to Kind:
// books carry ISBN and PageCount, articles DOI, videos DurationMinutes.
type Material struct {
	ID              string         `db:"id" json:"id"`
	Kind            MaterialKind   `db:"kind" json:"tipo"`
	Title           string         `db:"title" json:"titulo"`
	Description     *string        `db:"description" json:"descricao,omitempty"`
	Status          MaterialStatus `db:"status" json:"status"`
	CreatorID       string         `db:"creator_id" json:"id_usuario"`
	AuthorID        string         `db:"author_id" json:"id_autor"`
	ISBN            *string        `db:"isbn" json:"isbn,omitempty"`
	PageCount       *int           `db:"page_count" json:"numero_paginas,omitempty"`
	DOI             *string        `db:"doi" json:"doi,omitempty"`
	DurationMinutes *int           `db:"duration_minutes" json:"duracao_minutos,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`

	Author  *Author `db:"-" json:"autor,omitempty"`
	Creator *User   `db:"-" json:"usuario,omitempty"`
}

// MaterialQuery filters the catalog listing. Page and PageSize are already normalised
// when the query reaches the repository.
type MaterialQuery struct {
	Term     string
	Page     int
	PageSize int
}

// Offset returns the number of rows skipped for the current page.
func (q MaterialQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PageSize
}

// BookMetadata is the subset of an external book record used to complete a book.
type BookMetadata struct {
	Title     string
	PageCount int
}
